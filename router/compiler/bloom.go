// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package compiler

import (
	"hash/fnv"
)

// FNV-1a constants for inline hashing of strings without allocation.
const (
	fnvOffsetBasis = 14695981039346656037
	fnvPrime       = 1099511628211
)

// hashString computes the FNV-1a hash of s. It is identical to hashing
// []byte(s) with hash/fnv but does not copy.
func hashString(s string) uint64 {
	hash := uint64(fnvOffsetBasis)
	for i := range len(s) {
		hash ^= uint64(s[i])
		hash *= fnvPrime
	}
	return hash
}

// BloomFilter provides a simple bloom filter for negative lookups.
// A bloom filter can tell you:
//   - "Definitely NOT in the set" (100% accurate)
//   - "Possibly in the set" (may have false positives)
//
// Static tables use it to reject unknown paths before touching the map,
// which matters most during the method-not-allowed scan where every method
// is probed with the same path.
type BloomFilter struct {
	bits  []uint64 // Bit array (each uint64 holds 64 bits)
	size  uint64   // Total number of bits
	seeds []uint64 // Hash seeds for multiple hash functions
}

// NewBloomFilter creates a new bloom filter with the specified size and hash functions.
func NewBloomFilter(size uint64, numHashFuncs int) *BloomFilter {
	if size == 0 {
		size = 64
	}
	if numHashFuncs <= 0 {
		numHashFuncs = 1
	}
	bf := &BloomFilter{
		bits:  make([]uint64, (size+63)/64),
		size:  size,
		seeds: make([]uint64, numHashFuncs),
	}
	for i := range numHashFuncs {
		//nolint:gosec // G115: numHashFuncs is small, overflow impossible
		bf.seeds[i] = uint64(i + 1)
	}
	return bf
}

// optimalBloomFilterSize uses 10 bits per entry (about 1% false positives),
// bounded to [100, 1_000_000].
func optimalBloomFilterSize(n int) uint64 {
	size := uint64(n) * 10 //nolint:gosec // n is a route count
	if size < 100 {
		return 100
	}
	if size > 1_000_000 {
		return 1_000_000
	}
	return size
}

func (bf *BloomFilter) position(baseHash, seed uint64) uint64 {
	return (baseHash ^ seed) % bf.size
}

// Add adds an element to the bloom filter.
func (bf *BloomFilter) Add(data []byte) {
	h := fnv.New64a()
	h.Write(data)
	bf.addHash(h.Sum64())
}

// AddString adds a string without converting it to a byte slice.
func (bf *BloomFilter) AddString(s string) {
	bf.addHash(hashString(s))
}

func (bf *BloomFilter) addHash(baseHash uint64) {
	for _, seed := range bf.seeds {
		pos := bf.position(baseHash, seed)
		bf.bits[pos/64] |= 1 << (pos % 64)
	}
}

// Test checks if an element might be in the bloom filter.
func (bf *BloomFilter) Test(data []byte) bool {
	h := fnv.New64a()
	h.Write(data)
	return bf.TestWithPrecomputedHash(h.Sum64())
}

// TestString checks if s might be in the bloom filter.
func (bf *BloomFilter) TestString(s string) bool {
	return bf.TestWithPrecomputedHash(hashString(s))
}

// TestWithPrecomputedHash checks membership using a pre-computed FNV-1a hash.
func (bf *BloomFilter) TestWithPrecomputedHash(baseHash uint64) bool {
	for _, seed := range bf.seeds {
		pos := bf.position(baseHash, seed)
		if bf.bits[pos/64]&(1<<(pos%64)) == 0 {
			return false
		}
	}
	return true
}
