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
	"maps"
	"slices"
)

// minRoutesForFilter is the number of static routes below which the bloom
// filter is skipped; a map lookup is cheaper for small tables.
const minRoutesForFilter = 10

// bloomHashFunctions is the number of hash functions used by static tables.
const bloomHashFunctions = 3

// StaticTable maps literal paths of one method to their handlers.
// It is immutable once built.
type StaticTable struct {
	routes map[string]any
	filter *BloomFilter // nil for small tables
}

func newStaticTable(routes map[string]any) *StaticTable {
	t := &StaticTable{routes: routes}
	if len(routes) >= minRoutesForFilter {
		t.filter = NewBloomFilter(optimalBloomFilterSize(len(routes)), bloomHashFunctions)
		for path := range routes {
			t.filter.AddString(path)
		}
	}
	return t
}

// Lookup returns the handler registered for path.
func (t *StaticTable) Lookup(path string) (any, bool) {
	if t == nil || len(t.routes) == 0 {
		return nil, false
	}
	if t.filter != nil && !t.filter.TestString(path) {
		return nil, false
	}
	h, ok := t.routes[path]
	return h, ok
}

// Len returns the number of static routes.
func (t *StaticTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.routes)
}

// Filtered reports whether lookups go through a bloom filter first.
func (t *StaticTable) Filtered() bool {
	return t != nil && t.filter != nil
}

// Paths returns the registered paths in lexical order.
func (t *StaticTable) Paths() []string {
	if t == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(t.routes))
}
