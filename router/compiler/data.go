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

// Data is the compiled route table. It is never modified after Generator.Data
// returns it and is safe for concurrent reads.
type Data struct {
	static   map[string]*StaticTable
	variable map[string][]*Chunk
	methods  []string
}

// Methods returns every method with at least one route, sorted.
func (d *Data) Methods() []string {
	return d.methods
}

// Static returns the static table of method, or nil.
func (d *Data) Static(method string) *StaticTable {
	return d.static[method]
}

// Chunks returns the variable route chunks of method in evaluation order.
func (d *Data) Chunks(method string) []*Chunk {
	return d.variable[method]
}

// Lookup matches path against the routes of a single method: the static
// table first, then each chunk in order. Static matches return nil vars.
func (d *Data) Lookup(method, path string) (handler any, vars map[string]string, ok bool) {
	if h, found := d.static[method].Lookup(path); found {
		return h, nil, true
	}
	for _, chunk := range d.variable[method] {
		if h, v, found := chunk.Match(path); found {
			return h, v, true
		}
	}
	return nil, nil, false
}
