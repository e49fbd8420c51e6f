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

package compiler_test

import (
	"fmt"

	"rivaas.dev/fastroute/router/compiler"
	"rivaas.dev/fastroute/router/pattern"
)

// ExampleGenerator demonstrates compiling an optional route into one chunk.
func ExampleGenerator() {
	g := compiler.NewGenerator()
	for _, shape := range pattern.MustParse("/user/{id:[0-9]+}[/{tab}]") {
		if err := g.AddRoute("GET", shape, "showUser"); err != nil {
			panic(err)
		}
	}

	data, err := g.Data()
	if err != nil {
		panic(err)
	}

	for _, chunk := range data.Chunks("GET") {
		fmt.Println(chunk.Regex())
	}

	handler, vars, _ := data.Lookup("GET", "/user/7/posts")
	fmt.Println(handler, vars["id"], vars["tab"])
	// Output:
	// ^(?:/user/([0-9]+)()|/user/([0-9]+)/([^/]+)())$
	// showUser 7 posts
}

// ExampleGenerator_AddRoute demonstrates the shadowed static route check.
func ExampleGenerator_AddRoute() {
	g := compiler.NewGenerator()
	_ = g.AddRoute("GET", pattern.MustParse("/user/{name}")[0], "byName")

	err := g.AddRoute("GET", pattern.MustParse("/user/me")[0], "me")
	fmt.Println(err)
	// Output:
	// invalid route GET "/user/me": static route is shadowed by a variable route: matched by previously defined route "/user/{name}"
}
