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

// Package dispatch resolves a request method and URI to a compiled route.
//
// A Dispatcher reads a *compiler.Data snapshot and never modifies it, so a
// single Dispatcher can serve any number of goroutines. Dispatch performs no
// I/O and never blocks.
//
// Resolution order for a normalized path:
//
//  1. static and variable routes of the request method;
//  2. for HEAD requests, the routes of GET;
//  3. routes registered for the wildcard method "*";
//  4. every other method, to tell 405 Method Not Allowed from 404 Not Found.
//
// Example:
//
//	d := dispatch.New(data, dispatch.WithRootPath("/app"))
//	res := d.Dispatch("GET", "/app/user/42?tab=1")
//	switch res.Status {
//	case dispatch.Found:
//	    // res.Handler, res.Vars["id"] == "42"
//	case dispatch.MethodNotAllowed:
//	    // res.AllowedMethods
//	case dispatch.NotFound:
//	}
package dispatch
