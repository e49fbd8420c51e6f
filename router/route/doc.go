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

// Package route collects route declarations and feeds them to a route table
// builder.
//
// A Collector wraps anything that implements Builder (normally a
// *compiler.Generator). Routes are declared through a Scope, an immutable
// value holding the active path prefix, middleware list and name prefix.
// Groups derive a child Scope and pass it to a callback, so nesting needs no
// save and restore bookkeeping:
//
//	c := route.NewCollector(generator)
//	err := c.Group("/api", func(api route.Scope) error {
//	    if err := api.Get("/users/{id:[0-9]+}", getUser); err != nil {
//	        return err
//	    }
//	    return api.Group("/admin", func(admin route.Scope) error {
//	        return admin.Delete("/users/{id:[0-9]+}", deleteUser, route.Name("users.delete"))
//	    }, route.WithMiddleware("auth"))
//	}, route.WithMiddleware("requestid", "accesslog"))
//
// Every declared template is parsed by package pattern and each resulting
// shape is handed to the builder with a *Handler carrying the target and its
// middleware names. The first error aborts the declaration and is returned
// unchanged, so callers can match it with errors.Is against the
// pattern.Err* sentinels.
//
// # Targets
//
// A target is one of:
//   - http.Handler (including http.HandlerFunc)
//   - func(http.ResponseWriter, *http.Request)
//   - Action, a controller/method pair resolved by the caller
//
// The dispatcher never inspects targets; it returns them as found.
//
// All operations in this package happen at startup and are not safe for
// concurrent use.
package route
