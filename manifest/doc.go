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

// Package manifest declares routes in YAML, TOML or JSON files and applies
// them to a [route.Scope].
//
// A manifest is decoded into a generic map, validated against an embedded
// JSON Schema, then decoded into [Manifest]:
//
//	version: 1
//	middleware: [requestid, accesslog]
//	routes:
//	  - method: GET
//	    path: /user/{id:[0-9]+}[/{tab:[a-z]+}]
//	    handler: users.show
//	    name: user.show
//	groups:
//	  - prefix: /admin
//	    name: admin.
//	    middleware: [auth]
//	    routes:
//	      - methods: [GET, POST]
//	        path: /settings
//	        action: Settings.edit
//
// Route targets are either a handler name looked up in a [Handlers] table,
// or an action "Controller.method" that becomes a [route.Action] for the
// router's action resolver. Several files can be merged with [LoadFiles];
// later files override scalar fields and append to lists.
package manifest
