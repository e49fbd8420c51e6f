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

// Package problem writes RFC 9457 Problem Details responses.
//
// Errors control the response by implementing any of the optional
// interfaces StatusCoder, Coder and Detailer. Error is a ready-made
// implementation of all three used by the router for 404 and 405 answers:
//
//	f := problem.New("https://errors.example.com")
//	f.Write(w, req, problem.MethodNotAllowed([]string{"GET", "PUT"}))
//
// produces
//
//	HTTP/1.1 405 Method Not Allowed
//	Content-Type: application/problem+json; charset=utf-8
//
//	{"type":"https://errors.example.com/method-not-allowed","title":"Method Not Allowed",
//	 "status":405,"detail":"...","instance":"/path","allowed":["GET","PUT"],"error_id":"..."}
package problem
