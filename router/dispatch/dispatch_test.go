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

package dispatch

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/fastroute/router/compiler"
	"rivaas.dev/fastroute/router/pattern"
)

type route struct {
	method   string
	template string
	handler  string
}

func build(t *testing.T, routes []route, opts ...compiler.Option) *compiler.Data {
	t.Helper()
	g := compiler.NewGenerator(opts...)
	for _, r := range routes {
		shapes, err := pattern.Parse(r.template)
		require.NoError(t, err)
		for _, s := range shapes {
			require.NoError(t, g.AddRoute(r.method, s, r.handler))
		}
	}
	data, err := g.Data()
	require.NoError(t, err)
	return data
}

func TestDispatch_UserExample(t *testing.T) {
	t.Parallel()

	d := New(build(t, []route{{"GET", "/user/{id:[0-9]+}[/{tab:[a-z]+}]", "user"}}))

	tests := []struct {
		name   string
		uri    string
		status Status
		vars   map[string]string
	}{
		{"required only", "/user/42", Found, map[string]string{"id": "42"}},
		{"with optional", "/user/42/profile", Found, map[string]string{"id": "42", "tab": "profile"}},
		{"query string ignored", "/user/42/profile?x=1", Found, map[string]string{"id": "42", "tab": "profile"}},
		{"pattern rejects letters", "/user/abc", NotFound, nil},
		{"optional pattern rejects digits", "/user/42/123", NotFound, nil},
		{"trailing slash", "/user/42/", NotFound, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res := d.Dispatch("GET", tt.uri)
			assert.Equal(t, tt.status, res.Status)
			if tt.status == Found {
				assert.Equal(t, "user", res.Handler)
				assert.Equal(t, tt.vars, res.Vars)
			}
		})
	}
}

func TestDispatch_StaticRouteHasEmptyVars(t *testing.T) {
	t.Parallel()

	d := New(build(t, []route{{"GET", "/", "home"}}))

	res := d.Dispatch("GET", "/")
	require.Equal(t, Found, res.Status)
	assert.Equal(t, "home", res.Handler)
	assert.NotNil(t, res.Vars)
	assert.Empty(t, res.Vars)

	res = d.Dispatch("GET", "")
	assert.Equal(t, Found, res.Status, "empty path collapses to /")
}

func TestDispatch_MethodFallback(t *testing.T) {
	t.Parallel()

	d := New(build(t, []route{{"GET", "/ping", "ping"}}))

	res := d.Dispatch("HEAD", "/ping")
	require.Equal(t, Found, res.Status)
	assert.Equal(t, "ping", res.Handler)

	res = d.Dispatch("POST", "/ping")
	require.Equal(t, MethodNotAllowed, res.Status)
	assert.Equal(t, []string{"GET"}, res.AllowedMethods)
	assert.Nil(t, res.Handler)

	res = d.Dispatch("POST", "/pong")
	assert.Equal(t, NotFound, res.Status)
}

func TestDispatch_ExplicitHeadWins(t *testing.T) {
	t.Parallel()

	d := New(build(t, []route{
		{"GET", "/ping", "get"},
		{"HEAD", "/ping", "head"},
	}))

	res := d.Dispatch("HEAD", "/ping")
	require.Equal(t, Found, res.Status)
	assert.Equal(t, "head", res.Handler)
}

func TestDispatch_Wildcard(t *testing.T) {
	t.Parallel()

	d := New(build(t, []route{
		{compiler.MethodAny, "/health", "health"},
		{compiler.MethodAny, "/item/{id}", "anyItem"},
		{"GET", "/item/{id}", "getItem"},
	}))

	res := d.Dispatch("PUT", "/health")
	require.Equal(t, Found, res.Status)
	assert.Equal(t, "health", res.Handler)

	res = d.Dispatch("GET", "/item/1")
	require.Equal(t, Found, res.Status)
	assert.Equal(t, "getItem", res.Handler, "method routes win over the wildcard")

	res = d.Dispatch("DELETE", "/item/1")
	require.Equal(t, Found, res.Status)
	assert.Equal(t, "anyItem", res.Handler)
	assert.Equal(t, map[string]string{"id": "1"}, res.Vars)
}

func TestDispatch_AllowedMethodsSorted(t *testing.T) {
	t.Parallel()

	d := New(build(t, []route{
		{"PUT", "/doc/{id}", "put"},
		{"DELETE", "/doc/{id}", "delete"},
		{"GET", "/doc/{id}", "get"},
		{"GET", "/other", "other"},
	}))

	res := d.Dispatch("POST", "/doc/1")
	require.Equal(t, MethodNotAllowed, res.Status)
	assert.Equal(t, []string{"DELETE", "GET", "PUT"}, res.AllowedMethods)

	res = d.Dispatch("HEAD", "/doc/1")
	require.Equal(t, Found, res.Status)
	assert.Equal(t, "get", res.Handler)
}

func TestDispatch_RootPath(t *testing.T) {
	t.Parallel()

	d := New(build(t, []route{
		{"GET", "/", "home"},
		{"GET", "/user/{id}", "user"},
		{"GET", "/apple", "apple"},
	}), WithRootPath("/app/"))

	tests := []struct {
		uri     string
		status  Status
		handler string
	}{
		{"/app", Found, "home"},
		{"/app/", Found, "home"},
		{"/app?q=1", Found, "home"},
		{"/app/user/7", Found, "user"},
		{"/apple", Found, "apple"},
		{"/user/7", Found, "user"},
		{"/application", NotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			t.Parallel()

			res := d.Dispatch("GET", tt.uri)
			require.Equal(t, tt.status, res.Status)
			if tt.status == Found {
				assert.Equal(t, tt.handler, res.Handler)
			}
		})
	}
}

func TestDispatch_PercentDecoding(t *testing.T) {
	t.Parallel()

	d := New(build(t, []route{
		{"GET", "/files/{name}", "file"},
		{"GET", "/hello world", "space"},
	}))

	res := d.Dispatch("GET", "/files/caf%C3%A9")
	require.Equal(t, Found, res.Status)
	assert.Equal(t, "café", res.Vars["name"])

	res = d.Dispatch("GET", "/hello%20world")
	require.Equal(t, Found, res.Status)
	assert.Equal(t, "space", res.Handler)

	res = d.Dispatch("GET", "/files/%zz")
	assert.Equal(t, NotFound, res.Status, "malformed escapes are not found")

	res = d.Dispatch("GET", "/files/a#frag")
	require.Equal(t, Found, res.Status)
	assert.Equal(t, "a", res.Vars["name"])
}

func TestDispatch_RoundTripAcrossChunks(t *testing.T) {
	t.Parallel()

	const n = 2*compiler.DefaultChunkSize + 1
	routes := make([]route, 0, n)
	for i := range n {
		routes = append(routes, route{
			method:   "GET",
			template: fmt.Sprintf("/r%d/{a:[0-9]+}[/{b}]", i),
			handler:  fmt.Sprintf("h%d", i),
		})
	}
	d := New(build(t, routes))

	for i := range n {
		res := d.Dispatch("GET", fmt.Sprintf("/r%d/%d", i, i*3))
		require.Equal(t, Found, res.Status)
		assert.Equal(t, fmt.Sprintf("h%d", i), res.Handler)
		assert.Equal(t, map[string]string{"a": fmt.Sprint(i * 3)}, res.Vars)

		res = d.Dispatch("GET", fmt.Sprintf("/r%d/%d/x%d", i, i, i))
		require.Equal(t, Found, res.Status)
		assert.Equal(t, fmt.Sprintf("h%d", i), res.Handler)
		assert.Equal(t, map[string]string{"a": fmt.Sprint(i), "b": fmt.Sprintf("x%d", i)}, res.Vars)
	}
}

func TestDispatch_Concurrent(t *testing.T) {
	t.Parallel()

	d := New(build(t, []route{
		{"GET", "/user/{id:[0-9]+}", "user"},
		{"GET", "/static", "static"},
	}))

	var wg sync.WaitGroup
	for i := range 32 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := range 100 {
				res := d.Dispatch("GET", fmt.Sprintf("/user/%d", i*j))
				assert.Equal(t, Found, res.Status)
				assert.Equal(t, fmt.Sprint(i*j), res.Vars["id"])
			}
		}(i)
	}
	wg.Wait()
}

func TestStatus_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "found", Found.String())
	assert.Equal(t, "not_found", NotFound.String())
	assert.Equal(t, "method_not_allowed", MethodNotAllowed.String())
}

func BenchmarkDispatch(b *testing.B) {
	g := compiler.NewGenerator()
	for i := range 100 {
		shapes := pattern.MustParse(fmt.Sprintf("/api/v%d/items/{id:[0-9]+}", i))
		if err := g.AddRoute("GET", shapes[0], i); err != nil {
			b.Fatal(err)
		}
	}
	data, err := g.Data()
	if err != nil {
		b.Fatal(err)
	}
	d := New(data)

	b.ReportAllocs()
	for b.Loop() {
		d.Dispatch("GET", "/api/v99/items/12345")
	}
}
