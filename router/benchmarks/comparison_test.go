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

package benchmarks

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/chi/v5"
	"github.com/labstack/echo/v4"

	"rivaas.dev/fastroute/router"
)

// Router comparison benchmarks.
//
// Each router serves the same three routes and is measured on a
// parameterized lookup. The Large variants register 200 parameterized
// routes and request the last one, which exercises chunked dispatch.
//
//	go test -bench=. ./router/benchmarks/

const largeRouteCount = 200

func serveLoop(b *testing.B, h http.Handler, target string) {
	b.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()

	b.ReportAllocs()
	for b.Loop() {
		w.Body.Reset()
		w.Code = 0
		w.Flushed = false
		h.ServeHTTP(w, req)
	}
}

func BenchmarkFastrouteRouter(b *testing.B) {
	r := router.MustNew()
	must(b, r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("Hello"))
	}))
	must(b, r.Get("/users/{id}", func(w http.ResponseWriter, req *http.Request) {
		_, _ = w.Write([]byte("User: " + req.PathValue("id")))
	}))
	must(b, r.Get("/users/{id}/posts/{post_id}", func(w http.ResponseWriter, req *http.Request) {
		_, _ = w.Write([]byte("User: " + req.PathValue("id") + ", Post: " + req.PathValue("post_id")))
	}))
	must(b, r.Compile())

	serveLoop(b, r, "/users/123")
}

func BenchmarkFastrouteDispatchOnly(b *testing.B) {
	r := router.MustNew()
	for i := range largeRouteCount {
		must(b, r.Get(fmt.Sprintf("/r%d/{id}", i), http.NotFoundHandler()))
	}
	must(b, r.Compile())

	target := fmt.Sprintf("/r%d/123", largeRouteCount-1)
	b.ReportAllocs()
	for b.Loop() {
		r.Dispatch(http.MethodGet, target)
	}
}

func BenchmarkFastrouteRouterLarge(b *testing.B) {
	r := router.MustNew()
	for i := range largeRouteCount {
		must(b, r.Get(fmt.Sprintf("/r%d/{id}", i), func(w http.ResponseWriter, req *http.Request) {
			_, _ = w.Write([]byte(req.PathValue("id")))
		}))
	}
	must(b, r.Compile())

	serveLoop(b, r, fmt.Sprintf("/r%d/123", largeRouteCount-1))
}

func BenchmarkStandardMux(b *testing.B) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("Hello"))
	})
	mux.HandleFunc("GET /users/{id}", func(w http.ResponseWriter, req *http.Request) {
		_, _ = w.Write([]byte("User: " + req.PathValue("id")))
	})
	mux.HandleFunc("GET /users/{id}/posts/{post_id}", func(w http.ResponseWriter, req *http.Request) {
		_, _ = w.Write([]byte("User: " + req.PathValue("id") + ", Post: " + req.PathValue("post_id")))
	})

	serveLoop(b, mux, "/users/123")
}

func BenchmarkGinRouter(b *testing.B) {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Hello")
	})
	r.GET("/users/:id", func(c *gin.Context) {
		c.String(http.StatusOK, "User: %s", c.Param("id"))
	})
	r.GET("/users/:id/posts/:post_id", func(c *gin.Context) {
		c.String(http.StatusOK, "User: %s, Post: %s", c.Param("id"), c.Param("post_id"))
	})

	serveLoop(b, r, "/users/123")
}

func BenchmarkGinRouterLarge(b *testing.B) {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	for i := range largeRouteCount {
		r.GET(fmt.Sprintf("/r%d/:id", i), func(c *gin.Context) {
			c.String(http.StatusOK, c.Param("id"))
		})
	}

	serveLoop(b, r, fmt.Sprintf("/r%d/123", largeRouteCount-1))
}

func BenchmarkEchoRouter(b *testing.B) {
	e := echo.New()
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "Hello")
	})
	e.GET("/users/:id", func(c echo.Context) error {
		return c.String(http.StatusOK, "User: "+c.Param("id"))
	})
	e.GET("/users/:id/posts/:post_id", func(c echo.Context) error {
		return c.String(http.StatusOK, "User: "+c.Param("id")+", Post: "+c.Param("post_id"))
	})

	serveLoop(b, e, "/users/123")
}

func BenchmarkChiRouter(b *testing.B) {
	r := chi.NewRouter()
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("Hello"))
	})
	r.Get("/users/{id}", func(w http.ResponseWriter, req *http.Request) {
		_, _ = w.Write([]byte("User: " + chi.URLParam(req, "id")))
	})
	r.Get("/users/{id}/posts/{post_id}", func(w http.ResponseWriter, req *http.Request) {
		_, _ = w.Write([]byte("User: " + chi.URLParam(req, "id") + ", Post: " + chi.URLParam(req, "post_id")))
	})

	serveLoop(b, r, "/users/123")
}

func BenchmarkChiRouterLarge(b *testing.B) {
	r := chi.NewRouter()
	for i := range largeRouteCount {
		r.Get(fmt.Sprintf("/r%d/{id}", i), func(w http.ResponseWriter, req *http.Request) {
			_, _ = w.Write([]byte(chi.URLParam(req, "id")))
		})
	}

	serveLoop(b, r, fmt.Sprintf("/r%d/123", largeRouteCount-1))
}

func must(b *testing.B, err error) {
	b.Helper()
	if err != nil {
		b.Fatal(err)
	}
}
