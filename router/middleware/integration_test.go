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

//go:build integration

package middleware_test

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"rivaas.dev/fastroute/router"
	"rivaas.dev/fastroute/router/middleware/accesslog"
	"rivaas.dev/fastroute/router/middleware/compression"
	"rivaas.dev/fastroute/router/middleware/recovery"
	"rivaas.dev/fastroute/router/middleware/requestid"
	"rivaas.dev/fastroute/router/middleware/security"
	"rivaas.dev/fastroute/router/route"
)

// syncBuffer is a bytes.Buffer safe for concurrent writers.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) entries() []map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(b.buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		Expect(json.Unmarshal([]byte(line), &m)).To(Succeed())
		out = append(out, m)
	}
	return out
}

var _ = Describe("Router with the middleware stack", func() {
	var (
		r    *router.Router
		logs *syncBuffer
	)

	BeforeEach(func() {
		logs = &syncBuffer{}
		logger := slog.New(slog.NewJSONHandler(logs, nil))

		r = router.MustNew(router.WithLogger(logger))
		Expect(r.Use("recovery", recovery.New(recovery.WithLogger(logger), recovery.WithStackTrace(false)))).To(Succeed())
		Expect(r.Use("requestid", requestid.New())).To(Succeed())
		Expect(r.Use("accesslog", accesslog.New(accesslog.WithLogger(logger)))).To(Succeed())
		Expect(r.Use("compression", compression.New(compression.WithMinSize(16)))).To(Succeed())
		Expect(r.Use("security", security.New())).To(Succeed())

		err := r.Group("/api", func(api route.Scope) error {
			if err := api.Get("/users/{id:[0-9]+}[/{tab:[a-z]+}]", func(w http.ResponseWriter, req *http.Request) {
				_, _ = w.Write([]byte(req.PathValue("id") + ":" + req.PathValue("tab")))
			}); err != nil {
				return err
			}
			return api.Post("/explode", func(http.ResponseWriter, *http.Request) {
				panic("kaboom")
			})
		}, route.WithMiddleware("requestid", "accesslog", "recovery"))
		Expect(err).NotTo(HaveOccurred())
		Expect(r.Get("/report", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/plain")
			_, _ = io.WriteString(w, strings.Repeat("row,", 64))
		}, route.WithMiddleware("security", "compression"))).To(Succeed())
		Expect(r.Compile()).To(Succeed())
	})

	Context("when a route matches", func() {
		It("runs the handler with path variables and logs the access", func() {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/users/42/posts", nil))

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(Equal("42:posts"))
			Expect(rec.Header().Get("X-Request-ID")).NotTo(BeEmpty())

			entries := logs.entries()
			Expect(entries).To(HaveLen(1))
			Expect(entries[0]).To(HaveKeyWithValue("msg", "access"))
			Expect(entries[0]).To(HaveKeyWithValue("route", "/api/users/{id:[0-9]+}[/{tab:[a-z]+}]"))
			Expect(entries[0]).To(HaveKeyWithValue("request_id", rec.Header().Get("X-Request-ID")))
		})
	})

	Context("when a route uses compression and security", func() {
		It("compresses the body and sets protective headers", func() {
			req := httptest.NewRequest(http.MethodGet, "/report", nil)
			req.Header.Set("Accept-Encoding", "gzip")
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Header().Get("Content-Encoding")).To(Equal("gzip"))
			Expect(rec.Header().Get("X-Frame-Options")).To(Equal("DENY"))

			zr, err := gzip.NewReader(rec.Body)
			Expect(err).NotTo(HaveOccurred())
			body, err := io.ReadAll(zr)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(body)).To(Equal(strings.Repeat("row,", 64)))
		})
	})

	Context("when a handler panics", func() {
		It("answers 500 and logs both the panic and the access", func() {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/explode", nil))

			Expect(rec.Code).To(Equal(http.StatusInternalServerError))
			Expect(rec.Header().Get("Content-Type")).To(HavePrefix("application/problem+json"))

			var msgs []any
			for _, e := range logs.entries() {
				msgs = append(msgs, e["msg"])
			}
			Expect(msgs).To(ConsistOf("panic recovered", "access"))
		})
	})

	Context("when no route matches", func() {
		It("answers 405 with an Allow header for other methods", func() {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/users/1", nil))

			Expect(rec.Code).To(Equal(http.StatusMethodNotAllowed))
			Expect(rec.Header().Get("Allow")).To(Equal("GET"))
		})

		It("answers 404 without running route middleware", func() {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/users/abc", nil))

			Expect(rec.Code).To(Equal(http.StatusNotFound))
			Expect(rec.Header().Get("X-Request-ID")).To(BeEmpty())
			Expect(logs.entries()).To(BeEmpty())
		})
	})

	Context("under concurrent load", func() {
		It("serves every request with its own variables", func() {
			var wg sync.WaitGroup
			for i := range 20 {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					defer GinkgoRecover()
					id := strings.Repeat("1", i+1)
					rec := httptest.NewRecorder()
					r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/users/"+id, nil))
					Expect(rec.Body.String()).To(Equal(id + ":"))
				}(i)
			}
			wg.Wait()
			Expect(logs.entries()).To(HaveLen(20))
		})
	})
})
