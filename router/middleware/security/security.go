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

// Package security sets protective response headers.
//
// The defaults deny framing, disable MIME sniffing, restrict the
// referrer and apply a same-origin Content-Security-Policy.
// Strict-Transport-Security is only sent on TLS connections.
//
//	r.Use("security", security.New(security.WithFrameOptions("SAMEORIGIN")))
package security

import (
	"fmt"
	"net/http"
)

// Option defines functional options for security middleware configuration.
type Option func(*config)

type config struct {
	frameOptions          string
	contentTypeNosniff    bool
	hstsMaxAge            int
	hstsIncludeSubdomains bool
	hstsPreload           bool
	contentSecurityPolicy string
	referrerPolicy        string
	permissionsPolicy     string
	customHeaders         [][2]string
}

func defaultConfig() *config {
	return &config{
		frameOptions:          "DENY",
		contentTypeNosniff:    true,
		hstsMaxAge:            31536000,
		hstsIncludeSubdomains: true,
		contentSecurityPolicy: "default-src 'self'",
		referrerPolicy:        "strict-origin-when-cross-origin",
	}
}

// WithFrameOptions sets X-Frame-Options. Empty omits the header.
func WithFrameOptions(value string) Option {
	return func(c *config) {
		c.frameOptions = value
	}
}

// WithContentTypeNosniff toggles X-Content-Type-Options: nosniff.
func WithContentTypeNosniff(enabled bool) Option {
	return func(c *config) {
		c.contentTypeNosniff = enabled
	}
}

// WithHSTS configures Strict-Transport-Security. A maxAge of zero
// disables it.
func WithHSTS(maxAge int, includeSubdomains, preload bool) Option {
	return func(c *config) {
		c.hstsMaxAge = maxAge
		c.hstsIncludeSubdomains = includeSubdomains
		c.hstsPreload = preload
	}
}

// WithContentSecurityPolicy sets Content-Security-Policy. Empty omits it.
func WithContentSecurityPolicy(policy string) Option {
	return func(c *config) {
		c.contentSecurityPolicy = policy
	}
}

// WithReferrerPolicy sets Referrer-Policy. Empty omits it.
func WithReferrerPolicy(policy string) Option {
	return func(c *config) {
		c.referrerPolicy = policy
	}
}

// WithPermissionsPolicy sets Permissions-Policy.
func WithPermissionsPolicy(policy string) Option {
	return func(c *config) {
		c.permissionsPolicy = policy
	}
}

// WithCustomHeader adds a header set on every response.
func WithCustomHeader(name, value string) Option {
	return func(c *config) {
		c.customHeaders = append(c.customHeaders, [2]string{name, value})
	}
}

// New returns a middleware that sets security headers before calling the
// next handler. Handlers may still override them.
func New(opts ...Option) func(http.Handler) http.Handler {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	var headers [][2]string
	add := func(name, value string) {
		if value != "" {
			headers = append(headers, [2]string{name, value})
		}
	}
	add("X-Frame-Options", cfg.frameOptions)
	if cfg.contentTypeNosniff {
		add("X-Content-Type-Options", "nosniff")
	}
	add("Content-Security-Policy", cfg.contentSecurityPolicy)
	add("Referrer-Policy", cfg.referrerPolicy)
	add("Permissions-Policy", cfg.permissionsPolicy)
	headers = append(headers, cfg.customHeaders...)

	var hsts string
	if cfg.hstsMaxAge > 0 {
		hsts = fmt.Sprintf("max-age=%d", cfg.hstsMaxAge)
		if cfg.hstsIncludeSubdomains {
			hsts += "; includeSubDomains"
		}
		if cfg.hstsPreload {
			hsts += "; preload"
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			h := w.Header()
			for _, kv := range headers {
				h.Set(kv[0], kv[1])
			}
			if hsts != "" && req.TLS != nil {
				h.Set("Strict-Transport-Security", hsts)
			}
			next.ServeHTTP(w, req)
		})
	}
}
