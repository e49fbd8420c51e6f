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

package problem

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
)

// ContentType is the media type of problem responses.
const ContentType = "application/problem+json; charset=utf-8"

// StatusCoder is implemented by errors that choose their HTTP status.
type StatusCoder interface {
	error
	HTTPStatus() int
}

// Coder is implemented by errors with a machine-readable code. The code
// becomes the last path element of the problem type URI.
type Coder interface {
	error
	Code() string
}

// Detailer is implemented by errors carrying extension members.
type Detailer interface {
	error
	Details() map[string]any
}

// Detail is an RFC 9457 problem detail. Extensions are marshaled inline.
type Detail struct {
	Type       string         `json:"type"`
	Title      string         `json:"title"`
	Status     int            `json:"status"`
	Detail     string         `json:"detail,omitempty"`
	Instance   string         `json:"instance,omitempty"`
	Extensions map[string]any `json:"-"`
}

// MarshalJSON merges Extensions into the top-level object. Extensions never
// override the standard members.
func (d Detail) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, 5+len(d.Extensions))
	for k, v := range d.Extensions {
		m[k] = v
	}
	m["type"] = d.Type
	m["title"] = d.Title
	m["status"] = d.Status
	if d.Detail != "" {
		m["detail"] = d.Detail
	} else {
		delete(m, "detail")
	}
	if d.Instance != "" {
		m["instance"] = d.Instance
	} else {
		delete(m, "instance")
	}
	return json.Marshal(m)
}

// Formatter turns errors into problem details.
type Formatter struct {
	// BaseURL prefixes error codes to build the problem type URI. Errors
	// without a code use "about:blank".
	BaseURL string

	// NewID generates the error_id extension. Defaults to a random UUID.
	NewID func() string

	// DisableErrorID omits the error_id extension.
	DisableErrorID bool
}

// New returns a Formatter using baseURL for problem types.
func New(baseURL string) *Formatter {
	return &Formatter{BaseURL: baseURL}
}

// Format builds the problem detail for err.
func (f *Formatter) Format(req *http.Request, err error) Detail {
	status := http.StatusInternalServerError
	var sc StatusCoder
	if errors.As(err, &sc) {
		status = sc.HTTPStatus()
	}

	d := Detail{
		Type:       "about:blank",
		Title:      http.StatusText(status),
		Status:     status,
		Detail:     err.Error(),
		Extensions: map[string]any{},
	}
	if req != nil && req.URL != nil {
		d.Instance = req.URL.Path
	}

	var coded Coder
	if errors.As(err, &coded) {
		if f.BaseURL != "" {
			d.Type = f.BaseURL + "/" + coded.Code()
		} else {
			d.Type = coded.Code()
		}
		d.Extensions["code"] = coded.Code()
	}

	var detailed Detailer
	if errors.As(err, &detailed) {
		for k, v := range detailed.Details() {
			d.Extensions[k] = v
		}
	}

	if !f.DisableErrorID {
		if f.NewID != nil {
			d.Extensions["error_id"] = f.NewID()
		} else {
			d.Extensions["error_id"] = uuid.NewString()
		}
	}
	return d
}

// Write formats err and writes it to w with the matching status code.
// Headers already set on w are kept.
func (f *Formatter) Write(w http.ResponseWriter, req *http.Request, err error) {
	d := f.Format(req, err)
	w.Header().Set("Content-Type", ContentType)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(d.Status)
	if req != nil && req.Method == http.MethodHead {
		return
	}
	_ = json.NewEncoder(w).Encode(d)
}
