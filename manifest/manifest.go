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

package manifest

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/BurntSushi/toml"
	"github.com/go-viper/mapstructure/v2"
	"github.com/goccy/go-yaml"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Format identifies a manifest encoding.
type Format string

const (
	YAML Format = "yaml"
	TOML Format = "toml"
	JSON Format = "json"
)

var (
	// ErrUnknownFormat indicates a file extension or format name that is not supported.
	ErrUnknownFormat = errors.New("manifest: unknown format")
	// ErrInvalid wraps schema violations.
	ErrInvalid = errors.New("manifest: invalid")
	// ErrNoFiles indicates LoadFiles was called without paths.
	ErrNoFiles = errors.New("manifest: no files")
)

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "manifest.schema.json"

var schema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		panic(fmt.Sprintf("manifest: schema: %v", err))
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, doc); err != nil {
		panic(fmt.Sprintf("manifest: schema: %v", err))
	}
	return c.MustCompile(schemaURL)
}

// Schema returns the JSON Schema manifests are validated against.
func Schema() []byte {
	return bytes.Clone(schemaJSON)
}

// Manifest is the decoded form of a route file.
type Manifest struct {
	Version    int      `mapstructure:"version" json:"version,omitempty"`
	RootPath   string   `mapstructure:"root_path" json:"root_path,omitempty"`
	Middleware []string `mapstructure:"middleware" json:"middleware,omitempty"`
	Routes     []Route  `mapstructure:"routes" json:"routes,omitempty"`
	Groups     []Group  `mapstructure:"groups" json:"groups,omitempty"`
}

// Route declares one template for one or more methods.
type Route struct {
	Method     string   `mapstructure:"method" json:"method,omitempty"`
	Methods    []string `mapstructure:"methods" json:"methods,omitempty"`
	Path       string   `mapstructure:"path" json:"path"`
	Handler    string   `mapstructure:"handler" json:"handler,omitempty"`
	Action     string   `mapstructure:"action" json:"action,omitempty"`
	Name       string   `mapstructure:"name" json:"name,omitempty"`
	Middleware []string `mapstructure:"middleware" json:"middleware,omitempty"`
}

// Group shares a prefix, a name prefix and middleware among its routes and
// nested groups.
type Group struct {
	Prefix     string   `mapstructure:"prefix" json:"prefix"`
	Name       string   `mapstructure:"name" json:"name,omitempty"`
	Middleware []string `mapstructure:"middleware" json:"middleware,omitempty"`
	Routes     []Route  `mapstructure:"routes" json:"routes,omitempty"`
	Groups     []Group  `mapstructure:"groups" json:"groups,omitempty"`
}

// AllMethods returns the route's methods. A route with neither method nor
// methods is a GET route.
func (r Route) AllMethods() []string {
	var out []string
	if r.Method != "" {
		out = append(out, r.Method)
	}
	out = append(out, r.Methods...)
	if len(out) == 0 {
		out = []string{"GET"}
	}
	return out
}

// FormatOf derives the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML, nil
	case ".toml":
		return TOML, nil
	case ".json":
		return JSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, path)
	}
}

// Parse decodes, validates and converts data.
func Parse(data []byte, format Format) (*Manifest, error) {
	doc, err := decode(data, format)
	if err != nil {
		return nil, err
	}
	return fromDocument(doc)
}

// Load reads and parses the file at path.
func Load(path string) (*Manifest, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}
	m, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// LoadFiles merges the files at paths in order before validating the result.
func LoadFiles(paths ...string) (*Manifest, error) {
	if len(paths) == 0 {
		return nil, ErrNoFiles
	}
	merged := make(map[string]any)
	for _, path := range paths {
		format, err := FormatOf(path)
		if err != nil {
			return nil, err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("manifest: %w", err)
		}
		doc, err := decode(data, format)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		obj, ok := doc.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%s: %w: top level must be an object", path, ErrInvalid)
		}
		if err := mergo.Map(&merged, obj, mergo.WithOverride, mergo.WithAppendSlice); err != nil {
			return nil, fmt.Errorf("%s: merge: %w", path, err)
		}
	}
	return fromDocument(merged)
}

// decode returns the document in the JSON data model (map[string]any,
// []any, json.Number, string, bool, nil) whatever the source format.
func decode(data []byte, format Format) (any, error) {
	var raw map[string]any
	switch format {
	case YAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("manifest: yaml: %w", err)
		}
	case TOML:
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("manifest: toml: %w", err)
		}
	case JSON:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("manifest: json: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if raw == nil {
		raw = map[string]any{}
	}

	normalized, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("manifest: normalize: %w", err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(normalized))
	if err != nil {
		return nil, fmt.Errorf("manifest: normalize: %w", err)
	}
	return doc, nil
}

func fromDocument(doc any) (*Manifest, error) {
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	var m Manifest
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &m,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := dec.Decode(doc); err != nil {
		return nil, fmt.Errorf("manifest: decode: %w", err)
	}
	return &m, nil
}
