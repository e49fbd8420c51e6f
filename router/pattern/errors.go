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

package pattern

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRoute is matched by every route declaration error.
	ErrInvalidRoute = errors.New("invalid route")

	// ErrUnbalancedOptional indicates that the number of '[' and ']' differ.
	ErrUnbalancedOptional = errors.New("number of opening '[' and closing ']' does not match")

	// ErrOptionalNotTrailing indicates an optional part that is not at the end of the route.
	ErrOptionalNotTrailing = errors.New("optional segments can only occur at the end of a route")

	// ErrEmptyOptional indicates an optional part with no content.
	ErrEmptyOptional = errors.New("empty optional part")

	// ErrDuplicatePlaceholder indicates a placeholder name used twice in one route.
	ErrDuplicatePlaceholder = errors.New("cannot use the same placeholder twice")

	// ErrCapturingGroup indicates a placeholder regex with a capturing group.
	ErrCapturingGroup = errors.New("placeholder regex contains a capturing group")

	// ErrInvalidPattern indicates a placeholder regex that does not compile.
	ErrInvalidPattern = errors.New("placeholder regex does not compile")

	// ErrDuplicateStatic indicates two static routes with the same path and method.
	ErrDuplicateStatic = errors.New("cannot register two routes matching the same path")

	// ErrShadowedStatic indicates a static route that a variable route also matches.
	ErrShadowedStatic = errors.New("static route is shadowed by a variable route")

	// ErrDuplicateVariable indicates two variable routes compiling to the same regex.
	ErrDuplicateVariable = errors.New("cannot register two routes with the same pattern")
)

// InvalidRouteError describes a route declaration that cannot be compiled.
// It wraps one of the sentinel errors of this package and always matches
// ErrInvalidRoute.
type InvalidRouteError struct {
	Method string // empty while parsing
	Route  string
	Err    error
	Detail string
}

// Error implements the error interface.
func (e *InvalidRouteError) Error() string {
	msg := e.Err.Error()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Method != "" {
		return fmt.Sprintf("invalid route %s %q: %s", e.Method, e.Route, msg)
	}
	return fmt.Sprintf("invalid route %q: %s", e.Route, msg)
}

// Unwrap returns the sentinel cause.
func (e *InvalidRouteError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrInvalidRoute.
func (e *InvalidRouteError) Is(target error) bool {
	return target == ErrInvalidRoute
}

func invalid(route string, err error, detail string) *InvalidRouteError {
	return &InvalidRouteError{Route: route, Err: err, Detail: detail}
}
