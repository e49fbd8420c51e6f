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

package route

import (
	"fmt"
	"net/http"
	"reflect"
	"runtime"
)

// Handler is the value stored in the route table for every shape of a
// declared route. Middleware names are resolved by the caller when the table
// is compiled.
type Handler struct {
	Target     any
	Middleware []string
	Name       string
	Method     string
	Template   string
}

// Action names a controller method. Resolving it to something callable is
// left to the code serving requests.
type Action struct {
	Controller string
	Method     string
}

// String returns "Controller.Method".
func (a Action) String() string {
	return a.Controller + "." + a.Method
}

// Info describes a declared route for introspection.
type Info struct {
	Method     string   `json:"method"`
	Template   string   `json:"template"`
	Shapes     []string `json:"shapes"`
	Middleware []string `json:"middleware,omitempty"`
	Target     string   `json:"target"`
	Name       string   `json:"name,omitempty"`
}

// checkTarget reports whether target belongs to the supported set.
func checkTarget(target any) error {
	switch target.(type) {
	case nil:
		return ErrNilTarget
	case http.Handler, func(http.ResponseWriter, *http.Request), Action, *Action:
		return nil
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedTarget, target)
	}
}

// TargetName returns a human readable name for a route target.
func TargetName(target any) string {
	switch t := target.(type) {
	case Action:
		return t.String()
	case *Action:
		return t.String()
	case http.HandlerFunc:
		return funcName(t)
	case func(http.ResponseWriter, *http.Request):
		return funcName(t)
	case nil:
		return "<nil>"
	default:
		return fmt.Sprintf("%T", target)
	}
}

func funcName(fn any) string {
	if f := runtime.FuncForPC(reflect.ValueOf(fn).Pointer()); f != nil {
		return f.Name()
	}
	return "<func>"
}
