/*
   Copyright 2025 The DIRPX Authors

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package status

import (
	"errors"
	"fmt"
	"maps"
	"strings"

	"dirpx.dev/dcatch/code"
	"dirpx.dev/dcatch/fault"
	"google.golang.org/grpc/codes"
)

// ErrInvalidMapping is returned by New for options that reference an invalid
// code or an HTTP status outside 100..599.
var ErrInvalidMapping = errors.New("dcatch: invalid status mapping")

// Status is the pair of transport statuses resolved for one code.
type Status struct {
	HTTP int
	GRPC codes.Code
}

// Mapper is an immutable code to status table. It is safe for concurrent use.
type Mapper struct {
	httpDefault  map[code.Code]int
	grpcDefault  map[code.Code]codes.Code
	httpOverride map[code.Code]int
	grpcOverride map[code.Code]codes.Code

	fallbackHTTP int
	fallbackGRPC codes.Code
}

// New builds a Mapper from the library defaults and opts.
func New(opts ...Option) (*Mapper, error) {
	b := newBuilder()
	for _, opt := range opts {
		opt(b)
	}

	if err := validHTTP("fallback", b.fallbackHTTP); err != nil {
		return nil, err
	}
	for _, tbl := range []map[code.Code]int{b.httpDefaults, b.httpOverride} {
		for c, v := range tbl {
			if err := code.Validate(c); err != nil {
				return nil, fmt.Errorf("%w: code %q: %w", ErrInvalidMapping, c, err)
			}
			if err := validHTTP(string(c), v); err != nil {
				return nil, err
			}
		}
	}
	for _, tbl := range []map[code.Code]codes.Code{b.grpcDefaults, b.grpcOverride} {
		for c := range tbl {
			if err := code.Validate(c); err != nil {
				return nil, fmt.Errorf("%w: code %q: %w", ErrInvalidMapping, c, err)
			}
		}
	}

	return &Mapper{
		httpDefault:  maps.Clone(b.httpDefaults),
		grpcDefault:  maps.Clone(b.grpcDefaults),
		httpOverride: maps.Clone(b.httpOverride),
		grpcOverride: maps.Clone(b.grpcOverride),
		fallbackHTTP: b.fallbackHTTP,
		fallbackGRPC: b.fallbackGRPC,
	}, nil
}

// MustNew is like New but panics on error.
func MustNew(opts ...Option) *Mapper {
	m, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return m
}

// Default is the Mapper built from library defaults only.
var Default = MustNew()

func validHTTP(what string, v int) error {
	if v < 100 || v > 599 {
		return fmt.Errorf("%w: %s: HTTP status %d", ErrInvalidMapping, what, v)
	}
	return nil
}

// HTTPStatus resolves the HTTP status for c.
func (m *Mapper) HTTPStatus(c code.Code) int {
	if v, ok := m.httpOverride[c]; ok {
		return v
	}
	if v, ok := m.httpDefault[c]; ok {
		return v
	}
	return m.fallbackHTTP
}

// GRPCStatus resolves the gRPC code for c.
func (m *Mapper) GRPCStatus(c code.Code) codes.Code {
	if v, ok := m.grpcOverride[c]; ok {
		return v
	}
	if v, ok := m.grpcDefault[c]; ok {
		return v
	}
	return m.fallbackGRPC
}

// Status resolves both statuses for c.
func (m *Mapper) Status(c code.Code) Status {
	return Status{HTTP: m.HTTPStatus(c), GRPC: m.GRPCStatus(c)}
}

// For resolves the statuses of err through fault.CodeOf. Errors without a
// code map like code.Internal.
func (m *Mapper) For(err error) Status {
	return m.Status(fault.CodeOf(err))
}

// Explain returns a trace of how c was resolved, e.g.
//
//	code="canceled"
//	http: source=override -> 499
//	grpc: source=default -> CANCELED(1)
func (m *Mapper) Explain(c code.Code) string {
	return fmt.Sprintf("code=%q\n%s\n%s", c, m.explainHTTP(c), m.explainGRPC(c))
}

func (m *Mapper) explainHTTP(c code.Code) string {
	if v, ok := m.httpOverride[c]; ok {
		return fmt.Sprintf("http: source=override -> %d", v)
	}
	if v, ok := m.httpDefault[c]; ok {
		return fmt.Sprintf("http: source=default -> %d", v)
	}
	return fmt.Sprintf("http: source=fallback -> %d", m.fallbackHTTP)
}

func (m *Mapper) explainGRPC(c code.Code) string {
	if v, ok := m.grpcOverride[c]; ok {
		return "grpc: source=override -> " + grpcName(v)
	}
	if v, ok := m.grpcDefault[c]; ok {
		return "grpc: source=default -> " + grpcName(v)
	}
	return "grpc: source=fallback -> " + grpcName(m.fallbackGRPC)
}

func grpcName(c codes.Code) string {
	return fmt.Sprintf("%s(%d)", strings.ToUpper(c.String()), int(c))
}
