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

package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// Exchange is the host context handed to HTTP rules.
type Exchange struct {
	// Writer is the response of the current request. Writes through it are
	// tracked, see Written.
	Writer http.ResponseWriter

	Request *http.Request

	// TraceID correlates the request across logs and responses.
	TraceID string

	rw *responseWriter
}

// Written reports whether the response has been started.
func (x *Exchange) Written() bool {
	return x.rw != nil && x.rw.wrote
}

// Status returns the status written so far, or zero.
func (x *Exchange) Status() int {
	if x.rw == nil {
		return 0
	}
	return x.rw.status
}

func newExchange(w http.ResponseWriter, r *http.Request, traceID string) *Exchange {
	rw, ok := w.(*responseWriter)
	if !ok {
		rw = &responseWriter{ResponseWriter: w}
	}
	return &Exchange{Writer: rw, Request: r, TraceID: traceID, rw: rw}
}

// responseWriter records whether the header was sent.
type responseWriter struct {
	http.ResponseWriter
	wrote  bool
	status int
}

func (w *responseWriter) WriteHeader(code int) {
	if w.wrote {
		return
	}
	w.wrote = true
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *responseWriter) Write(b []byte) (int, error) {
	if !w.wrote {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *responseWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }

func (w *responseWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		if !w.wrote {
			w.WriteHeader(http.StatusOK)
		}
		f.Flush()
	}
}

type traceKey struct{}

// TraceIDFrom returns the trace id the middleware stored in ctx.
func TraceIDFrom(ctx context.Context) string {
	s, _ := ctx.Value(traceKey{}).(string)
	return s
}

// traceID picks the request trace id from header, then traceparent, then a
// new UUID.
func traceID(r *http.Request, header string) string {
	if id := strings.TrimSpace(r.Header.Get(header)); id != "" {
		return id
	}
	if id := traceparentID(r.Header.Get("traceparent")); id != "" {
		return id
	}
	return uuid.NewString()
}

// traceparentID extracts the trace-id field of a W3C traceparent value:
// version-traceid-parentid-flags.
func traceparentID(v string) string {
	parts := strings.Split(strings.TrimSpace(v), "-")
	if len(parts) != 4 || len(parts[1]) != 32 {
		return ""
	}
	id := strings.ToLower(parts[1])
	if strings.Trim(id, "0") == "" {
		return ""
	}
	for _, c := range id {
		if !strings.ContainsRune("0123456789abcdef", c) {
			return ""
		}
	}
	return id
}
