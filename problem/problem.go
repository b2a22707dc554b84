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

package problem

import (
	"maps"
	"net/http"
	"slices"
)

// ContentType is the media type of a problem-details response.
const ContentType = "application/problem+json"

// TraceIDKey is the extension member carrying the correlation id.
const TraceIDKey = "traceId"

const (
	// SingleValidationTitle is the title of a validation problem with
	// exactly one failing member.
	SingleValidationTitle = "A validation error occurred."

	// MultipleValidationTitle is the title of every other validation
	// problem.
	MultipleValidationTitle = "Validation errors occurred."
)

// Details is a problem-details document.
type Details struct {
	// Type is the reference URI of the status, see ReferenceURI.
	Type string

	Title string

	// Status is the HTTP status. Zero means "not set"; response writers fill
	// it with the status they send.
	Status int

	Detail string

	Instance string

	// Errors is set on validation problems only.
	Errors map[string][]string

	// Extensions holds any additional members, such as the trace id.
	Extensions map[string]any
}

var referenceURIs = map[int]string{
	http.StatusBadRequest:           "https://tools.ietf.org/html/rfc7231#section-6.5.1",
	http.StatusUnauthorized:         "https://tools.ietf.org/html/rfc7231#section-6.5.2",
	http.StatusForbidden:            "https://tools.ietf.org/html/rfc7231#section-6.5.3",
	http.StatusNotFound:             "https://tools.ietf.org/html/rfc7231#section-6.5.4",
	http.StatusMethodNotAllowed:     "https://tools.ietf.org/html/rfc7231#section-6.5.5",
	http.StatusNotAcceptable:        "https://tools.ietf.org/html/rfc7231#section-6.5.6",
	http.StatusRequestTimeout:       "https://tools.ietf.org/html/rfc7231#section-6.5.7",
	http.StatusConflict:             "https://tools.ietf.org/html/rfc7231#section-6.5.8",
	http.StatusUnsupportedMediaType: "https://tools.ietf.org/html/rfc7232#section-6.5.13",
	http.StatusPreconditionFailed:   "https://tools.ietf.org/html/rfc7232#section-4.2",
	http.StatusInternalServerError:  "https://tools.ietf.org/html/rfc7231#section-6.6.1",
	http.StatusNotImplemented:       "https://tools.ietf.org/html/rfc7231#section-6.6.2",
	http.StatusBadGateway:           "https://tools.ietf.org/html/rfc7231#section-6.6.3",
	http.StatusServiceUnavailable:   "https://tools.ietf.org/html/rfc7231#section-6.6.4",
	http.StatusGatewayTimeout:       "https://tools.ietf.org/html/rfc7231#section-6.6.5",
}

// ReferenceURI returns the stable type URI for status, or "" when the
// status is not in the table.
func ReferenceURI(status int) string {
	return referenceURIs[status]
}

// New returns a problem for status with the given detail message.
func New(status int, detail string) *Details {
	return &Details{
		Type:   ReferenceURI(status),
		Title:  http.StatusText(status),
		Status: status,
		Detail: detail,
	}
}

// Validation returns a 400 problem carrying errors. Title and Detail hold
// the summary, plural only for more than one entry. The map and its slices
// are copied.
func Validation(errors map[string][]string) *Details {
	title := SingleValidationTitle
	if len(errors) > 1 {
		title = MultipleValidationTitle
	}
	cp := make(map[string][]string, len(errors))
	for k, v := range errors {
		cp[k] = slices.Clone(v)
	}
	return &Details{
		Type:   ReferenceURI(http.StatusBadRequest),
		Title:  title,
		Status: http.StatusBadRequest,
		Detail: title,
		Errors: cp,
	}
}

// Set stores an extension member. Reserved member names are rejected by
// MarshalJSON, not here.
func (d *Details) Set(key string, v any) *Details {
	if d.Extensions == nil {
		d.Extensions = make(map[string]any, 1)
	}
	d.Extensions[key] = v
	return d
}

// SetTraceID stores id under TraceIDKey unless id is empty or the member is
// already present.
func (d *Details) SetTraceID(id string) *Details {
	if id == "" {
		return d
	}
	if _, ok := d.Extensions[TraceIDKey]; ok {
		return d
	}
	return d.Set(TraceIDKey, id)
}

// TraceID returns the trace id extension, if it is a string.
func (d *Details) TraceID() string {
	s, _ := d.Extensions[TraceIDKey].(string)
	return s
}

// Clone returns a deep copy of the maps of d.
func (d *Details) Clone() *Details {
	cp := *d
	if d.Errors != nil {
		cp.Errors = make(map[string][]string, len(d.Errors))
		for k, v := range d.Errors {
			cp.Errors[k] = slices.Clone(v)
		}
	}
	cp.Extensions = maps.Clone(d.Extensions)
	return &cp
}
