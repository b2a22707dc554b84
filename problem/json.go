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
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
)

// ErrReservedMember is returned when an extension uses the name of a
// standard member.
var ErrReservedMember = errors.New("dcatch: extension uses a reserved problem member")

var reserved = map[string]bool{
	"type": true, "title": true, "status": true, "detail": true, "instance": true, "errors": true,
}

// MarshalJSON encodes d with the fixed member order. Empty members are
// omitted.
func (d Details) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	write := func(key string, v any) error {
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("problem: member %q: %w", key, err)
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		k, _ := json.Marshal(key)
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(b)
		return nil
	}

	type member struct {
		key   string
		value any
		set   bool
	}
	for _, m := range []member{
		{"type", d.Type, d.Type != ""},
		{"title", d.Title, d.Title != ""},
		{"status", d.Status, d.Status != 0},
		{"detail", d.Detail, d.Detail != ""},
		{"instance", d.Instance, d.Instance != ""},
		{"errors", d.Errors, d.Errors != nil},
	} {
		if !m.set {
			continue
		}
		if err := write(m.key, m.value); err != nil {
			return nil, err
		}
	}
	for _, k := range slices.Sorted(maps.Keys(d.Extensions)) {
		if reserved[k] {
			return nil, fmt.Errorf("%w: %q", ErrReservedMember, k)
		}
		if err := write(k, d.Extensions[k]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a problem document. Unknown members land in
// Extensions.
func (d *Details) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var out Details
	fields := map[string]any{
		"type":     &out.Type,
		"title":    &out.Title,
		"status":   &out.Status,
		"detail":   &out.Detail,
		"instance": &out.Instance,
		"errors":   &out.Errors,
	}
	for k, v := range raw {
		if dst, ok := fields[k]; ok {
			if err := json.Unmarshal(v, dst); err != nil {
				return fmt.Errorf("problem: member %q: %w", k, err)
			}
			continue
		}
		var ext any
		if err := json.Unmarshal(v, &ext); err != nil {
			return fmt.Errorf("problem: member %q: %w", k, err)
		}
		if out.Extensions == nil {
			out.Extensions = make(map[string]any)
		}
		out.Extensions[k] = ext
	}
	*d = out
	return nil
}
