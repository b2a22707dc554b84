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

package code

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"trim spaces", "  internal  ", "internal"},
		{"to lower", "InVaLiD", "invalid"},
		{"dash to underscore", "not-found", "not_found"},
		{"mixed", "  ALREADY-EXISTS  ", "already_exists"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Code
		ok   bool
	}{
		{"internal", Internal, true},
		{"  not_found  ", NotFound, true},
		{"CONFLICT", Conflict, true},
		{"already-exists", AlreadyExists, true},
		{"abc", Code("abc"), true},
		{"", Empty, false},
		{"a", Empty, false},
		{"1invalid", Empty, false},
		{"x-", Empty, false},
		{"a" + strings.Repeat("b", MaxLength), Empty, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.ok != (err == nil) {
				t.Fatalf("Parse(%q) err = %v, want ok=%v", tt.in, err, tt.ok)
			}
			if err != nil && !errors.Is(err, ErrCodeInvalid) {
				t.Fatalf("Parse(%q) err = %v, want ErrCodeInvalid", tt.in, err)
			}
			if got != tt.want {
				t.Fatalf("Parse(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestLengthBounds(t *testing.T) {
	long := strings.Repeat("a", MaxLength)
	if _, err := Parse(long); err != nil {
		t.Fatalf("len=%d must be valid: %v", len(long), err)
	}
	if _, err := Parse(long + "a"); err == nil {
		t.Fatalf("len=%d must be invalid", len(long)+1)
	}
	if _, err := Parse(strings.Repeat("a", MinLength-1)); err == nil {
		t.Fatal("code below MinLength must be invalid")
	}
}

func TestAll_Valid(t *testing.T) {
	seen := map[Code]bool{}
	for _, c := range All {
		if err := Validate(c); err != nil {
			t.Fatalf("Validate(%q): %v", c, err)
		}
		if seen[c] {
			t.Fatalf("duplicate code %q", c)
		}
		seen[c] = true
	}
}

func TestMustParse_PanicsOnInvalid(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("MustParse should panic on invalid input")
		}
	}()
	_ = MustParse("INVALID CODE ??")
}

func TestCode_JSON(t *testing.T) {
	type payload struct {
		Code Code `json:"code"`
	}
	b, err := json.Marshal(payload{Code: NotFound})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(b) != `{"code":"not_found"}` {
		t.Fatalf("Marshal = %s", b)
	}

	var p payload
	if err := json.Unmarshal([]byte(`{"code":" Not-Found "}`), &p); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if p.Code != NotFound {
		t.Fatalf("Unmarshal = %q, want %q", p.Code, NotFound)
	}

	if _, err := json.Marshal(payload{Code: "Bad-Code"}); err == nil {
		t.Fatal("Marshal of invalid code must fail")
	}
	if err := json.Unmarshal([]byte(`{"code":"!@#"}`), &p); err == nil {
		t.Fatal("Unmarshal of invalid code must fail")
	}
}
