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

// Package logging configures the process-wide slog logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/vietddude/stylelog"
)

// Formats accepted by Init.
const (
	FormatJSON   = "json"
	FormatText   = "text"
	FormatPretty = "pretty"
)

// ParseLevel parses debug, info, warn or error. The empty string is info.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(strings.ToLower(s))); err != nil {
		return 0, fmt.Errorf("logging: level %q: %w", s, err)
	}
	return l, nil
}

// NewHandler returns a handler writing to w in the given format. An empty
// format is pretty.
func NewHandler(level slog.Level, format string, w io.Writer) (slog.Handler, error) {
	switch format {
	case FormatJSON:
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}), nil
	case FormatText:
		return slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}), nil
	case FormatPretty, "":
		return tint.NewHandler(w, &tint.Options{Level: level, TimeFormat: time.RFC3339}), nil
	default:
		return nil, fmt.Errorf("logging: unknown format %q", format)
	}
}

// Init installs the default logger. The pretty format on stderr goes
// through stylelog so the CLI shares its colors with companion tools.
func Init(level slog.Level, format string, w io.Writer) error {
	if (format == FormatPretty || format == "") && w == os.Stderr {
		stylelog.InitDefault(&tint.Options{Level: level, TimeFormat: time.RFC3339})
		return nil
	}
	h, err := NewHandler(level, format, w)
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(h))
	return nil
}

// New returns the default logger scoped to component.
func New(component string) *slog.Logger {
	return slog.Default().With(slog.String("component", component))
}
