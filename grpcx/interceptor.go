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

package grpcx

import (
	"context"
	"log/slog"
	"strings"

	"dirpx.dev/dcatch"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	gstatus "google.golang.org/grpc/status"
)

// DefaultTraceKey is the metadata key read for the request id.
const DefaultTraceKey = "x-request-id"

// Call is the host context handed to gRPC rules.
type Call struct {
	// Method is the full method name, "/package.Service/Method".
	Method string

	// TraceID is the request id from incoming metadata, if any.
	TraceID string

	// Stream is true for streaming calls.
	Stream bool
}

// Option configures the interceptors.
type Option func(*settings)

type settings struct {
	traceKey string
	logger   *slog.Logger
}

// WithTraceKey sets the metadata key read for the request id.
func WithTraceKey(key string) Option {
	return func(s *settings) { s.traceKey = strings.ToLower(key) }
}

// WithLogger sets the base logger of the interceptors.
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) { s.logger = l }
}

func newSettings(opts []Option) *settings {
	s := &settings{traceKey: DefaultTraceKey}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default().With(slog.String("component", "grpcx"))
	}
	return s
}

// UnaryServerInterceptor routes unary handler errors through rs.
func UnaryServerInterceptor(rs *dcatch.RuleSet[*Call], opts ...Option) grpc.UnaryServerInterceptor {
	s := newSettings(opts)
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		resp, err := handler(ctx, req)
		if err == nil {
			return resp, nil
		}
		return nil, s.route(ctx, rs, &Call{Method: info.FullMethod}, err)
	}
}

// StreamServerInterceptor routes streaming handler errors through rs.
func StreamServerInterceptor(rs *dcatch.RuleSet[*Call], opts ...Option) grpc.StreamServerInterceptor {
	s := newSettings(opts)
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		err := handler(srv, ss)
		if err == nil {
			return nil
		}
		return s.route(ss.Context(), rs, &Call{Method: info.FullMethod, Stream: true}, err)
	}
}

func (s *settings) route(ctx context.Context, rs *dcatch.RuleSet[*Call], call *Call, err error) error {
	call.TraceID = s.traceID(ctx)
	logger := s.logger.With(slog.String("method", call.Method))
	if call.TraceID != "" {
		logger = logger.With(slog.String("trace_id", call.TraceID))
	}
	ctx = dcatch.ContextWithLogger(ctx, logger)

	res, aerr := rs.Run(ctx, call, err)
	if aerr != nil {
		logger.ErrorContext(ctx, "error pipeline failed", slog.Any("error", aerr), slog.Any("routed_error", err))
		return gstatus.Error(codes.Internal, "internal error")
	}
	if !res.Handled {
		return res.Err
	}
	st, ok := res.Outcome.(*gstatus.Status)
	if !ok || st == nil {
		logger.ErrorContext(ctx, "rule produced no grpc status", slog.String("rule", res.Rule))
		return gstatus.Error(codes.Internal, "internal error")
	}
	if logger.Enabled(ctx, slog.LevelDebug) {
		if b, jerr := StatusJSON(st.Err()); jerr == nil {
			logger.DebugContext(ctx, "grpc error handled", slog.String("rule", res.Rule), slog.String("status", string(b)))
		}
	}
	return st.Err()
}

func (s *settings) traceID(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	if v := md.Get(s.traceKey); len(v) > 0 {
		return strings.TrimSpace(v[0])
	}
	return ""
}
