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
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"dirpx.dev/dcatch"
	"dirpx.dev/dcatch/fault"
	"dirpx.dev/dcatch/status"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	gstatus "google.golang.org/grpc/status"
	"google.golang.org/protobuf/protoadapt"
)

// ErrorDomain is the domain of the errdetails.ErrorInfo attached by
// ReplyWithMappedCode.
const ErrorDomain = "dcatch.dirpx.dev"

var (
	// ErrNilStatus is returned when a ReplyWithStatus function returns nil.
	ErrNilStatus = errors.New("dcatch: a grpc status must be returned")

	// ErrNotValidation is returned by ReplyWithValidation for errors that do
	// not implement fault.FieldErrorer.
	ErrNotValidation = errors.New("dcatch: error carries no field errors")
)

func terminal(fn func(call *Call, err error) (*gstatus.Status, error)) dcatch.Activity[*Call] {
	return dcatch.Terminate(func(_ context.Context, call *Call, err error) (any, error) {
		st, ferr := fn(call, err)
		if ferr != nil {
			return nil, ferr
		}
		return finish(call, st)
	})
}

// finish attaches the request id to st unless a RequestInfo is already
// present.
func finish(call *Call, st *gstatus.Status, details ...protoadapt.MessageV1) (*gstatus.Status, error) {
	if st == nil {
		return nil, ErrNilStatus
	}
	if call.TraceID != "" && !hasRequestInfo(st) {
		details = append(details, &errdetails.RequestInfo{RequestId: call.TraceID})
	}
	if len(details) == 0 {
		return st, nil
	}
	with, err := st.WithDetails(details...)
	if err != nil {
		return nil, fmt.Errorf("grpcx: attach details: %w", err)
	}
	return with, nil
}

func hasRequestInfo(st *gstatus.Status) bool {
	for _, d := range st.Details() {
		if _, ok := d.(*errdetails.RequestInfo); ok {
			return true
		}
	}
	return false
}

// ReplyWithCode replies with c and the client-safe message of the error.
func ReplyWithCode(c codes.Code) dcatch.Activity[*Call] {
	return terminal(func(_ *Call, err error) (*gstatus.Status, error) {
		return gstatus.New(c, fault.MessageOf(err)), nil
	})
}

// ReplyWithValidation replies with InvalidArgument and an errdetails.BadRequest
// listing one field violation per member message, ordered by field.
func ReplyWithValidation() dcatch.Activity[*Call] {
	return dcatch.Terminate(func(_ context.Context, call *Call, err error) (any, error) {
		var fe fault.FieldErrorer
		if !errors.As(err, &fe) {
			return nil, fmt.Errorf("%w: %T", ErrNotValidation, err)
		}
		fields := fe.FieldErrors()
		br := &errdetails.BadRequest{}
		for _, f := range slices.Sorted(maps.Keys(fields)) {
			for _, msg := range fields[f] {
				br.FieldViolations = append(br.FieldViolations, &errdetails.BadRequest_FieldViolation{
					Field:       f,
					Description: msg,
				})
			}
		}
		return finish(call, gstatus.New(codes.InvalidArgument, fault.MessageOf(err)), br)
	})
}

// ReplyWithMappedCode replies with the gRPC code resolved from the error
// code through m, with an errdetails.ErrorInfo naming the code. A nil m uses
// status.Default.
func ReplyWithMappedCode(m *status.Mapper) dcatch.Activity[*Call] {
	if m == nil {
		m = status.Default
	}
	return dcatch.Terminate(func(_ context.Context, call *Call, err error) (any, error) {
		c := fault.CodeOf(err)
		info := &errdetails.ErrorInfo{
			Reason: strings.ToUpper(string(c)),
			Domain: ErrorDomain,
		}
		return finish(call, gstatus.New(m.GRPCStatus(c), fault.MessageOf(err)), info)
	})
}

// ReplyWithStatus returns a typed terminal replying with the status built
// by fn. A nil fn yields a nil TerminateFunc, which Builder.Terminate
// reports as a configuration error.
func ReplyWithStatus[T error](fn func(call *Call, err T) *gstatus.Status) dcatch.TerminateFunc[*Call, T] {
	if fn == nil {
		return nil
	}
	return func(_ context.Context, call *Call, err T) (any, error) {
		return finish(call, fn(call, err))
	}
}
