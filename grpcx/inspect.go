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
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	gstatus "google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
)

// Details is the client view of a status produced by this package.
type Details struct {
	Code    codes.Code
	Message string

	// RequestID comes from errdetails.RequestInfo.
	RequestID string

	// Reason comes from errdetails.ErrorInfo.
	Reason string

	// Violations comes from errdetails.BadRequest, keyed by field.
	Violations map[string][]string
}

// StatusFrom decodes the status carried by err. It reports false for errors
// that are not gRPC statuses.
func StatusFrom(err error) (Details, bool) {
	st, ok := gstatus.FromError(err)
	if !ok {
		return Details{}, false
	}
	d := Details{Code: st.Code(), Message: st.Message()}
	for _, detail := range st.Details() {
		switch v := detail.(type) {
		case *errdetails.RequestInfo:
			d.RequestID = v.GetRequestId()
		case *errdetails.ErrorInfo:
			d.Reason = v.GetReason()
		case *errdetails.BadRequest:
			if d.Violations == nil {
				d.Violations = make(map[string][]string)
			}
			for _, fv := range v.GetFieldViolations() {
				d.Violations[fv.GetField()] = append(d.Violations[fv.GetField()], fv.GetDescription())
			}
		}
	}
	return d, true
}

// StatusJSON renders the google.rpc.Status of err as protobuf JSON.
func StatusJSON(err error) ([]byte, error) {
	st := gstatus.Convert(err)
	return protojson.MarshalOptions{UseProtoNames: false}.Marshal(st.Proto())
}
