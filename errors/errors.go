// Copyright 2026 Google LLC. All Rights Reserved.
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

// Package errors defines the conditions under which a batch fails to verify.
//
// Each condition carries a gRPC status code so that it can be surfaced over
// RPC without information loss, while callers in-process match on the
// condition with the standard errors.Is.
package errors

import (
	stderrors "errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Error is a verification failure condition with an associated code.
type Error struct {
	code codes.Code
	msg  string
}

// New returns a new condition. Conditions are compared by identity.
func New(code codes.Code, msg string) *Error {
	return &Error{code: code, msg: msg}
}

func (e *Error) Error() string {
	return e.msg
}

// Code returns the code associated with the condition.
func (e *Error) Code() codes.Code {
	return e.code
}

// The failure taxonomy of a batch verification. None of these is fatal to the
// caller and none is retried.
var (
	// OversizedInput means the declared batch length exceeds the buffer capacity.
	OversizedInput = New(codes.ResourceExhausted, "batch length exceeds buffer capacity")
	// MalformedBatch means the payload could not be decoded into records.
	MalformedBatch = New(codes.InvalidArgument, "malformed batch")
	// EmptyBatch means the payload decoded to zero records.
	EmptyBatch = New(codes.FailedPrecondition, "batch has no records")
	// RootLengthMismatch means the expected root is not 32 bytes.
	RootLengthMismatch = New(codes.InvalidArgument, "expected root has wrong length")
	// RootMismatch means the recomputed root differs from the expected root.
	RootMismatch = New(codes.FailedPrecondition, "batch root does not match expected root")
	// Internal means verification failed unexpectedly.
	Internal = New(codes.Internal, "internal error during verification")
)

// CodeOf returns the code of the first condition in err's chain. It returns
// codes.OK for a nil error and codes.Unknown if err carries no condition.
func CodeOf(err error) codes.Code {
	if err == nil {
		return codes.OK
	}
	var e *Error
	if stderrors.As(err, &e) {
		return e.code
	}
	return codes.Unknown
}

// ToStatus converts err to a gRPC status error, keeping its full message.
// It returns nil for a nil error.
func ToStatus(err error) error {
	if err == nil {
		return nil
	}
	return status.Error(CodeOf(err), err.Error())
}
