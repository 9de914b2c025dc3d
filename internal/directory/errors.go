// Copyright (c) 2026 ToeiRei
// Userdesk - user directory client
// This source code is licensed under the MIT license found in the LICENSE file.

package directory

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrListUnavailable is returned by ListAll for every kind of failure.
var ErrListUnavailable = errors.New("could not retrieve users")

// Op names a remote operation for error reporting.
type Op string

const (
	OpList   Op = "list users"
	OpCreate Op = "create user"
	OpGet    Op = "get user"
)

// fallback messages used when the service does not explain a failure.
const (
	msgCreateFailed = "Failed to create user"
	msgNotFound     = "User not found"
	msgUnreachable  = "backend unreachable"
)

// TransportError means no response was received at all (connection refused,
// DNS failure, timeout, cancelled context).
type TransportError struct {
	Op  Op
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, msgUnreachable)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ApplicationError is a response outside the 2xx range, or a 2xx response
// whose body could not be decoded.
type ApplicationError struct {
	Op         Op
	StatusCode int
	// Message is the service-provided error text; empty when the body had none.
	Message string
	// FieldErrors holds per-field validation messages when the service sent them.
	FieldErrors map[string]string
	Err         error
}

func (e *ApplicationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Fallback()
}

func (e *ApplicationError) Unwrap() error {
	return e.Err
}

// Fallback returns the generic message for the failed operation.
func (e *ApplicationError) Fallback() string {
	switch e.Op {
	case OpGet:
		return msgNotFound
	case OpCreate:
		return msgCreateFailed
	default:
		return ErrListUnavailable.Error()
	}
}

// FieldErrorList returns "field: message" pairs sorted by field name.
func (e *ApplicationError) FieldErrorList() []string {
	out := make([]string, 0, len(e.FieldErrors))
	for field, msg := range e.FieldErrors {
		out = append(out, field+": "+msg)
	}
	sort.Strings(out)
	return out
}

// IsNotFound reports whether err is a 404 from the service.
func IsNotFound(err error) bool {
	var appErr *ApplicationError
	return errors.As(err, &appErr) && appErr.StatusCode == 404
}

// IsTransport reports whether err means the service could not be reached.
func IsTransport(err error) bool {
	var tErr *TransportError
	return errors.As(err, &tErr)
}

func describeFieldErrors(fields map[string]string) string {
	if len(fields) == 0 {
		return ""
	}
	e := &ApplicationError{FieldErrors: fields}
	return strings.Join(e.FieldErrorList(), ", ")
}
