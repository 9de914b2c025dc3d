// Copyright (c) 2026 ToeiRei
// Userdesk - user directory client
// This source code is licensed under the MIT license found in the LICENSE file.

package state

import (
	"errors"
	"fmt"
)

var (
	// ErrBusy is returned by Create while a previous create is still in flight.
	ErrBusy = errors.New("a create request is already in flight")
	// ErrDisposed is returned by operations invoked after Dispose.
	ErrDisposed = errors.New("controller has been disposed")
)

// ValidationError is a local rejection of operator input. It never reaches
// the network.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// IsValidation reports whether err is a local validation rejection.
func IsValidation(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}
