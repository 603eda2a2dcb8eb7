// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package try provides small helpers for folding panics and deferred
// cleanup failures into a funcs returned error.
package try

import (
	"errors"
	"fmt"
	"io"
)

// PanicError wraps the value a goroutine panicked with.
type PanicError struct {
	Value any
}

// Error implements the [builtin.error] interface.
func (e PanicError) Error() string {
	return fmt.Sprintf("recovered from panic: %v", e.Value)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e PanicError) Unwrap() error {
	err, ok := e.Value.(error)
	if !ok {
		return nil
	}
	return err
}

// Recover is meant to be deferred. Any recovered panic value is joined
// into the error referenced by err as a [PanicError].
func Recover(err *error) {
	r := recover()
	if r == nil {
		return
	}
	*err = errors.Join(*err, PanicError{Value: r})
}

// Close is meant to be deferred. If c is non-nil, its Close error is
// joined into the error referenced by err.
func Close(err *error, c io.Closer) {
	if c == nil {
		return
	}
	*err = errors.Join(*err, c.Close())
}
