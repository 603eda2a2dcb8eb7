// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package lifecycle provides helpers for defining actions to execute relative to a modules lifecycle.
package lifecycle

import (
	"context"
	"errors"
)

// Hook represents functionality that needs to be performed at a specific
// "time" relative to a modules lifecycle. T is whatever payload the hosting
// runtime hands to its hooks, for example a provider context.
type Hook[T any] interface {
	Run(context.Context, T) error
}

// HookFunc is a func variant of the [Hook] interface.
type HookFunc[T any] func(context.Context, T) error

// Run implements the [Hook] interface.
func (f HookFunc[T]) Run(ctx context.Context, v T) error {
	return f(ctx, v)
}

type multiHook[T any] []Hook[T]

func (mh multiHook[T]) Run(ctx context.Context, v T) error {
	errs := make([]error, 0, len(mh))
	for _, h := range mh {
		err := h.Run(ctx, v)
		if err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}
	return errors.Join(errs...)
}

// MultiHook returns a [Hook] that's the logical concatenation of the
// provided [Hook]s. They're applied sequentially and every hook runs
// regardless of whether an earlier one returned an error.
func MultiHook[T any](hooks ...Hook[T]) Hook[T] {
	return multiHook[T](hooks)
}
