// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package app provides helpers for running composed modules as a process entry point.
package app

import (
	"context"
	"os"
	"os/signal"

	"github.com/z5labs/stratum"
	"github.com/z5labs/stratum/internal/try"

	"golang.org/x/sync/errgroup"
)

// Runner represents the entry point for user specific code.
type Runner interface {
	Run(context.Context) error
}

// RunnerFunc is a functional implementation of the [Runner] interface.
type RunnerFunc func(context.Context) error

// Run implements the [Runner] interface.
func (f RunnerFunc) Run(ctx context.Context) error {
	return f(ctx)
}

// FromModule returns a [Runner] which starts the given module, blocks
// until the [context.Context] is done and then stops it. The stop always
// runs once the start succeeded, even if the context was cancelled with
// a non-nil cause.
func FromModule(m *stratum.Module) Runner {
	return RunnerFunc(func(ctx context.Context) error {
		err := m.Start(ctx)
		if err != nil {
			return err
		}

		<-ctx.Done()

		return m.Stop(context.WithoutCancel(ctx))
	})
}

// Recover will wrap the given [Runner] with panic recovery. The
// recovered panic value is returned as a [try.PanicError].
func Recover(r Runner) Runner {
	return RunnerFunc(func(ctx context.Context) (err error) {
		defer try.Recover(&err)

		return r.Run(ctx)
	})
}

// WithSignalNotifications wraps a given [Runner] in an implementation
// that cancels the [context.Context] that's passed to r.Run if an
// [os.Signal] is received by the running process.
func WithSignalNotifications(r Runner, signals ...os.Signal) Runner {
	return RunnerFunc(func(ctx context.Context) error {
		sigCtx, cancel := signal.NotifyContext(ctx, signals...)
		defer cancel()

		return r.Run(sigCtx)
	})
}

// Concurrent takes inspiration from io.MultiWriter to allow users to
// run multiple [Runner]s concurrently. Each module tree still loads and
// unloads sequentially within its own Runner.
func Concurrent(rs ...Runner) Runner {
	return RunnerFunc(func(ctx context.Context) error {
		g, gctx := errgroup.WithContext(ctx)
		for _, r := range rs {
			r := r
			g.Go(func() error {
				return r.Run(gctx)
			})
		}
		return g.Wait()
	})
}
