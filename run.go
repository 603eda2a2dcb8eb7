// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package stratum

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/z5labs/stratum"

// Start instantiates the modules runtime tree and runs every composed
// modules load hooks in dependency order, children before parents,
// awaiting each hook before the next. Starting an already running module
// is a no-op.
//
// If resolving a provider or running a hook fails, the partially built
// tree is discarded, the module resets to not running and the failure is
// returned as a [LoadError]. Load hooks which already ran are not
// unwound on this path; a caller needing rollback must Stop around its
// own bookkeeping.
func (m *Module) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return nil
	}
	if m.err != nil {
		m.mu.Unlock()
		return m.err
	}

	cache := make(map[*Module]map[any]*node)
	root := buildTree(m, &scopeToken{}, cache)
	order := loadOrder(root)

	// Running is observable before any hook executes, so hooks can
	// reach Module.Context once their own node has resolved.
	m.running = true
	m.root = root
	m.order = order
	m.mu.Unlock()

	ctx, span := otel.Tracer(tracerName).Start(ctx, "Module.Start", trace.WithAttributes(
		attribute.String("module.name", m.name),
	))
	defer span.End()

	err := m.load(ctx, order)
	if err == nil {
		return nil
	}
	span.RecordError(err)

	m.mu.Lock()
	m.running = false
	m.root = nil
	m.order = nil
	m.mu.Unlock()
	return err
}

func (m *Module) load(ctx context.Context, order []*node) error {
	for _, n := range order {
		nctx, span := otel.Tracer(tracerName).Start(ctx, "load", trace.WithAttributes(
			attribute.String("module.name", n.mod.name),
		))

		err := n.resolve(nctx)
		if err == nil {
			for _, hook := range n.mod.def.onLoad {
				m.log.Debug("running onLoad hook", slog.String("module", n.mod.name))
				err = hook.Run(nctx, n.cbctx)
				if err != nil {
					break
				}
			}
		}
		if err != nil {
			span.RecordError(err)
			span.End()
			return LoadError{Module: n.mod.name, Cause: err}
		}
		span.End()
	}
	return nil
}

// Stop runs every composed modules unload hooks in the reverse of the
// load order, awaiting each hook before the next, then discards the
// runtime tree. Every hook runs even when an earlier one fails; the
// failures are joined as [UnloadError]s. Stopping a module which is not
// running is a no-op.
func (m *Module) Stop(ctx context.Context) error {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return nil
	}
	order := m.order
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.running = false
		m.root = nil
		m.order = nil
		m.mu.Unlock()
	}()

	ctx, span := otel.Tracer(tracerName).Start(ctx, "Module.Stop", trace.WithAttributes(
		attribute.String("module.name", m.name),
	))
	defer span.End()

	var errs []error
	for i := len(order) - 1; i >= 0; i-- {
		n := order[i]
		for _, hook := range n.mod.def.onUnload {
			m.log.Debug("running onUnload hook", slog.String("module", n.mod.name))
			err := hook.Run(ctx, n.cbctx)
			if err != nil {
				errs = append(errs, UnloadError{Module: n.mod.name, Cause: err})
			}
		}
	}
	if len(errs) == 0 {
		return nil
	}
	err := errors.Join(errs...)
	span.RecordError(err)
	return err
}

// IsRunning reports whether the module is between a successful Start
// and the next Stop.
func (m *Module) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// Context returns the root modules merged provider context. It fails
// with a [NotRunningError] unless the module is running.
func (m *Module) Context() (*Context, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running || m.root == nil || m.root.cbctx == nil {
		return nil, NotRunningError{Module: m.name}
	}
	return m.root.cbctx, nil
}
