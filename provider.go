// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package stratum

import (
	"context"
	"fmt"
	"slices"
)

// Kind identifies which provider namespace a declaration belongs to.
type Kind string

const (
	// KindDecorator providers are computed values and services.
	KindDecorator Kind = "decorator"

	// KindStore providers are raw, possibly mutable, state values.
	KindStore Kind = "store"
)

var kinds = []Kind{KindDecorator, KindStore}

// Scope is the visibility tier of a provider.
type Scope string

const (
	// ScopeLocal providers are visible to the declaring module only.
	ScopeLocal Scope = "local"

	// ScopeScoped providers are exported to the direct parent only.
	ScopeScoped Scope = "scoped"

	// ScopeGlobal providers keep propagating to every transitive ancestor.
	ScopeGlobal Scope = "global"
)

// Mode is the collision policy of a provider declaration.
type Mode string

const (
	// ModeAppend fails when the key is already declared by this module.
	ModeAppend Mode = "append"

	// ModeOverride replaces a prior declaration of the key, including
	// its export and propagation records.
	ModeOverride Mode = "override"
)

// Factory computes a decorator value from the declaring modules
// accumulated provider context. Store providers are never treated as
// factories, even when their value happens to be a func.
type Factory func(context.Context, *Context) (any, error)

type providerEntry struct {
	kind    Kind
	key     string
	value   any
	factory Factory
	scope   Scope
	mode    Mode
}

type providerConfig struct {
	scope    Scope
	scopeSet bool
	mode     Mode
}

// ProviderOption configures a single provider declaration.
type ProviderOption func(*providerConfig)

// WithScope sets the visibility tier of the provider. The default
// is [ScopeLocal].
func WithScope(scope Scope) ProviderOption {
	return func(cfg *providerConfig) {
		cfg.scope = scope
		cfg.scopeSet = true
	}
}

// WithMode sets the collision policy of the declaration. The default
// is [ModeAppend].
func WithMode(mode Mode) ProviderOption {
	return func(cfg *providerConfig) {
		cfg.mode = mode
	}
}

// Decorate declares a decorator provider. The value may be a [Factory],
// in which case it is invoked during Start with the modules accumulated
// provider context.
func (m *Module) Decorate(key string, value any, opts ...ProviderOption) *Module {
	return m.provide(KindDecorator, key, value, false, opts)
}

// DecorateAll declares one decorator provider per entry of values, all
// with the same options. Keys are applied in sorted order.
func (m *Module) DecorateAll(values map[string]any, opts ...ProviderOption) *Module {
	for _, key := range sortedKeys(values) {
		m = m.Decorate(key, values[key], opts...)
	}
	return m
}

// State declares a store provider holding the raw value as-is.
func (m *Module) State(key string, value any, opts ...ProviderOption) *Module {
	return m.provide(KindStore, key, value, false, opts)
}

// StateAll declares one store provider per entry of values, all with the
// same options. Keys are applied in sorted order.
func (m *Module) StateAll(values map[string]any, opts ...ProviderOption) *Module {
	for _, key := range sortedKeys(values) {
		m = m.State(key, values[key], opts...)
	}
	return m
}

// Provide declares a provider of an explicit [Kind]. Unlike [Module.Decorate]
// and [Module.State] it requires the visibility tier to be spelled out
// via [WithScope].
func (m *Module) Provide(kind Kind, key string, value any, opts ...ProviderOption) *Module {
	return m.provide(kind, key, value, true, opts)
}

// ProvideAll declares one provider of the given [Kind] per entry of
// values. Keys are applied in sorted order.
func (m *Module) ProvideAll(kind Kind, values map[string]any, opts ...ProviderOption) *Module {
	for _, key := range sortedKeys(values) {
		m = m.Provide(kind, key, values[key], opts...)
	}
	return m
}

func (m *Module) provide(kind Kind, key string, value any, explicitScope bool, opts []ProviderOption) *Module {
	if m.err != nil {
		return m
	}
	if kind != KindDecorator && kind != KindStore {
		return m.fail(ConfigurationError{Module: m.name, Reason: fmt.Sprintf("unknown provider kind %q", kind)})
	}

	cfg := providerConfig{
		scope: ScopeLocal,
		mode:  ModeAppend,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if explicitScope && !cfg.scopeSet {
		return m.fail(ConfigurationError{Module: m.name, Reason: fmt.Sprintf("provide %s %q requires an explicit scope", kind, key)})
	}
	if cfg.scope != ScopeLocal && cfg.scope != ScopeScoped && cfg.scope != ScopeGlobal {
		return m.fail(ConfigurationError{Module: m.name, Reason: fmt.Sprintf("unknown provider scope %q", cfg.scope)})
	}
	if cfg.mode != ModeAppend && cfg.mode != ModeOverride {
		return m.fail(ConfigurationError{Module: m.name, Reason: fmt.Sprintf("unknown provider mode %q", cfg.mode)})
	}

	if key == "" {
		return m.fail(ConfigurationError{Module: m.name, Reason: fmt.Sprintf("%s provider requires a key", kind)})
	}
	if key == string(kind) {
		return m.fail(ConfigurationError{Module: m.name, Reason: fmt.Sprintf("%q is reserved and can not be used as a %s key", key, kind)})
	}

	if cfg.mode == ModeAppend {
		for _, e := range m.def.providers {
			if e.kind == kind && e.key == key {
				return m.fail(CollisionError{
					Module: m.name,
					Kind:   kind,
					Key:    key,
					First:  m.name,
					Second: m.name,
				})
			}
		}
	}

	entry := providerEntry{
		kind:  kind,
		key:   key,
		value: value,
		scope: cfg.scope,
		mode:  cfg.mode,
	}
	if kind == KindDecorator {
		switch f := value.(type) {
		case Factory:
			entry.factory = f
			entry.value = nil
		case func(context.Context, *Context) (any, error):
			entry.factory = f
			entry.value = nil
		}
	}

	next := m.clone()
	next.def.providers = append(slices.Clip(next.def.providers), entry)
	return next
}
