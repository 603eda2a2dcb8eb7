// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package stratum

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/z5labs/stratum/lifecycle"
)

// Hook represents functionality that needs to be performed at a specific
// "time" relative to a [Module]s lifecycle. Load hooks run in dependency
// order, unload hooks in the reverse order. The [Context] handed to a hook
// is the fully merged provider context of the module which registered it.
type Hook = lifecycle.Hook[*Context]

// HookFunc is a convenient helper type for implementing a [Hook]
// from just a regular func.
type HookFunc = lifecycle.HookFunc[*Context]

// Extension is a named builder method contributed by a module. It is
// invoked with the composing builder instance as its receiver and must
// return the [Module] produced by the call.
type Extension func(m *Module, args ...any) *Module

type extension struct {
	owner string
	fn    Extension
}

// definition is the immutable blueprint of one modules providers, hooks
// and dependency edges. Builder methods never mutate a definition in
// place; they shallow-copy the relevant sequence and append to the copy,
// so prior Module values stay valid and reusable.
type definition struct {
	providers []providerEntry
	onLoad    []Hook
	onUnload  []Hook
	uses      []useEdge
}

// useEdge is a dependency from one module definition to another. The
// target is a shared reference; its identity, together with the scope
// identity, decides instantiation sharing during Start.
type useEdge struct {
	target     *Module
	scope      any
	transitive bool
}

// globalScope is the process-wide scope sentinel. Every Use call without
// an explicit scope option shares it, which is what makes a module
// composed by two different parents instantiate exactly once.
type globalScope struct{}

// scopeToken values are compared by pointer, giving each InOwnScope call
// (and each Start invocation, for the synthetic root scope) a fresh
// instantiation identity.
type scopeToken struct{ _ byte }

// Module is an immutable module definition together with the runtime
// state of its lifecycle. All builder methods return a new Module value;
// Start, Stop and Context operate on the receiver itself.
type Module struct {
	name string
	log  *slog.Logger
	def  definition
	exts map[string]extension
	err  error

	mu      sync.Mutex
	running bool
	root    *node
	order   []*node
}

// Option configures optional behaviour of a [Module].
type Option func(*Module)

// WithLogger sets the [slog.Logger] used for lifecycle debug logging.
func WithLogger(log *slog.Logger) Option {
	return func(m *Module) {
		m.log = log
	}
}

// New returns a [Module] with the given name, an empty definition and an
// empty extension registry.
func New(name string, opts ...Option) *Module {
	m := &Module{
		name: name,
		log:  slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Name returns the name the module was constructed with.
func (m *Module) Name() string {
	return m.name
}

// Err returns the first error recorded by a builder method, if any.
// Once a builder call fails every subsequent call is a no-op and the
// recorded error is also returned by [Module.Start].
func (m *Module) Err() error {
	return m.err
}

func (m *Module) clone() *Module {
	return &Module{
		name: m.name,
		log:  m.log,
		def:  m.def,
		exts: maps.Clone(m.exts),
		err:  m.err,
	}
}

func (m *Module) fail(err error) *Module {
	if m.err != nil {
		return m
	}
	next := m.clone()
	next.err = err
	return next
}

// OnLoad appends a lifecycle hook to run once the modules merged provider
// context is available during [Module.Start].
func (m *Module) OnLoad(hook Hook) *Module {
	if m.err != nil {
		return m
	}
	if hook == nil {
		return m.fail(ConfigurationError{Module: m.name, Reason: "onLoad requires a hook"})
	}
	next := m.clone()
	next.def.onLoad = append(slices.Clip(next.def.onLoad), hook)
	return next
}

// OnUnload appends a lifecycle hook to run during [Module.Stop].
func (m *Module) OnUnload(hook Hook) *Module {
	if m.err != nil {
		return m
	}
	if hook == nil {
		return m.fail(ConfigurationError{Module: m.name, Reason: "onUnload requires a hook"})
	}
	next := m.clone()
	next.def.onUnload = append(slices.Clip(next.def.onUnload), hook)
	return next
}

type useConfig struct {
	scope      any
	transitive bool
}

// UseOption configures a single [Module.Use] composition edge.
type UseOption func(*useConfig)

// InScope instantiates the composed module under a caller supplied scope
// name. Edges sharing the same name share one runtime instance; the name
// is compared by value.
func InScope(name string) UseOption {
	return func(cfg *useConfig) {
		cfg.scope = name
	}
}

// InOwnScope instantiates the composed module under a scope identity
// unique to this Use call, even if the same definition is composed
// elsewhere.
func InOwnScope() UseOption {
	return func(cfg *useConfig) {
		cfg.scope = &scopeToken{}
	}
}

// Scoped limits the composed modules exports to the direct parent: its
// propagated providers do not continue flowing further up the ancestry.
func Scoped() UseOption {
	return func(cfg *useConfig) {
		cfg.transitive = false
	}
}

// Use composes another module into this one. Composing the same module
// under the same scope identity twice is idempotent and returns the
// receiver unchanged. The composed modules extension registry is merged
// into this one; a name registered by two different modules results in an
// [ExtensionCollisionError].
func (m *Module) Use(mod *Module, opts ...UseOption) *Module {
	if m.err != nil {
		return m
	}
	if mod == nil {
		return m.fail(InvalidModuleError{Reason: "use requires a non-nil module"})
	}
	if mod.err != nil {
		return m.fail(mod.err)
	}

	cfg := useConfig{
		scope:      globalScope{},
		transitive: true,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	for _, e := range m.def.uses {
		if e.target == mod && e.scope == cfg.scope {
			return m
		}
	}

	next := m.clone()
	for _, name := range sortedKeys(mod.exts) {
		in := mod.exts[name]
		if cur, ok := next.exts[name]; ok {
			if cur.owner == in.owner {
				continue
			}
			return m.fail(ExtensionCollisionError{Name: name, First: cur.owner, Second: in.owner})
		}
		if next.exts == nil {
			next.exts = make(map[string]extension)
		}
		next.exts[name] = in
	}
	next.def.uses = append(slices.Clip(next.def.uses), useEdge{
		target:     mod,
		scope:      cfg.scope,
		transitive: cfg.transitive,
	})
	return next
}

// UseEach folds [Module.Use] over the given modules, left to right, with
// default composition options.
func (m *Module) UseEach(mods ...*Module) *Module {
	for _, mod := range mods {
		m = m.Use(mod)
	}
	return m
}

// Apply passes the current builder instance through fn. It exists for
// composing transform style helpers into a builder chain; fn must return
// a non-nil [Module].
func (m *Module) Apply(fn func(*Module) *Module) *Module {
	if m.err != nil {
		return m
	}
	if fn == nil {
		return m.fail(InvalidModuleError{Reason: "apply requires a non-nil transform func"})
	}
	out := fn(m)
	if out == nil {
		return m.fail(InvalidModuleError{Reason: "transform func returned a nil module"})
	}
	return out
}

// Extend registers a named [Extension] on this module. The name becomes
// available through [Module.Ext] on this module and, after composition,
// on every module which uses this one.
func (m *Module) Extend(name string, fn Extension) *Module {
	if m.err != nil {
		return m
	}
	if name == "" {
		return m.fail(ConfigurationError{Module: m.name, Reason: "extension requires a name"})
	}
	if fn == nil {
		return m.fail(ConfigurationError{Module: m.name, Reason: fmt.Sprintf("extension %q requires a func", name)})
	}
	if cur, ok := m.exts[name]; ok {
		return m.fail(ExtensionCollisionError{Name: name, First: cur.owner, Second: m.name})
	}
	next := m.clone()
	if next.exts == nil {
		next.exts = make(map[string]extension)
	}
	next.exts[name] = extension{owner: m.name, fn: fn}
	return next
}

// ExtendAll registers every named func in fns. Names are applied in
// sorted order so failures are deterministic.
func (m *Module) ExtendAll(fns map[string]Extension) *Module {
	for _, name := range sortedKeys(fns) {
		m = m.Extend(name, fns[name])
	}
	return m
}

// Ext invokes the named [Extension] with the current builder instance as
// its receiver and returns the module the extension produced. The
// receiver itself is never mutated.
func (m *Module) Ext(name string, args ...any) *Module {
	if m.err != nil {
		return m
	}
	e, ok := m.exts[name]
	if !ok {
		return m.fail(ConfigurationError{Module: m.name, Reason: fmt.Sprintf("unknown extension %q", name)})
	}
	out := e.fn(m, args...)
	if out == nil {
		return m.fail(InvalidModuleError{Reason: fmt.Sprintf("extension %q returned a nil module", name)})
	}
	return out
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
