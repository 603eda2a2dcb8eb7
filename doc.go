// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package stratum composes independent modules into a single startable unit.
//
// A [Module] declares named providers, lifecycle hooks and dependency
// edges through an immutable builder: every builder method returns a new
// Module value, so any intermediate value can be reused and composed by
// multiple parents. Providers come in two kinds, decorators (computed
// values and services) and stores (raw state), and carry a visibility
// scope deciding how far up the composition tree they are observable:
// local to the declaring module, scoped to the direct parent, or global
// to every transitive ancestor.
//
// Start instantiates the composition graph into a runtime tree, sharing
// one instance per (definition, scope identity) pair so a module reached
// through multiple parents loads exactly once, then resolves providers
// and runs load hooks bottom-up. Stop unwinds the hooks in reverse
// order and discards the tree, returning the module to its startable
// state.
//
//	logger := stratum.New("logger").
//		Decorate("logLevel", "info").
//		Decorate("log", newLog, stratum.WithScope(stratum.ScopeScoped))
//
//	api := stratum.New("api").
//		Use(logger).
//		State("port", 3000, stratum.WithScope(stratum.ScopeGlobal)).
//		OnLoad(stratum.HookFunc(listen))
//
//	err := api.Start(ctx)
package stratum
