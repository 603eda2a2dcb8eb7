// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package stratum

import "maps"

// Context is the merged provider context of one module instance. It is
// handed to lifecycle hooks and decorator factories and exposes the
// decorators visible to the module, flattened, alongside the decorator
// and store namespaces.
//
// Context does not copy provider values. Store values are shared with
// every module observing the same instance, so hooks mutating state
// through a store should do so via reference types.
type Context struct {
	decorators map[string]any
	stores     map[string]any
}

// Value returns the decorator registered under key, or nil if there is
// none. It is the flattened counterpart of [Context.Decorator].
func (c *Context) Value(key string) any {
	return c.decorators[key]
}

// Decorator returns the decorator registered under key and whether it
// is present.
func (c *Context) Decorator(key string) (any, bool) {
	v, ok := c.decorators[key]
	return v, ok
}

// Store returns the store value registered under key and whether it
// is present.
func (c *Context) Store(key string) (any, bool) {
	v, ok := c.stores[key]
	return v, ok
}

// Decorators returns a copy of the decorator namespace.
func (c *Context) Decorators() map[string]any {
	return maps.Clone(c.decorators)
}

// Stores returns a copy of the store namespace. The values themselves
// are not copied.
func (c *Context) Stores() map[string]any {
	return maps.Clone(c.stores)
}
