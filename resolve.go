// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package stratum

import "context"

// resolve computes the nodes provider maps and callback context. It runs
// once per node, in dependency order, so every child is fully resolved
// before its parent imports from it.
func (n *node) resolve(ctx context.Context) error {
	if n.initialized {
		return nil
	}

	// Import pass: every key a child exports lands in this nodes local
	// namespace. Two distinct nodes exporting the same key to the same
	// parent is always an error; a shared node reached through multiple
	// children delivers the key once. Declaration modes only govern a
	// modules own declarations, never imports.
	for _, edge := range n.children {
		child := edge.node
		for _, kind := range kinds {
			for _, key := range sortedKeys(child.exported[kind]) {
				k := originKey(kind, key)
				src := child.exportSrc[k]
				if prior, ok := n.origins[k]; ok {
					if prior.src == src {
						continue
					}
					return CollisionError{
						Module: n.mod.name,
						Kind:   kind,
						Key:    key,
						First:  prior.module,
						Second: child.mod.name,
					}
				}
				n.local[kind][key] = child.exported[kind][key]
				n.origins[k] = origin{
					module: child.mod.name,
					src:    src,
				}
			}
		}
	}

	// Propagation pass: global providers of transitive children keep
	// flowing upward, so they re-export from this node with their
	// declaring node intact.
	for _, edge := range n.children {
		if !edge.transitive {
			continue
		}
		for _, kind := range kinds {
			for key, v := range edge.node.propagated[kind] {
				n.exported[kind][key] = v
				n.propagated[kind][key] = v
				n.exportSrc[originKey(kind, key)] = edge.node.exportSrc[originKey(kind, key)]
			}
		}
	}

	// Own declarations apply last, in declaration order. Factories see
	// everything accumulated so far, including earlier own declarations.
	for _, e := range n.mod.def.providers {
		v := e.value
		if e.factory != nil {
			fv, err := e.factory(ctx, &Context{
				decorators: n.local[KindDecorator],
				stores:     n.local[KindStore],
			})
			if err != nil {
				return err
			}
			v = fv
		}

		if e.mode == ModeOverride {
			// An override forgets the prior export and propagation
			// records, so redeclaring a key without an exported scope
			// also un-exports it.
			delete(n.exported[e.kind], e.key)
			delete(n.propagated[e.kind], e.key)
			delete(n.exportSrc, originKey(e.kind, e.key))
		}

		n.local[e.kind][e.key] = v
		if e.scope == ScopeScoped || e.scope == ScopeGlobal {
			n.exported[e.kind][e.key] = v
			n.exportSrc[originKey(e.kind, e.key)] = n
		}
		if e.scope == ScopeGlobal {
			n.propagated[e.kind][e.key] = v
		}
		n.origins[originKey(e.kind, e.key)] = origin{
			module: n.mod.name,
			src:    n,
		}
	}

	n.cbctx = &Context{
		decorators: n.local[KindDecorator],
		stores:     n.local[KindStore],
	}
	n.initialized = true
	return nil
}
