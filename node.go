// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package stratum

// providerMap holds one key value namespace per provider [Kind].
type providerMap map[Kind]map[string]any

func newProviderMap() providerMap {
	pm := make(providerMap, len(kinds))
	for _, kind := range kinds {
		pm[kind] = make(map[string]any)
	}
	return pm
}

// origin records, per "kind:key", which module supplied a provider and
// which runtime node originally declared it. The src pointer is what
// lets the import pass tell a shared node arriving via a second parent
// apart from a genuine collision.
type origin struct {
	module string
	src    *node
}

func originKey(kind Kind, key string) string {
	return string(kind) + ":" + key
}

type childEdge struct {
	node       *node
	transitive bool
}

// node is the instantiation of one module definition at one scope
// identity. Nodes live for exactly one Start/Stop cycle; Stop discards
// the whole tree.
type node struct {
	mod         *Module
	initialized bool

	// local answers what this modules own hooks can see, exported what
	// the direct parent imports and propagated what keeps flowing past
	// the direct parent. Collapsing them would make scoped and global
	// visibility indistinguishable.
	local      providerMap
	exported   providerMap
	propagated providerMap

	// exportSrc maps each exported "kind:key" to the node which
	// originally declared it, surviving propagation unchanged.
	exportSrc map[string]*node

	origins  map[string]origin
	cbctx    *Context
	children []childEdge
}

func newNode(mod *Module) *node {
	return &node{
		mod:        mod,
		local:      newProviderMap(),
		exported:   newProviderMap(),
		propagated: newProviderMap(),
		exportSrc:  make(map[string]*node),
		origins:    make(map[string]origin),
	}
}

// buildTree expands a module definition into its runtime node tree,
// memoized by (definition identity, scope identity) so a diamond shaped
// composition graph instantiates each shared module exactly once. The
// node is cached before its children are built, which keeps an
// accidentally cyclic graph from recursing forever.
func buildTree(mod *Module, scope any, cache map[*Module]map[any]*node) *node {
	byScope, ok := cache[mod]
	if !ok {
		byScope = make(map[any]*node)
		cache[mod] = byScope
	}
	if n, ok := byScope[scope]; ok {
		return n
	}

	n := newNode(mod)
	byScope[scope] = n

	for _, edge := range mod.def.uses {
		child := buildTree(edge.target, edge.scope, cache)
		n.children = append(n.children, childEdge{
			node:       child,
			transitive: edge.transitive,
		})
	}
	return n
}

// loadOrder returns a post-order traversal of the tree: children before
// parents, each node exactly once, siblings in edge declaration order.
// Unload order is the reverse of this.
func loadOrder(root *node) []*node {
	var order []*node
	visited := make(map[*node]struct{})

	var walk func(*node)
	walk = func(n *node) {
		if _, ok := visited[n]; ok {
			return
		}
		visited[n] = struct{}{}
		for _, edge := range n.children {
			walk(edge.node)
		}
		order = append(order, n)
	}
	walk(root)
	return order
}
