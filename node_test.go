// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package stratum

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func orderedNames(order []*node) []string {
	names := make([]string, len(order))
	for i, n := range order {
		names[i] = n.mod.name
	}
	return names
}

func TestBuildTree(t *testing.T) {
	t.Run("will share one node", func(t *testing.T) {
		t.Run("if two parents compose the same module under the global scope", func(t *testing.T) {
			shared := New("shared")
			a := New("a").Use(shared)
			b := New("b").Use(shared)
			root := New("root").Use(a).Use(b)

			cache := make(map[*Module]map[any]*node)
			tree := buildTree(root, &scopeToken{}, cache)

			require.Same(t, tree.children[0].node.children[0].node, tree.children[1].node.children[0].node)
		})

		t.Run("if two parents compose the same module under the same named scope", func(t *testing.T) {
			shared := New("shared")
			a := New("a").Use(shared, InScope("db"))
			b := New("b").Use(shared, InScope("db"))
			root := New("root").Use(a).Use(b)

			cache := make(map[*Module]map[any]*node)
			tree := buildTree(root, &scopeToken{}, cache)

			require.Same(t, tree.children[0].node.children[0].node, tree.children[1].node.children[0].node)
		})
	})

	t.Run("will instantiate separate nodes", func(t *testing.T) {
		t.Run("if two parents compose the same module under their own scopes", func(t *testing.T) {
			shared := New("shared")
			a := New("a").Use(shared, InOwnScope())
			b := New("b").Use(shared, InOwnScope())
			root := New("root").Use(a).Use(b)

			cache := make(map[*Module]map[any]*node)
			tree := buildTree(root, &scopeToken{}, cache)

			require.NotSame(t, tree.children[0].node.children[0].node, tree.children[1].node.children[0].node)
		})

		t.Run("if two parents compose the same module under different named scopes", func(t *testing.T) {
			shared := New("shared")
			a := New("a").Use(shared, InScope("x"))
			b := New("b").Use(shared, InScope("y"))
			root := New("root").Use(a).Use(b)

			cache := make(map[*Module]map[any]*node)
			tree := buildTree(root, &scopeToken{}, cache)

			require.NotSame(t, tree.children[0].node.children[0].node, tree.children[1].node.children[0].node)
		})
	})
}

func TestLoadOrder(t *testing.T) {
	t.Run("will order children before parents", func(t *testing.T) {
		t.Run("if the modules form a chain", func(t *testing.T) {
			c := New("c")
			b := New("b").Use(c)
			a := New("a").Use(b)

			cache := make(map[*Module]map[any]*node)
			order := loadOrder(buildTree(a, &scopeToken{}, cache))

			require.Equal(t, []string{"c", "b", "a"}, orderedNames(order))
		})

		t.Run("if the modules form a diamond", func(t *testing.T) {
			shared := New("shared")
			a := New("a").Use(shared)
			b := New("b").Use(shared)
			root := New("root").Use(a).Use(b)

			cache := make(map[*Module]map[any]*node)
			order := loadOrder(buildTree(root, &scopeToken{}, cache))

			// The shared node is visited exactly once, through the
			// first edge which reaches it.
			require.Equal(t, []string{"shared", "a", "b", "root"}, orderedNames(order))
		})
	})

	t.Run("will follow edge declaration order", func(t *testing.T) {
		t.Run("if a module composes multiple siblings", func(t *testing.T) {
			one := New("one")
			two := New("two")
			root := New("root").Use(one).Use(two)

			cache := make(map[*Module]map[any]*node)
			order := loadOrder(buildTree(root, &scopeToken{}, cache))

			require.Equal(t, []string{"one", "two", "root"}, orderedNames(order))
		})
	})
}
