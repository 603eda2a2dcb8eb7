// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package stratum

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModule_builder(t *testing.T) {
	t.Run("will never mutate the receiver", func(t *testing.T) {
		t.Run("if providers are declared on a derived module", func(t *testing.T) {
			base := New("base")
			derived := base.Decorate("port", 3000)

			require.NotSame(t, base, derived)
			require.Empty(t, base.def.providers)
			require.Len(t, derived.def.providers, 1)
		})

		t.Run("if two modules derive from the same base", func(t *testing.T) {
			base := New("base").Decorate("host", "localhost")
			a := base.Decorate("port", 3000)
			b := base.Decorate("port", 8080)

			require.Len(t, a.def.providers, 2)
			require.Len(t, b.def.providers, 2)
			require.Equal(t, 3000, a.def.providers[1].value)
			require.Equal(t, 8080, b.def.providers[1].value)
		})
	})

	t.Run("will stick to the first recorded error", func(t *testing.T) {
		t.Run("if later builder calls are made", func(t *testing.T) {
			m := New("api").Decorate("decorator", 1).Decorate("port", 3000)

			var cerr ConfigurationError
			require.ErrorAs(t, m.Err(), &cerr)
			require.ErrorIs(t, m.Start(context.Background()), m.Err())
			require.False(t, m.IsRunning())
		})
	})
}

func TestModule_Use(t *testing.T) {
	t.Run("will be idempotent", func(t *testing.T) {
		t.Run("if the same module is composed twice under the global scope", func(t *testing.T) {
			child := New("child")
			parent := New("parent").Use(child)

			require.Same(t, parent, parent.Use(child))
		})

		t.Run("if the same module is composed twice under the same named scope", func(t *testing.T) {
			child := New("child")
			parent := New("parent").Use(child, InScope("a"))

			require.Same(t, parent, parent.Use(child, InScope("a")))
		})
	})

	t.Run("will append a new edge", func(t *testing.T) {
		t.Run("if the same module is composed under its own scope", func(t *testing.T) {
			child := New("child")
			parent := New("parent").Use(child).Use(child, InOwnScope())

			require.Len(t, parent.def.uses, 2)
		})
	})

	t.Run("will fold over every module", func(t *testing.T) {
		t.Run("if multiple modules are composed at once", func(t *testing.T) {
			one := New("one")
			two := New("two")
			parent := New("parent").UseEach(one, two)

			require.Len(t, parent.def.uses, 2)
			require.Same(t, one, parent.def.uses[0].target)
			require.Same(t, two, parent.def.uses[1].target)
		})
	})

	t.Run("will record an InvalidModuleError", func(t *testing.T) {
		t.Run("if the module is nil", func(t *testing.T) {
			m := New("parent").Use(nil)

			var ierr InvalidModuleError
			require.ErrorAs(t, m.Err(), &ierr)
		})
	})

	t.Run("will propagate the composed modules recorded error", func(t *testing.T) {
		t.Run("if the composed module failed a builder call", func(t *testing.T) {
			child := New("child").Decorate("store", 1, WithMode(Mode("bogus")))
			parent := New("parent").Use(child)

			require.ErrorIs(t, parent.Err(), child.Err())
		})
	})
}

func TestModule_Apply(t *testing.T) {
	t.Run("will return the transformed module", func(t *testing.T) {
		t.Run("if the transform func returns a module", func(t *testing.T) {
			m := New("api").Apply(func(m *Module) *Module {
				return m.Decorate("port", 3000)
			})

			require.NoError(t, m.Err())
			require.Len(t, m.def.providers, 1)
		})
	})

	t.Run("will record an InvalidModuleError", func(t *testing.T) {
		t.Run("if the transform func is nil", func(t *testing.T) {
			m := New("api").Apply(nil)

			var ierr InvalidModuleError
			require.ErrorAs(t, m.Err(), &ierr)
		})

		t.Run("if the transform func returns nil", func(t *testing.T) {
			m := New("api").Apply(func(m *Module) *Module {
				return nil
			})

			var ierr InvalidModuleError
			require.ErrorAs(t, m.Err(), &ierr)
		})
	})
}

func TestModule_Extend(t *testing.T) {
	t.Run("will expose the extension on composing modules", func(t *testing.T) {
		t.Run("if the extending module is composed", func(t *testing.T) {
			plugin := New("plugin").Extend("register", func(m *Module, args ...any) *Module {
				return m.Decorate(args[0].(string), "registered")
			})

			app := New("app").Use(plugin)
			out := app.Ext("register", "x")

			require.NoError(t, out.Err())
			require.NotSame(t, app, out)
			// The pre-call app value is untouched.
			require.Empty(t, app.def.providers)
			require.Len(t, out.def.providers, 1)
		})
	})

	t.Run("will record an ExtensionCollisionError", func(t *testing.T) {
		t.Run("if two composed modules register the same name", func(t *testing.T) {
			fn := func(m *Module, args ...any) *Module { return m }
			a := New("a").Extend("register", fn)
			b := New("b").Extend("register", fn)

			app := New("app").Use(a).Use(b)

			var cerr ExtensionCollisionError
			require.ErrorAs(t, app.Err(), &cerr)
			assert.Equal(t, "register", cerr.Name)
			assert.Equal(t, "a", cerr.First)
			assert.Equal(t, "b", cerr.Second)
		})

		t.Run("if a module reuses one of its own extension names", func(t *testing.T) {
			fn := func(m *Module, args ...any) *Module { return m }
			m := New("a").Extend("register", fn).Extend("register", fn)

			var cerr ExtensionCollisionError
			require.ErrorAs(t, m.Err(), &cerr)
		})
	})

	t.Run("will record a ConfigurationError", func(t *testing.T) {
		t.Run("if the extension func is nil", func(t *testing.T) {
			m := New("a").Extend("register", nil)

			var cerr ConfigurationError
			require.ErrorAs(t, m.Err(), &cerr)
		})

		t.Run("if an unknown extension is invoked", func(t *testing.T) {
			m := New("a").Ext("register")

			var cerr ConfigurationError
			require.ErrorAs(t, m.Err(), &cerr)
		})
	})

	t.Run("will record an InvalidModuleError", func(t *testing.T) {
		t.Run("if the extension returns nil", func(t *testing.T) {
			m := New("a").
				Extend("register", func(m *Module, args ...any) *Module {
					return nil
				}).
				Ext("register")

			var ierr InvalidModuleError
			require.ErrorAs(t, m.Err(), &ierr)
		})
	})
}
