// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package health

import (
	"context"
	"fmt"

	"github.com/z5labs/stratum"
)

// DecoratorKey is the provider key under which [Module] decorates
// its [Monitor].
const DecoratorKey = "health"

// Module returns a module which globally decorates a shared [Monitor]
// and contributes a "healthcheck" extension. Composing modules can then
// register named metrics fluently:
//
//	app := stratum.New("app").
//		Use(health.Module()).
//		Ext("healthcheck", "db", &dbMetric)
func Module() *stratum.Module {
	return stratum.New("health").
		Decorate(DecoratorKey, &Monitor{}, stratum.WithScope(stratum.ScopeGlobal)).
		Extend("healthcheck", registerMetric)
}

func registerMetric(m *stratum.Module, args ...any) *stratum.Module {
	return m.OnLoad(stratum.HookFunc(func(ctx context.Context, c *stratum.Context) error {
		if len(args) != 2 {
			return fmt.Errorf("healthcheck extension requires a name and a metric, got %d args", len(args))
		}
		name, ok := args[0].(string)
		if !ok {
			return fmt.Errorf("healthcheck extension requires the first arg to be a string name")
		}
		metric, ok := args[1].(Metric)
		if !ok {
			return fmt.Errorf("healthcheck extension requires the second arg to be a health.Metric")
		}

		v, ok := c.Decorator(DecoratorKey)
		if !ok {
			return fmt.Errorf("no health monitor is visible to module; was health.Module() composed?")
		}
		monitor, ok := v.(*Monitor)
		if !ok {
			return fmt.Errorf("the %q decorator is not a health.Monitor", DecoratorKey)
		}

		monitor.Set(name, metric)
		return nil
	}))
}
