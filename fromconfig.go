// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package stratum

import (
	"github.com/z5labs/stratum/config"
)

// FromConfig builds a [Module] whose top-level config keys are declared
// as global store providers, so every composing ancestor observes the
// merged configuration through its context. Sources are read the same
// way [config.Read] reads them: subsequent sources override previous
// ones.
func FromConfig(name string, srcs ...config.Source) *Module {
	m := New(name)

	mgr, err := config.Read(srcs...)
	if err != nil {
		return m.fail(ConfigurationError{
			Module: name,
			Reason: "failed to read config source(s)",
			Cause:  err,
		})
	}

	values := make(map[string]any)
	err = mgr.Unmarshal(&values)
	if err != nil {
		return m.fail(ConfigurationError{
			Module: name,
			Reason: "failed to unmarshal config source(s)",
			Cause:  err,
		})
	}
	return m.StateAll(values, WithScope(ScopeGlobal))
}
