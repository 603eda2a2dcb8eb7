// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package stratum

import "fmt"

// ConfigurationError occurs when a builder method is called with invalid
// arguments, for example a reserved provider key or a missing required
// option.
type ConfigurationError struct {
	Module string
	Reason string
	Cause  error
}

// Error implements the [builtin.error] interface.
func (e ConfigurationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %s", e.Module, e.Reason, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Module, e.Reason)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e ConfigurationError) Unwrap() error {
	return e.Cause
}

// CollisionError occurs when a provider key is supplied twice under
// append semantics: either the declaring module repeats one of its own
// keys, or two composed modules export the same key to the same parent.
type CollisionError struct {
	// Module is the module in which the collision was detected.
	Module string

	Kind Kind
	Key  string

	// First and Second name the modules which supplied the colliding
	// key. For a duplicate declaration both equal Module.
	First  string
	Second string
}

// Error implements the [builtin.error] interface.
func (e CollisionError) Error() string {
	if e.First == e.Second {
		return fmt.Sprintf("%s: %s key %q is already declared", e.Module, e.Kind, e.Key)
	}
	return fmt.Sprintf("%s: %s key %q is exported by both %s and %s", e.Module, e.Kind, e.Key, e.First, e.Second)
}

// ExtensionCollisionError occurs when composing modules would register
// the same extension name twice.
type ExtensionCollisionError struct {
	Name   string
	First  string
	Second string
}

// Error implements the [builtin.error] interface.
func (e ExtensionCollisionError) Error() string {
	return fmt.Sprintf("extension %q is registered by both %s and %s", e.Name, e.First, e.Second)
}

// InvalidModuleError occurs when a composition method is given something
// which is not a usable module, for example a nil module or a transform
// func returning nil.
type InvalidModuleError struct {
	Reason string
}

// Error implements the [builtin.error] interface.
func (e InvalidModuleError) Error() string {
	return e.Reason
}

// NotRunningError occurs when [Module.Context] is accessed while the
// module is not running.
type NotRunningError struct {
	Module string
}

// Error implements the [builtin.error] interface.
func (e NotRunningError) Error() string {
	return fmt.Sprintf("%s: module is not running", e.Module)
}

// LoadError occurs when resolving a modules providers or running one of
// its load hooks fails during [Module.Start].
type LoadError struct {
	// Module is the module whose load failed, which is not necessarily
	// the module Start was called on.
	Module string

	Cause error
}

// Error implements the [builtin.error] interface.
func (e LoadError) Error() string {
	return fmt.Sprintf("failed to load %s: %s", e.Module, e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e LoadError) Unwrap() error {
	return e.Cause
}

// UnloadError occurs when one of a modules unload hooks fails during
// [Module.Stop]. Stop keeps unloading past failures and joins every
// UnloadError into its returned error.
type UnloadError struct {
	Module string
	Cause  error
}

// Error implements the [builtin.error] interface.
func (e UnloadError) Error() string {
	return fmt.Sprintf("failed to unload %s: %s", e.Module, e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e UnloadError) Unwrap() error {
	return e.Cause
}
