// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"fmt"
	"io"

	"github.com/z5labs/stratum/internal/try"

	"gopkg.in/yaml.v3"
)

// YAML represents a [Source] where its underlying format is YAML.
type YAML struct {
	r io.Reader
}

// FromYAML returns a source which will apply its config from YAML
// values parsed from the given [io.Reader].
func FromYAML(r io.Reader) YAML {
	return YAML{r: r}
}

// InvalidYAMLError occurs if the underlying [io.Reader] contains invalid YAML.
type InvalidYAMLError struct {
	Cause error
}

// Error implements the [builtin.error] interface.
func (e InvalidYAMLError) Error() string {
	return fmt.Sprintf("invalid yaml: %s", e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e InvalidYAMLError) Unwrap() error {
	return e.Cause
}

// Apply implements the [Source] interface.
func (src YAML) Apply(store Store) (err error) {
	c, _ := src.r.(io.Closer)
	defer try.Close(&err, c)

	b, err := io.ReadAll(src.r)
	if err != nil {
		return err
	}

	m := make(map[string]any)
	err = yaml.Unmarshal(b, &m)
	if err != nil {
		return InvalidYAMLError{Cause: err}
	}
	return Map(m).Apply(store)
}
