// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/z5labs/stratum/internal/try"
)

// JSON represents a [Source] where its underlying format is JSON.
type JSON struct {
	r io.Reader
}

// FromJSON returns a source which will apply its config from JSON
// values parsed from the given [io.Reader].
func FromJSON(r io.Reader) JSON {
	return JSON{r: r}
}

// InvalidJSONError occurs if the underlying [io.Reader] contains invalid JSON.
type InvalidJSONError struct {
	Cause error
}

// Error implements the [builtin.error] interface.
func (e InvalidJSONError) Error() string {
	return fmt.Sprintf("invalid json: %s", e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e InvalidJSONError) Unwrap() error {
	return e.Cause
}

// Apply implements the [Source] interface.
func (src JSON) Apply(store Store) (err error) {
	c, _ := src.r.(io.Closer)
	defer try.Close(&err, c)

	b, err := io.ReadAll(src.r)
	if err != nil {
		return err
	}

	m := make(map[string]any)
	err = json.Unmarshal(b, &m)
	if err != nil {
		return InvalidJSONError{Cause: err}
	}
	return Map(m).Apply(store)
}
