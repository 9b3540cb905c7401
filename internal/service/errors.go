// Package service implements the business logic of ReelTube on top of
// the repository interfaces. Services own validation and authorization;
// repositories own persistence.
package service

import (
	"fmt"
	"strings"
)

// ValidationError describes a single invalid request field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"msg"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors aggregates field validation failures so a request
// reports all of its problems at once.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, ve := range e {
		msgs[i] = ve.Error()
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// ErrOrNil returns the collected errors, or nil if there are none.
func (e ValidationErrors) ErrOrNil() error {
	if len(e) == 0 {
		return nil
	}
	return e
}
