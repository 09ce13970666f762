package entity

import (
	"errors"
	"fmt"
)

// ErrNotFound means a lookup (such as a page query by title) matched nothing.
// Callers treat it as "create one" rather than as a failure.
var ErrNotFound = errors.New("not found")

// ValidationError reports a configuration or entity field that failed a
// structural check. Field uses dotted paths for nested values.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}
