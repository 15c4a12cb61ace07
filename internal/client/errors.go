package client

import (
	"fmt"
	"strings"
)

// ValidationError reports malformed or missing input detected before any
// backend call is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError reports a failed lookup against a named set, such as a
// transition name that does not match any available transition.
type NotFoundError struct {
	Kind      string
	Name      string
	Available []string
}

func (e *NotFoundError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
	}
	return fmt.Sprintf("%s %q not found, available: %s", e.Kind, e.Name, strings.Join(e.Available, ", "))
}

// OperationError wraps a failed backend call with the operation name and the
// issue key it was acting on.
type OperationError struct {
	Op  string
	Key string
	Err error
}

func (e *OperationError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *OperationError) Unwrap() error { return e.Err }

func opError(op, key string, err error) error {
	return &OperationError{Op: op, Key: key, Err: err}
}
