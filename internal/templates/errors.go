package templates

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound          = errors.New("template not found")
	ErrInvalidDescriptor = errors.New("invalid template descriptor")
	ErrUnknownIcon       = errors.New("unknown icon")
)

// FieldError is one schema violation.
type FieldError struct {
	Field   string
	Message string
}

// DescriptorError lists every schema violation of a descriptor.
type DescriptorError struct {
	ID     string
	Errors []FieldError
}

func (e *DescriptorError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
	}
	id := e.ID
	if id == "" {
		id = "<unnamed>"
	}
	return fmt.Sprintf("template %s: %s", id, strings.Join(parts, "; "))
}

func (e *DescriptorError) Unwrap() error {
	return ErrInvalidDescriptor
}
