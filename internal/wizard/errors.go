package wizard

import (
	"errors"
	"fmt"
)

var ErrComplete = errors.New("wizard already complete")

// ValidationError rejects an answer without moving the cursor.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
