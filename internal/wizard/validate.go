package wizard

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate checks value against the question's required-ness and kind.
func Validate(q Question, value string) error {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		if q.Required {
			return &ValidationError{Field: q.Field, Message: "this field is required"}
		}
		return nil
	}
	switch q.Kind {
	case KindEmail:
		if err := validate.Var(trimmed, "email"); err != nil {
			return &ValidationError{Field: q.Field, Message: "must be a valid email address"}
		}
	case KindBoolean:
		if _, err := parseBool(trimmed); err != nil {
			return &ValidationError{Field: q.Field, Message: "must be true or false"}
		}
	case KindChoice:
		if !contains(q.Options, trimmed) {
			return &ValidationError{Field: q.Field, Message: fmt.Sprintf("must be one of %s", strings.Join(q.Options, ", "))}
		}
	case KindForm:
		return validateForm(q, trimmed)
	}
	return nil
}

func validateForm(q Question, raw string) error {
	var values map[string]any
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return &ValidationError{Field: q.Field, Message: "must be a JSON object"}
	}
	for _, sub := range q.Fields {
		if err := Validate(sub, formValue(values[sub.Field])); err != nil {
			return err
		}
	}
	return nil
}

func formValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		b, _ := json.Marshal(val)
		return string(b)
	}
}

func parseBool(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "yes", "1":
		return true, nil
	case "false", "no", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean %q", value)
	}
}

func contains(options []string, value string) bool {
	for _, opt := range options {
		if opt == value {
			return true
		}
	}
	return false
}
