package resumes

import (
	"encoding/json"
	"fmt"
)

// Each operation returns a new document with only the named subsection
// replaced. The input document is never modified.

// UpdateField sets one field of a subsection. List sections need index.
func UpdateField(doc Resume, name SectionName, index *int, field string, value json.RawMessage) (Resume, error) {
	return apply(doc, name, func(ops sectionOps, next *Resume) error {
		return ops.updateField(next, index, field, value)
	})
}

// AddItem appends a blank entry to a list section.
func AddItem(doc Resume, name SectionName) (Resume, error) {
	return apply(doc, name, func(ops sectionOps, next *Resume) error {
		return ops.addItem(next)
	})
}

// RemoveItem deletes an entry; later entries shift down by one.
func RemoveItem(doc Resume, name SectionName, index int) (Resume, error) {
	return apply(doc, name, func(ops sectionOps, next *Resume) error {
		return ops.removeItem(next, index)
	})
}

// Replace swaps the whole subsection for value.
func Replace(doc Resume, name SectionName, value json.RawMessage) (Resume, error) {
	return apply(doc, name, func(ops sectionOps, next *Resume) error {
		return ops.replace(next, value)
	})
}

// SectionValue returns the current value of a subsection.
func SectionValue(doc Resume, name SectionName) (any, error) {
	ops, ok := sections[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSection, name)
	}
	return ops.value(&doc), nil
}

// SectionPayload encodes a subsection exactly as it is persisted.
func SectionPayload(doc Resume, name SectionName) (json.RawMessage, error) {
	v, err := SectionValue(doc, name)
	if err != nil {
		return nil, err
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if string(b) == "null" {
		return json.RawMessage("[]"), nil
	}
	return b, nil
}

func apply(doc Resume, name SectionName, op func(sectionOps, *Resume) error) (Resume, error) {
	ops, ok := sections[name]
	if !ok {
		return doc, fmt.Errorf("%w: %q", ErrUnknownSection, name)
	}
	next := doc
	if err := op(ops, &next); err != nil {
		return doc, err
	}
	return next, nil
}
