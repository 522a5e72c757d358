package templates

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed assets/descriptor.schema.json
var descriptorSchema []byte

var (
	schemaOnce sync.Once
	schema     *gojsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(descriptorSchema))
		if schemaErr != nil {
			schemaErr = fmt.Errorf("compile descriptor schema: %w", schemaErr)
		}
	})
	return schema, schemaErr
}

// Parse validates raw against the descriptor schema and decodes it.
// Unknown layouts or bullet variants are configuration errors.
func Parse(raw []byte) (Descriptor, error) {
	s, err := compiledSchema()
	if err != nil {
		return Descriptor{}, err
	}
	result, err := s.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return Descriptor{}, fmt.Errorf("%w: %v", ErrInvalidDescriptor, err)
	}
	if !result.Valid() {
		out := &DescriptorError{ID: peekID(raw)}
		for _, re := range result.Errors() {
			out.Errors = append(out.Errors, FieldError{Field: re.Field(), Message: re.Description()})
		}
		return Descriptor{}, out
	}
	var d Descriptor
	if err := json.Unmarshal(raw, &d); err != nil {
		return Descriptor{}, fmt.Errorf("%w: %v", ErrInvalidDescriptor, err)
	}
	return d, nil
}

// ParseCatalog validates every descriptor of a JSON array.
func ParseCatalog(raw []byte) ([]Descriptor, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: catalog: %v", ErrInvalidDescriptor, err)
	}
	out := make([]Descriptor, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		d, err := Parse(item)
		if err != nil {
			return nil, err
		}
		if seen[d.ID] {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrInvalidDescriptor, d.ID)
		}
		seen[d.ID] = true
		out = append(out, d)
	}
	return out, nil
}

func peekID(raw []byte) string {
	var head struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(raw, &head)
	return head.ID
}
