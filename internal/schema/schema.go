// Package schema loads the user-declared note schema and validates note
// documents against it. Field sets are declared at runtime, so validation
// works over a generic label-to-value mapping; nothing here hardcodes
// field names.
package schema

import (
	"fmt"
	"os"
	"slices"
	"time"

	"gopkg.in/yaml.v3"
)

// Field is one entry of the schema descriptor
type Field struct {
	// Label is the key stored in note documents (e.g. "summary")
	Label string `yaml:"label"`
	// Name is the human-facing title shown when prompting
	Name string `yaml:"name"`
	// Help is shown under the prompt
	Help string `yaml:"help"`
	// Type is one of "string" (default), "datetime", "bool"
	Type string `yaml:"type"`
	// Choices restricts the value to a fixed set when non-empty
	Choices []string `yaml:"choices"`
	// Condition makes the field apply only when another field equals a
	// value: [other_label, value]
	Condition []string `yaml:"condition"`
	// Multiline prompts with a text area instead of a single line
	Multiline bool `yaml:"multiline"`
	// Required defaults to true when omitted
	Required *bool `yaml:"required"`
}

// IsRequired reports whether the field must be present
func (f Field) IsRequired() bool {
	return f.Required == nil || *f.Required
}

// Schema is an ordered note schema descriptor
type Schema struct {
	Fields []Field
}

// SchemaError indicates a missing or malformed schema descriptor
type SchemaError struct {
	Msg string
}

func (e *SchemaError) Error() string { return e.Msg }

// Load reads the schema descriptor from a YAML file
func Load(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &SchemaError{
			Msg: `must create a schema.yaml in the ".relnotes" directory of your project`,
		}
	}
	return Parse(data)
}

// Parse parses a YAML schema descriptor
func Parse(data []byte) (*Schema, error) {
	var fields []Field
	if err := yaml.Unmarshal(data, &fields); err != nil {
		return nil, &SchemaError{Msg: "malformed schema: " + err.Error()}
	}

	for i, f := range fields {
		if f.Label == "" {
			return nil, &SchemaError{Msg: fmt.Sprintf("schema entry %d has no label", i)}
		}
	}

	return &Schema{Fields: fields}, nil
}

// Labels returns the declared field labels in schema order
func (s *Schema) Labels() []string {
	labels := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		labels[i] = f.Label
	}
	return labels
}

// Has reports whether a field with the label is declared
func (s *Schema) Has(label string) bool {
	return slices.ContainsFunc(s.Fields, func(f Field) bool { return f.Label == label })
}

// Validate checks a note document against the schema and returns one
// message per violated constraint, in schema order. An empty result
// means the document is valid.
func (s *Schema) Validate(data map[string]any) []string {
	var errs []string
	for _, f := range s.Fields {
		if !s.applies(f, data) {
			continue
		}

		value, ok := data[f.Label]
		if !ok || value == nil || value == "" {
			if f.IsRequired() {
				errs = append(errs, fmt.Sprintf("%s: required field is missing", f.Label))
			}
			continue
		}

		if msg := checkType(f, value); msg != "" {
			errs = append(errs, msg)
			continue
		}

		if len(f.Choices) > 0 {
			str, _ := value.(string)
			if !slices.Contains(f.Choices, str) {
				errs = append(errs, fmt.Sprintf("%s: %q is not one of %v", f.Label, str, f.Choices))
			}
		}
	}
	return errs
}

// applies reports whether a conditional field is active for the document
func (s *Schema) applies(f Field, data map[string]any) bool {
	if len(f.Condition) != 2 {
		return true
	}
	other, want := f.Condition[0], f.Condition[1]
	got, _ := data[other].(string)
	return got == want
}

func checkType(f Field, value any) string {
	switch f.Type {
	case "", "string":
		if _, ok := value.(string); !ok {
			return fmt.Sprintf("%s: expected a string, got %T", f.Label, value)
		}
	case "datetime":
		switch v := value.(type) {
		case time.Time:
		case string:
			if _, err := parseDatetime(v); err != nil {
				return fmt.Sprintf("%s: invalid datetime %q", f.Label, v)
			}
		default:
			return fmt.Sprintf("%s: expected a datetime, got %T", f.Label, value)
		}
	case "bool":
		if _, ok := value.(bool); !ok {
			return fmt.Sprintf("%s: expected a bool, got %T", f.Label, value)
		}
	}
	return ""
}

var datetimeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseDatetime(s string) (time.Time, error) {
	for _, layout := range datetimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized datetime %q", s)
}
