package schema

import (
	"errors"

	"github.com/charmbracelet/huh"
)

// Prompt runs an interactive form over the schema and returns the
// entered note document. defaults prefills answers when updating an
// existing note. Conditional fields are hidden until their condition
// field takes the matching value.
func (s *Schema) Prompt(defaults map[string]any) (map[string]any, error) {
	values := make(map[string]*string, len(s.Fields))
	for _, f := range s.Fields {
		v := new(string)
		if d, ok := defaults[f.Label].(string); ok {
			*v = d
		}
		values[f.Label] = v
	}

	var groups []*huh.Group
	for _, f := range s.Fields {
		field := f
		group := huh.NewGroup(promptField(field, values[field.Label]))
		if len(field.Condition) == 2 {
			other, want := field.Condition[0], field.Condition[1]
			group = group.WithHideFunc(func() bool {
				return *values[other] != want
			})
		}
		groups = append(groups, group)
	}

	if err := huh.NewForm(groups...).Run(); err != nil {
		return nil, err
	}

	entry := make(map[string]any)
	for _, f := range s.Fields {
		if !s.applies(f, snapshot(values)) {
			continue
		}
		if v := *values[f.Label]; v != "" {
			entry[f.Label] = v
		}
	}
	return entry, nil
}

func promptField(f Field, value *string) huh.Field {
	if len(f.Choices) > 0 {
		return huh.NewSelect[string]().
			Title(f.Name).
			Description(f.Help).
			Options(huh.NewOptions(f.Choices...)...).
			Value(value)
	}

	if f.Multiline {
		text := huh.NewText().
			Title(f.Name).
			Description(f.Help).
			Value(value)
		if f.IsRequired() {
			text = text.Validate(notEmpty)
		}
		return text
	}

	input := huh.NewInput().
		Title(f.Name).
		Description(f.Help).
		Value(value)
	if f.IsRequired() {
		input = input.Validate(notEmpty)
	}
	return input
}

func notEmpty(s string) error {
	if s == "" {
		return errors.New("a value is required")
	}
	return nil
}

func snapshot(values map[string]*string) map[string]any {
	out := make(map[string]any, len(values))
	for k, v := range values {
		out[k] = *v
	}
	return out
}
