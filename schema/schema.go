// Package schema parses untrusted JSON form definitions into a canonical
// FormSchema and validates submitted answers against it.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

type FieldType string

const (
	TypeText          FieldType = "text"
	TypeEmail         FieldType = "email"
	TypeNumber        FieldType = "number"
	TypeTextarea      FieldType = "textarea"
	TypeSelect        FieldType = "select"
	TypeRadio         FieldType = "radio"
	TypeCheckbox      FieldType = "checkbox"
	TypeDate          FieldType = "date"
	TypeTime          FieldType = "time"
	TypeDatetimeLocal FieldType = "datetime-local"
)

var fieldTypes = map[FieldType]bool{
	TypeText:          true,
	TypeEmail:         true,
	TypeNumber:        true,
	TypeTextarea:      true,
	TypeSelect:        true,
	TypeRadio:         true,
	TypeCheckbox:      true,
	TypeDate:          true,
	TypeTime:          true,
	TypeDatetimeLocal: true,
}

func (t FieldType) Valid() bool {
	return fieldTypes[t]
}

// Choice reports whether the field takes its value from a declared options list.
func (t FieldType) Choice() bool {
	return t == TypeSelect || t == TypeRadio || t == TypeCheckbox
}

type FormSchema struct {
	Title       string      `json:"formTitle"`
	Description string      `json:"formDescription,omitempty"`
	Fields      []FieldSpec `json:"formFields"`
}

type FieldSpec struct {
	Label       string    `json:"label"`
	Name        string    `json:"name"`
	Placeholder string    `json:"placeholder"`
	Type        FieldType `json:"type"`
	Options     []string  `json:"options,omitempty"`
	Required    bool      `json:"required,omitempty"`
}

// ValidationError carries one message per offending field.
type ValidationError struct {
	Fields map[string]string `json:"fields"`
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	msgs := make([]string, len(names))
	for i, name := range names {
		msgs[i] = name + ": " + e.Fields[name]
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = map[string]string{}
	}
	if _, taken := e.Fields[field]; !taken {
		e.Fields[field] = msg
	}
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// Parse decodes and validates a raw form definition. Two document shapes are
// accepted: a bare schema object, or a single-element array wrapping one
// (emitted by some legacy producers). Both normalize to the same FormSchema,
// with options dropped from non-choice fields.
func Parse(content []byte) (FormSchema, error) {
	raw := bytes.TrimSpace(content)
	if len(raw) == 0 {
		return FormSchema{}, &ValidationError{Fields: map[string]string{"content": "is empty"}}
	}

	if raw[0] == '[' {
		var wrapper []json.RawMessage
		if err := json.Unmarshal(raw, &wrapper); err != nil {
			return FormSchema{}, &ValidationError{Fields: map[string]string{"content": "is not valid JSON"}}
		}
		if len(wrapper) == 0 {
			return FormSchema{}, &ValidationError{Fields: map[string]string{"content": "is an empty array"}}
		}
		raw = wrapper[0]
	}

	var s FormSchema
	if err := json.Unmarshal(raw, &s); err != nil {
		return FormSchema{}, &ValidationError{Fields: map[string]string{"content": "is not a valid form definition"}}
	}

	if err := s.validate(); err != nil {
		return FormSchema{}, err
	}

	for i := range s.Fields {
		if !s.Fields[i].Type.Choice() {
			s.Fields[i].Options = nil
		}
	}
	return s, nil
}

// ParseString is Parse for content already held as a string, typically a
// stored form's serialized definition.
func ParseString(content string) (FormSchema, error) {
	return Parse([]byte(content))
}

func (s FormSchema) validate() error {
	verr := &ValidationError{}
	seen := make(map[string]bool, len(s.Fields))

	for i, f := range s.Fields {
		key := f.Name
		if key == "" {
			key = fmt.Sprintf("formFields[%d]", i)
		}

		switch {
		case f.Name == "":
			verr.add(key, "name is required")
		case seen[f.Name]:
			verr.add(key, "name is not unique")
		default:
			seen[f.Name] = true
		}
		if f.Label == "" {
			verr.add(key, "label is required")
		}

		switch {
		case f.Type == "":
			verr.add(key, "type is required")
		case !f.Type.Valid():
			verr.add(key, fmt.Sprintf("unknown field type %q", f.Type))
		case f.Type.Choice():
			if len(distinct(f.Options)) < 2 {
				verr.add(key, "needs at least 2 distinct options")
			}
		}
	}
	return verr.orNil()
}

func distinct(options []string) []string {
	seen := make(map[string]bool, len(options))
	out := options[:0:0]
	for _, o := range options {
		if !seen[o] {
			seen[o] = true
			out = append(out, o)
		}
	}
	return out
}

// Serialize renders the canonical stored representation of the schema.
func (s FormSchema) Serialize() (string, error) {
	content, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(content), nil
}

// DisplayTitle extracts formTitle from stored content for display purposes.
// Missing, malformed or legacy-shaped content falls back to a placeholder
// instead of failing.
func DisplayTitle(content string) string {
	raw := bytes.TrimSpace([]byte(content))
	if len(raw) > 0 && raw[0] == '[' {
		var wrapper []json.RawMessage
		if err := json.Unmarshal(raw, &wrapper); err != nil || len(wrapper) == 0 {
			return "Untitled Form"
		}
		raw = wrapper[0]
	}

	var probe struct {
		Title string `json:"formTitle"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil || probe.Title == "" {
		return "Untitled Form"
	}
	return probe.Title
}
