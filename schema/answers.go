package schema

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// ValidateAnswers checks a submitted answer set against the schema. Every
// offending field is reported at once; keys not declared by the schema are
// ignored. A nil return means the answers are safe to persist.
func (s FormSchema) ValidateAnswers(answers map[string]any) error {
	verr := &ValidationError{}

	for _, f := range s.Fields {
		value, present := answers[f.Name]
		if !present || isEmpty(value) {
			if f.Required {
				verr.add(f.Name, "is required")
			}
			continue
		}

		switch f.Type {
		case TypeText, TypeEmail, TypeTextarea:
			if _, ok := asString(value); !ok {
				verr.add(f.Name, "must be text")
			}
		case TypeNumber:
			if !isNumber(value) {
				verr.add(f.Name, "must be a number")
			}
		case TypeSelect, TypeRadio:
			v, ok := asString(value)
			if !ok || !contains(f.Options, v) {
				verr.add(f.Name, "must be one of the declared options")
			}
		case TypeCheckbox:
			if !isOptionSubset(value, f.Options) {
				verr.add(f.Name, "must only contain declared options")
			}
		case TypeDate:
			if !isTimestamp(value, "2006-01-02") {
				verr.add(f.Name, "must be a date (YYYY-MM-DD)")
			}
		case TypeTime:
			if !isTimestamp(value, "15:04", "15:04:05") {
				verr.add(f.Name, "must be a time (HH:MM)")
			}
		case TypeDatetimeLocal:
			if !isTimestamp(value, "2006-01-02T15:04", "2006-01-02T15:04:05") {
				verr.add(f.Name, "must be a date and time (YYYY-MM-DDTHH:MM)")
			}
		}
	}
	return verr.orNil()
}

func isEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []any:
		return len(v) == 0
	}
	return false
}

func asString(value any) (string, bool) {
	v, ok := value.(string)
	return v, ok
}

func isNumber(value any) bool {
	switch v := value.(type) {
	case float64:
		return true
	case json.Number:
		return true
	case string:
		_, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return err == nil
	}
	return false
}

func contains(options []string, value string) bool {
	for _, o := range options {
		if o == value {
			return true
		}
	}
	return false
}

// Checkbox answers arrive as an array of picked options, or as a bare string
// when only one box is ticked.
func isOptionSubset(value any, options []string) bool {
	switch v := value.(type) {
	case string:
		return contains(options, v)
	case []any:
		for _, item := range v {
			picked, ok := item.(string)
			if !ok || !contains(options, picked) {
				return false
			}
		}
		return true
	}
	return false
}

func isTimestamp(value any, layouts ...string) bool {
	v, ok := asString(value)
	if !ok {
		return false
	}
	for _, layout := range layouts {
		if _, err := time.Parse(layout, v); err == nil {
			return true
		}
	}
	return false
}
