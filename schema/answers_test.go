package schema_test

import (
	"testing"

	"github.com/formforge/quickform/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema(t *testing.T) schema.FormSchema {
	t.Helper()
	s, err := schema.Parse([]byte(`{
		"formTitle": "Registration",
		"formFields": [
			{"label": "Name", "name": "name", "placeholder": "", "type": "text", "required": true},
			{"label": "Email", "name": "email", "placeholder": "", "type": "email"},
			{"label": "Age", "name": "age", "placeholder": "", "type": "number"},
			{"label": "Country", "name": "country", "placeholder": "", "type": "select", "options": ["IT", "FR"]},
			{"label": "Gender", "name": "gender", "placeholder": "", "type": "radio", "options": ["m", "f", "other"]},
			{"label": "Interests", "name": "interests", "placeholder": "", "type": "checkbox", "options": ["sports", "music", "code"]},
			{"label": "Birth Date", "name": "birth_date", "placeholder": "", "type": "date"},
			{"label": "Preferred Time", "name": "preferred_time", "placeholder": "", "type": "time"},
			{"label": "Appointment", "name": "appointment", "placeholder": "", "type": "datetime-local"}
		]
	}`))
	require.NoError(t, err)
	return s
}

func TestValidateAnswersAccepts(t *testing.T) {
	s := testSchema(t)

	err := s.ValidateAnswers(map[string]any{
		"name":           "Jane",
		"email":          "jane@example.com",
		"age":            float64(33),
		"country":        "IT",
		"gender":         "f",
		"interests":      []any{"music", "code"},
		"birth_date":     "1992-04-01",
		"preferred_time": "09:30",
		"appointment":    "2026-09-01T10:00",
	})
	assert.NoError(t, err)
}

func TestValidateAnswersOnlyRequiredFieldsMatter(t *testing.T) {
	s := testSchema(t)

	// everything optional left out
	assert.NoError(t, s.ValidateAnswers(map[string]any{"name": "Jane"}))
}

func TestValidateAnswersRequired(t *testing.T) {
	s := testSchema(t)

	for name, answers := range map[string]map[string]any{
		"missing": {},
		"empty":   {"name": ""},
		"blank":   {"name": "   "},
		"null":    {"name": nil},
	} {
		t.Run(name, func(t *testing.T) {
			err := s.ValidateAnswers(answers)
			var verr *schema.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, "is required", verr.Fields["name"])
		})
	}
}

func TestValidateAnswersChoiceFields(t *testing.T) {
	s := testSchema(t)

	err := s.ValidateAnswers(map[string]any{
		"name":      "Jane",
		"country":   "DE",
		"gender":    "x",
		"interests": []any{"music", "gardening"},
	})

	var verr *schema.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "must be one of the declared options", verr.Fields["country"])
	assert.Equal(t, "must be one of the declared options", verr.Fields["gender"])
	assert.Equal(t, "must only contain declared options", verr.Fields["interests"])
}

func TestValidateAnswersCheckboxVariants(t *testing.T) {
	s := testSchema(t)

	// a single ticked box may arrive as a bare string
	assert.NoError(t, s.ValidateAnswers(map[string]any{"name": "J", "interests": "music"}))
	// zero picks are a valid subset
	assert.NoError(t, s.ValidateAnswers(map[string]any{"name": "J", "interests": []any{}}))

	err := s.ValidateAnswers(map[string]any{"name": "J", "interests": []any{42}})
	var verr *schema.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "interests")
}

func TestValidateAnswersTypedValues(t *testing.T) {
	s := testSchema(t)

	err := s.ValidateAnswers(map[string]any{
		"name":           "Jane",
		"age":            "not a number",
		"birth_date":     "01/04/1992",
		"preferred_time": "9 o'clock",
		"appointment":    "tomorrow",
	})

	var verr *schema.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "age")
	assert.Contains(t, verr.Fields, "birth_date")
	assert.Contains(t, verr.Fields, "preferred_time")
	assert.Contains(t, verr.Fields, "appointment")

	// numbers may arrive as JSON numbers or numeric strings
	assert.NoError(t, s.ValidateAnswers(map[string]any{"name": "J", "age": "42"}))
	assert.NoError(t, s.ValidateAnswers(map[string]any{"name": "J", "age": float64(42)}))
}

func TestValidateAnswersIgnoresUnknownKeys(t *testing.T) {
	s := testSchema(t)

	assert.NoError(t, s.ValidateAnswers(map[string]any{
		"name":       "Jane",
		"utm_source": "newsletter",
		"hidden":     []any{1, 2, 3},
	}))
}

func TestValidateAnswersCollectsAllErrors(t *testing.T) {
	s := testSchema(t)

	err := s.ValidateAnswers(map[string]any{
		"age":     "NaN.",
		"country": "DE",
	})

	var verr *schema.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 3) // name, age, country
}
