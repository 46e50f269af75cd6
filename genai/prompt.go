package genai

// formPrompt pins the wire format the model must emit. Key names here match
// what schema.Parse expects, so any drift shows up as a validation error
// instead of a stored broken form.
const formPrompt = `Generate a JSON response for a form with the following structure. Ensure the keys and format remain constant in every response.
{
  "formTitle": "string",
  "formFields": [
    {
      "label": "string",
      "name": "string",
      "placeholder": "string",
      "type": "string",
      "options": ["option1", "option2"]
    }
  ]
}

Available field types: "text", "email", "number", "textarea", "select", "radio", "checkbox", "date", "time", "datetime-local".

Requirements:
- Use only the given keys: "formTitle", "formFields", "label", "name", "placeholder", "type", "options".
- Always include at least 3-5 fields in the "formFields" array.
- Choose appropriate field types based on the form's purpose.
- For select, radio, and checkbox fields, always include an "options" array with 2-4 meaningful options.
- For other field types, omit the "options" field.
- Provide meaningful placeholder text for each field based on its label and type.
- Make field names lowercase and use underscores (e.g., "first_name", "email_address").`
