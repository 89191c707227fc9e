package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contactSchema() JSONSchema {
	return JSONSchema{
		Type: "object",
		Properties: map[string]Property{
			"fullName":    {Type: "string", MinLength: Int(2)},
			"email":       {Type: "string", Format: "email"},
			"timeline":    {Type: "string", Enum: []string{"urgent", "standard", "flexible"}},
			"description": {Type: "string", MinLength: Int(50)},
		},
		Required:             []string{"fullName", "email"},
		AdditionalProperties: Bool(false),
	}
}

func TestValidateInput_Valid(t *testing.T) {
	res := ValidateInput(map[string]interface{}{
		"fullName": "Jane Doe",
		"email":    "jane@example.com",
		"timeline": "standard",
	}, contactSchema())

	assert.True(t, res.Valid)
	assert.Empty(t, res.Errors)
}

func TestValidateInput_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input map[string]interface{}
		field string
		code  string
	}{
		{
			name:  "missing required",
			input: map[string]interface{}{"email": "jane@example.com"},
			field: "fullName",
			code:  "REQUIRED_FIELD_MISSING",
		},
		{
			name:  "too short",
			input: map[string]interface{}{"fullName": "J", "email": "jane@example.com"},
			field: "fullName",
			code:  "MIN_LENGTH_VIOLATION",
		},
		{
			name:  "bad email",
			input: map[string]interface{}{"fullName": "Jane", "email": "not-an-email"},
			field: "email",
			code:  "INVALID_FORMAT",
		},
		{
			name:  "unknown enum",
			input: map[string]interface{}{"fullName": "Jane", "email": "jane@example.com", "timeline": "asap"},
			field: "timeline",
			code:  "INVALID_ENUM_VALUE",
		},
		{
			name:  "extra field",
			input: map[string]interface{}{"fullName": "Jane", "email": "jane@example.com", "shoeSize": "9"},
			field: "shoeSize",
			code:  "EXTRA_FIELD",
		},
		{
			name:  "wrong type",
			input: map[string]interface{}{"fullName": 42, "email": "jane@example.com"},
			field: "fullName",
			code:  "INVALID_TYPE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ValidateInput(tt.input, contactSchema())
			require.False(t, res.Valid)
			require.True(t, res.HasErrors(tt.field), "errors: %v", res.GetErrorMessages())
			assert.Equal(t, tt.code, res.GetErrorsForField(tt.field)[0].Code)
		})
	}
}

func TestValidateInput_MinLengthCountsRunes(t *testing.T) {
	schema := JSONSchema{
		Type:       "object",
		Properties: map[string]Property{"name": {Type: "string", MinLength: Int(2)}},
	}
	assert.True(t, ValidateInput(map[string]interface{}{"name": "Zoë"}, schema).Valid)
	assert.False(t, ValidateInput(map[string]interface{}{"name": "Ö"}, schema).Valid)
}

func TestFormatHelpers(t *testing.T) {
	assert.True(t, ValidateEmail("jane@example.com"))
	assert.False(t, ValidateEmail("jane@"))
	assert.True(t, ValidateURL("https://teams.microsoft.com/l/meetup-join/abc"))
	assert.False(t, ValidateURL("teams"))
}
