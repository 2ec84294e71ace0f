package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const accountSchema = `{
  "type": "object",
  "required": ["applicantId"],
  "properties": {
    "applicantId": {"type": "string", "minLength": 1},
    "accounts": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["paymentStatus"],
        "properties": {
          "paymentStatus": {"type": "string", "enum": ["current", "30-days"]},
          "creditLimit": {"type": ["number", "string"]}
        }
      }
    }
  }
}`

func TestValidator_Valid(t *testing.T) {
	v, err := NewValidatorFromJSON(accountSchema)
	require.NoError(t, err)

	result, err := v.Validate([]byte(`{"applicantId": "app-1", "accounts": [{"paymentStatus": "current", "creditLimit": "10,000"}]}`))
	require.NoError(t, err)

	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
}

func TestValidator_ReportsNestedFields(t *testing.T) {
	v, err := NewValidatorFromJSON(accountSchema)
	require.NoError(t, err)

	result, err := v.Validate([]byte(`{"accounts": [{"paymentStatus": "late-ish"}, {"creditLimit": true}]}`))
	require.NoError(t, err)

	assert.False(t, result.Valid)
	assert.True(t, result.HasErrors("applicantId"))
	assert.True(t, result.HasErrors("accounts.0.paymentStatus"))
	assert.True(t, result.HasErrors("accounts.1.paymentStatus"))
	assert.True(t, result.HasErrors("accounts.1.creditLimit"))
	assert.Len(t, result.GetErrorsForField("accounts"), 3)

	for _, e := range result.Errors {
		assert.NotEmpty(t, e.Code)
		assert.NotEmpty(t, e.Message)
	}
	assert.Len(t, result.GetErrorMessages(), len(result.Errors))
}

func TestValidator_ValidateValue(t *testing.T) {
	v, err := NewValidator(map[string]interface{}{
		"type":     "object",
		"required": []interface{}{"score"},
		"properties": map[string]interface{}{
			"score": map[string]interface{}{"type": "integer", "minimum": 300, "maximum": 900},
		},
	})
	require.NoError(t, err)

	ok, err := v.ValidateValue(map[string]interface{}{"score": 650})
	require.NoError(t, err)
	assert.True(t, ok.Valid)

	bad, err := v.ValidateValue(map[string]interface{}{"score": 950})
	require.NoError(t, err)
	assert.False(t, bad.Valid)
	assert.True(t, bad.HasErrors("score"))
}

func TestNewValidator_RejectsBrokenSchemas(t *testing.T) {
	_, err := NewValidator(nil)
	assert.Error(t, err)

	_, err = NewValidatorFromJSON(`{"type": 12}`)
	assert.Error(t, err)

	_, err = NewValidatorFromJSON(`not json`)
	assert.Error(t, err)
}

func TestValidator_MalformedDocument(t *testing.T) {
	v, err := NewValidatorFromJSON(accountSchema)
	require.NoError(t, err)

	_, err = v.Validate([]byte(`{"applicantId": `))
	assert.Error(t, err)
}

func TestValidateActivityNaming(t *testing.T) {
	assert.NoError(t, ValidateActivityNaming("calculate-credit-score"))
	assert.NoError(t, ValidateActivityNaming("index-assessment"))
	assert.Error(t, ValidateActivityNaming("score"))
	assert.Error(t, ValidateActivityNaming("Calculate-Score"))
	assert.Error(t, ValidateActivityNaming("credit.score.calculate"))
}

func TestValidateEmailAndPhone(t *testing.T) {
	assert.True(t, ValidateEmail("applicant@example.com"))
	assert.False(t, ValidateEmail("applicant@"))
	assert.True(t, ValidatePhone("+91 98765 43210"))
	assert.False(t, ValidatePhone("12345"))
}
