// internal/workers/credit/validate-credit-profile/handler_test.go
package validatecreditprofile

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	apperrors "credit-score-workers/internal/common/errors"
	"credit-score-workers/internal/common/logger"
	"credit-score-workers/pkg/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
	}
}

func createTestHandler(t *testing.T) *Handler {
	h, err := NewHandler(createTestConfig(), newTestLogger(t))
	require.NoError(t, err)
	return h
}

const validProfile = `{
  "creditAccounts": [
    {
      "lenderName": "First Bank",
      "creditType": "credit-card",
      "outstandingBalance": "12,500",
      "creditLimit": 100000,
      "monthlyPayment": "",
      "paymentStatus": "current",
      "accountOpenDate": "2018-04-01",
      "lastPaymentDate": "2026-09-30T10:15:00Z"
    }
  ],
  "incomeSources": [
    {"type": "salary", "source": "Acme", "amount": "85000", "frequency": "monthly", "startDate": "2019-01-15", "isStable": "stable"}
  ],
  "employmentInfo": {
    "employmentType": "salaried",
    "industry": "technology",
    "employmentStartDate": "2019-01-15",
    "workExperience": "5-10"
  },
  "financialStability": {"monthlyExpenses": 30000, "expectedIncomeGrowth": "moderate"},
  "creditHistory": {"bankruptcy": "no", "accountsInCollections": "no", "creditInquiries": "0-2", "creditFreezeStatus": "no-freeze"}
}`

const invalidProfile = `{
  "creditAccounts": [
    {"creditType": "payday", "creditLimit": "lots", "paymentStatus": "late", "accountOpenDate": "01/04/2018"}
  ],
  "incomeSources": [
    {"amount": -10, "frequency": "daily"}
  ],
  "creditHistory": {"creditInquiries": "many"}
}`

func createInput(applicantID, profile string) *Input {
	return &Input{ApplicantID: applicantID, Profile: json.RawMessage(profile)}
}

type testLogger struct {
	t *testing.T
}

func (tl *testLogger) Debug(msg string, fields map[string]interface{}) {
	tl.t.Logf("DEBUG: %s %v", msg, fields)
}

func (tl *testLogger) Info(msg string, fields map[string]interface{}) {
	tl.t.Logf("INFO: %s %v", msg, fields)
}

func (tl *testLogger) Warn(msg string, fields map[string]interface{}) {
	tl.t.Logf("WARN: %s %v", msg, fields)
}

func (tl *testLogger) Error(msg string, fields map[string]interface{}) {
	tl.t.Logf("ERROR: %s %v", msg, fields)
}

func (tl *testLogger) WithFields(fields map[string]interface{}) logger.Logger {
	return tl
}

func (tl *testLogger) WithError(err error) logger.Logger {
	return tl.WithFields(map[string]interface{}{"error": err})
}

func (tl *testLogger) With(fields map[string]interface{}) logger.Logger {
	return tl
}

func newTestLogger(t *testing.T) logger.Logger {
	return &testLogger{t: t}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_ValidProfile(t *testing.T) {
	handler := createTestHandler(t)

	output, err := handler.Execute(context.Background(), createInput("app-001", validProfile))

	require.NoError(t, err)
	assert.True(t, output.IsValid)
	assert.Equal(t, "app-001", output.ApplicantID)
	assert.NotNil(t, output.ValidationErrors)
	assert.Empty(t, output.ValidationErrors)
}

func TestHandler_Execute_EmptyProfileIsValid(t *testing.T) {
	handler := createTestHandler(t)

	output, err := handler.Execute(context.Background(), createInput("app-002", `{}`))

	require.NoError(t, err)
	assert.True(t, output.IsValid)
}

func TestHandler_Execute_InvalidProfile(t *testing.T) {
	handler := createTestHandler(t)

	output, err := handler.Execute(context.Background(), createInput("app-003", invalidProfile))
	require.NoError(t, err)
	assert.False(t, output.IsValid)

	fields := make(map[string]bool)
	for _, ve := range output.ValidationErrors {
		fields[ve.Field] = true
		assert.NotEmpty(t, ve.Code)
	}

	for _, want := range []string{
		"profile.creditAccounts.0.creditType",
		"profile.creditAccounts.0.creditLimit",
		"profile.creditAccounts.0.paymentStatus",
		"profile.creditAccounts.0.accountOpenDate",
		"profile.incomeSources.0.amount",
		"profile.incomeSources.0.frequency",
		"profile.creditHistory.creditInquiries",
	} {
		assert.True(t, fields[want], "expected an error for %s, got %v", want, output.ValidationErrors)
	}
}

func TestHandler_Execute_MissingFields(t *testing.T) {
	handler := createTestHandler(t)

	output, err := handler.Execute(context.Background(), &Input{})
	require.NoError(t, err)
	assert.False(t, output.IsValid)

	fields := make(map[string]bool)
	for _, ve := range output.ValidationErrors {
		fields[ve.Field] = true
	}
	assert.True(t, fields["applicantId"])
	assert.True(t, fields["profile"])
}

func TestHandler_Execute_FailOnInvalid(t *testing.T) {
	tests := []struct {
		name          string
		configFlag    bool
		inputFlag     *bool
		expectFailure bool
	}{
		{name: "config off, input unset", configFlag: false, inputFlag: nil, expectFailure: false},
		{name: "config on, input unset", configFlag: true, inputFlag: nil, expectFailure: true},
		{name: "config on, input off", configFlag: true, inputFlag: boolPtr(false), expectFailure: false},
		{name: "config off, input on", configFlag: false, inputFlag: boolPtr(true), expectFailure: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := createTestHandler(t)
			handler.config.FailOnInvalid = tt.configFlag

			input := createInput("app-004", invalidProfile)
			input.FailOnInvalid = tt.inputFlag

			output, err := handler.Execute(context.Background(), input)
			if !tt.expectFailure {
				require.NoError(t, err)
				assert.False(t, output.IsValid)
				return
			}

			assert.Nil(t, output)
			assert.ErrorIs(t, err, ErrProfileInvalid)
			assert.Contains(t, err.Error(), "paymentStatus")

			var stdErr *apperrors.StandardError
			require.True(t, errors.As(toStandardError(err), &stdErr))
			assert.Equal(t, apperrors.ErrCodeProfileValidationFailed, stdErr.Code)
			assert.False(t, stdErr.Retryable)
		})
	}
}

func TestHandler_Execute_FailOnInvalidIgnoredForValidProfile(t *testing.T) {
	handler := createTestHandler(t)
	handler.config.FailOnInvalid = true

	output, err := handler.Execute(context.Background(), createInput("app-005", validProfile))
	require.NoError(t, err)
	assert.True(t, output.IsValid)
}

func boolPtr(b bool) *bool {
	return &b
}

// ==========================
// Schema Source Tests
// ==========================

func TestNewHandler_UsesRegistrySchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activity-registry.json")
	reg := &registry.ActivityRegistry{
		Version: "1.0.0",
		Activities: []registry.Activity{
			{
				ID:          TaskType,
				DisplayName: "Validate Credit Profile",
				Category:    "credit",
				TaskType:    TaskType,
				InputSchema: map[string]interface{}{
					"type":     "object",
					"required": []interface{}{"applicantId"},
					"properties": map[string]interface{}{
						"applicantId": map[string]interface{}{"type": "string", "pattern": "^APP-[0-9]+$"},
					},
				},
			},
		},
	}
	require.NoError(t, reg.Save(path))

	cfg := createTestConfig()
	cfg.RegistryPath = path
	handler, err := NewHandler(cfg, newTestLogger(t))
	require.NoError(t, err)

	ok, err := handler.Execute(context.Background(), createInput("APP-42", `{"anything": true}`))
	require.NoError(t, err)
	assert.True(t, ok.IsValid)

	bad, err := handler.Execute(context.Background(), createInput("app-42", `{}`))
	require.NoError(t, err)
	assert.False(t, bad.IsValid)
}

func TestNewHandler_MissingRegistryFallsBack(t *testing.T) {
	cfg := createTestConfig()
	cfg.RegistryPath = filepath.Join(t.TempDir(), "absent.json")

	handler, err := NewHandler(cfg, newTestLogger(t))
	require.NoError(t, err)

	output, err := handler.Execute(context.Background(), createInput("app-006", invalidProfile))
	require.NoError(t, err)
	assert.False(t, output.IsValid)
}

func TestNewHandler_CorruptRegistryFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activity-registry.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))

	cfg := createTestConfig()
	cfg.RegistryPath = path

	_, err := NewHandler(cfg, newTestLogger(t))
	assert.Error(t, err)
}

func TestShippedRegistry_MatchesBuiltInSchema(t *testing.T) {
	path := filepath.Join("..", "..", "..", "..", "configs", "activity-registry.json")
	reg, err := registry.LoadRegistry(path)
	require.NoError(t, err)
	require.NoError(t, reg.Validate())

	activity, ok := reg.FindByTaskType(TaskType)
	require.True(t, ok)

	var builtIn map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(defaultInputSchema), &builtIn))
	assert.Equal(t, builtIn, activity.InputSchema)
}
