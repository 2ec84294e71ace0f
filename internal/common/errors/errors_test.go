// internal/common/errors/errors_test.go
package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	messages []string
}

func (r *recordingLogger) Error(msg string, fields map[string]interface{}) {
	r.messages = append(r.messages, msg)
}

func TestConvertToBPMNError(t *testing.T) {
	stdErr := NewAssessmentInsertFailedError(stderrors.New("connection reset"))
	bpmnErr := ConvertToBPMNError(stdErr)

	assert.Equal(t, "ASSESSMENT_INSERT_FAILED", bpmnErr.Code)
	assert.True(t, bpmnErr.Retryable)
	assert.Equal(t, 3, bpmnErr.Retries)

	vars := bpmnErr.ToErrorVariables()
	assert.Equal(t, "ASSESSMENT_INSERT_FAILED", vars["errorCode"])
	assert.Equal(t, "connection reset", vars["errorDetails"])
	assert.Equal(t, "ASSESSMENT_INSERT_FAILED", vars["originalErrorCode"])
	assert.Contains(t, vars, "timestamp")
}

func TestConvertToBPMNError_NonRetryableHasNoRetries(t *testing.T) {
	stdErr := &StandardError{Code: ErrCodeSearchQueryFailed, Message: "bad query", Retryable: false}
	assert.Equal(t, 0, ConvertToBPMNError(stdErr).Retries)

	unknown := ConvertToBPMNError(&StandardError{Code: "SOMETHING_NEW"})
	assert.Equal(t, "SOMETHING_NEW", unknown.Code)
}

func TestGetRetryCount(t *testing.T) {
	tests := []struct {
		code     ErrorCode
		expected int
	}{
		{ErrCodeDatabaseConnectionFailed, 3},
		{ErrCodeAssessmentInsertFailed, 3},
		{ErrCodeIndexFailed, 3},
		{ErrCodeSearchQueryFailed, 3},
		{ErrCodeReportSendFailed, 3},
		{ErrCodeSearchTimeout, 2},
		{ErrCodeScoreCalculationFailed, 1},
		{ErrCodeProfileValidationFailed, 0},
		{ErrCodeDuplicateAssessment, 0},
		{ErrCodeInvalidFilterFormat, 0},
		{ErrCodeInputParsingFailed, 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.expected, GetRetryCount(tt.code))
			assert.Equal(t, tt.expected > 0, IsRetryableErrorCode(tt.code))
		})
	}
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "SCORING", GetErrorCategory(ErrCodeProfileValidationFailed))
	assert.Equal(t, "SCORING", GetErrorCategory(ErrCodeScoreCalculationFailed))
	assert.Equal(t, "DATABASE", GetErrorCategory(ErrCodeDuplicateAssessment))
	assert.Equal(t, "SEARCH", GetErrorCategory(ErrCodeIndexFailed))
	assert.Equal(t, "SEARCH", GetErrorCategory(ErrCodeSearchTimeout))
	assert.Equal(t, "NOTIFICATION", GetErrorCategory(ErrCodeReportSendFailed))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeInputParsingFailed))
	assert.Equal(t, "OTHER", GetErrorCategory(ErrCodeInternal))
}

func TestNormalize(t *testing.T) {
	original := NewDuplicateAssessmentError("app-1")
	wrapped := fmt.Errorf("create record: %w", original)
	assert.Same(t, original, Normalize(wrapped))

	plain := Normalize(stderrors.New("boom"))
	assert.Equal(t, ErrCodeInternal, plain.Code)
	assert.Equal(t, "boom", plain.Details)
	assert.False(t, plain.Retryable)
}

func TestErrorHandler_Decide(t *testing.T) {
	log := &recordingLogger{}
	h := NewErrorHandler(log)

	tests := []struct {
		name        string
		err         error
		jobRetries  int32
		wantThrow   bool
		wantRetries int
	}{
		{name: "technical error with retries left", err: NewIndexFailedError("idx", stderrors.New("503")), jobRetries: 3, wantRetries: 2},
		{name: "job has fewer retries than code", err: NewIndexFailedError("idx", stderrors.New("503")), jobRetries: 2, wantRetries: 1},
		{name: "timeout capped by code", err: NewSearchTimeoutError("idx"), jobRetries: 5, wantRetries: 1},
		{name: "retries exhausted", err: NewIndexFailedError("idx", stderrors.New("503")), jobRetries: 0, wantThrow: true},
		{name: "business error", err: NewProfileValidationFailedError("bad"), jobRetries: 3, wantThrow: true},
		{name: "unknown error", err: stderrors.New("boom"), jobRetries: 3, wantThrow: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := h.Decide(tt.err, tt.jobRetries)
			require.NotNil(t, d.BPMN)
			assert.Equal(t, tt.wantThrow, d.Throw)
			if !tt.wantThrow {
				assert.Equal(t, tt.wantRetries, d.Retries)
			}
		})
	}
}

func TestStandardError_Error(t *testing.T) {
	err := NewReportSendFailedError("email", stderrors.New("throttled"))
	assert.Equal(t, "StandardError[REPORT_SEND_FAILED]: Failed to send score report via email", err.Error())
}
