// internal/models/assessment_test.go
package models

import (
	"encoding/json"
	"testing"

	"credit-score-workers/internal/scoring"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidAssessmentStatus(t *testing.T) {
	for _, s := range AssessmentStatuses {
		assert.True(t, IsValidAssessmentStatus(s))
	}
	assert.False(t, IsValidAssessmentStatus("submitted"))
	assert.False(t, IsValidAssessmentStatus(""))
}

func TestAssessment_Document(t *testing.T) {
	a := &Assessment{
		ID:             "a-1",
		ApplicantID:    "app-1",
		ApplicantName:  "Priya Sharma",
		CreditScore:    742,
		RiskLevel:      string(scoring.RiskGood),
		Breakdown:      scoring.Breakdown{PaymentHistory: 100},
		Status:         AssessmentStatusPending,
		AssessmentDate: "2026-10-15",
		CreatedAt:      "2026-10-15T09:00:00Z",
	}

	doc := a.Document()
	assert.Equal(t, "a-1", doc.AssessmentID)
	assert.Equal(t, "2026-10-15T09:00:00Z", doc.LastUpdated)
	assert.NotNil(t, doc.Advice)

	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"advice":[]`)
	assert.Contains(t, string(raw), `"payment_history":100`)
}
