// internal/workers/assessment/index-assessment/models.go
package indexassessment

import "credit-score-workers/internal/scoring"

type Input struct {
	AssessmentID   string              `json:"assessmentId"`
	ApplicantID    string              `json:"applicantId"`
	ApplicantName  string              `json:"applicantName"`
	Email          string              `json:"email"`
	CreditScore    scoring.ScoreResult `json:"creditScore"`
	Status         string              `json:"status"`
	AssessmentDate string              `json:"assessmentDate"`
	CreatedAt      string              `json:"createdAt"`
}

type Output struct {
	Indexed    bool   `json:"indexed"`
	Index      string `json:"index"`
	DocumentID string `json:"documentId"`
	Result     string `json:"result"` // created | updated
}
