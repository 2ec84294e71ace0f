// internal/workers/assessment/create-assessment-record/models.go
package createassessmentrecord

import "credit-score-workers/internal/scoring"

type Input struct {
	ApplicantID   string              `json:"applicantId"`
	ApplicantName string              `json:"applicantName"`
	Email         string              `json:"email"`
	CreditScore   scoring.ScoreResult `json:"creditScore"`
	ProfileHash   string              `json:"profileHash"`
}

type Output struct {
	AssessmentID   string `json:"assessmentId"`
	Status         string `json:"status"`
	AssessmentDate string `json:"assessmentDate"` // YYYY-MM-DD
	CreatedAt      string `json:"createdAt"`      // ISO 8601
}
