// internal/workers/credit/calculate-credit-score/models.go
package calculatecreditscore

import "credit-score-workers/internal/scoring"

type Input struct {
	ApplicantID string           `json:"applicantId"`
	Profile     *scoring.Profile `json:"profile"`
}

type Output struct {
	ApplicantID string              `json:"applicantId"`
	CreditScore scoring.ScoreResult `json:"creditScore"`
	ProfileHash string              `json:"profileHash"`
	ScoredAt    string              `json:"scoredAt"` // ISO 8601
	Cached      bool                `json:"cached"`
}
