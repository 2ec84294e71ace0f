// internal/workers/communication/send-score-report/models.go
package sendscorereport

import "credit-score-workers/internal/scoring"

type Input struct {
	ApplicantID   string              `json:"applicantId"`
	ApplicantName string              `json:"applicantName"`
	Email         string              `json:"email"`
	Phone         string              `json:"phone"`
	AssessmentID  string              `json:"assessmentId"`
	CreditScore   scoring.ScoreResult `json:"creditScore"`
}

type Output struct {
	ReportID string   `json:"reportId"`
	Status   string   `json:"status"` // "sent", "disabled"
	Channels []string `json:"channels"`
	SentAt   string   `json:"sentAt"` // ISO 8601
}

// Statuses
const (
	StatusSent     = "sent"
	StatusDisabled = "disabled"
)

// Channels
const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
)
