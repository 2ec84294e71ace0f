// internal/models/assessment.go
package models

import "credit-score-workers/internal/scoring"

// Assessment statuses. New records start pending; a reviewer moves them on.
const (
	AssessmentStatusPending  = "pending"
	AssessmentStatusApproved = "approved"
	AssessmentStatusRejected = "rejected"
)

// AssessmentStatuses lists every valid status in display order.
var AssessmentStatuses = []string{
	AssessmentStatusPending,
	AssessmentStatusApproved,
	AssessmentStatusRejected,
}

// IsValidAssessmentStatus reports whether s is a known status.
func IsValidAssessmentStatus(s string) bool {
	for _, status := range AssessmentStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Assessment is one persisted credit assessment.
type Assessment struct {
	ID              string            `json:"id"`
	ApplicantID     string            `json:"applicantId"`
	ApplicantName   string            `json:"applicantName"`
	Email           string            `json:"email"`
	CreditScore     int               `json:"creditScore"`
	RiskLevel       string            `json:"riskLevel"`
	Breakdown       scoring.Breakdown `json:"breakdown"`
	Advice          []string          `json:"advice"`
	Recommendations []string          `json:"recommendations"`
	ProfileHash     string            `json:"profileHash"`
	Status          string            `json:"status"`
	AssessmentDate  string            `json:"assessmentDate"` // YYYY-MM-DD
	CreatedAt       string            `json:"createdAt"`      // RFC 3339
	UpdatedAt       string            `json:"updatedAt"`
}

// AssessmentDocument is the search-index shape of an assessment.
type AssessmentDocument struct {
	AssessmentID   string            `json:"assessmentId"`
	ApplicantID    string            `json:"applicantId"`
	ApplicantName  string            `json:"applicantName"`
	Email          string            `json:"email"`
	CreditScore    int               `json:"creditScore"`
	RiskLevel      string            `json:"riskLevel"`
	Status         string            `json:"status"`
	Breakdown      scoring.Breakdown `json:"breakdown"`
	Advice         []string          `json:"advice"`
	AssessmentDate string            `json:"assessmentDate"`
	LastUpdated    string            `json:"lastUpdated"`
}

// Document converts the record to its index form.
func (a *Assessment) Document() AssessmentDocument {
	advice := a.Advice
	if advice == nil {
		advice = []string{}
	}
	lastUpdated := a.UpdatedAt
	if lastUpdated == "" {
		lastUpdated = a.CreatedAt
	}
	return AssessmentDocument{
		AssessmentID:   a.ID,
		ApplicantID:    a.ApplicantID,
		ApplicantName:  a.ApplicantName,
		Email:          a.Email,
		CreditScore:    a.CreditScore,
		RiskLevel:      a.RiskLevel,
		Status:         a.Status,
		Breakdown:      a.Breakdown,
		Advice:         advice,
		AssessmentDate: a.AssessmentDate,
		LastUpdated:    lastUpdated,
	}
}
