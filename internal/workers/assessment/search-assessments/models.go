// internal/workers/assessment/search-assessments/models.go
package searchassessments

import "credit-score-workers/internal/models"

type Input struct {
	Query      string   `json:"query"`
	Status     string   `json:"status"` // "", all, pending, approved, rejected
	RiskLevels []string `json:"riskLevels"`
	MinScore   *int     `json:"minScore"`
	MaxScore   *int     `json:"maxScore"`
	SortBy     string   `json:"sortBy"` // date (default) | score
	From       int      `json:"from"`
	Size       int      `json:"size"`
}

type Output struct {
	Total        int64                       `json:"total"`
	Assessments  []models.AssessmentDocument `json:"assessments"`
	StatusCounts map[string]int64            `json:"statusCounts"`
	TookMs       int64                       `json:"tookMs"`
}
