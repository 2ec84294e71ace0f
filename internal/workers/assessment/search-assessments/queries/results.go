// internal/workers/assessment/search-assessments/queries/results.go
package queries

import (
	"encoding/json"
	"fmt"
	"io"

	"credit-score-workers/internal/models"
)

type SearchResult struct {
	Total        int64
	TimedOut     bool
	Took         int64
	Assessments  []models.AssessmentDocument
	StatusCounts map[string]int64
}

type searchResponse struct {
	Took     int64 `json:"took"`
	TimedOut bool  `json:"timed_out"`
	Hits     struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []struct {
			Source models.AssessmentDocument `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
	Aggregations map[string]struct {
		Buckets []struct {
			Key      string `json:"key"`
			DocCount int64  `json:"doc_count"`
		} `json:"buckets"`
	} `json:"aggregations"`
}

// ParseSearchResponse decodes a search response body. StatusCounts always
// carries every known status, zero when absent from the aggregation.
func ParseSearchResponse(body io.Reader) (*SearchResult, error) {
	var r searchResponse
	if err := json.NewDecoder(body).Decode(&r); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	result := &SearchResult{
		Total:        r.Hits.Total.Value,
		TimedOut:     r.TimedOut,
		Took:         r.Took,
		Assessments:  make([]models.AssessmentDocument, 0, len(r.Hits.Hits)),
		StatusCounts: make(map[string]int64, len(models.AssessmentStatuses)),
	}

	for _, hit := range r.Hits.Hits {
		doc := hit.Source
		if doc.Advice == nil {
			doc.Advice = []string{}
		}
		result.Assessments = append(result.Assessments, doc)
	}

	for _, status := range models.AssessmentStatuses {
		result.StatusCounts[status] = 0
	}
	for _, bucket := range r.Aggregations[statusAggregation].Buckets {
		result.StatusCounts[bucket.Key] = bucket.DocCount
	}

	return result, nil
}
