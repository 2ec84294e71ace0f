// internal/workers/assessment/search-assessments/queries/builders.go
package queries

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"credit-score-workers/internal/models"

	"github.com/elastic/go-elasticsearch/v8/esapi"
)

const (
	StatusAll = "all"

	SortByDate  = "date"
	SortByScore = "score"

	statusAggregation = "status_counts"
)

// SearchParams is a dashboard search. Zero values mean "no filter".
type SearchParams struct {
	Index      string
	Text       string
	Status     string
	RiskLevels []string
	MinScore   *int
	MaxScore   *int
	SortBy     string
	From       int
	Size       int
}

// ClampPage bounds size to [1, maxSize], substituting defaultSize when size is
// unset, and floors from at zero.
func ClampPage(from, size, defaultSize, maxSize int) (int, int) {
	if from < 0 {
		from = 0
	}
	if size <= 0 {
		size = defaultSize
	}
	if size > maxSize {
		size = maxSize
	}
	if size < 1 {
		size = 1
	}
	return from, size
}

// BuildSearchRequest renders p into a search request against p.Index.
func BuildSearchRequest(p SearchParams) (*esapi.SearchRequest, error) {
	body, err := json.Marshal(BuildSearchBody(p))
	if err != nil {
		return nil, fmt.Errorf("marshal search body: %w", err)
	}

	return &esapi.SearchRequest{
		Index:          []string{p.Index},
		Body:           bytes.NewReader(body),
		From:           &p.From,
		Size:           &p.Size,
		TrackTotalHits: true,
	}, nil
}

// BuildSearchBody builds the query, the status post_filter and the per-status
// aggregation. Status is applied as a post_filter so the counts cover every
// status under the remaining filters.
func BuildSearchBody(p SearchParams) map[string]interface{} {
	mustClauses := []interface{}{}
	filterClauses := []interface{}{}

	if text := strings.TrimSpace(p.Text); text != "" {
		mustClauses = append(mustClauses, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":    text,
				"fields":   []string{"applicantName^3", "email^2", "applicantId"},
				"type":     "best_fields",
				"operator": "and",
			},
		})
	}

	if len(p.RiskLevels) > 0 {
		filterClauses = append(filterClauses, map[string]interface{}{
			"terms": map[string]interface{}{"riskLevel": p.RiskLevels},
		})
	}

	if scoreRange := buildScoreRange(p.MinScore, p.MaxScore); scoreRange != nil {
		filterClauses = append(filterClauses, map[string]interface{}{
			"range": map[string]interface{}{"creditScore": scoreRange},
		})
	}

	if len(mustClauses) == 0 {
		mustClauses = append(mustClauses, map[string]interface{}{"match_all": map[string]interface{}{}})
	}

	boolQuery := map[string]interface{}{"must": mustClauses}
	if len(filterClauses) > 0 {
		boolQuery["filter"] = filterClauses
	}

	body := map[string]interface{}{
		"query": map[string]interface{}{"bool": boolQuery},
		"aggs": map[string]interface{}{
			statusAggregation: map[string]interface{}{
				"terms": map[string]interface{}{
					"field": "status",
					"size":  len(models.AssessmentStatuses),
				},
			},
		},
		"sort": buildSort(p.SortBy),
	}

	if p.Status != "" && p.Status != StatusAll {
		body["post_filter"] = map[string]interface{}{
			"term": map[string]interface{}{"status": p.Status},
		}
	}

	return body
}

func buildScoreRange(minScore, maxScore *int) map[string]interface{} {
	if minScore == nil && maxScore == nil {
		return nil
	}
	r := map[string]interface{}{}
	if minScore != nil {
		r["gte"] = *minScore
	}
	if maxScore != nil {
		r["lte"] = *maxScore
	}
	return r
}

func buildSort(sortBy string) []map[string]interface{} {
	switch sortBy {
	case SortByScore:
		return []map[string]interface{}{
			{"creditScore": "desc"},
			{"lastUpdated": "desc"},
		}
	default:
		return []map[string]interface{}{
			{"lastUpdated": "desc"},
		}
	}
}
