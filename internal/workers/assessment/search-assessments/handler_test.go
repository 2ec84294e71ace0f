// internal/workers/assessment/search-assessments/handler_test.go
package searchassessments

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apperrors "credit-score-workers/internal/common/errors"
	"credit-score-workers/internal/common/logger"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

const searchResponse = `{
  "took": 4,
  "timed_out": false,
  "hits": {
    "total": {"value": 1, "relation": "eq"},
    "hits": [
      {"_id": "a1", "_source": {
        "assessmentId": "a1",
        "applicantId": "app-001",
        "applicantName": "Priya Sharma",
        "email": "priya@example.com",
        "creditScore": 742,
        "riskLevel": "Good",
        "status": "pending",
        "breakdown": {"payment_history": 100},
        "advice": [],
        "assessmentDate": "2026-03-10",
        "lastUpdated": "2026-03-10T08:30:00Z"
      }}
    ]
  },
  "aggregations": {
    "status_counts": {"buckets": [
      {"key": "pending", "doc_count": 1},
      {"key": "approved", "doc_count": 3}
    ]}
  }
}`

func createTestConfig() *Config {
	return &Config{
		Timeout:     5 * time.Second,
		Index:       "credit_assessments",
		DefaultSize: 20,
		MaxSize:     100,
	}
}

func intPtr(v int) *int { return &v }

type capturedSearch struct {
	Path  string
	Query string
	Body  map[string]interface{}
}

func newFakeElasticsearch(t *testing.T, handler http.HandlerFunc) *elasticsearch.Client {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses:    []string{srv.URL},
		DisableRetry: true,
	})
	require.NoError(t, err)
	return client
}

func respondWith(status int, body string, captured *capturedSearch) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if captured != nil {
			captured.Path = r.URL.Path
			captured.Query = r.URL.RawQuery
			raw, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(raw, &captured.Body)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

type testLogger struct {
	t *testing.T
}

func (tl *testLogger) Debug(msg string, fields map[string]interface{}) {
	tl.t.Logf("DEBUG: %s %v", msg, fields)
}

func (tl *testLogger) Info(msg string, fields map[string]interface{}) {
	tl.t.Logf("INFO: %s %v", msg, fields)
}

func (tl *testLogger) Warn(msg string, fields map[string]interface{}) {
	tl.t.Logf("WARN: %s %v", msg, fields)
}

func (tl *testLogger) Error(msg string, fields map[string]interface{}) {
	tl.t.Logf("ERROR: %s %v", msg, fields)
}

func (tl *testLogger) WithFields(fields map[string]interface{}) logger.Logger {
	return tl
}

func (tl *testLogger) WithError(err error) logger.Logger {
	return tl
}

func (tl *testLogger) With(fields map[string]interface{}) logger.Logger {
	return tl
}

func newTestLogger(t *testing.T) logger.Logger {
	return &testLogger{t: t}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_Success(t *testing.T) {
	captured := &capturedSearch{}
	client := newFakeElasticsearch(t, respondWith(http.StatusOK, searchResponse, captured))
	handler := NewHandler(createTestConfig(), client, newTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		Query:      "priya",
		Status:     "pending",
		RiskLevels: []string{"Good"},
		MinScore:   intPtr(600),
		MaxScore:   intPtr(800),
		Size:       500,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), output.Total)
	assert.Equal(t, int64(4), output.TookMs)
	require.Len(t, output.Assessments, 1)
	assert.Equal(t, "a1", output.Assessments[0].AssessmentID)
	assert.Equal(t, 742, output.Assessments[0].CreditScore)
	assert.Equal(t, map[string]int64{"pending": 1, "approved": 3, "rejected": 0}, output.StatusCounts)

	assert.Equal(t, "/credit_assessments/_search", captured.Path)
	assert.Contains(t, captured.Query, "size=100")
	assert.Contains(t, captured.Query, "from=0")
	assert.Contains(t, captured.Body, "post_filter")
	assert.Contains(t, captured.Body, "aggs")
}

func TestHandler_Execute_DefaultPaging(t *testing.T) {
	captured := &capturedSearch{}
	client := newFakeElasticsearch(t, respondWith(http.StatusOK, searchResponse, captured))
	handler := NewHandler(createTestConfig(), client, newTestLogger(t))

	_, err := handler.Execute(context.Background(), &Input{Status: "all", From: 40})

	require.NoError(t, err)
	assert.Contains(t, captured.Query, "size=20")
	assert.Contains(t, captured.Query, "from=40")
	assert.NotContains(t, captured.Body, "post_filter")
}

func TestHandler_Execute_EmptyIndex(t *testing.T) {
	client := newFakeElasticsearch(t, respondWith(http.StatusOK,
		`{"took": 1, "timed_out": false, "hits": {"total": {"value": 0}, "hits": []}}`, nil))
	handler := NewHandler(createTestConfig(), client, newTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{})

	require.NoError(t, err)
	assert.Zero(t, output.Total)
	assert.NotNil(t, output.Assessments)
	assert.Empty(t, output.Assessments)
	assert.Equal(t, map[string]int64{"pending": 0, "approved": 0, "rejected": 0}, output.StatusCounts)
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_InvalidFilters(t *testing.T) {
	handler := NewHandler(createTestConfig(), nil, newTestLogger(t))

	tests := []struct {
		name  string
		input *Input
	}{
		{name: "unknown status", input: &Input{Status: "archived"}},
		{name: "unknown risk level", input: &Input{RiskLevels: []string{"Great"}}},
		{name: "inverted score range", input: &Input{MinScore: intPtr(800), MaxScore: intPtr(700)}},
		{name: "unknown sort", input: &Input{SortBy: "name"}},
		{name: "negative from", input: &Input{From: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := handler.Execute(context.Background(), tt.input)
			assert.ErrorIs(t, err, ErrInvalidFilterFormat)

			var stdErr *apperrors.StandardError
			require.True(t, errors.As(handler.toStandardError(err), &stdErr))
			assert.Equal(t, apperrors.ErrCodeInvalidFilterFormat, stdErr.Code)
			assert.False(t, stdErr.Retryable)
		})
	}
}

func TestHandler_Execute_QueryRejected(t *testing.T) {
	client := newFakeElasticsearch(t, respondWith(http.StatusNotFound,
		`{"error":{"type":"index_not_found_exception"},"status":404}`, nil))
	handler := NewHandler(createTestConfig(), client, newTestLogger(t))

	_, err := handler.Execute(context.Background(), &Input{})

	assert.ErrorIs(t, err, ErrSearchQueryFailed)
	assert.Contains(t, err.Error(), "index_not_found_exception")

	var stdErr *apperrors.StandardError
	require.True(t, errors.As(handler.toStandardError(err), &stdErr))
	assert.Equal(t, apperrors.ErrCodeSearchQueryFailed, stdErr.Code)
}

func TestHandler_Execute_ShardTimeout(t *testing.T) {
	client := newFakeElasticsearch(t, respondWith(http.StatusOK,
		`{"took": 5000, "timed_out": true, "hits": {"total": {"value": 0}, "hits": []}}`, nil))
	handler := NewHandler(createTestConfig(), client, newTestLogger(t))

	_, err := handler.Execute(context.Background(), &Input{})

	assert.ErrorIs(t, err, ErrSearchTimeout)
}

func TestHandler_Execute_DeadlineExceeded(t *testing.T) {
	client := newFakeElasticsearch(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	handler := NewHandler(createTestConfig(), client, newTestLogger(t))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := handler.Execute(ctx, &Input{})

	assert.ErrorIs(t, err, ErrSearchTimeout)

	var stdErr *apperrors.StandardError
	require.True(t, errors.As(handler.toStandardError(err), &stdErr))
	assert.Equal(t, apperrors.ErrCodeSearchTimeout, stdErr.Code)
	assert.True(t, stdErr.Retryable)
}
