// internal/common/database/database_test.go
package database

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"credit-score-workers/internal/common/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresClient_EnsureSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS credit_assessments").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE UNIQUE INDEX IF NOT EXISTS credit_assessments_daily_uniq").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS audit_log").WillReturnResult(sqlmock.NewResult(0, 0))

	client := &PostgresClient{DB: db}
	require.NoError(t, client.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresClient_EnsureSchemaFails(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS credit_assessments").WillReturnError(assert.AnError)

	client := &PostgresClient{DB: db}
	err = client.EnsureSchema(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ensure schema")
}

func TestRedisClient_Ping(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedis(config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.Ping(context.Background()))
	require.NoError(t, client.Cmdable().Set(context.Background(), "k", "v", 0).Err())
	got, err := mr.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

type fakeES struct {
	mu      sync.Mutex
	exists  bool
	created []string
}

func (f *fakeES) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")

	switch r.Method {
	case http.MethodHead:
		if f.exists {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	case http.MethodPut:
		f.created = append(f.created, r.URL.Path)
		f.exists = true
		_, _ = w.Write([]byte(`{"acknowledged":true}`))
	default:
		_, _ = w.Write([]byte(`{}`))
	}
}

func TestElasticsearchClient_EnsureIndex(t *testing.T) {
	fake := &fakeES{}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	client, err := NewElasticsearch(config.ElasticsearchConfig{URL: srv.URL})
	require.NoError(t, err)

	require.NoError(t, client.EnsureIndex(context.Background(), "credit-assessments", AssessmentIndexMapping))
	require.NoError(t, client.EnsureIndex(context.Background(), "credit-assessments", AssessmentIndexMapping))

	assert.Equal(t, []string{"/credit-assessments"}, fake.created)
}
