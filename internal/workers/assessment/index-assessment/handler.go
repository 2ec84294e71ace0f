// internal/workers/assessment/index-assessment/handler.go
package indexassessment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	apperrors "credit-score-workers/internal/common/errors"
	"credit-score-workers/internal/common/logger"
	"credit-score-workers/internal/common/metrics"
	"credit-score-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

const (
	TaskType = "index-assessment"
)

var (
	ErrInvalidInput                  = errors.New("INVALID_INPUT")
	ErrElasticsearchConnectionFailed = errors.New("ELASTICSEARCH_CONNECTION_FAILED")
	ErrIndexFailed                   = errors.New("INDEX_FAILED")
)

type Handler struct {
	config       *Config
	client       *elasticsearch.Client
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, client *elasticsearch.Client, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		client:       client,
		errorHandler: apperrors.NewErrorHandler(scoped),
		logger:       scoped,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	startTime := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, apperrors.NewInputParsingFailedError(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, h.toStandardError(err))
		return
	}

	h.completeJob(client, job, output, startTime)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.AssessmentID == "" || input.ApplicantID == "" {
		return nil, fmt.Errorf("%w: assessmentId and applicantId are required", ErrInvalidInput)
	}

	status := input.Status
	if status == "" {
		status = models.AssessmentStatusPending
	}
	if !models.IsValidAssessmentStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}

	record := models.Assessment{
		ID:              input.AssessmentID,
		ApplicantID:     input.ApplicantID,
		ApplicantName:   input.ApplicantName,
		Email:           input.Email,
		CreditScore:     input.CreditScore.Score,
		RiskLevel:       string(input.CreditScore.RiskLevel),
		Breakdown:       input.CreditScore.Breakdown,
		Advice:          input.CreditScore.Advice,
		Recommendations: input.CreditScore.Recommendations,
		Status:          status,
		AssessmentDate:  input.AssessmentDate,
		CreatedAt:       input.CreatedAt,
	}

	body, err := json.Marshal(record.Document())
	if err != nil {
		return nil, fmt.Errorf("%w: marshal document: %v", ErrIndexFailed, err)
	}

	req := esapi.IndexRequest{
		Index:      h.config.Index,
		DocumentID: record.ID,
		Body:       bytes.NewReader(body),
		Refresh:    h.config.Refresh,
	}

	res, err := req.Do(ctx, h.client)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrElasticsearchConnectionFailed, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("%w: %s", ErrIndexFailed, res.String())
	}

	var indexResponse struct {
		ID     string `json:"_id"`
		Result string `json:"result"`
	}
	if err := json.NewDecoder(res.Body).Decode(&indexResponse); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrIndexFailed, err)
	}

	h.logger.Info("assessment indexed", map[string]interface{}{
		"assessmentId": record.ID,
		"index":        h.config.Index,
		"result":       indexResponse.Result,
	})

	documentID := indexResponse.ID
	if documentID == "" {
		documentID = record.ID
	}

	return &Output{
		Indexed:    true,
		Index:      h.config.Index,
		DocumentID: documentID,
		Result:     indexResponse.Result,
	}, nil
}

func (h *Handler) toStandardError(err error) error {
	switch {
	case errors.Is(err, ErrElasticsearchConnectionFailed):
		return apperrors.NewElasticsearchConnectionFailedError(err)
	case errors.Is(err, ErrIndexFailed):
		return apperrors.NewIndexFailedError(h.config.Index, err)
	case errors.Is(err, ErrInvalidInput):
		return apperrors.NewBusinessRuleError("Invalid index input", err.Error())
	default:
		return err
	}
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output, startTime time.Time) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	if _, err := cmd.Send(context.Background()); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
	h.logger.Info("job completed successfully", map[string]interface{}{
		"jobKey": job.Key,
	})
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, err error) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(apperrors.Normalize(err).Code)).Inc()
	h.errorHandler.HandleJobError(context.Background(), client, job, err)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
