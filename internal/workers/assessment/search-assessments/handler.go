// internal/workers/assessment/search-assessments/handler.go
package searchassessments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	apperrors "credit-score-workers/internal/common/errors"
	"credit-score-workers/internal/common/logger"
	"credit-score-workers/internal/common/metrics"
	"credit-score-workers/internal/models"
	"credit-score-workers/internal/scoring"
	"credit-score-workers/internal/workers/assessment/search-assessments/queries"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/elastic/go-elasticsearch/v8"
)

const (
	TaskType = "search-assessments"
)

var (
	ErrInvalidFilterFormat = errors.New("INVALID_FILTER_FORMAT")
	ErrSearchQueryFailed   = errors.New("SEARCH_QUERY_FAILED")
	ErrSearchTimeout       = errors.New("SEARCH_TIMEOUT")
)

var riskLevels = map[string]bool{
	string(scoring.RiskExcellent): true,
	string(scoring.RiskGood):      true,
	string(scoring.RiskFair):      true,
	string(scoring.RiskPoor):      true,
	string(scoring.RiskVeryPoor):  true,
}

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
	if err := validateFilters(input); err != nil {
		return nil, err
	}

	from, size := queries.ClampPage(input.From, input.Size, h.config.DefaultSize, h.config.MaxSize)
	params := queries.SearchParams{
		Index:      h.config.Index,
		Text:       input.Query,
		Status:     input.Status,
		RiskLevels: input.RiskLevels,
		MinScore:   input.MinScore,
		MaxScore:   input.MaxScore,
		SortBy:     input.SortBy,
		From:       from,
		Size:       size,
	}

	req, err := queries.BuildSearchRequest(params)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearchQueryFailed, err)
	}

	start := time.Now()
	res, err := req.Do(ctx, h.client)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, ErrSearchTimeout
		}
		return nil, fmt.Errorf("%w: %v", ErrSearchQueryFailed, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("%w: %s", ErrSearchQueryFailed, res.String())
	}

	result, err := queries.ParseSearchResponse(res.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearchQueryFailed, err)
	}
	if result.TimedOut {
		return nil, ErrSearchTimeout
	}

	statusLabel := input.Status
	if statusLabel == "" {
		statusLabel = queries.StatusAll
	}
	metrics.AssessmentsSearched.WithLabelValues(statusLabel).Inc()

	h.logger.Info("assessments searched", map[string]interface{}{
		"total":    result.Total,
		"returned": len(result.Assessments),
		"status":   statusLabel,
		"tookMs":   result.Took,
	})

	took := result.Took
	if took == 0 {
		took = time.Since(start).Milliseconds()
	}

	return &Output{
		Total:        result.Total,
		Assessments:  result.Assessments,
		StatusCounts: result.StatusCounts,
		TookMs:       took,
	}, nil
}

func validateFilters(input *Input) error {
	if input.Status != "" && input.Status != queries.StatusAll && !models.IsValidAssessmentStatus(input.Status) {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidFilterFormat, input.Status)
	}
	for _, level := range input.RiskLevels {
		if !riskLevels[level] {
			return fmt.Errorf("%w: unknown risk level %q", ErrInvalidFilterFormat, level)
		}
	}
	if input.MinScore != nil && input.MaxScore != nil && *input.MinScore > *input.MaxScore {
		return fmt.Errorf("%w: minScore %d greater than maxScore %d",
			ErrInvalidFilterFormat, *input.MinScore, *input.MaxScore)
	}
	switch input.SortBy {
	case "", queries.SortByDate, queries.SortByScore:
	default:
		return fmt.Errorf("%w: unknown sortBy %q", ErrInvalidFilterFormat, input.SortBy)
	}
	if input.From < 0 {
		return fmt.Errorf("%w: from must not be negative", ErrInvalidFilterFormat)
	}
	return nil
}

func (h *Handler) toStandardError(err error) error {
	switch {
	case errors.Is(err, ErrInvalidFilterFormat):
		return apperrors.NewInvalidFilterFormatError(err.Error())
	case errors.Is(err, ErrSearchTimeout):
		return apperrors.NewSearchTimeoutError(h.config.Index)
	case errors.Is(err, ErrSearchQueryFailed):
		return apperrors.NewSearchQueryFailedError(h.config.Index, err)
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
