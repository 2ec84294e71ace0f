// internal/workers/credit/calculate-credit-score/handler.go
package calculatecreditscore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	apperrors "credit-score-workers/internal/common/errors"
	"credit-score-workers/internal/common/logger"
	"credit-score-workers/internal/common/metrics"
	"credit-score-workers/internal/common/observability"
	"credit-score-workers/internal/scoring"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
)

const (
	TaskType = "calculate-credit-score"

	cacheKeyPrefix = "credit:score:"
)

var (
	ErrProfileMissing         = errors.New("PROFILE_MISSING")
	ErrScoreCalculationFailed = errors.New("SCORE_CALCULATION_FAILED")
)

type Handler struct {
	config       *Config
	engine       *scoring.Engine
	redis        redis.Cmdable
	obs          *observability.Observability
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
	now          func() time.Time
}

// NewHandler builds the scorer. rdb may be nil, which disables caching.
func NewHandler(config *Config, rdb redis.Cmdable, obs *observability.Observability, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		engine:       scoring.NewEngine(scoring.WithInquiryMatching(scoring.InquiryMatching(config.InquiryMatching))),
		redis:        rdb,
		obs:          obs,
		errorHandler: apperrors.NewErrorHandler(scoped),
		logger:       scoped,
		now:          time.Now,
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
		h.failJob(client, job, apperrors.NewInputParsingFailedError(err), startTime)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, toStandardError(err), startTime)
		return
	}

	h.completeJob(client, job, output, startTime)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.Profile == nil {
		return nil, fmt.Errorf("%w: no profile supplied for applicant %q", ErrProfileMissing, input.ApplicantID)
	}

	ctx, span := h.obs.StartSpan(ctx, "credit.score.compute",
		attribute.String("applicant.id", input.ApplicantID),
	)
	defer span.End()

	now := h.now().UTC()
	hash := input.Profile.Fingerprint()
	key := cacheKey(hash, now)

	if result, ok := h.lookupCache(ctx, key); ok {
		span.SetAttributes(attribute.Bool("cache.hit", true), attribute.Int("credit.score", result.Score))
		return &Output{
			ApplicantID: input.ApplicantID,
			CreditScore: *result,
			ProfileHash: hash,
			ScoredAt:    now.Format(time.RFC3339),
			Cached:      true,
		}, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScoreCalculationFailed, err)
	}

	result := h.engine.Compute(*input.Profile)
	metrics.ObserveScore(string(result.RiskLevel), result.Score)
	span.SetAttributes(
		attribute.Bool("cache.hit", false),
		attribute.Int("credit.score", result.Score),
		attribute.String("credit.risk_level", string(result.RiskLevel)),
	)

	h.storeCache(ctx, key, &result)

	h.logger.Info("credit score calculated", map[string]interface{}{
		"applicantId": input.ApplicantID,
		"score":       result.Score,
		"riskLevel":   result.RiskLevel,
	})

	return &Output{
		ApplicantID: input.ApplicantID,
		CreditScore: result,
		ProfileHash: hash,
		ScoredAt:    now.Format(time.RFC3339),
	}, nil
}

// cacheKey scopes cached results to a calendar day; history length depends on the date.
func cacheKey(profileHash string, day time.Time) string {
	return cacheKeyPrefix + profileHash + ":" + day.Format("2006-01-02")
}

func (h *Handler) lookupCache(ctx context.Context, key string) (*scoring.ScoreResult, bool) {
	if !h.config.CacheEnabled || h.redis == nil {
		return nil, false
	}

	val, err := h.redis.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.CreditScoreCacheLookups.WithLabelValues("miss").Inc()
		} else {
			metrics.CreditScoreCacheLookups.WithLabelValues("error").Inc()
			h.logger.Warn("score cache read failed", map[string]interface{}{
				"key":   key,
				"error": err,
			})
		}
		return nil, false
	}

	var result scoring.ScoreResult
	if err := json.Unmarshal([]byte(val), &result); err != nil {
		metrics.CreditScoreCacheLookups.WithLabelValues("error").Inc()
		h.logger.Warn("discarding corrupt cached score", map[string]interface{}{
			"key":   key,
			"error": err,
		})
		return nil, false
	}

	metrics.CreditScoreCacheLookups.WithLabelValues("hit").Inc()
	return &result, true
}

func (h *Handler) storeCache(ctx context.Context, key string, result *scoring.ScoreResult) {
	if !h.config.CacheEnabled || h.redis == nil {
		return
	}

	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := h.redis.Set(ctx, key, data, h.config.CacheTTL).Err(); err != nil {
		h.logger.Warn("score cache write failed", map[string]interface{}{
			"key":   key,
			"error": err,
		})
	}
}

func toStandardError(err error) error {
	switch {
	case errors.Is(err, ErrProfileMissing):
		return apperrors.NewProfileValidationFailedError(err.Error())
	case errors.Is(err, ErrScoreCalculationFailed):
		return apperrors.NewScoreCalculationFailedError(err)
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

	ctx := context.Background()
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
	h.obs.RecordJobProcessed(ctx, TaskType, "completed")
	h.obs.RecordJobDuration(ctx, TaskType, time.Since(startTime), "completed")

	h.logger.Info("job completed successfully", map[string]interface{}{
		"jobKey": job.Key,
	})
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, err error, startTime time.Time) {
	ctx := context.Background()
	code := apperrors.Normalize(err).Code

	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(code)).Inc()
	h.obs.RecordJobProcessed(ctx, TaskType, "failed")
	h.obs.RecordJobDuration(ctx, TaskType, time.Since(startTime), "failed")

	h.errorHandler.HandleJobError(ctx, client, job, err)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
