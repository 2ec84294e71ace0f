// internal/workers/assessment/create-assessment-record/handler.go
package createassessmentrecord

import (
	"context"
	"database/sql"
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
	"github.com/google/uuid"
	"github.com/lib/pq"
)

const (
	TaskType = "create-assessment-record"

	uniqueViolation = "23505"
)

var (
	ErrInvalidInput           = errors.New("INVALID_INPUT")
	ErrAssessmentInsertFailed = errors.New("ASSESSMENT_INSERT_FAILED")
	ErrDuplicateAssessment    = errors.New("DUPLICATE_ASSESSMENT")
)

type Handler struct {
	config       *Config
	db           *sql.DB
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
	now          func() time.Time
}

func NewHandler(config *Config, db *sql.DB, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		db:           db,
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
		h.failJob(client, job, apperrors.NewInputParsingFailedError(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, toStandardError(err, input.ApplicantID))
		return
	}

	h.completeJob(client, job, output, startTime)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.ApplicantID == "" || input.ProfileHash == "" {
		return nil, fmt.Errorf("%w: applicantId and profileHash are required", ErrInvalidInput)
	}
	if input.CreditScore.Score < 300 || input.CreditScore.Score > 900 {
		return nil, fmt.Errorf("%w: credit score %d outside 300-900", ErrInvalidInput, input.CreditScore.Score)
	}

	now := h.now().UTC()
	assessmentDate := now.Format("2006-01-02")

	// Same applicant, same profile, same day.
	var exists bool
	err := h.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM credit_assessments
			WHERE applicant_id = $1 AND profile_hash = $2 AND assessment_date = $3
		)`, input.ApplicantID, input.ProfileHash, assessmentDate).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("%w: duplicate check failed: %v", ErrAssessmentInsertFailed, err)
	}
	if exists {
		return nil, fmt.Errorf("%w: assessment already recorded today for applicant %s",
			ErrDuplicateAssessment, input.ApplicantID)
	}

	record := models.Assessment{
		ID:              uuid.New().String(),
		ApplicantID:     input.ApplicantID,
		ApplicantName:   input.ApplicantName,
		Email:           input.Email,
		CreditScore:     input.CreditScore.Score,
		RiskLevel:       string(input.CreditScore.RiskLevel),
		Breakdown:       input.CreditScore.Breakdown,
		Advice:          nonNil(input.CreditScore.Advice),
		Recommendations: nonNil(input.CreditScore.Recommendations),
		ProfileHash:     input.ProfileHash,
		Status:          models.AssessmentStatusPending,
		AssessmentDate:  assessmentDate,
		CreatedAt:       now.Format(time.RFC3339),
	}
	record.UpdatedAt = record.CreatedAt

	breakdownJSON, err := json.Marshal(record.Breakdown)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal breakdown: %v", ErrAssessmentInsertFailed, err)
	}
	adviceJSON, _ := json.Marshal(record.Advice)
	recommendationsJSON, _ := json.Marshal(record.Recommendations)

	_, err = h.db.ExecContext(ctx, `
		INSERT INTO credit_assessments (
			id, applicant_id, applicant_name, email, credit_score, risk_level,
			breakdown, advice, recommendations, profile_hash, status,
			assessment_date, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $13)`,
		record.ID,
		record.ApplicantID,
		record.ApplicantName,
		record.Email,
		record.CreditScore,
		record.RiskLevel,
		breakdownJSON,
		adviceJSON,
		recommendationsJSON,
		record.ProfileHash,
		record.Status,
		record.AssessmentDate,
		record.CreatedAt,
	)
	if err != nil {
		// A concurrent insert can slip past the EXISTS check; the unique index catches it.
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, fmt.Errorf("%w: assessment already recorded today for applicant %s",
				ErrDuplicateAssessment, input.ApplicantID)
		}
		return nil, fmt.Errorf("%w: insert failed: %v", ErrAssessmentInsertFailed, err)
	}

	auditDetailsJSON, err := json.Marshal(map[string]interface{}{
		"applicantId": record.ApplicantID,
		"creditScore": record.CreditScore,
		"riskLevel":   record.RiskLevel,
		"status":      record.Status,
	})
	if err != nil {
		auditDetailsJSON = []byte("{}")
	}

	_, err = h.db.ExecContext(ctx, `
		INSERT INTO audit_log (event_type, resource_type, resource_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		"assessment_created",
		"credit_assessment",
		record.ID,
		auditDetailsJSON,
		record.CreatedAt,
	)
	if err != nil {
		h.logger.Warn("audit log insert failed", map[string]interface{}{
			"error":        err,
			"assessmentId": record.ID,
		})
	}

	h.logger.Info("assessment record created", map[string]interface{}{
		"assessmentId": record.ID,
		"applicantId":  record.ApplicantID,
		"creditScore":  record.CreditScore,
		"riskLevel":    record.RiskLevel,
	})

	return &Output{
		AssessmentID:   record.ID,
		Status:         record.Status,
		AssessmentDate: record.AssessmentDate,
		CreatedAt:      record.CreatedAt,
	}, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func toStandardError(err error, applicantID string) error {
	switch {
	case errors.Is(err, ErrDuplicateAssessment):
		return apperrors.NewDuplicateAssessmentError(applicantID)
	case errors.Is(err, ErrAssessmentInsertFailed):
		return apperrors.NewAssessmentInsertFailedError(err)
	case errors.Is(err, ErrInvalidInput):
		return apperrors.NewBusinessRuleError("Invalid assessment input", err.Error())
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
