// internal/workers/communication/send-score-report/handler.go
package sendscorereport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	apperrors "credit-score-workers/internal/common/errors"
	"credit-score-workers/internal/common/logger"
	"credit-score-workers/internal/common/metrics"
	"credit-score-workers/internal/common/validation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "send-score-report"
)

var (
	ErrInvalidInput     = errors.New("INVALID_INPUT")
	ErrReportSendFailed = errors.New("REPORT_SEND_FAILED")
)

// EmailSender delivers a plain-text email and returns the provider message id.
type EmailSender interface {
	SendTextEmail(ctx context.Context, to, subject, body string) (string, error)
}

// SMSSender delivers a text message and returns the provider message id.
type SMSSender interface {
	SendSMS(ctx context.Context, phone, message string) (string, error)
}

// sendError records which channel failed.
type sendError struct {
	channel string
	err     error
}

func (e *sendError) Error() string {
	return fmt.Sprintf("%s: %s delivery failed: %v", ErrReportSendFailed, e.channel, e.err)
}

func (e *sendError) Unwrap() []error {
	return []error{ErrReportSendFailed, e.err}
}

type Handler struct {
	config       *Config
	email        EmailSender
	sms          SMSSender
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
	now          func() time.Time
}

// NewHandler builds the report worker. Either sender may be nil, which
// disables that channel.
func NewHandler(config *Config, email EmailSender, sms SMSSender, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		email:        email,
		sms:          sms,
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
		h.failJob(client, job, toStandardError(err))
		return
	}

	h.completeJob(client, job, output, startTime)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.ApplicantID == "" {
		return nil, fmt.Errorf("%w: applicantId is required", ErrInvalidInput)
	}
	if input.CreditScore.Score < 300 || input.CreditScore.Score > 900 {
		return nil, fmt.Errorf("%w: credit score %d outside 300-900", ErrInvalidInput, input.CreditScore.Score)
	}
	if input.Email != "" && !validation.ValidateEmail(input.Email) {
		return nil, fmt.Errorf("%w: invalid email %q", ErrInvalidInput, input.Email)
	}

	report, err := renderReport(input)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReportSendFailed, err)
	}

	output := &Output{
		ReportID: uuid.New().String(),
		Status:   StatusDisabled,
		Channels: []string{},
		SentAt:   h.now().UTC().Format(time.RFC3339),
	}

	if h.config.EmailEnabled && h.email != nil && input.Email != "" {
		messageID, err := h.email.SendTextEmail(ctx, input.Email, report.Subject, report.Body)
		if err != nil {
			return nil, &sendError{channel: ChannelEmail, err: err}
		}
		output.Channels = append(output.Channels, ChannelEmail)
		h.logger.Info("score report emailed", map[string]interface{}{
			"applicantId": input.ApplicantID,
			"messageId":   messageID,
		})
	}

	// SMS is a courtesy notice. Once the email is out, a failed SMS must not
	// trigger a retry that would send the email twice.
	if h.config.SMSEnabled && h.sms != nil && input.Phone != "" {
		if !validation.ValidatePhone(input.Phone) {
			h.logger.Warn("skipping SMS for invalid phone", map[string]interface{}{
				"applicantId": input.ApplicantID,
			})
		} else if messageID, err := h.sms.SendSMS(ctx, input.Phone, report.SMS); err != nil {
			if len(output.Channels) == 0 {
				return nil, &sendError{channel: ChannelSMS, err: err}
			}
			h.logger.Warn("score report SMS failed", map[string]interface{}{
				"applicantId": input.ApplicantID,
				"error":       err,
			})
		} else {
			output.Channels = append(output.Channels, ChannelSMS)
			h.logger.Info("score report SMS sent", map[string]interface{}{
				"applicantId": input.ApplicantID,
				"messageId":   messageID,
			})
		}
	}

	if len(output.Channels) > 0 {
		output.Status = StatusSent
	}

	return output, nil
}

func toStandardError(err error) error {
	var se *sendError
	switch {
	case errors.As(err, &se):
		return apperrors.NewReportSendFailedError(se.channel, se.err)
	case errors.Is(err, ErrReportSendFailed):
		return apperrors.NewReportSendFailedError("template", err)
	case errors.Is(err, ErrInvalidInput):
		return apperrors.NewBusinessRuleError("Invalid score report input", err.Error())
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
