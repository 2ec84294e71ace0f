// internal/workers/credit/validate-credit-profile/handler.go
package validatecreditprofile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	apperrors "credit-score-workers/internal/common/errors"
	"credit-score-workers/internal/common/logger"
	"credit-score-workers/internal/common/metrics"
	"credit-score-workers/internal/common/validation"
	"credit-score-workers/pkg/registry"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "validate-credit-profile"
)

var (
	ErrProfileInvalid = errors.New("PROFILE_VALIDATION_FAILED")
)

type Handler struct {
	config       *Config
	validator    *validation.Validator
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

// NewHandler compiles the input schema registered for this task type, falling
// back to the built-in schema when the registry file or entry is absent.
func NewHandler(config *Config, log logger.Logger) (*Handler, error) {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})

	validator, source, err := loadValidator(config.RegistryPath)
	if err != nil {
		return nil, fmt.Errorf("load %s schema: %w", TaskType, err)
	}
	scoped.Info("profile schema loaded", map[string]interface{}{
		"source": source,
	})

	return &Handler{
		config:       config,
		validator:    validator,
		errorHandler: apperrors.NewErrorHandler(scoped),
		logger:       scoped,
	}, nil
}

func loadValidator(registryPath string) (*validation.Validator, string, error) {
	if registryPath != "" {
		reg, err := registry.LoadRegistry(registryPath)
		switch {
		case err == nil:
			if activity, ok := reg.FindByTaskType(TaskType); ok && len(activity.InputSchema) > 0 {
				v, err := validation.NewValidator(activity.InputSchema)
				if err != nil {
					return nil, "", err
				}
				return v, registryPath, nil
			}
		case !os.IsNotExist(err):
			return nil, "", err
		}
	}

	v, err := validation.NewValidatorFromJSON(defaultInputSchema)
	if err != nil {
		return nil, "", err
	}
	return v, "built-in", nil
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
	document, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("%w: encode input: %v", ErrProfileInvalid, err)
	}

	result, err := h.validator.Validate(document)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProfileInvalid, err)
	}

	output := &Output{
		ApplicantID:      input.ApplicantID,
		IsValid:          result.Valid,
		ValidationErrors: result.Errors,
	}
	if output.ValidationErrors == nil {
		output.ValidationErrors = []validation.ValidationError{}
	}

	if !result.Valid {
		h.logger.Warn("credit profile rejected", map[string]interface{}{
			"applicantId": input.ApplicantID,
			"errorCount":  len(result.Errors),
		})

		if h.failOnInvalid(input) {
			return nil, fmt.Errorf("%w: %s", ErrProfileInvalid, strings.Join(result.GetErrorMessages(), "; "))
		}
	}

	return output, nil
}

func (h *Handler) failOnInvalid(input *Input) bool {
	if input.FailOnInvalid != nil {
		return *input.FailOnInvalid
	}
	return h.config.FailOnInvalid
}

func toStandardError(err error) error {
	if errors.Is(err, ErrProfileInvalid) {
		return apperrors.NewProfileValidationFailedError(err.Error())
	}
	return err
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
		"jobKey":  job.Key,
		"isValid": output.IsValid,
	})
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, err error) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(apperrors.Normalize(err).Code)).Inc()
	h.errorHandler.HandleJobError(context.Background(), client, job, err)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
