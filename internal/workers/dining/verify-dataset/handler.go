// internal/workers/dining/verify-dataset/handler.go
package verifydataset

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"dining-recommender/internal/common/aws"
	"dining-recommender/internal/common/camunda"
	apperrors "dining-recommender/internal/common/errors"
	"dining-recommender/internal/common/logger"
	"dining-recommender/internal/common/metrics"
	"dining-recommender/internal/common/validation"
	"dining-recommender/internal/dataset"
)

const TaskType = "verify-dataset"

// Notifier is satisfied by *aws.Alerter.
type Notifier interface {
	Notify(ctx context.Context, alert aws.Alert) error
}

type Handler struct {
	config       *Config
	source       dataset.Provider
	notifier     Notifier
	validator    *validation.SchemaValidator
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

// NewHandler wires the worker. notifier may be nil, which disables alerts.
func NewHandler(config *Config, source dataset.Provider, notifier Notifier, validator *validation.SchemaValidator, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		source:       source,
		notifier:     notifier,
		validator:    validator,
		errorHandler: apperrors.NewErrorHandler(log),
		logger:       log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := camunda.DecodeVariables(job, TaskType, h.validator, &input); err != nil {
		h.fail(ctx, client, job, err)
		return
	}

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.fail(ctx, client, job, err)
		return
	}

	if err := camunda.CompleteJob(ctx, client, job, output, h.logger); err == nil {
		metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	}
}

func (h *Handler) fail(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	code := h.errorHandler.HandleJobError(ctx, client, job, err)
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, code).Inc()
}

func (h *Handler) execute(ctx context.Context, _ *Input) (*Output, error) {
	records, err := h.source.Load(ctx)
	if err != nil {
		var integrity *dataset.IntegrityError
		if errors.As(err, &integrity) {
			metrics.DatasetLoadErrors.WithLabelValues("integrity").Inc()
			h.alert(ctx, integrity)
			return nil, apperrors.NewDataIntegrityError(integrity.Error())
		}
		metrics.DatasetLoadErrors.WithLabelValues("load").Inc()
		return nil, apperrors.NewDatasetLoadFailedError(err)
	}

	report := dataset.Validate(records)
	if !report.Valid() {
		h.logger.Warn("dataset has vocabulary issues", map[string]interface{}{
			"recordCount": report.RecordCount,
			"issueCount":  len(report.Issues),
		})
	}

	return &Output{
		Valid:       report.Valid(),
		RecordCount: report.RecordCount,
		Issues:      report.Issues,
	}, nil
}

// alert is best effort; a failed publish is logged and the job still throws
// the integrity error.
func (h *Handler) alert(ctx context.Context, integrity *dataset.IntegrityError) {
	if h.notifier == nil {
		return
	}

	problems := integrity.Problems
	if limit := h.config.MaxAlertProblems; limit > 0 && len(problems) > limit {
		problems = append(problems[:limit:limit], fmt.Sprintf("... and %d more", len(integrity.Problems)-limit))
	}

	err := h.notifier.Notify(ctx, aws.Alert{
		Subject: fmt.Sprintf("Dataset integrity check failed (%d problems)", len(integrity.Problems)),
		Message: strings.Join(problems, "\n"),
	})
	if err != nil {
		h.logger.Error("failed to publish integrity alert", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
