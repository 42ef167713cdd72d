// internal/workers/dining/recommend-restaurants/handler.go
package recommendrestaurants

import (
	"context"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"

	"dining-recommender/internal/common/camunda"
	apperrors "dining-recommender/internal/common/errors"
	"dining-recommender/internal/common/logger"
	"dining-recommender/internal/common/metrics"
	"dining-recommender/internal/common/observability"
	"dining-recommender/internal/common/validation"
	"dining-recommender/internal/recommender"
)

const TaskType = "recommend-restaurants"

// Recommender is satisfied by *recommender.Ranker.
type Recommender interface {
	Recommend(ctx context.Context, req recommender.Request) (*recommender.Recommendation, error)
}

type Handler struct {
	config        *Config
	ranker        Recommender
	validator     *validation.SchemaValidator
	observability *observability.Observability
	errorHandler  *apperrors.ErrorHandler
	logger        logger.Logger
}

// NewHandler wires the worker. obs may be nil.
func NewHandler(config *Config, ranker Recommender, validator *validation.SchemaValidator, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:        config,
		ranker:        ranker,
		validator:     validator,
		observability: obs,
		errorHandler:  apperrors.NewErrorHandler(log),
		logger:        log,
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
		h.observability.RecordRecommended(ctx, input.City, "error")
		h.fail(ctx, client, job, err)
		return
	}
	h.observability.RecordRecommended(ctx, output.ParsedQuery.City, "success")

	if err := camunda.CompleteJob(ctx, client, job, output, h.logger); err == nil {
		metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	}
}

func (h *Handler) fail(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	code := h.errorHandler.HandleJobError(ctx, client, job, err)
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, code).Inc()
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if strings.TrimSpace(input.Query) == "" {
		return nil, apperrors.NewInvalidQueryError("query is empty")
	}
	if input.TopN < 0 {
		return nil, apperrors.NewInvalidInputError("topN must not be negative")
	}

	runID := uuid.New().String()

	rec, err := h.ranker.Recommend(ctx, recommender.Request{
		Query:        input.Query,
		TopN:         input.TopN,
		City:         input.City,
		ExcludeNames: input.ExcludeNames,
	})
	if err != nil {
		return nil, err
	}

	h.logger.Info("recommendations ready", map[string]interface{}{
		"runId": runID,
		"count": len(rec.Results),
		"city":  rec.Query.City,
	})

	return &Output{
		RunID:       runID,
		ParsedQuery: rec.Query,
		Results:     rec.Results,
		Count:       len(rec.Results),
	}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
