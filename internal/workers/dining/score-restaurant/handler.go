// internal/workers/dining/score-restaurant/handler.go
package scorerestaurant

import (
	"context"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"dining-recommender/internal/common/camunda"
	apperrors "dining-recommender/internal/common/errors"
	"dining-recommender/internal/common/logger"
	"dining-recommender/internal/common/metrics"
	"dining-recommender/internal/common/validation"
	"dining-recommender/internal/models"
	"dining-recommender/internal/recommender"
)

const TaskType = "score-restaurant"

type Handler struct {
	config       *Config
	validator    *validation.SchemaValidator
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, validator *validation.SchemaValidator, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
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

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	if strings.TrimSpace(input.Restaurant.ID) == "" {
		return nil, apperrors.NewInvalidInputError("restaurant.id is required")
	}

	var parsed models.ParsedQuery
	switch {
	case input.ParsedQuery != nil:
		parsed = *input.ParsedQuery
	case strings.TrimSpace(input.Query) != "":
		parsed = recommender.Parse(input.Query)
	default:
		return nil, apperrors.NewInvalidInputError("one of parsedQuery or query is required")
	}

	score := recommender.Score(input.Restaurant, parsed, input.Coordinate)

	h.logger.Debug("restaurant scored", map[string]interface{}{
		"restaurantId": input.Restaurant.ID,
		"finalScore":   score.FinalScore,
	})

	return &Output{
		Score:       score,
		Explanation: recommender.Explain(input.Restaurant, parsed, score),
	}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
