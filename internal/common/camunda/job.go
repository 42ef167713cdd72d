package camunda

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	apperrors "dining-recommender/internal/common/errors"
	"dining-recommender/internal/common/logger"
	"dining-recommender/internal/common/validation"
)

// DecodeVariables validates the job variables against the schema registered
// for taskType and unmarshals them into out. validator may be nil.
func DecodeVariables(job entities.Job, taskType string, validator *validation.SchemaValidator, out interface{}) error {
	raw := job.Variables
	if raw == "" {
		raw = "{}"
	}

	if validator != nil {
		var vars map[string]interface{}
		if err := json.Unmarshal([]byte(raw), &vars); err != nil {
			return apperrors.NewInvalidInputError(fmt.Sprintf("parse variables: %v", err))
		}
		result, err := validator.ValidateInput(taskType, vars)
		if err != nil {
			return apperrors.NewInvalidInputError(err.Error())
		}
		if !result.Valid {
			return apperrors.NewInvalidInputError(result.Summary())
		}
	}

	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return apperrors.NewInvalidInputError(fmt.Sprintf("parse input: %v", err))
	}
	return nil
}

// CompleteJob completes job with output as its variables.
func CompleteJob(ctx context.Context, client worker.JobClient, job entities.Job, output interface{}, log logger.Logger) error {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		log.Error("failed to create complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return err
	}
	if _, err := cmd.Send(ctx); err != nil {
		log.Error("failed to send complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return err
	}
	return nil
}
