package tasks

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/openfedcloud/fedmgr/internal/models"
	"github.com/openfedcloud/fedmgr/internal/repository"
	appErr "github.com/openfedcloud/fedmgr/pkg/errors"
	"github.com/openfedcloud/fedmgr/pkg/logger"
	"github.com/openfedcloud/fedmgr/pkg/metrics"
)

const TypeProviderEvaluation = "provider:evaluation"

// EvaluationPayload is the task payload for provider evaluation tasks.
type EvaluationPayload struct {
	ProviderID   string `json:"provider_id"`
	ProviderName string `json:"provider_name"`
}

func NewEvaluationTask(p *models.Provider) (*asynq.Task, error) {
	payload, err := json.Marshal(EvaluationPayload{ProviderID: p.ID.String(), ProviderName: p.Name})
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "marshal evaluation payload failed")
	}
	return asynq.NewTask(TypeProviderEvaluation, payload, asynq.MaxRetry(5)), nil
}

// Enqueuer publishes provider lifecycle tasks to the queue. It satisfies
// services.EvaluationNotifier.
type Enqueuer struct {
	client *asynq.Client
}

func NewEnqueuer(client *asynq.Client) *Enqueuer {
	return &Enqueuer{client: client}
}

func (e *Enqueuer) ProviderEnteredEvaluation(ctx context.Context, provider *models.Provider) error {
	task, err := NewEvaluationTask(provider)
	if err != nil {
		return err
	}
	info, err := e.client.EnqueueContext(ctx, task)
	if err != nil {
		return appErr.Wrap(err, appErr.CodeUnavailable, "enqueue evaluation task failed")
	}
	metrics.EvaluationTasks.Inc()
	logger.L().Info("evaluation task enqueued",
		zap.String("provider_id", provider.ID.String()),
		zap.String("task_id", info.ID),
		zap.String("queue", info.Queue))
	return nil
}

// EvaluationTaskHandler handles provider evaluation tasks.
type EvaluationTaskHandler struct {
	providers repository.ProviderRepository
}

func NewEvaluationTaskHandler(providers repository.ProviderRepository) *EvaluationTaskHandler {
	return &EvaluationTaskHandler{providers: providers}
}

// HandleEvaluation records that a provider is awaiting evaluation and
// snapshots the configuration counts evaluators start from. Providers
// gone by the time the task runs are dropped, not retried.
func (h *EvaluationTaskHandler) HandleEvaluation(ctx context.Context, t *asynq.Task) error {
	var p EvaluationPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		logger.L().Error("invalid evaluation task payload", zap.Error(err))
		return err
	}
	id, err := uuid.Parse(p.ProviderID)
	if err != nil {
		logger.L().Error("invalid provider id in task", zap.Error(err))
		return err
	}

	logger.L().Info("handling evaluation task", zap.String("provider_id", id.String()))

	var provider models.Provider
	if err := h.providers.GetByID(ctx, id, &provider); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			logger.L().Warn("provider removed before evaluation started", zap.String("provider_id", id.String()))
			return nil
		}
		logger.L().Error("get provider failed", zap.Error(err))
		return err
	}

	if provider.Status != models.StatusEvaluation {
		logger.L().Info("provider no longer in evaluation, skipping",
			zap.String("provider_id", id.String()),
			zap.String("status", string(provider.Status)))
		return nil
	}

	facts, err := h.providers.Facts(ctx, id)
	if err != nil {
		logger.L().Error("gather provider facts failed", zap.Error(err))
		return err
	}

	logger.L().Info("provider awaiting evaluation",
		zap.String("provider_id", id.String()),
		zap.String("provider_name", provider.Name),
		zap.Int("regions", facts.RegionCount),
		zap.Int("idp_links", facts.IdpLinkCount),
		zap.Int("testers", facts.TesterCount))
	return nil
}
