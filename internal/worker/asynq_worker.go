package worker

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/Asadullah378/OmniValio-Junction2025/internal/logger"
	"github.com/Asadullah378/OmniValio-Junction2025/internal/provider"
	"github.com/Asadullah378/OmniValio-Junction2025/internal/queue"
	"github.com/Asadullah378/OmniValio-Junction2025/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer async task consumer
type Consumer struct {
	*provider.Container
}

// NewConsumer creates the consumer.
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register registers the task handlers.
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskClaimTriage, c.handleClaimTriage)
}

func (c *Consumer) handleClaimTriage(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_claim_triage_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.ClaimTriagePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_claim_triage_unmarshal_failed", "error", err)
		return err
	}
	if payload.ClaimID == 0 {
		logger.Debugw("worker_claim_triage_skip_invalid_payload", "claim_id", payload.ClaimID)
		return nil
	}
	if c.ClaimService == nil {
		logger.Warnw("worker_claim_triage_skip_claim_service_nil", "claim_id", payload.ClaimID)
		return nil
	}
	if err := c.ClaimService.Triage(ctx, payload.ClaimID); err != nil {
		switch {
		case errors.Is(err, service.ErrClaimNotFound):
			logger.Debugw("worker_claim_triage_skip_claim_not_found", "claim_id", payload.ClaimID)
			return nil
		case errors.Is(err, service.ErrClaimStateInvalid):
			logger.Debugw("worker_claim_triage_skip_already_handled", "claim_id", payload.ClaimID, "claim_no", payload.ClaimNo)
			return nil
		default:
			logger.Warnw("worker_claim_triage_failed", "claim_id", payload.ClaimID, "error", err)
			return err
		}
	}
	return nil
}
