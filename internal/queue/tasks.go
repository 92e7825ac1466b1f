package queue

import (
	"encoding/json"

	"github.com/Asadullah378/OmniValio-Junction2025/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskClaimTriage asynchronous AI claim triage task
	TaskClaimTriage = constants.TaskClaimTriage
)

// ClaimTriagePayload claim triage task payload
type ClaimTriagePayload struct {
	ClaimID uint   `json:"claim_id"`
	ClaimNo string `json:"claim_no"`
}

// NewClaimTriageTask creates a claim triage task.
func NewClaimTriageTask(payload ClaimTriagePayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskClaimTriage, body), nil
}
