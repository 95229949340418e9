package core

import "time"

// Run statuses reported by nodes.
const (
	StatusInProgress = "in_progress"
	StatusPending    = "pending_confirmations"
	StatusCompleted  = "completed"
	StatusErrored    = "errored"
)

// JobRun is one execution of a JobSpec. It refers to its spec by id only.
//
// FinishedAt and Error are independent: a run can be finished with an error,
// unfinished with an error, or any other combination.
type JobRun struct {
	ID         string     `json:"id"`
	JobSpecID  string     `json:"jobId"`
	Type       string     `json:"type"` // initiator type that started the run
	Status     string     `json:"status"`
	Requester  string     `json:"requester"`
	RequestID  string     `json:"requestId"`
	TxHash     string     `json:"txHash"`
	CreatedAt  time.Time  `json:"createdAt"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
	Error      *string    `json:"error,omitempty"`
	TaskRuns   []TaskRun  `json:"taskRuns"`
	NodeID     string     `json:"nodeId"`
}

// TaskRun is one step inside a JobRun, kept in execution order
type TaskRun struct {
	ID                   string  `json:"id"`
	Index                int     `json:"index"`
	Type                 string  `json:"type"`
	Status               string  `json:"status"`
	Error                *string `json:"error,omitempty"`
	TransactionHash      string  `json:"transactionHash,omitempty"`
	Confirmations        int     `json:"confirmations"`
	MinimumConfirmations int     `json:"minimumConfirmations"`
}

// Finished reports whether the run has a finish timestamp
func (r JobRun) Finished() bool {
	return r.FinishedAt != nil
}
