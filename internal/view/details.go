// Package view turns view-models into ordered, labelled rows and renders them
// as terminal text or HTML. Nothing here keeps state between calls.
package view

import (
	"fmt"
	"time"

	"jobdash/internal/core"
	"jobdash/internal/format"
)

// Row labels of the job run details, in display order.
const (
	LabelJobID      = "Job ID"
	LabelNode       = "Node"
	LabelInitiator  = "Initiator"
	LabelRequester  = "Requester"
	LabelRequestID  = "Request ID"
	LabelTxHash     = "Request Transaction Hash"
	LabelFinishedAt = "Finished At"
	LabelError      = "Error"
	LabelTasks      = "Tasks"
)

// Options carries the configuration the renderers pass through
type Options struct {
	// ExplorerHost is the block explorer used for transaction links
	ExplorerHost string
	// Location is used for timestamps; nil means time.Local
	Location *time.Location
}

// Row is one labelled value. Link is set when the value points somewhere.
type Row struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	Link  string `json:"link,omitempty"`
}

// TaskRow is one task run inside the Tasks section
type TaskRow struct {
	Position      int     `json:"position"`
	Type          string  `json:"type"`
	Status        string  `json:"status"`
	Confirmations string  `json:"confirmations,omitempty"`
	TxHash        string  `json:"txHash,omitempty"`
	TxURL         string  `json:"txUrl,omitempty"`
	Error         *string `json:"error,omitempty"`
}

// Details is the rendered layout of a job run
type Details struct {
	Rows  []Row     `json:"rows"`
	Tasks []TaskRow `json:"tasks"`
}

// Row returns the row labelled key
func (d Details) Row(key string) (Row, bool) {
	for _, r := range d.Rows {
		if r.Key == key {
			return r, true
		}
	}
	return Row{}, false
}

// JobRunDetails lays out a job run. Every row is present even when its value
// is blank, except Error which only appears when the run has one.
func JobRunDetails(run core.JobRun, nodeName string, opts Options) Details {
	rows := []Row{
		{Key: LabelJobID, Value: run.JobSpecID},
		{Key: LabelNode, Value: nodeName},
		{Key: LabelInitiator, Value: run.Type},
		{Key: LabelRequester, Value: run.Requester},
		{Key: LabelRequestID, Value: run.RequestID},
		{Key: LabelTxHash, Value: run.TxHash, Link: format.TxURL(opts.ExplorerHost, run.TxHash)},
		{Key: LabelFinishedAt, Value: format.Timestamp(run.FinishedAt, opts.Location)},
	}
	if run.Error != nil {
		rows = append(rows, Row{Key: LabelError, Value: *run.Error})
	}
	return Details{
		Rows:  rows,
		Tasks: TaskRows(run.TaskRuns, opts.ExplorerHost),
	}
}

// TaskRows lays out task runs in execution order
func TaskRows(taskRuns []core.TaskRun, explorerHost string) []TaskRow {
	rows := make([]TaskRow, 0, len(taskRuns))
	for i, t := range taskRuns {
		row := TaskRow{
			Position: i + 1,
			Type:     t.Type,
			Status:   t.Status,
			TxHash:   t.TransactionHash,
			TxURL:    format.TxURL(explorerHost, t.TransactionHash),
			Error:    t.Error,
		}
		if t.MinimumConfirmations > 0 {
			row.Confirmations = fmt.Sprintf("%d/%d", t.Confirmations, t.MinimumConfirmations)
		}
		rows = append(rows, row)
	}
	return rows
}
