package core

import "time"

// JobSpec is a configured unit of work that can be triggered by its initiators
type JobSpec struct {
	ID         string      `json:"id"`
	CreatedAt  time.Time   `json:"createdAt"`
	Initiators []Initiator `json:"initiators"`
	Tasks      []TaskSpec  `json:"tasks"`
	StartAt    *time.Time  `json:"startAt,omitempty"`
	EndAt      *time.Time  `json:"endAt,omitempty"`
	MinPayment string      `json:"minPayment,omitempty"`
}

// Initiator describes how a job is triggered (e.g. "cron", "web", "runlog")
type Initiator struct {
	Type   string         `yaml:"type" json:"type"`
	Params map[string]any `yaml:"params,omitempty" json:"params,omitempty"`
}

// TaskSpec is a single step of a job spec's pipeline
type TaskSpec struct {
	Type          string         `yaml:"type" json:"type"`
	Confirmations int            `yaml:"confirmations,omitempty" json:"confirmations,omitempty"`
	Params        map[string]any `yaml:"params,omitempty" json:"params,omitempty"`
}

// Node identifies the agent that executed a job run
type Node struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
}
