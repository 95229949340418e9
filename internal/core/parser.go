package core

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Fixture is a set of records loaded from a YAML (or JSON) document
type Fixture struct {
	Nodes    []Node
	JobSpecs []JobSpec
	JobRuns  []JobRun
}

// ErrInvalidFixture is returned for documents that decode but reference
// missing or malformed records.
var ErrInvalidFixture = errors.New("invalid fixture")

// the document keeps timestamps as strings so both RFC 3339 and plain
// dates ("2020-01-01") are accepted
type fixtureDoc struct {
	Nodes    []Node       `yaml:"nodes"`
	JobSpecs []jobSpecDoc `yaml:"jobSpecs"`
	JobRuns  []jobRunDoc  `yaml:"jobRuns"`
}

type jobSpecDoc struct {
	ID         string      `yaml:"id"`
	CreatedAt  string      `yaml:"createdAt"`
	Initiators []Initiator `yaml:"initiators"`
	Tasks      []TaskSpec  `yaml:"tasks"`
	StartAt    string      `yaml:"startAt"`
	EndAt      string      `yaml:"endAt"`
	MinPayment string      `yaml:"minPayment"`
}

type jobRunDoc struct {
	ID         string       `yaml:"id"`
	JobSpecID  string       `yaml:"jobId"`
	Type       string       `yaml:"type"`
	Status     string       `yaml:"status"`
	Requester  string       `yaml:"requester"`
	RequestID  string       `yaml:"requestId"`
	TxHash     string       `yaml:"txHash"`
	CreatedAt  string       `yaml:"createdAt"`
	FinishedAt string       `yaml:"finishedAt"`
	Error      *string      `yaml:"error"`
	TaskRuns   []taskRunDoc `yaml:"taskRuns"`
	NodeID     string       `yaml:"nodeId"`
}

type taskRunDoc struct {
	ID                   string  `yaml:"id"`
	Type                 string  `yaml:"type"`
	Status               string  `yaml:"status"`
	Error                *string `yaml:"error"`
	TransactionHash      string  `yaml:"transactionHash"`
	Confirmations        int     `yaml:"confirmations"`
	MinimumConfirmations int     `yaml:"minimumConfirmations"`
}

// ParseFixture parses YAML content into a Fixture
func ParseFixture(data []byte) (*Fixture, error) {
	var doc fixtureDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	return doc.build()
}

// LoadFixture reads a fixture file and returns its records
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseFixture(data)
}

func (d fixtureDoc) build() (*Fixture, error) {
	f := &Fixture{Nodes: d.Nodes}

	nodes := make(map[string]bool, len(d.Nodes))
	for _, n := range d.Nodes {
		if n.ID == "" {
			return nil, fmt.Errorf("%w: node %q has no id", ErrInvalidFixture, n.Name)
		}
		if nodes[n.ID] {
			return nil, fmt.Errorf("%w: duplicate node %q", ErrInvalidFixture, n.ID)
		}
		nodes[n.ID] = true
	}

	specs := make(map[string]bool, len(d.JobSpecs))
	for i, s := range d.JobSpecs {
		spec, err := s.build()
		if err != nil {
			return nil, fmt.Errorf("%w: job spec %d: %v", ErrInvalidFixture, i, err)
		}
		if specs[spec.ID] {
			return nil, fmt.Errorf("%w: duplicate job spec %q", ErrInvalidFixture, spec.ID)
		}
		specs[spec.ID] = true
		f.JobSpecs = append(f.JobSpecs, spec)
	}

	runs := make(map[string]bool, len(d.JobRuns))
	for i, r := range d.JobRuns {
		run, err := r.build()
		if err != nil {
			return nil, fmt.Errorf("%w: job run %d: %v", ErrInvalidFixture, i, err)
		}
		if runs[run.ID] {
			return nil, fmt.Errorf("%w: duplicate job run %q", ErrInvalidFixture, run.ID)
		}
		runs[run.ID] = true
		if !specs[run.JobSpecID] {
			return nil, fmt.Errorf("%w: job run %s references unknown job spec %q", ErrInvalidFixture, run.ID, run.JobSpecID)
		}
		if run.NodeID != "" && !nodes[run.NodeID] {
			return nil, fmt.Errorf("%w: job run %s references unknown node %q", ErrInvalidFixture, run.ID, run.NodeID)
		}
		f.JobRuns = append(f.JobRuns, run)
	}
	return f, nil
}

func (s jobSpecDoc) build() (JobSpec, error) {
	spec := JobSpec{
		ID:         s.ID,
		Initiators: s.Initiators,
		Tasks:      s.Tasks,
		MinPayment: s.MinPayment,
	}
	if spec.ID == "" {
		spec.ID = uuid.NewString()
	}

	var err error
	if spec.CreatedAt, err = parseTime(s.CreatedAt); err != nil {
		return JobSpec{}, fmt.Errorf("createdAt: %w", err)
	}
	if spec.StartAt, err = parseOptionalTime(s.StartAt); err != nil {
		return JobSpec{}, fmt.Errorf("startAt: %w", err)
	}
	if spec.EndAt, err = parseOptionalTime(s.EndAt); err != nil {
		return JobSpec{}, fmt.Errorf("endAt: %w", err)
	}
	return spec, nil
}

func (r jobRunDoc) build() (JobRun, error) {
	if r.ID == "" {
		return JobRun{}, errors.New("missing id")
	}
	if r.JobSpecID == "" {
		return JobRun{}, errors.New("missing jobId")
	}

	run := JobRun{
		ID:        r.ID,
		JobSpecID: r.JobSpecID,
		Type:      r.Type,
		Status:    r.Status,
		Requester: r.Requester,
		RequestID: r.RequestID,
		TxHash:    r.TxHash,
		Error:     r.Error,
		NodeID:    r.NodeID,
	}

	var err error
	if run.CreatedAt, err = parseTime(r.CreatedAt); err != nil {
		return JobRun{}, fmt.Errorf("createdAt: %w", err)
	}
	if run.FinishedAt, err = parseOptionalTime(r.FinishedAt); err != nil {
		return JobRun{}, fmt.Errorf("finishedAt: %w", err)
	}

	// index follows document order
	for i, t := range r.TaskRuns {
		run.TaskRuns = append(run.TaskRuns, TaskRun{
			ID:                   t.ID,
			Index:                i,
			Type:                 t.Type,
			Status:               t.Status,
			Error:                t.Error,
			TransactionHash:      t.TransactionHash,
			Confirmations:        t.Confirmations,
			MinimumConfirmations: t.MinimumConfirmations,
		})
	}
	return run, nil
}

var timeLayouts = []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02"}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

func parseOptionalTime(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := parseTime(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
