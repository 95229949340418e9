// Package store holds the dashboard's snapshot of job specs, job runs and
// nodes, and refreshes it from a Backend on request.
package store

import (
	"context"
	"errors"

	"jobdash/internal/core"
)

// ErrNotFound is returned when a backend has no record for an id
var ErrNotFound = errors.New("not found")

// Backend is where records come from. Implementations must be safe for
// concurrent use.
type Backend interface {
	JobSpec(ctx context.Context, id string) (core.JobSpec, error)
	// LatestJobRuns returns up to limit runs of a spec, most recent first
	LatestJobRuns(ctx context.Context, jobSpecID string, limit int) ([]core.JobRun, error)
	CountJobRuns(ctx context.Context, jobSpecID string) (int, error)
	JobRun(ctx context.Context, id string) (core.JobRun, error)
	Node(ctx context.Context, id string) (core.Node, error)

	PutJobSpec(ctx context.Context, spec core.JobSpec) error
	PutJobRun(ctx context.Context, run core.JobRun) error
	PutNode(ctx context.Context, node core.Node) error
}

// Import writes every record of a fixture into b
func Import(ctx context.Context, b Backend, f *core.Fixture) error {
	for _, n := range f.Nodes {
		if err := b.PutNode(ctx, n); err != nil {
			return err
		}
	}
	for _, s := range f.JobSpecs {
		if err := b.PutJobSpec(ctx, s); err != nil {
			return err
		}
	}
	for _, r := range f.JobRuns {
		if err := b.PutJobRun(ctx, r); err != nil {
			return err
		}
	}
	return nil
}
