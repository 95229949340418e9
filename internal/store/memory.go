package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"jobdash/internal/core"
)

// MemoryBackend keeps records in maps
type MemoryBackend struct {
	mu    sync.RWMutex
	specs map[string]core.JobSpec
	runs  map[string]core.JobRun
	nodes map[string]core.Node
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		specs: make(map[string]core.JobSpec),
		runs:  make(map[string]core.JobRun),
		nodes: make(map[string]core.Node),
	}
}

func (m *MemoryBackend) JobSpec(_ context.Context, id string) (core.JobSpec, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	spec, ok := m.specs[id]
	if !ok {
		return core.JobSpec{}, fmt.Errorf("job spec %s: %w", id, ErrNotFound)
	}
	return spec, nil
}

func (m *MemoryBackend) LatestJobRuns(_ context.Context, jobSpecID string, limit int) ([]core.JobRun, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	runs := make([]core.JobRun, 0)
	for _, r := range m.runs {
		if r.JobSpecID == jobSpecID {
			runs = append(runs, r)
		}
	}
	sort.Slice(runs, func(i, j int) bool {
		if !runs[i].CreatedAt.Equal(runs[j].CreatedAt) {
			return runs[i].CreatedAt.After(runs[j].CreatedAt)
		}
		return runs[i].ID > runs[j].ID
	})
	if limit >= 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

func (m *MemoryBackend) CountJobRuns(_ context.Context, jobSpecID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, r := range m.runs {
		if r.JobSpecID == jobSpecID {
			n++
		}
	}
	return n, nil
}

func (m *MemoryBackend) JobRun(_ context.Context, id string) (core.JobRun, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	run, ok := m.runs[id]
	if !ok {
		return core.JobRun{}, fmt.Errorf("job run %s: %w", id, ErrNotFound)
	}
	return run, nil
}

func (m *MemoryBackend) Node(_ context.Context, id string) (core.Node, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	node, ok := m.nodes[id]
	if !ok {
		return core.Node{}, fmt.Errorf("node %s: %w", id, ErrNotFound)
	}
	return node, nil
}

func (m *MemoryBackend) PutJobSpec(_ context.Context, spec core.JobSpec) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.specs[spec.ID] = spec
	return nil
}

func (m *MemoryBackend) PutJobRun(_ context.Context, run core.JobRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs[run.ID] = run
	return nil
}

func (m *MemoryBackend) PutNode(_ context.Context, node core.Node) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nodes[node.ID] = node
	return nil
}
