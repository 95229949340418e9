package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"jobdash/internal/core"
)

// Options configures a Store
type Options struct {
	// RunsPerSpec is how many of the latest runs a fetch loads per spec
	RunsPerSpec int
	// FetchTimeout bounds dispatched fetches
	FetchTimeout time.Duration
}

// Store keeps the current snapshot. Readers call Snapshot and never block;
// fetches build a new snapshot and swap it in.
type Store struct {
	backend Backend
	opts    Options
	logger  *zap.Logger

	state   atomic.Pointer[core.State]
	writeMu sync.Mutex

	lifeMu   sync.Mutex
	closed   bool
	inflight sync.WaitGroup
}

// New creates a store with an empty snapshot
func New(backend Backend, opts Options, logger *zap.Logger) *Store {
	if opts.RunsPerSpec <= 0 {
		opts.RunsPerSpec = 5
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{backend: backend, opts: opts, logger: logger}
	s.state.Store(core.NewState())
	return s
}

// Snapshot returns the current snapshot. It must not be modified.
func (s *Store) Snapshot() *core.State {
	return s.state.Load()
}

// Dispatch starts a fetch of the job spec in the background and returns
// immediately. Failures are logged.
func (s *Store) Dispatch(jobSpecID string) {
	s.dispatch("job spec", jobSpecID, s.Fetch)
}

// DispatchJobRun is Dispatch for a single job run
func (s *Store) DispatchJobRun(jobRunID string) {
	s.dispatch("job run", jobRunID, s.FetchJobRun)
}

func (s *Store) dispatch(kind, id string, fetch func(context.Context, string) error) {
	s.lifeMu.Lock()
	if s.closed {
		s.lifeMu.Unlock()
		return
	}
	s.inflight.Add(1)
	s.lifeMu.Unlock()

	go func() {
		defer s.inflight.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.opts.FetchTimeout)
		defer cancel()

		if err := fetch(ctx, id); err != nil {
			level := zap.WarnLevel
			if errors.Is(err, ErrNotFound) {
				level = zap.DebugLevel
			}
			s.logger.Log(level, "fetch failed", zap.String("kind", kind), zap.String("id", id), zap.Error(err))
		}
	}()
}

// Fetch loads a job spec, its latest runs, its run count and the nodes of
// those runs, and merges them into the snapshot.
func (s *Store) Fetch(ctx context.Context, jobSpecID string) error {
	var (
		spec  core.JobSpec
		runs  []core.JobRun
		count int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		spec, err = s.backend.JobSpec(gctx, jobSpecID)
		return err
	})
	g.Go(func() error {
		var err error
		runs, err = s.backend.LatestJobRuns(gctx, jobSpecID, s.opts.RunsPerSpec)
		return err
	})
	g.Go(func() error {
		var err error
		count, err = s.backend.CountJobRuns(gctx, jobSpecID)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("fetch job spec %s: %w", jobSpecID, err)
	}

	nodes, err := s.fetchNodes(ctx, runs)
	if err != nil {
		return fmt.Errorf("fetch job spec %s: %w", jobSpecID, err)
	}

	s.update(func(st *core.State) {
		st.JobSpecs[spec.ID] = spec
		st.JobRunCounts[spec.ID] = count
		for _, r := range runs {
			st.JobRuns[r.ID] = r
		}
		for _, n := range nodes {
			st.Nodes[n.ID] = n
		}
	})
	s.logger.Debug("fetched job spec",
		zap.String("id", jobSpecID), zap.Int("runs", len(runs)), zap.Int("count", count))
	return nil
}

// FetchJobRun loads a single run, its node and the run count of its spec
// into the snapshot. The count is refreshed so it never falls behind the
// runs the snapshot holds.
func (s *Store) FetchJobRun(ctx context.Context, jobRunID string) error {
	run, err := s.backend.JobRun(ctx, jobRunID)
	if err != nil {
		return fmt.Errorf("fetch job run %s: %w", jobRunID, err)
	}

	var (
		nodes []core.Node
		count int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		nodes, err = s.fetchNodes(gctx, []core.JobRun{run})
		return err
	})
	g.Go(func() error {
		var err error
		count, err = s.backend.CountJobRuns(gctx, run.JobSpecID)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("fetch job run %s: %w", jobRunID, err)
	}

	s.update(func(st *core.State) {
		st.JobRuns[run.ID] = run
		st.JobRunCounts[run.JobSpecID] = count
		for _, n := range nodes {
			st.Nodes[n.ID] = n
		}
	})
	return nil
}

// Close stops accepting dispatches and waits for the running ones
func (s *Store) Close() {
	s.lifeMu.Lock()
	s.closed = true
	s.lifeMu.Unlock()
	s.inflight.Wait()
}

// fetchNodes loads the distinct nodes referenced by runs. Unknown nodes are
// skipped; the view shows a blank name for them.
func (s *Store) fetchNodes(ctx context.Context, runs []core.JobRun) ([]core.Node, error) {
	ids := make(map[string]struct{})
	for _, r := range runs {
		if r.NodeID != "" {
			ids[r.NodeID] = struct{}{}
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}

	var mu sync.Mutex
	nodes := make([]core.Node, 0, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for id := range ids {
		id := id
		g.Go(func() error {
			n, err := s.backend.Node(gctx, id)
			if errors.Is(err, ErrNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			mu.Lock()
			nodes = append(nodes, n)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return nodes, nil
}

func (s *Store) update(fn func(*core.State)) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	next := s.state.Load().Clone()
	fn(next)
	s.state.Store(next)
}
