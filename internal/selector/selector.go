// Package selector derives view-models from a store snapshot. Every function
// is a pure projection: nothing here mutates the snapshot or fails, and
// missing records come back as nil.
package selector

import (
	"sort"

	"jobdash/internal/core"
)

// LatestJobRunsCount is the number of runs shown on a job spec page
const LatestJobRunsCount = 5

// JobSpecViewModel is everything the job spec page needs
type JobSpecViewModel struct {
	JobSpec       *core.JobSpec `json:"jobSpec"`
	JobRunsCount  int           `json:"jobRunsCount"`
	LatestJobRuns []core.JobRun `json:"latestJobRuns"`
}

// Fetching reports whether the job spec has not been loaded yet
func (vm JobSpecViewModel) Fetching() bool {
	return vm.JobSpec == nil
}

// JobRunViewModel is a single run with the node that executed it
type JobRunViewModel struct {
	JobRun *core.JobRun `json:"jobRun"`
	Node   *core.Node   `json:"node"`
}

// Select builds the job spec view-model for jobSpecID
func Select(state *core.State, jobSpecID string, bound int) JobSpecViewModel {
	return JobSpecViewModel{
		JobSpec:       JobSpec(state, jobSpecID),
		JobRunsCount:  JobRunsCount(state, jobSpecID),
		LatestJobRuns: LatestJobRuns(state, jobSpecID, bound),
	}
}

// JobSpec returns the spec with the given id, or nil when it is not in the snapshot
func JobSpec(state *core.State, id string) *core.JobSpec {
	if state == nil {
		return nil
	}
	spec, ok := state.JobSpecs[id]
	if !ok {
		return nil
	}
	return &spec
}

// JobRunsCount returns the total number of runs of a spec. The backend count
// wins when the snapshot has one, but never drops below the runs of the spec
// the snapshot already holds.
func JobRunsCount(state *core.State, jobSpecID string) int {
	if state == nil {
		return 0
	}
	n := 0
	for _, r := range state.JobRuns {
		if r.JobSpecID == jobSpecID {
			n++
		}
	}
	if total, ok := state.JobRunCounts[jobSpecID]; ok && total > n {
		return total
	}
	return n
}

// LatestJobRuns returns at most bound runs of a spec, most recent first.
// Runs created at the same instant are ordered by descending id.
func LatestJobRuns(state *core.State, jobSpecID string, bound int) []core.JobRun {
	runs := []core.JobRun{}
	if state == nil || bound <= 0 {
		return runs
	}
	for _, r := range state.JobRuns {
		if r.JobSpecID == jobSpecID {
			runs = append(runs, r)
		}
	}
	sort.Slice(runs, func(i, j int) bool {
		return newerThan(runs[i], runs[j])
	})
	if len(runs) > bound {
		runs = runs[:bound]
	}
	return runs
}

// SelectJobRun builds the job run view-model for jobRunID
func SelectJobRun(state *core.State, jobRunID string) JobRunViewModel {
	var vm JobRunViewModel
	if state == nil {
		return vm
	}
	run, ok := state.JobRuns[jobRunID]
	if !ok {
		return vm
	}
	vm.JobRun = &run
	if node, ok := state.Nodes[run.NodeID]; ok {
		vm.Node = &node
	}
	return vm
}

func newerThan(a, b core.JobRun) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}
