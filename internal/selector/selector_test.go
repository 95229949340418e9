package selector

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobdash/internal/core"
)

var base = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

func stateWithRuns(specID string, n int) *core.State {
	s := core.NewState()
	s.JobSpecs[specID] = core.JobSpec{
		ID:         specID,
		CreatedAt:  base,
		Initiators: []core.Initiator{{Type: "cron"}},
	}
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("run-%02d", i)
		s.JobRuns[id] = core.JobRun{
			ID:        id,
			JobSpecID: specID,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}
	}
	return s
}

func ids(runs []core.JobRun) []string {
	out := make([]string, 0, len(runs))
	for _, r := range runs {
		out = append(out, r.ID)
	}
	return out
}

func TestSelectBoundsLatestRuns(t *testing.T) {
	state := stateWithRuns("42", 7)

	vm := Select(state, "42", LatestJobRunsCount)

	require.NotNil(t, vm.JobSpec)
	assert.False(t, vm.Fetching())
	assert.Equal(t, "42", vm.JobSpec.ID)
	assert.Equal(t, 7, vm.JobRunsCount)
	require.Len(t, vm.LatestJobRuns, 5)

	want := []string{"run-06", "run-05", "run-04", "run-03", "run-02"}
	if diff := cmp.Diff(want, ids(vm.LatestJobRuns)); diff != "" {
		t.Errorf("latest runs mismatch (-want +got):\n%s", diff)
	}
}

func TestSelectAbsentSpec(t *testing.T) {
	vm := Select(core.NewState(), "missing", LatestJobRunsCount)

	assert.True(t, vm.Fetching())
	assert.Nil(t, vm.JobSpec)
	assert.Zero(t, vm.JobRunsCount)
	assert.NotNil(t, vm.LatestJobRuns)
	assert.Empty(t, vm.LatestJobRuns)
}

func TestSelectNilState(t *testing.T) {
	vm := Select(nil, "42", LatestJobRunsCount)
	assert.True(t, vm.Fetching())
	assert.Empty(t, vm.LatestJobRuns)

	run := SelectJobRun(nil, "r1")
	assert.Nil(t, run.JobRun)
}

func TestJobRunsCountPrefersBackendCount(t *testing.T) {
	state := stateWithRuns("42", 5)
	state.JobRunCounts["42"] = 120

	assert.Equal(t, 120, JobRunsCount(state, "42"))
	assert.Len(t, LatestJobRuns(state, "42", LatestJobRunsCount), 5)
}

func TestJobRunsCountNeverBelowHeldRuns(t *testing.T) {
	state := stateWithRuns("42", 3)
	state.JobRunCounts["42"] = 1

	vm := Select(state, "42", LatestJobRunsCount)
	assert.Equal(t, 3, vm.JobRunsCount)
	assert.GreaterOrEqual(t, vm.JobRunsCount, len(vm.LatestJobRuns))
}

func TestLatestJobRunsIgnoresOtherSpecs(t *testing.T) {
	state := stateWithRuns("42", 3)
	state.JobRuns["other"] = core.JobRun{ID: "other", JobSpecID: "7", CreatedAt: base.Add(100 * time.Hour)}

	runs := LatestJobRuns(state, "42", 10)
	assert.Equal(t, []string{"run-02", "run-01", "run-00"}, ids(runs))
	assert.Equal(t, 3, JobRunsCount(state, "42"))
	assert.Equal(t, 1, JobRunsCount(state, "7"))
}

func TestLatestJobRunsTieBreak(t *testing.T) {
	state := core.NewState()
	for _, id := range []string{"b", "a", "c"} {
		state.JobRuns[id] = core.JobRun{ID: id, JobSpecID: "s", CreatedAt: base}
	}

	for i := 0; i < 10; i++ {
		assert.Equal(t, []string{"c", "b", "a"}, ids(LatestJobRuns(state, "s", 5)))
	}
}

func TestLatestJobRunsNonPositiveBound(t *testing.T) {
	state := stateWithRuns("42", 3)
	assert.Empty(t, LatestJobRuns(state, "42", 0))
	assert.Empty(t, LatestJobRuns(state, "42", -1))
}

func TestSelectDoesNotMutateState(t *testing.T) {
	state := stateWithRuns("42", 7)
	before := state.Clone()

	vm := Select(state, "42", 3)
	vm.JobSpec.ID = "changed"
	vm.LatestJobRuns[0].ID = "changed"

	if diff := cmp.Diff(before, state); diff != "" {
		t.Errorf("state changed (-before +after):\n%s", diff)
	}
}

func TestSelectJobRun(t *testing.T) {
	state := stateWithRuns("42", 1)
	run := state.JobRuns["run-00"]
	run.NodeID = "n1"
	state.JobRuns["run-00"] = run
	state.Nodes["n1"] = core.Node{ID: "n1", Name: "node one"}

	vm := SelectJobRun(state, "run-00")
	require.NotNil(t, vm.JobRun)
	require.NotNil(t, vm.Node)
	assert.Equal(t, "node one", vm.Node.Name)

	state.JobRuns["orphan"] = core.JobRun{ID: "orphan", JobSpecID: "42", NodeID: "gone"}
	vm = SelectJobRun(state, "orphan")
	require.NotNil(t, vm.JobRun)
	assert.Nil(t, vm.Node)

	assert.Nil(t, SelectJobRun(state, "nope").JobRun)
}
