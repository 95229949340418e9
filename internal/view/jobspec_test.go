package view

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobdash/internal/core"
	"jobdash/internal/selector"
)

func scenarioState() *core.State {
	s := core.NewState()
	s.JobSpecs["42"] = core.JobSpec{
		ID:         "42",
		CreatedAt:  time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		Initiators: []core.Initiator{{Type: "cron"}},
	}
	for i := 0; i < 7; i++ {
		id := fmt.Sprintf("r%d", i)
		s.JobRuns[id] = core.JobRun{
			ID:        id,
			JobSpecID: "42",
			Status:    core.StatusCompleted,
			CreatedAt: time.Date(2020, 1, 2, i, 0, 0, 0, time.UTC),
		}
	}
	return s
}

func TestJobSpecPageScenario(t *testing.T) {
	vm := selector.Select(scenarioState(), "42", selector.LatestJobRunsCount)
	require.Len(t, vm.LatestJobRuns, 5)
	require.Equal(t, 7, vm.JobRunsCount)

	page, err := JobSpecPage(vm, opts)
	require.NoError(t, err)

	assert.False(t, page.Fetching)
	assert.Equal(t, []Row{
		{Key: LabelID, Value: "42"},
		{Key: LabelCreated, Value: "2020-01-01T00:00:00Z"},
		{Key: LabelInitiator, Value: "cron"},
		{Key: LabelRunCount, Value: "7"},
	}, page.Summary)
	assert.Contains(t, page.Definition, `"type": "cron"`)

	require.Len(t, page.LatestRuns, 5)
	assert.Equal(t, "r6", page.LatestRuns[0].ID)
	assert.Equal(t, "r2", page.LatestRuns[4].ID)
}

func TestJobSpecPageFetching(t *testing.T) {
	vm := selector.Select(core.NewState(), "42", selector.LatestJobRunsCount)

	page, err := JobSpecPage(vm, opts)
	require.NoError(t, err)

	assert.Equal(t, Page{Fetching: true}, page)
}

func TestJobSpecPageRunErrors(t *testing.T) {
	state := scenarioState()
	run := state.JobRuns["r6"]
	run.Error = strPtr("timeout")
	state.JobRuns["r6"] = run

	page, err := JobSpecPage(selector.Select(state, "42", 1), opts)
	require.NoError(t, err)
	require.Len(t, page.LatestRuns, 1)
	assert.Equal(t, "timeout", page.LatestRuns[0].Error)
	assert.Equal(t, "", page.LatestRuns[0].FinishedAt)
}

func TestJobSpecPageMissingCreatedAt(t *testing.T) {
	state := scenarioState()
	spec := state.JobSpecs["42"]
	spec.CreatedAt = time.Time{}
	state.JobSpecs["42"] = spec

	page, err := JobSpecPage(selector.Select(state, "42", 1), opts)
	require.NoError(t, err)
	row := page.Summary[1]
	assert.Equal(t, LabelCreated, row.Key)
	assert.Equal(t, "", row.Value)
}
