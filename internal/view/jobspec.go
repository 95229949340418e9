package view

import (
	"strconv"

	"jobdash/internal/format"
	"jobdash/internal/selector"
)

// Summary labels of the job spec page.
const (
	LabelID       = "ID"
	LabelCreated  = "Created"
	LabelRunCount = "Run Count"
)

// FetchingText is shown until the job spec has been loaded
const FetchingText = "Fetching..."

// RunSummary is one entry of the "Last Run" list
type RunSummary struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	CreatedAt  string `json:"createdAt"`
	FinishedAt string `json:"finishedAt"`
	Error      string `json:"error,omitempty"`
}

// Page is the rendered layout of a job spec. When Fetching is set nothing
// else is populated.
type Page struct {
	Fetching   bool         `json:"fetching"`
	Summary    []Row        `json:"summary,omitempty"`
	Definition string       `json:"definition,omitempty"`
	LatestRuns []RunSummary `json:"latestRuns,omitempty"`
}

// JobSpecPage lays out the job spec view-model
func JobSpecPage(vm selector.JobSpecViewModel, opts Options) (Page, error) {
	if vm.Fetching() {
		return Page{Fetching: true}, nil
	}
	spec := vm.JobSpec

	definition, err := format.PrettyJSON(format.JobSpecDefinition(*spec))
	if err != nil {
		return Page{}, err
	}

	runs := make([]RunSummary, 0, len(vm.LatestJobRuns))
	for _, r := range vm.LatestJobRuns {
		s := RunSummary{
			ID:         r.ID,
			Status:     r.Status,
			CreatedAt:  format.Timestamp(&r.CreatedAt, opts.Location),
			FinishedAt: format.Timestamp(r.FinishedAt, opts.Location),
		}
		if r.Error != nil {
			s.Error = *r.Error
		}
		runs = append(runs, s)
	}

	return Page{
		Summary: []Row{
			{Key: LabelID, Value: spec.ID},
			{Key: LabelCreated, Value: format.Timestamp(&spec.CreatedAt, opts.Location)},
			{Key: LabelInitiator, Value: format.Initiators(spec.Initiators)},
			{Key: LabelRunCount, Value: strconv.Itoa(vm.JobRunsCount)},
		},
		Definition: definition,
		LatestRuns: runs,
	}, nil
}
