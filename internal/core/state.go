package core

// State is a read-only snapshot of the records known to the dashboard.
// Callers that need a different snapshot build one with Clone.
type State struct {
	JobSpecs map[string]JobSpec
	JobRuns  map[string]JobRun
	Nodes    map[string]Node
	// JobRunCounts holds the total number of runs per job spec as reported
	// by the backend. JobRuns usually holds only a page of them.
	JobRunCounts map[string]int
}

// NewState returns an empty snapshot
func NewState() *State {
	return &State{
		JobSpecs:     make(map[string]JobSpec),
		JobRuns:      make(map[string]JobRun),
		Nodes:        make(map[string]Node),
		JobRunCounts: make(map[string]int),
	}
}

// Clone copies the snapshot's maps so the copy can be modified freely.
// Records are values and are shared.
func (s *State) Clone() *State {
	c := &State{
		JobSpecs:     make(map[string]JobSpec, len(s.JobSpecs)),
		JobRuns:      make(map[string]JobRun, len(s.JobRuns)),
		Nodes:        make(map[string]Node, len(s.Nodes)),
		JobRunCounts: make(map[string]int, len(s.JobRunCounts)),
	}
	for k, v := range s.JobSpecs {
		c.JobSpecs[k] = v
	}
	for k, v := range s.JobRuns {
		c.JobRuns[k] = v
	}
	for k, v := range s.Nodes {
		c.Nodes[k] = v
	}
	for k, v := range s.JobRunCounts {
		c.JobRunCounts[k] = v
	}
	return c
}
