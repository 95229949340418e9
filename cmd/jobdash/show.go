package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"jobdash/internal/selector"
	"jobdash/internal/store"
	"jobdash/internal/view"
)

var showCmd = &cobra.Command{
	Use:   "show [job-spec-id]",
	Short: "Print a job spec with its latest runs",
	Example: `  jobdash show 42
  jobdash show 42 --config jobdash.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, closeBackend, err := openBackend(cmd.Context())
		if err != nil {
			return err
		}
		defer closeBackend()

		st := newStore(backend)
		defer st.Close()

		id := args[0]
		if err := st.Fetch(cmd.Context(), id); err != nil && !errors.Is(err, store.ErrNotFound) {
			return err
		}

		page, err := view.JobSpecPage(selector.Select(st.Snapshot(), id, cfg.View.LatestRuns), viewOptions())
		if err != nil {
			return err
		}
		if err := view.RenderText(cmd.OutOrStdout(), page, view.DefaultStyles()); err != nil {
			return err
		}
		if page.Fetching {
			return fmt.Errorf("job spec %s: %w", id, store.ErrNotFound)
		}
		return nil
	},
}

var runCmd = &cobra.Command{
	Use:   "run [job-run-id]",
	Short: "Print the details of a job run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, closeBackend, err := openBackend(cmd.Context())
		if err != nil {
			return err
		}
		defer closeBackend()

		st := newStore(backend)
		defer st.Close()

		if err := st.FetchJobRun(cmd.Context(), args[0]); err != nil {
			return err
		}
		vm := selector.SelectJobRun(st.Snapshot(), args[0])
		nodeName := ""
		if vm.Node != nil {
			nodeName = vm.Node.Name
		}
		details := view.JobRunDetails(*vm.JobRun, nodeName, viewOptions())
		return view.RenderDetailsText(cmd.OutOrStdout(), details, view.DefaultStyles())
	},
}
