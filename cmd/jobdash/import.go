package main

import (
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import [fixture.yaml]",
	Short: "Load nodes, job specs and job runs from a fixture into the store",
	Long: `Loads a YAML (or JSON) fixture into the configured backend. Only useful
with the sqlite backend; the memory backend is discarded on exit.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, closeBackend, err := openBackend(cmd.Context())
		if err != nil {
			return err
		}
		defer closeBackend()

		return importFixture(cmd.Context(), backend, args[0])
	},
}
