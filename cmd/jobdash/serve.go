package main

import (
	"github.com/spf13/cobra"

	"jobdash/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the job spec and job run pages over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, closeBackend, err := openBackend(cmd.Context())
		if err != nil {
			return err
		}
		defer closeBackend()

		st := newStore(backend)
		defer st.Close()

		srv := server.New(st, viewOptions(), cfg.View.LatestRuns, logger)
		return srv.ListenAndServe(cmd.Context(), cfg.Server.Addr)
	},
}
