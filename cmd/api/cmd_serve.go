package main

import (
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API until interrupted",
	Long: `Starts the HTTP API on server.port. SIGINT or SIGTERM stops accepting
requests, drains in-flight ones and flushes pending persistence and
batch archives before exiting.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	return a.Serve(cmd.Context())
}
