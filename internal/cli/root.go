// Package cli defines the novelreader command tree. Running the binary
// without a subcommand starts the HTTP server.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrlokans/novelreader/internal/config"
	"github.com/mrlokans/novelreader/internal/entrypoint"
)

// NewRootCommand builds the command tree. Configuration is read from the
// environment once per invocation.
func NewRootCommand(version string) *cobra.Command {
	serve := func(cmd *cobra.Command, args []string) error {
		return entrypoint.Run(config.NewConfig(), version)
	}

	root := &cobra.Command{
		Use:           "novelreader",
		Short:         "Fetch, cache and read novels",
		Version:       version,
		RunE:          serve,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Start the HTTP server (default if no command given)",
			Args:  cobra.NoArgs,
			RunE:  serve,
		},
		newFetchCommand(),
		newCheckCommand(),
		newCleanCommand(),
		newCacheCommand(),
	)

	return root
}

// withApp opens the application for a one-shot command and closes it after.
func withApp(fn func(app *entrypoint.App) error) error {
	cfg := config.NewConfig()
	logger, err := entrypoint.NewLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	app, err := entrypoint.NewApp(cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	return fn(app)
}
