package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrlokans/novelreader/internal/entrypoint"
	"github.com/mrlokans/novelreader/internal/utils"
)

func newCacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and maintain the cache",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "stats",
			Short: "Show cache size and entry counts",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(func(app *entrypoint.App) error {
					novels, err := app.Library.Count()
					if err != nil {
						return err
					}
					stats := app.Cache.Stats()
					fmt.Fprintf(cmd.OutOrStdout(), "backend:  %s\nentries:  %d\nexpired:  %d\nsize:     %s\nnovels:   %d\n",
						app.Config.Cache.Backend, stats.ItemCount, stats.ExpiredCount, utils.FormatFileSize(stats.TotalSize), novels)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "cleanup",
			Short: "Remove expired entries",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(func(app *entrypoint.App) error {
					removed := app.Cache.CleanupExpired()
					app.Audit.LogCache("cleanup", removed)
					fmt.Fprintf(cmd.OutOrStdout(), "removed %d expired entries\n", removed)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove every entry in the namespace",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(func(app *entrypoint.App) error {
					removed := app.Cache.Clear()
					app.Audit.LogCache("clear", removed)
					fmt.Fprintf(cmd.OutOrStdout(), "removed %d entries\n", removed)
					return nil
				})
			},
		},
	)

	return cmd
}
