package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrlokans/novelreader/internal/config"
	"github.com/mrlokans/novelreader/internal/fetcher"
)

func newCheckCommand() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "check URL",
		Short: "Probe whether a URL can be downloaded as a novel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.NewConfig()
			client := fetcher.NewClient(fetcher.WithUserAgent(cfg.Fetch.UserAgent))

			outcome := client.CheckURL(cmd.Context(), args[0], timeout)
			if outcome.Valid {
				fmt.Fprintf(cmd.OutOrStdout(), "OK    %s\n", args[0])
				return nil
			}
			if outcome.Failure == nil {
				return fmt.Errorf("%s is not downloadable", args[0])
			}
			return fmt.Errorf("%s is not downloadable (%s): %s", args[0], outcome.Failure.Kind, outcome.Failure.Message)
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", fetcher.DefaultCheckTimeout, "probe timeout")
	return cmd
}
