package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mrlokans/novelreader/internal/textclean"
	"github.com/mrlokans/novelreader/internal/textcodec"
)

func newCleanCommand() *cobra.Command {
	var (
		output string
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "clean FILE",
		Short: "Decode a text file and strip garbled characters",
		Long: "Decode FILE (UTF-8, GBK or Latin-1) and remove garbled characters.\n" +
			"Without --force the text is only cleaned when garbling is detected.\n" +
			"Use - to read from stdin.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			text, charset := textcodec.DecodeWithCharset(raw)
			detection := textclean.Detect(text)

			cleaned := text
			removed, replaced := 0, 0
			if force {
				res := textclean.Clean(text)
				cleaned, removed, replaced = res.Text, res.Removed, res.Replaced
			} else {
				rep := textclean.SmartClean(text)
				cleaned, removed, replaced = rep.Text, rep.Removed, rep.Replaced
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "charset=%s severity=%s removed=%d replaced=%d\n",
				charset, detection.Severity, removed, replaced)

			if output == "" {
				_, err = io.WriteString(cmd.OutOrStdout(), cleaned)
				return err
			}
			if err := os.WriteFile(output, []byte(cleaned), 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the result here instead of stdout")
	cmd.Flags().BoolVar(&force, "force", false, "clean even when no garbling is detected")
	return cmd
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return raw, nil
}
