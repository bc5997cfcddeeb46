package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mrlokans/novelreader/internal/entities"
	"github.com/mrlokans/novelreader/internal/entrypoint"
	"github.com/mrlokans/novelreader/internal/fetcher"
	"github.com/mrlokans/novelreader/internal/utils"
)

type fetchFlags struct {
	outDir      string
	concurrency int
	timeout     time.Duration
	retries     int
}

func newFetchCommand() *cobra.Command {
	f := &fetchFlags{}

	cmd := &cobra.Command{
		Use:   "fetch URL...",
		Short: "Download novels into the library",
		Long: "Download one or more novels into the library. With --out-dir each\n" +
			"novel is also written to <title>.txt in that directory.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(app *entrypoint.App) error {
				if f.concurrency <= 0 {
					f.concurrency = app.Config.Fetch.Concurrency
				}
				if f.timeout <= 0 {
					f.timeout = app.Config.Fetch.Timeout
				}
				if f.retries <= 0 {
					f.retries = app.Config.Fetch.Retries
				}
				return runFetch(cmd, app, f, args)
			})
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&f.outDir, "out-dir", "o", "", "also write each novel to this directory")
	fs.IntVarP(&f.concurrency, "concurrency", "c", 0, "parallel downloads (default FETCH_CONCURRENCY)")
	fs.DurationVar(&f.timeout, "timeout", 0, "per-attempt timeout (default FETCH_TIMEOUT)")
	fs.IntVar(&f.retries, "retries", 0, "attempts per URL (default FETCH_RETRIES)")

	return cmd
}

type fetchOutcome struct {
	url   string
	novel *entities.CachedNovel
	path  string
	err   error
}

// runFetch downloads every URL with bounded parallelism. A failing URL does
// not stop the others; the command fails if any URL failed.
func runFetch(cmd *cobra.Command, app *entrypoint.App, f *fetchFlags, urls []string) error {
	if f.outDir != "" {
		if err := os.MkdirAll(f.outDir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if f.concurrency <= 0 {
		f.concurrency = 1
	}
	outcomes := make([]fetchOutcome, len(urls))

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(f.concurrency)

	for i, rawURL := range urls {
		g.Go(func() error {
			opts := fetcher.Options{Timeout: f.timeout, Retries: f.retries}
			novel, content, err := app.Library.CacheFromURL(ctx, rawURL, opts)

			out := fetchOutcome{url: rawURL, novel: novel, err: err}
			if err == nil && f.outDir != "" {
				out.path, out.err = writeNovel(f.outDir, novel.Title, content)
			}

			outcomes[i] = out
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	w := cmd.OutOrStdout()
	for _, out := range outcomes {
		switch {
		case out.err != nil:
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "FAIL  %s: %v\n", out.url, out.err)
		case out.path != "":
			fmt.Fprintf(w, "OK    %s -> #%d %s (%s) %s\n", out.url, out.novel.ID, out.novel.Title, out.novel.FileSize, out.path)
		default:
			fmt.Fprintf(w, "OK    %s -> #%d %s (%s)\n", out.url, out.novel.ID, out.novel.Title, out.novel.FileSize)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d downloads failed", failed, len(urls))
	}
	return nil
}

func writeNovel(dir, title, content string) (string, error) {
	name := utils.SanitizeFilename(title)
	if name == "" {
		name = "novel"
	}
	path := filepath.Join(dir, name+".txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
