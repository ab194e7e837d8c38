package cli

import (
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/filingvec/internal/adapters/driving/watcher"
	"github.com/custodia-labs/filingvec/internal/core/ports/driving"
)

var (
	watchCompany  string
	watchPeriod   string
	watchExisting bool
	watchDebounce time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch DIR",
	Short: "Ingest filings as they are written into a directory",
	Long: `Watches a directory and ingests every supported file that is created or
written there, tagged with the given company and period.

Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchCompany, "company", "", "company the filings belong to")
	watchCmd.Flags().StringVar(&watchPeriod, "period", "", "reporting period")
	watchCmd.Flags().BoolVar(&watchExisting, "existing", false, "ingest files already in the directory first")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watcher.DefaultDebounce, "quiet period before a written file is ingested")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ingest, err := requireIngest()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w := watcher.New(ingest, app.Extractors,
		driving.IngestMetadata{Company: watchCompany, Period: watchPeriod},
		watcher.WithDebounce(watchDebounce),
		watcher.WithInitialScan(watchExisting),
		watcher.WithResultHandler(func(r watcher.Result) {
			if r.Err != nil {
				cmd.PrintErrf("%s: %v\n", r.Path, r.Err)
				return
			}
			printReport(cmd, filepath.Base(r.Path), r.Report)
		}),
	)

	cmd.Printf("Watching %s (Ctrl+C to stop)\n", args[0])
	return w.Run(ctx, args[0])
}
