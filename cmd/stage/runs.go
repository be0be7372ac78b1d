package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-stage/internal/storage"
)

var flagRunsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs [id]",
	Short: "Show recent runs",
	Long: `Display the most recent stage runs, newest first: which app ran, on
which backend, for how many frames, and why it stopped.

With an ID, shows that single run.

Examples:
  stage runs
  stage runs --limit 50
  stage runs 12`,
	Args: cobra.MaximumNArgs(1),
	Run:  runRuns,
}

func init() {
	runsCmd.Flags().IntVar(&flagRunsLimit, "limit", 20, "Number of runs to show")
}

func runRuns(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening stage database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if len(args) == 1 {
		showRun(store, args[0])
		return
	}

	runs, err := store.RecentRuns(flagRunsLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving runs: %v\n", err)
		os.Exit(1)
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		return
	}

	fmt.Printf("  %-5s  %-10s  %-8s  %-8s  %-10s  %-8s  %s\n", "ID", "App", "Backend", "Frames", "Duration", "Reason", "Date")
	fmt.Printf("  %-5s  %-10s  %-8s  %-8s  %-10s  %-8s  %s\n", "--", "---", "-------", "------", "--------", "------", "----")

	for _, r := range runs {
		fmt.Printf("  %-5d  %-10s  %-8s  %-8d  %-10s  %-8s  %s\n",
			r.ID,
			r.AppID,
			r.Backend,
			r.Frames,
			r.Duration.Round(time.Millisecond),
			r.EndReason,
			r.CreatedAt.Format("2006-01-02 15:04"),
		)
	}
}

func showRun(store *storage.Store, arg string) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid run ID %q\n", arg)
		os.Exit(1)
	}

	r, err := store.RunByID(id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving run: %v\n", err)
		os.Exit(1)
	}
	if r == nil {
		fmt.Fprintf(os.Stderr, "Error: no run with ID %d\n", id)
		os.Exit(1)
	}

	fmt.Printf("Run %d\n", r.ID)
	fmt.Println()
	fmt.Printf("  App:       %s\n", r.AppID)
	fmt.Printf("  Backend:   %s\n", r.Backend)
	fmt.Printf("  Frames:    %d\n", r.Frames)
	fmt.Printf("  Duration:  %s\n", r.Duration.Round(time.Millisecond))
	fmt.Printf("  Reason:    %s\n", r.EndReason)
	fmt.Printf("  Date:      %s\n", r.CreatedAt.Format("2006-01-02 15:04:05"))
	if r.Duration > 0 && r.Frames > 0 {
		fmt.Printf("  Avg FPS:   %.1f\n", float64(r.Frames)/r.Duration.Seconds())
	}
}
