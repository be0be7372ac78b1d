package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-stage/internal/config"
	"github.com/vovakirdan/tui-stage/internal/engine"
	"github.com/vovakirdan/tui-stage/internal/gfx"
	"github.com/vovakirdan/tui-stage/internal/platform/headless"
	"github.com/vovakirdan/tui-stage/internal/platform/tui"
	"github.com/vovakirdan/tui-stage/internal/registry"
	"github.com/vovakirdan/tui-stage/internal/stage"
	"github.com/vovakirdan/tui-stage/internal/storage"
)

var (
	flagWidth      int
	flagHeight     int
	flagFrames     uint64
	flagHeadless   bool
	flagDebugInput bool
)

var runCmd = &cobra.Command{
	Use:   "run [app]",
	Short: "Run an app",
	Long: `Start the specified app on the stage.

The terminal backend draws every pixel row pair as one character cell, so a
window of W x H pixels needs W columns and H/2 rows (plus one status row).
When stdout is not a terminal, or --headless is given, frames are drawn into
an off-screen framebuffer instead. Without an app, a picker is shown.

Controls:
  Ctrl+C     - Quit
  ?          - Show the key table
  (app keys) - See the app's help, e.g. Space/Up to flap in flappy

Examples:
  stage run
  stage run flappy
  stage run inspect --debug-input --log-level debug
  stage run flappy --width 160 --height 96
  stage run flappy --headless --frames 600`,
	Args: cobra.MaximumNArgs(1),
	Run:  runRun,
}

func init() {
	runCmd.Flags().IntVar(&flagWidth, "width", 0, "Window width in pixels (0 = from config)")
	runCmd.Flags().IntVar(&flagHeight, "height", 0, "Window height in pixels (0 = from config)")
	runCmd.Flags().Uint64Var(&flagFrames, "frames", 0, "Stop after this many frames (0 = until quit)")
	runCmd.Flags().BoolVar(&flagHeadless, "headless", false, "Draw off-screen instead of into the terminal")
	runCmd.Flags().BoolVar(&flagDebugInput, "debug-input", false, "Log every input transition")
}

func runRun(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	headlessMode := flagHeadless || !isatty.IsTerminal(os.Stdout.Fd())

	// Open score storage
	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open stage database: %v\n", err)
		// Continue without storage - the app still works
		store = nil
	}
	if store != nil {
		defer store.Close()
	}
	var scores registry.ScoreSink
	if store != nil {
		scores = store
	}

	appID := ""
	if len(args) == 1 {
		appID = args[0]
	} else {
		if headlessMode {
			fmt.Fprintln(os.Stderr, "Error: an app is required when not running in a terminal")
			os.Exit(1)
		}
		appID, err = tui.RunMenu(scores)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if appID == "" {
			return
		}
	}

	// Check if app exists
	if !registry.Exists(appID) {
		fmt.Fprintf(os.Stderr, "Error: unknown app %q\n", appID)
		fmt.Fprintln(os.Stderr, "Run 'stage list' to see available apps.")
		os.Exit(1)
	}

	conf := stageConf(cfg, headlessMode)
	if flagWidth > 0 {
		conf.Width = flagWidth
	}
	if flagHeight > 0 {
		conf.Height = flagHeight
	}

	// The terminal UI owns the screen, so log to a file while it runs.
	logger, closeLog := runLogger(cfg, headlessMode)
	defer closeLog()

	// Create app instance
	app, err := registry.Create(appID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating app: %v\n", err)
		os.Exit(1)
	}

	env := registry.Env{Config: cfg, Scores: scores, Logger: logger.With("app", appID)}

	build := registry.Builder(app, env)
	if flagDebugInput {
		build = withDebugInput(build, logger)
	}
	factory := stage.Factory(conf, build, stage.WithLogger(logger))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	var (
		backend string
		frames  uint64
		reason  string
		runErr  error
	)
	if headlessMode {
		backend = "headless"
		var res headless.Result
		res, runErr = headless.Start(ctx, conf, factory,
			headless.WithLogger(logger),
			headless.WithTickRate(cfg.Frame.TickRate),
			headless.WithFrames(flagFrames),
		)
		frames, reason = res.Frames, res.Reason
	} else {
		backend = "tui"
		var res tui.Result
		res, runErr = tui.Start(ctx, conf, factory,
			tui.WithLogger(logger),
			tui.WithTickRate(cfg.Frame.TickRate),
			tui.WithKeyReleaseAfter(cfg.Frame.KeyReleaseAfter),
			tui.WithStatusBar(cfg.Render.StatusBar),
		)
		frames, reason = res.Frames, res.Reason
	}
	if runErr != nil {
		reason = "error"
	}

	if store != nil {
		if _, err := store.SaveRun(storage.RunRecord{
			AppID:     appID,
			Backend:   backend,
			Frames:    frames,
			Duration:  time.Since(start),
			EndReason: reason,
		}); err != nil {
			logger.Warn("cannot record run", "err", err)
		}
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		os.Exit(1)
	}
	if headlessMode {
		fmt.Printf("%s: %d frames (%s) in %s\n", appID, frames, reason, time.Since(start).Round(time.Millisecond))
	}
}

// stageConf builds the initial window configuration. With fit_terminal the
// window takes the whole terminal, less the status bar.
func stageConf(cfg config.Config, headlessMode bool) stage.Conf {
	conf := stage.Conf{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		ClearColor: cfg.ClearColor(),
		StatsEvery: cfg.Frame.TickRate,
	}
	if headlessMode || !cfg.Window.FitTerminal {
		return conf
	}

	cols, rows, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return conf
	}
	if cfg.Render.StatusBar {
		rows -= tui.StatusLines
	}
	conf.Width = cols
	conf.Height = max(rows, 0) * 2
	return conf
}

// runLogger returns the run's logger and a function that closes its output.
func runLogger(cfg config.Config, headlessMode bool) (*log.Logger, func()) {
	if headlessMode || cfg.Log.File == "" {
		return newLogger(cfg, os.Stderr, "stage"), func() {}
	}

	path := config.ExpandPath(cfg.Log.File)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: cannot create log directory: %v\n", err)
		return newLogger(cfg, io.Discard, "stage"), func() {}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: cannot open log file: %v\n", err)
		return newLogger(cfg, io.Discard, "stage"), func() {}
	}
	return newLogger(cfg, f, "stage"), func() { f.Close() }
}

// withDebugInput wraps build so the stage also logs input transitions.
func withDebugInput(build func(gfx.Context, *engine.Scheduler) error, logger *log.Logger) func(gfx.Context, *engine.Scheduler) error {
	return func(g gfx.Context, s *engine.Scheduler) error {
		if err := build(g, s); err != nil {
			return err
		}
		s.Register(engine.NewDebugInputSystem(logger.With("system", "input")))
		return nil
	}
}
