package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-stage/internal/config"
	"github.com/vovakirdan/tui-stage/internal/ecs"
	"github.com/vovakirdan/tui-stage/internal/engine"
	"github.com/vovakirdan/tui-stage/internal/gfx"
	"github.com/vovakirdan/tui-stage/internal/platform/tui"
	"github.com/vovakirdan/tui-stage/internal/registry"
	"github.com/vovakirdan/tui-stage/internal/stage"
	"github.com/vovakirdan/tui-stage/internal/storage"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagServeApp    string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the stage SSH server",
	Long: `Start an SSH server that runs an app for every connection.

Each SSH session gets its own stage sized to the client's terminal. The app
is taken from the SSH command, falling back to --app.
Scores are stored per-server (all users share the same leaderboard).

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.stage/host_key

Examples:
  stage serve                           # Listen on :23234 with auto-generated key
  stage serve --ssh :2222               # Listen on port 2222
  stage serve --app inspect             # Serve the input inspector by default
  stage serve --host-key ./my_host_key  # Use specific host key

Users can connect with:
  ssh localhost -p 23234
  ssh localhost -p 23234 -t inspect`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().StringVar(&flagServeApp, "app", "flappy", "App to run when the session names none")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
}

func runServe(_ *cobra.Command, _ []string) {
	if !registry.Exists(flagServeApp) {
		fmt.Fprintf(os.Stderr, "Error: unknown app %q\n", flagServeApp)
		fmt.Fprintln(os.Stderr, "Run 'stage list' to see available apps.")
		os.Exit(1)
	}

	cfg := loadConfig()
	logger := newLogger(cfg, os.Stderr, "stage-ssh")

	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		logger.Warn("could not open stage database, scores will not be kept", "err", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	serverCfg := tui.DefaultSSHServerConfig()
	serverCfg.Address = flagSSHAddr
	serverCfg.HostKeyPath = flagHostKey
	serverCfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	serverCfg.Conf = stageConf(cfg, true)
	serverCfg.Factory = sessionFactory(cfg, store, logger)
	serverCfg.Options = []tui.Option{
		tui.WithTickRate(cfg.Frame.TickRate),
		tui.WithKeyReleaseAfter(cfg.Frame.KeyReleaseAfter),
		tui.WithStatusBar(cfg.Render.StatusBar),
	}

	server, err := tui.NewSSHServer(serverCfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Starting stage SSH server on %s\n", server.Addr())
	fmt.Printf("Connect with: ssh localhost -p %s\n", portOf(server.Addr()))
	fmt.Println("Press Ctrl+C to stop")

	if err := server.Serve(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

// sessionFactory picks the session's app and records a run when the session
// ends.
func sessionFactory(cfg config.Config, store *storage.Store, logger *log.Logger) tui.SessionFactory {
	return func(sess ssh.Session, conf stage.Conf) (func(gfx.Context) (*stage.Stage, error), error) {
		appID := flagServeApp
		if cmd := sess.Command(); len(cmd) > 0 {
			appID = cmd[0]
		}
		app, err := registry.Create(appID)
		if err != nil {
			return nil, err
		}

		sessLog := logger.With("user", sess.User(), "app", appID)
		env := registry.Env{Config: cfg, Logger: sessLog}
		if store != nil {
			env.Scores = store
		}

		var frames atomic.Uint64
		build := registry.Builder(app, env)
		counted := func(g gfx.Context, s *engine.Scheduler) error {
			if err := build(g, s); err != nil {
				return err
			}
			s.Register(engine.Func(engine.PhaseUpdate, func(*ecs.World, *engine.Resources) {
				frames.Add(1)
			}))
			return nil
		}

		if store != nil {
			start := time.Now()
			go func() {
				<-sess.Context().Done()
				if _, err := store.SaveRun(storage.RunRecord{
					AppID:     appID,
					Backend:   "ssh",
					Frames:    frames.Load(),
					Duration:  time.Since(start),
					EndReason: "disconnect",
				}); err != nil {
					sessLog.Warn("cannot record run", "err", err)
				}
			}()
		}

		return stage.Factory(conf, counted, stage.WithLogger(sessLog)), nil
	}
}

func portOf(addr string) string {
	for i := len(addr) - 1; i >= 0; i-- {
		if addr[i] == ':' {
			return addr[i+1:]
		}
	}
	return addr
}
