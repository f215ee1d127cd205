package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/platform/tui"
	"github.com/vovakirdan/tui-2048/internal/spectate"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
	flagSpectate    string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the SSH server",
	Long: `Start an SSH server that lets users connect and play.

Each SSH connection gets its own session with the board picker. Scores are
stored per server, so everyone shares the same leaderboard.

With --spectate, every running game is also streamed as JSON over
WebSocket: GET /sessions lists the live games and /ws?session=<id>
follows one of them.

Examples:
  t2048 serve                            # Listen on :2222
  t2048 serve --ssh :23234               # Another port
  t2048 serve --host-key ./my_host_key   # Use a specific host key
  t2048 serve --spectate :8080           # Stream games to watchers

Users can connect with:
  ssh localhost -p 2222`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (default from config)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file, generated if missing (default from config)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", -1, "Idle timeout in minutes, 0 disables (default from config)")
	serveCmd.Flags().StringVar(&flagSpectate, "spectate", "", "Spectator HTTP address, e.g. :8080 (default from config)")
}

func runServe(_ *cobra.Command, _ []string) {
	settings := loadSettings()
	srv := settings.Server
	if flagSSHAddr != "" {
		srv.SSHAddr = flagSSHAddr
	}
	if flagHostKey != "" {
		srv.HostKey = flagHostKey
	}
	if flagIdleTimeout >= 0 {
		srv.IdleTimeoutMinutes = flagIdleTimeout
	}
	if flagSpectate != "" {
		srv.SpectateAddr = flagSpectate
	}

	logger, closeLog := newLogger("t2048", os.Stderr)
	defer closeLog()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := tui.SSHServerConfig{
		Address:     srv.SSHAddr,
		HostKeyPath: srv.HostKey,
		DBPath:      settings.Storage.DBPath,
		IdleTimeout: srv.IdleTimeout(),
		TickRate:    settings.Timing.TickRate,
		SwipeMin:    settings.Input.SwipeMinDistance,
		Logger:      logger.WithPrefix("t2048-ssh"),
	}

	var httpSrv *http.Server
	if srv.SpectateAddr != "" {
		hub := spectate.NewHub(logger.WithPrefix("t2048-spectate"))
		go hub.Run(ctx)
		cfg.Publisher = hub

		httpSrv = &http.Server{
			Addr:              srv.SpectateAddr,
			Handler:           hub.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			logger.Info("starting spectator server", "address", srv.SpectateAddr)
			if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("spectator server error", "err", err)
			}
		}()
	}

	server, err := tui.NewSSHServer(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Starting t2048 SSH server on %s\n", cfg.Address)
	if httpSrv != nil {
		fmt.Printf("Spectators: http://%s/sessions\n", srv.SpectateAddr)
	}
	fmt.Println("Press Ctrl+C to stop")

	serveErr := server.ListenAndServe(ctx)

	if httpSrv != nil {
		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("spectator server shutdown", "err", err)
		}
		stop()
	}

	if serveErr != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", serveErr)
		cancel()
		closeLog()
		os.Exit(1)
	}
}
