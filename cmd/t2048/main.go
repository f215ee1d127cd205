// t2048 plays 2048 in the terminal, locally or over SSH.
//
// Usage:
//
//	t2048 list               - List board variants
//	t2048 play [variant]     - Play a board (default: the configured size)
//	t2048 menu               - Pick a board interactively
//	t2048 serve              - Start the SSH server for remote play
//	t2048 scores [variant]   - Show high scores
//
// Global flags:
//
//	--config <path>  - Config file (default: ~/.t2048/config.yaml, then configs/t2048.yaml)
//	--fps <rate>     - Override the tick rate
//	--seed <value>   - Set RNG seed for reproducible games
//	--db <path>      - Set database path (default: ~/.t2048/scores.db)
//	--log-file <p>   - Write logs to a file (the terminal belongs to the game)
//	--debug          - Log every move
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/game"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

var (
	// Global flags
	flagConfig  string
	flagFPS     int
	flagSeed    int64
	flagDBPath  string
	flagLogFile string
	flagDebug   bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "t2048",
	Short: "2048 in your terminal",
	Long: `t2048 is the sliding-tile puzzle 2048 for the terminal.

Slide the board with the arrow keys, WASD, hjkl or a mouse drag. Equal
tiles merge into their sum; reach 2048 to win, then keep going if you like.

Available commands:
  list     - Show the board variants
  play     - Play a board directly
  menu     - Interactive board picker with scoreboard
  serve    - Start the SSH server for remote play
  scores   - View high scores

Examples:
  t2048 play
  t2048 play 2048_5x5
  t2048 play --size 3 --seed 42
  t2048 menu
  t2048 serve --ssh :2222 --spectate :8080
  t2048 scores`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Tick rate (0 = from config)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to scores database (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
}

// fatal prints an error and exits.
func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// loadSettings reads the config file, applies the global flags and hands
// the board options to the game package.
func loadSettings() config.Config {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fatal("%v", err)
	}
	if flagFPS > 0 {
		cfg.Timing.TickRate = flagFPS
	}
	if flagDBPath != "" {
		cfg.Storage.DBPath = flagDBPath
	}
	if cfg.Storage.DBPath == "" {
		cfg.Storage.DBPath = config.DefaultDBPath()
	}

	game.SetDefaults(gameOptions(cfg))
	return cfg
}

func gameOptions(cfg config.Config) game.Options {
	return game.Options{
		Target:       cfg.Board.Target,
		InitialTiles: cfg.Board.InitialTiles,
		SlideTicks:   cfg.Timing.SlideTicks,
		PopTicks:     cfg.Timing.PopTicks,
	}
}

// newLogger returns a logger for the interactive commands. Without
// --log-file it discards everything, since stdout carries the game.
func newLogger(prefix string, fallback io.Writer) (*log.Logger, func()) {
	out, closeFn := fallback, func() {}
	if flagLogFile != "" {
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			fatal("cannot open log file: %v", err)
		}
		out, closeFn = f, func() { f.Close() }
	}

	logger := log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	if flagDebug {
		logger.SetLevel(log.DebugLevel)
	}
	return logger, closeFn
}

// terminalConfig builds the runtime config from the current terminal size.
func terminalConfig(cfg config.Config) core.RuntimeConfig {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: cfg.Timing.TickRate,
		Seed:     flagSeed,
	}
}

// openStore opens the score database. Games still run without one.
func openStore(cfg config.Config, logger *log.Logger) *storage.Store {
	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		logger.Warn("could not open scores database", "path", cfg.Storage.DBPath, "err", err)
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		return nil
	}
	return store
}
