package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/game"
	"github.com/vovakirdan/tui-2048/internal/platform/tui"
	"github.com/vovakirdan/tui-2048/internal/registry"
)

var flagSize int

var playCmd = &cobra.Command{
	Use:   "play [variant]",
	Short: "Play a board",
	Long: `Start playing 2048. Without a variant the board size comes from --size
or the config file.

Controls:
  Arrows/WASD/hjkl  - Slide (or drag with the mouse)
  U/Backspace       - Undo the last move
  N/R               - New game
  C                 - Keep going after reaching the target
  P                 - Pause
  Q/Ctrl+C          - Quit
  Ctrl+S            - Save a screenshot to ~/.t2048/screenshots

Examples:
  t2048 play
  t2048 play 2048_6x6
  t2048 play --size 3
  t2048 play --seed 7 --config ./easy.yaml`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().IntVar(&flagSize, "size", 0, fmt.Sprintf("Board size %d-%d (0 = from config)", config.MinBoardSize, config.MaxBoardSize))
}

// resolveGame picks the board to play: a registered variant by id, or a
// board of any supported size built directly.
func resolveGame(cfg config.Config, args []string) (registry.Game, error) {
	if len(args) == 1 {
		if !registry.Exists(args[0]) {
			return nil, fmt.Errorf("unknown variant %q, run 't2048 list' to see them", args[0])
		}
		return registry.Create(args[0])
	}

	size := cfg.Board.Size
	if flagSize != 0 {
		size = flagSize
	}
	if size < config.MinBoardSize || size > config.MaxBoardSize {
		return nil, fmt.Errorf("board size %d out of range %d-%d", size, config.MinBoardSize, config.MaxBoardSize)
	}
	if id := game.VariantID(size); registry.Exists(id) {
		return registry.Create(id)
	}
	return game.New(size, gameOptions(cfg)), nil
}

func runPlay(_ *cobra.Command, args []string) {
	cfg := loadSettings()

	g, err := resolveGame(cfg, args)
	if err != nil {
		fatal("%v", err)
	}

	logger, closeLog := newLogger("t2048", io.Discard)

	opts := tui.Options{
		Logger:   logger,
		SwipeMin: cfg.Input.SwipeMinDistance,
	}
	store := openStore(cfg, logger)
	if store != nil {
		opts.Store = store
	}

	logger.Info("starting game", "game", g.ID(), "seed", flagSeed)
	runErr := tui.Run(g, terminalConfig(cfg), opts)

	if store != nil {
		store.Close()
	}
	closeLog()

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
