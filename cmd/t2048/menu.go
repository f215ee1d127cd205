package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/platform/tui"
	"github.com/vovakirdan/tui-2048/internal/registry"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Pick a board from a menu",
	Long: `Start in interactive menu mode.

Use arrow keys or j/k to pick a board and Enter to play it. Tab opens the
scoreboard. Esc in a game returns here.

Examples:
  t2048 menu
  t2048 menu --fps 30
  t2048 menu --db ./scores.db`,
	Run: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	settings := loadSettings()

	logger, closeLog := newLogger("t2048", io.Discard)
	defer closeLog()

	// Interfaces stay nil when the database could not be opened.
	var scores tui.Scores
	store := openStore(settings, logger)
	if store != nil {
		scores = store
		defer store.Close()
	}

	cfg := terminalConfig(settings)

	for {
		menuResult, err := tui.RunMenu(scores, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}
		cfg = menuResult.Config

		if menuResult.Quit {
			return
		}

		if menuResult.WantsScoreboard {
			goBack, sbErr := tui.RunScoreboard(scores, cfg.ScreenW, cfg.ScreenH)
			if sbErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", sbErr)
			}
			if goBack {
				continue
			}
			return
		}

		g, err := registry.Create(menuResult.GameID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
			continue
		}

		if flagSeed == 0 {
			cfg.Seed = time.Now().UnixNano()
		}

		model, err := tui.RunModel(g, cfg, tui.Options{
			Store:     scores,
			Logger:    logger,
			AllowBack: true,
			SwipeMin:  settings.Input.SwipeMinDistance,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
			return
		}
		if model.IsQuitting() {
			return
		}
	}
}
