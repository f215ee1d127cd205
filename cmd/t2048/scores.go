package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/game"
	"github.com/vovakirdan/tui-2048/internal/registry"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

var flagScoresLimit int

var scoresCmd = &cobra.Command{
	Use:   "scores [variant]",
	Short: "Show high scores",
	Long: `Display the top scores for a board variant, or a summary of every
variant when none is given.

Examples:
  t2048 scores
  t2048 scores 2048
  t2048 scores 2048_5x5 --limit 20`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of scores to show")
}

func runScores(_ *cobra.Command, args []string) {
	cfg := loadSettings()

	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		fatal("opening scores database: %v", err)
	}
	defer store.Close()

	if len(args) == 0 {
		if err := printSummary(store); err != nil {
			store.Close()
			fatal("%v", err)
		}
		return
	}

	gameID := args[0]
	if !registry.Exists(gameID) {
		store.Close()
		fatal("unknown variant %q, run 't2048 list' to see them", gameID)
	}
	if err := printTopScores(store, gameID); err != nil {
		store.Close()
		fatal("%v", err)
	}
}

func printTopScores(store *storage.Store, gameID string) error {
	scores, err := store.TopScores(gameID, flagScoresLimit)
	if err != nil {
		return fmt.Errorf("retrieving scores: %w", err)
	}

	fmt.Printf("High Scores - %s\n", registry.Title(gameID))
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Play 't2048 play %s' to set the first high score!\n", gameID)
		return nil
	}

	fmt.Printf("  %-4s  %-10s  %-6s  %s\n", "Rank", "Score", "Tile", "Date")
	fmt.Printf("  %-4s  %-10s  %-6s  %s\n", "----", "-----", "----", "----")
	for i, entry := range scores {
		fmt.Printf("  %-4d  %-10d  %-6d  %s\n", i+1, entry.Score, entry.MaxTile, entry.CreatedAt.Format("2006-01-02 15:04"))
	}

	stats, err := store.GetGameStats(gameID)
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Printf("Best: %d  Games: %d  Average: %.0f  Best tile: %d\n",
		stats.HighScore, stats.GamesCount, stats.AvgScore, stats.BestTile)
	return nil
}

func printSummary(store *storage.Store) error {
	all, err := store.GetAllGamesStats()
	if err != nil {
		return err
	}

	fmt.Println("High Scores")
	fmt.Println()
	fmt.Printf("  %-10s  %-10s  %-6s  %-6s  %s\n", "Variant", "Best", "Tile", "Games", "Last played")
	fmt.Printf("  %-10s  %-10s  %-6s  %-6s  %s\n", "-------", "----", "----", "-----", "-----------")

	for _, size := range game.Sizes {
		id := game.VariantID(size)
		stats, ok := all[id]
		if !ok || stats.GamesCount == 0 {
			fmt.Printf("  %-10s  %-10s  %-6s  %-6d  %s\n", id, "-", "-", 0, "never")
			continue
		}
		fmt.Printf("  %-10s  %-10d  %-6d  %-6d  %s\n", id, stats.HighScore, stats.BestTile, stats.GamesCount,
			stats.LastPlayed.Format("2006-01-02 15:04"))
	}

	if len(all) == 0 {
		fmt.Println()
		fmt.Println("No games recorded yet. Run 't2048 play' to start.")
	}
	return nil
}
