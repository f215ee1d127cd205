package game

import "github.com/vovakirdan/tui-2048/internal/engine"

// Status is the coarse state a snapshot reports.
type Status string

const (
	StatusPlaying     Status = "playing"
	StatusWon         Status = "won"
	StatusGameOver    Status = "game_over"
	StatusPaused      Status = "paused"
	StatusPausedSmall Status = "paused_small_window"
)

// Snapshot captures the complete game state for determinism testing and
// for spectators.
type Snapshot struct {
	Variant   string        `json:"variant"`
	Tick      uint64        `json:"tick"`
	Size      int           `json:"size"`
	Target    int           `json:"target"`
	Score     int           `json:"score"`
	BestScore int           `json:"best_score"`
	Moves     int           `json:"moves"`
	MaxTile   int           `json:"max_tile"`
	Board     [][]int       `json:"board"`
	Tiles     []engine.Tile `json:"tiles"`
	Phase     string        `json:"phase"`
	Status    Status        `json:"status"`
}

// Snapshot returns the current game state.
func (g *Game) Snapshot() Snapshot {
	status := StatusPlaying
	switch {
	case g.tooSmall:
		status = StatusPausedSmall
	case g.paused:
		status = StatusPaused
	case g.won:
		status = StatusWon
	case g.gameOver:
		status = StatusGameOver
	}

	return Snapshot{
		Variant:   g.ID(),
		Tick:      g.tick,
		Size:      g.size,
		Target:    g.opts.Target,
		Score:     g.score,
		BestScore: g.best,
		Moves:     g.moves,
		MaxTile:   engine.MaxTile(g.tiles),
		Board:     engine.Values(g.size, g.tiles),
		Tiles:     g.Tiles(),
		Phase:     g.anim.phase.String(),
		Status:    status,
	}
}
