// Package game runs a 2048 board on top of the transition engine: it owns
// the tile list, sequences a move through its slide, merge, spawn and pop
// phases, and keeps score, best score, undo and the win/loss banners.
package game

import (
	"fmt"
	"sync"

	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/engine"
	"github.com/vovakirdan/tui-2048/internal/registry"
)

// Variant sizes registered at startup.
var Sizes = []int{4, 5, 6}

// Options tunes a game. Zero-valued tick counts disable that animation.
type Options struct {
	Target       int
	InitialTiles int
	SlideTicks   int
	PopTicks     int
}

// DefaultOptions matches the embedded configuration.
func DefaultOptions() Options {
	return Options{
		Target:       engine.DefaultTarget,
		InitialTiles: engine.InitialTiles,
		SlideTicks:   6,
		PopTicks:     4,
	}
}

var (
	defaultsMu sync.RWMutex
	defaults   = DefaultOptions()
)

// SetDefaults changes the options used by registry-created games.
func SetDefaults(o Options) {
	defaultsMu.Lock()
	defaults = o
	defaultsMu.Unlock()
}

func currentDefaults() Options {
	defaultsMu.RLock()
	defer defaultsMu.RUnlock()
	return defaults
}

// VariantID returns the registry id for a board size. The classic 4x4
// board keeps the bare "2048" id.
func VariantID(size int) string {
	if size == 4 {
		return "2048"
	}
	return fmt.Sprintf("2048_%dx%d", size, size)
}

func init() {
	for _, size := range Sizes {
		registry.Register(VariantID(size), func() registry.Game {
			return New(size, currentDefaults())
		})
	}
}

// undoState is the board as it was before the last move.
type undoState struct {
	tiles []engine.Tile
	score int
}

// Game implements registry.Game for one board size.
type Game struct {
	size int
	opts Options
	eng  *engine.Engine
	tick uint64

	tiles []engine.Tile
	score int
	best  int
	moves int

	anim    animation
	pending *pendingMove
	undo    *undoState

	screenW int
	screenH int

	won         bool // target reached, banner showing
	keepPlaying bool // banner dismissed; no further win banners
	gameOver    bool
	paused      bool
	tooSmall    bool
}

// New creates a game on a size x size board. Call Reset before stepping.
func New(size int, opts Options) *Game {
	if opts.Target == 0 {
		opts.Target = engine.DefaultTarget
	}
	if opts.InitialTiles == 0 {
		opts.InitialTiles = engine.InitialTiles
	}
	return &Game{size: size, opts: opts}
}

// ID returns the variant identifier.
func (g *Game) ID() string {
	return VariantID(g.size)
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.size == 4 {
		return "2048"
	}
	return fmt.Sprintf("2048 (%dx%d)", g.size, g.size)
}

// Size returns the board side length.
func (g *Game) Size() int {
	return g.size
}

// Reset starts a new game. The best score carries over from the previous
// game or from cfg, whichever is higher.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.eng = engine.New(engine.WithSeed(cfg.Seed))
	g.tick = 0
	g.score = 0
	g.moves = 0
	g.best = max(g.best, cfg.BestScore)
	g.anim = animation{}
	g.pending = nil
	g.undo = nil
	g.won = false
	g.keepPlaying = false
	g.gameOver = false
	g.paused = false

	g.tiles = g.eng.GenerateTiles(g.size, g.opts.InitialTiles)
	g.Resize(cfg.ScreenW, cfg.ScreenH)
}

// Resize records the screen size and re-checks that the board fits.
func (g *Game) Resize(width, height int) {
	g.screenW = width
	g.screenH = height
	w, h := layoutSize(g.size)
	g.tooSmall = width < w || height < h
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tick++

	if g.tooSmall {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) && !g.gameOver {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	if g.anim.active() {
		moved := g.advance()
		return core.StepResult{State: g.State(), Moved: moved}
	}

	if in.Has(core.ActionUndo) && g.Undo() {
		return core.StepResult{State: g.State()}
	}

	if g.won {
		if in.Has(core.ActionContinue) {
			g.won = false
			g.keepPlaying = true
		}
		return core.StepResult{State: g.State()}
	}

	if g.gameOver {
		return core.StepResult{State: g.State()}
	}

	if a, ok := in.Move(); ok {
		moved := g.Move(directionFor(a))
		return core.StepResult{State: g.State(), Moved: moved}
	}

	return core.StepResult{State: g.State()}
}

func directionFor(a core.Action) engine.Direction {
	switch a {
	case core.ActionUp:
		return engine.Up
	case core.ActionDown:
		return engine.Down
	case core.ActionLeft:
		return engine.Left
	default:
		return engine.Right
	}
}

// Move starts a move in dir. It reports whether the move finished within
// this call, which only happens with animations disabled. A move that
// changes nothing, or one issued while another is in flight, is dropped.
func (g *Game) Move(dir engine.Direction) bool {
	if g.pending != nil || g.anim.active() || g.gameOver || g.won {
		return false
	}

	moved, pairs, changes := engine.MoveState(g.size, g.tiles, dir)
	if changes == 0 {
		return false
	}

	g.undo = &undoState{tiles: g.tiles, score: g.score}
	g.pending = &pendingMove{
		from:  g.tiles,
		moved: moved,
		pairs: pairs,
	}

	if g.opts.SlideTicks == 0 {
		g.finishMove()
		return true
	}
	g.anim = newSlide(g.opts.SlideTicks)
	return false
}

// advance runs one animation tick and reports whether the deferred merge
// and spawn ran on it.
func (g *Game) advance() bool {
	done := g.anim.step()
	if !done {
		return false
	}

	if g.anim.phase == PhaseSlide {
		g.finishMove()
		return true
	}
	g.anim = animation{}
	return false
}

// finishMove is the deferred half of a move: merge, score, spawn, then the
// terminal checks.
func (g *Game) finishMove() {
	p := g.pending
	g.pending = nil

	tiles := g.eng.MergeState(p.moved, p.pairs)
	g.score += engine.ScoreFromMergePairs(p.pairs)
	g.best = max(g.best, g.score)
	g.moves++

	fresh := make(map[string]bool, len(p.pairs)+1)
	for _, t := range tiles {
		if t.Merged {
			fresh[t.ID] = true
		}
	}
	if spawned, err := g.eng.GenerateRandomTile(g.size, tiles); err == nil {
		tiles = append(tiles, spawned)
		fresh[spawned.ID] = true
	}
	g.tiles = tiles

	if !engine.HasPossibleMoves(g.size, g.tiles) {
		g.gameOver = true
	}
	if !g.keepPlaying && engine.IsWon(g.tiles, g.opts.Target) {
		g.won = true
	}

	if g.opts.PopTicks > 0 {
		g.anim = newPop(g.opts.PopTicks, fresh)
	} else {
		g.anim = animation{}
	}
}

// Undo restores the board from before the last move and clears any banner
// that move raised. It is only possible while no move is in flight, and
// only once per move.
func (g *Game) Undo() bool {
	if g.undo == nil || g.pending != nil || g.anim.active() {
		return false
	}
	u := g.undo
	g.undo = nil

	g.tiles = u.tiles
	g.score = u.score
	g.won = false
	g.gameOver = false
	g.moves--
	return true
}

// CanUndo reports whether Undo would do anything.
func (g *Game) CanUndo() bool {
	return g.undo != nil && !g.anim.active()
}

// Tiles returns a copy of the authoritative tile list.
func (g *Game) Tiles() []engine.Tile {
	out := make([]engine.Tile, len(g.tiles))
	copy(out, g.tiles)
	return out
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:     g.score,
		BestScore: g.best,
		GameOver:  g.gameOver && !g.won,
		Won:       g.won,
		Paused:    g.paused || g.tooSmall,
		Busy:      g.anim.active(),
	}
}
