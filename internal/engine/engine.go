package engine

import (
	"errors"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// ErrBoardFull is returned when a tile is requested and no cell is empty.
var ErrBoardFull = errors.New("engine: no empty cell to spawn into")

// InitialTiles is the number of tiles a new game starts with.
const InitialTiles = 2

// Rand is the randomness the spawner needs. *rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

// Engine carries the two sources of non-determinism: where new tiles land
// and which ids they get. The zero value is not usable; call New.
type Engine struct {
	rng   Rand
	newID func() string
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand sets the source used to pick empty cells.
func WithRand(r Rand) Option {
	return func(e *Engine) {
		e.rng = r
	}
}

// WithSeed seeds a math/rand source for reproducible spawns.
func WithSeed(seed int64) Option {
	return func(e *Engine) {
		e.rng = rand.New(rand.NewSource(seed))
	}
}

// WithIDs replaces the tile id generator.
func WithIDs(next func() string) Option {
	return func(e *Engine) {
		e.newID = next
	}
}

// New returns an Engine. Without options it spawns from a time-seeded source
// and names tiles with random UUIDs.
func New(opts ...Option) *Engine {
	e := &Engine{
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// MergeState applies merge pairs to the list returned by MoveState.
//
// For each pair the source and destination are removed and a single tile of
// twice the source value, with a fresh id and Merged set, takes the
// destination's cell. The survivor keeps the source's slot in the list.
// A tile id consumed by one pair is ignored by later pairs.
func (e *Engine) MergeState(tiles []Tile, pairs []MergePair) []Tile {
	if len(pairs) == 0 {
		return cloneTiles(tiles)
	}

	index := make(map[string]int, len(tiles))
	for i, t := range tiles {
		index[t.ID] = i
	}

	survivors := make(map[int]Tile, len(pairs))
	consumed := make(map[string]bool, 2*len(pairs))

	for _, pair := range pairs {
		src, dst := pair.Source.ID, pair.Destination.ID
		if consumed[src] || consumed[dst] {
			continue
		}
		slot, ok := index[src]
		if !ok {
			continue
		}
		consumed[src] = true
		consumed[dst] = true
		survivors[slot] = Tile{
			ID:       e.newID(),
			Value:    pair.Source.Value * 2,
			Position: pair.Destination.Position,
			Merged:   true,
		}
	}

	out := make([]Tile, 0, len(tiles)-len(survivors))
	for i, t := range tiles {
		if s, ok := survivors[i]; ok {
			out = append(out, s)
			continue
		}
		if consumed[t.ID] {
			continue
		}
		out = append(out, t)
	}
	return out
}

// GenerateRandomTile picks an empty cell uniformly at random and returns a
// new tile of BaseValue there. It returns ErrBoardFull when the board has no
// empty cell.
func (e *Engine) GenerateRandomTile(size int, tiles []Tile) (Tile, error) {
	empty := EmptyCells(size, tiles)
	if len(empty) == 0 {
		return Tile{}, ErrBoardFull
	}

	return Tile{
		ID:       e.newID(),
		Value:    BaseValue,
		Position: empty[e.rng.Intn(len(empty))],
	}, nil
}

// GenerateInitialTiles returns the starting configuration for a new game.
func (e *Engine) GenerateInitialTiles(size int) []Tile {
	return e.GenerateTiles(size, InitialTiles)
}

// GenerateTiles spawns up to n tiles onto an empty board.
func (e *Engine) GenerateTiles(size, n int) []Tile {
	tiles := make([]Tile, 0, n)
	for range n {
		t, err := e.GenerateRandomTile(size, tiles)
		if err != nil {
			break
		}
		tiles = append(tiles, t)
	}
	return tiles
}
