// Package engine implements the board transition rules of the 2048 puzzle.
//
// Every operation works on an explicit tile list and returns a new one; the
// package keeps no state between calls. A move is computed in two phases so
// that callers can animate the slide before the merge:
//
//	moved, pairs, changes := engine.MoveState(size, tiles, engine.Left)
//	if changes == 0 {
//		return // no-op move
//	}
//	// ... render the slide ...
//	tiles = eng.MergeState(moved, pairs)
//	score += engine.ScoreFromMergePairs(pairs)
//	spawned, _ := eng.GenerateRandomTile(size, tiles)
//	tiles = append(tiles, spawned)
//	over := !engine.HasPossibleMoves(size, tiles)
package engine

import (
	"errors"
	"fmt"
	"strings"
)

// BaseValue is the value of every freshly spawned tile.
const BaseValue = 2

// DefaultTarget is the conventional winning tile.
const DefaultTarget = 2048

// ErrUnknownDirection is returned by ParseDirection for unrecognised input.
var ErrUnknownDirection = errors.New("engine: unknown direction")

// Direction is one of the four moves a player can make.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

// Directions lists all moves in a stable order.
var Directions = [...]Direction{Up, Down, Left, Right}

// String returns the lower-case name of the direction.
func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// ParseDirection converts a name such as "LEFT" or "up" into a Direction.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up":
		return Up, nil
	case "down":
		return Down, nil
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDirection, s)
}

// Position is a (row, col) cell coordinate. Row 0 is the top edge, column 0
// the left edge.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// In reports whether the position lies on a size x size board.
func (p Position) In(size int) bool {
	return p.Row >= 0 && p.Row < size && p.Col >= 0 && p.Col < size
}

// Tile is a numbered unit occupying one cell.
type Tile struct {
	// ID identifies the tile for animation continuity only. It never takes
	// part in game rules.
	ID       string   `json:"id"`
	Value    int      `json:"value"`
	Position Position `json:"position"`
	// Merged is set on tiles produced by the latest merge and cleared by the
	// next move.
	Merged bool `json:"merged,omitempty"`
}

// At returns a copy of the tile placed at p.
func (t Tile) At(p Position) Tile {
	t.Position = p
	return t
}

// MergePair records that Source slides onto Destination's cell and the two
// combine. Source already carries its post-slide position.
type MergePair struct {
	Source      Tile `json:"source"`
	Destination Tile `json:"destination"`
}

// cloneTiles copies a tile list so callers' slices are never aliased.
func cloneTiles(tiles []Tile) []Tile {
	out := make([]Tile, len(tiles))
	copy(out, tiles)
	return out
}
