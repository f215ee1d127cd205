package engine

// scan describes how one direction walks the board.
type scan struct {
	horizontal bool // lines are rows and the pointer walks columns
	fromEnd    bool // tiles settle against the last row/column
}

// scans holds the per-direction parameters so the inner loop never branches
// on the direction itself.
var scans = map[Direction]scan{
	Up:    {horizontal: false, fromEnd: false},
	Down:  {horizontal: false, fromEnd: true},
	Left:  {horizontal: true, fromEnd: false},
	Right: {horizontal: true, fromEnd: true},
}

// origin returns the first index and the step along a line.
func (s scan) origin(size int) (start, step int) {
	if s.fromEnd {
		return size - 1, -1
	}
	return 0, 1
}

// cell maps (line, offset) onto a board position.
func (s scan) cell(line, offset int) Position {
	if s.horizontal {
		return Position{Row: line, Col: offset}
	}
	return Position{Row: offset, Col: line}
}

// MoveState slides every tile in dir and reports which tiles collide.
//
// The returned list holds every input tile, including the ones a merge will
// consume, at its post-slide position with Merged cleared. Values are left
// untouched; MergeState applies the pairs. changes counts tiles whose cell
// changed, so zero means the move is a no-op.
//
// Each line is scanned from the edge tiles settle against. A tile merges with
// the nearest unmerged equal tile ahead of it, and at most once per move, so
// [2 2 2 2] moved left yields two merges rather than a chain.
func MoveState(size int, tiles []Tile, dir Direction) (moved []Tile, pairs []MergePair, changes int) {
	s, ok := scans[dir]
	if !ok {
		return cloneTiles(tiles), nil, 0
	}

	grid := Index(size, tiles)
	start, step := s.origin(size)
	moved = make([]Tile, 0, len(tiles))

	for line := range size {
		pointer := start
		var prev *Tile

		for offset := start; offset >= 0 && offset < size; offset += step {
			from := s.cell(line, offset)
			tile, ok := grid.At(from.Row, from.Col)
			if !ok {
				continue
			}
			tile.Merged = false

			var target Position
			if prev != nil && prev.Value == tile.Value {
				target = s.cell(line, pointer-step)
				pairs = append(pairs, MergePair{Source: tile.At(target), Destination: *prev})
				moved = append(moved, tile.At(target))
				prev = nil
			} else {
				target = s.cell(line, pointer)
				settled := tile.At(target)
				moved = append(moved, settled)
				prev = &settled
				pointer += step
			}

			if target != tile.Position {
				changes++
			}
		}
	}

	return moved, pairs, changes
}

// CanMove reports whether moving in dir would change the board.
func CanMove(size int, tiles []Tile, dir Direction) bool {
	_, _, changes := MoveState(size, tiles, dir)
	return changes > 0
}
