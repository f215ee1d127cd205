package engine

// Grid is a size x size lookup built from a tile list. It is rebuilt on
// every operation and never mutated by callers.
type Grid struct {
	size  int
	cells [][]*Tile
}

// Index builds a Grid from tiles. Tiles outside the board are ignored.
// Two tiles on the same cell is a caller error; the later one wins.
func Index(size int, tiles []Tile) Grid {
	cells := make([][]*Tile, size)
	for row := range cells {
		cells[row] = make([]*Tile, size)
	}

	for i := range tiles {
		p := tiles[i].Position
		if !p.In(size) {
			continue
		}
		cells[p.Row][p.Col] = &tiles[i]
	}

	return Grid{size: size, cells: cells}
}

// Size returns the board dimension.
func (g Grid) Size() int {
	return g.size
}

// At returns the tile at (row, col). Out-of-range cells are empty.
func (g Grid) At(row, col int) (Tile, bool) {
	if row < 0 || row >= g.size || col < 0 || col >= g.size {
		return Tile{}, false
	}
	t := g.cells[row][col]
	if t == nil {
		return Tile{}, false
	}
	return *t, true
}

// EmptyCells returns every unoccupied position in row-major order.
func EmptyCells(size int, tiles []Tile) []Position {
	grid := Index(size, tiles)
	var empty []Position
	for row := range size {
		for col := range size {
			if _, ok := grid.At(row, col); !ok {
				empty = append(empty, Position{Row: row, Col: col})
			}
		}
	}
	return empty
}

// Values renders the tile list as a value matrix, zero meaning empty.
func Values(size int, tiles []Tile) [][]int {
	out := make([][]int, size)
	for row := range out {
		out[row] = make([]int, size)
	}
	for _, t := range tiles {
		if t.Position.In(size) {
			out[t.Position.Row][t.Position.Col] = t.Value
		}
	}
	return out
}
