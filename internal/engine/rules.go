package engine

// HasPossibleMoves reports whether any move could change the board.
//
// A board with an empty cell always has a move. A full board has one only if
// two axis-adjacent tiles share a value. Callers evaluate this after the
// turn's spawn.
func HasPossibleMoves(size int, tiles []Tile) bool {
	if len(tiles) < size*size {
		return true
	}

	grid := Index(size, tiles)
	for row := range size {
		for col := range size {
			cur, ok := grid.At(row, col)
			if !ok {
				return true
			}
			if right, ok := grid.At(row, col+1); ok && right.Value == cur.Value {
				return true
			}
			if below, ok := grid.At(row+1, col); ok && below.Value == cur.Value {
				return true
			}
		}
	}
	return false
}

// ScoreFromMergePairs sums the pre-merge source values of one move.
func ScoreFromMergePairs(pairs []MergePair) int {
	score := 0
	for _, p := range pairs {
		score += p.Source.Value
	}
	return score
}

// MaxTile returns the highest tile value, or 0 for an empty list.
func MaxTile(tiles []Tile) int {
	best := 0
	for _, t := range tiles {
		if t.Value > best {
			best = t.Value
		}
	}
	return best
}

// IsWon reports whether any tile has reached target.
func IsWon(tiles []Tile, target int) bool {
	return target > 0 && MaxTile(tiles) >= target
}

// IsPowerOfTwo reports whether v is 2^k for some k >= 1.
func IsPowerOfTwo(v int) bool {
	return v >= 2 && v&(v-1) == 0
}
