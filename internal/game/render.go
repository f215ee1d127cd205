package game

import (
	"fmt"
	"math"
	"strconv"

	"github.com/vovakirdan/tui-2048/internal/core"
)

const (
	cellWidth  = 7 // Width of each cell (including the left border)
	cellHeight = 2 // Height of each cell (including the top border)
	hudHeight  = 3
)

// layoutSize returns the screen area a board of the given size needs.
func layoutSize(size int) (w, h int) {
	w = size*cellWidth + 1
	h = hudHeight + size*cellHeight + 1
	return w, h
}

// tileStyles maps tile values to their colours. Values past the table use
// tileStyleHigh.
var tileStyles = map[int]core.Style{
	2:    {Fg: 236, Bg: 254},
	4:    {Fg: 236, Bg: 223},
	8:    {Fg: 231, Bg: 215},
	16:   {Fg: 231, Bg: 209},
	32:   {Fg: 231, Bg: 203},
	64:   {Fg: 231, Bg: 196},
	128:  {Fg: 236, Bg: 229, Bold: true},
	256:  {Fg: 236, Bg: 228, Bold: true},
	512:  {Fg: 236, Bg: 227, Bold: true},
	1024: {Fg: 236, Bg: 221, Bold: true},
	2048: {Fg: 236, Bg: 220, Bold: true},
}

var tileStyleHigh = core.Style{Fg: 231, Bg: 236, Bold: true}

// TileStyle returns the colours a tile of value v is drawn with.
func TileStyle(v int) core.Style {
	if st, ok := tileStyles[v]; ok {
		return st
	}
	return tileStyleHigh
}

// Render draws the game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.tooSmall {
		g.renderTooSmall(dst)
		return
	}

	boardW, _ := layoutSize(g.size)
	boardH := g.size*cellHeight + 1
	boardX := max((g.screenW-boardW)/2, 0)
	boardY := hudHeight

	g.renderHUD(dst, boardX, boardW)
	g.renderGrid(dst, boardX, boardY)
	for _, s := range g.sprites() {
		g.renderSprite(dst, boardX, boardY, s)
	}
	g.renderOverlays(dst, boardX, boardY, boardW, boardH)
}

// renderTooSmall shows a "window too small" message.
func (g *Game) renderTooSmall(dst *core.Screen) {
	w, h := layoutSize(g.size)
	y := g.screenH / 2
	dst.DrawTextCentered(y-1, "Window too small")
	dst.DrawTextCentered(y, fmt.Sprintf("Need %dx%d, have %dx%d", w, h, g.screenW, g.screenH))
	dst.DrawTextCentered(y+1, "Please resize terminal")
}

// renderHUD draws the title, score and best score.
func (g *Game) renderHUD(dst *core.Screen, boardX, boardW int) {
	title := g.Title()
	dst.DrawStyledText(boardX+(boardW-len(title))/2, 0, title, core.Style{Fg: core.ColorOrange, Bg: core.ColorDefault, Bold: true})

	scoreStr := fmt.Sprintf("Score: %d", g.score)
	dst.DrawText(boardX, 1, scoreStr)

	bestStr := fmt.Sprintf("Best: %d", g.best)
	dst.DrawText(max(boardX+boardW-len(bestStr), boardX), 1, bestStr)

	movesStr := fmt.Sprintf("Moves: %d", g.moves)
	dst.DrawStyledText(boardX+(boardW-len(movesStr))/2, 2, movesStr, core.Foreground(core.ColorGray))
}

// renderGrid draws the cell borders.
func (g *Game) renderGrid(dst *core.Screen, boardX, boardY int) {
	border := core.Foreground(core.ColorBoardBorder)
	n := g.size

	for y := range n + 1 {
		for x := range n + 1 {
			px := boardX + x*cellWidth
			py := boardY + y*cellHeight

			var corner rune
			switch {
			case y == 0 && x == 0:
				corner = '┌'
			case y == 0 && x == n:
				corner = '┐'
			case y == n && x == 0:
				corner = '└'
			case y == n && x == n:
				corner = '┘'
			case y == 0:
				corner = '┬'
			case y == n:
				corner = '┴'
			case x == 0:
				corner = '├'
			case x == n:
				corner = '┤'
			default:
				corner = '┼'
			}
			dst.SetStyled(px, py, corner, border)

			if x < n {
				for i := 1; i < cellWidth; i++ {
					dst.SetStyled(px+i, py, '─', border)
				}
			}
			if y < n {
				for i := 1; i < cellHeight; i++ {
					dst.SetStyled(px, py+i, '│', border)
				}
			}
		}
	}
}

// renderSprite paints one tile's interior at its (possibly fractional) cell.
func (g *Game) renderSprite(dst *core.Screen, boardX, boardY int, s sprite) {
	x := boardX + 1 + int(math.Round(s.col*cellWidth))
	y := boardY + 1 + int(math.Round(s.row*cellHeight))
	w := cellWidth - 1

	st := TileStyle(s.value)
	if s.highlight {
		st.Bold = true
		st.Fg = core.ColorHighlightText
	}

	dst.FillRect(core.NewRect(x, y, w, cellHeight-1), ' ', st)

	label := strconv.Itoa(s.value)
	if len(label) > w {
		label = label[:w]
	}
	dst.DrawStyledText(x+(w-len(label))/2, y, label, st)
}

// renderOverlays draws the pause and end-of-game banners.
func (g *Game) renderOverlays(dst *core.Screen, boardX, boardY, boardW, boardH int) {
	centerX := boardX + boardW/2
	centerY := boardY + boardH/2

	switch {
	case g.paused:
		drawOverlay(dst, centerX, centerY, "PAUSED", "Press P to resume")
	case g.won && !g.anim.active():
		drawOverlay(dst, centerX, centerY,
			fmt.Sprintf("You reached %d!", g.opts.Target),
			"C: keep going",
			"N: new game")
	case g.gameOver && !g.anim.active():
		drawOverlay(dst, centerX, centerY,
			"GAME OVER",
			fmt.Sprintf("Score: %d", g.score),
			"U: undo  N: new game")
	}
}

// drawOverlay draws a centered text box.
func drawOverlay(dst *core.Screen, centerX, centerY int, lines ...string) {
	maxLen := 0
	for _, line := range lines {
		maxLen = max(maxLen, len(line))
	}

	box := core.NewRect(centerX-(maxLen+4)/2, centerY-(len(lines)+2)/2, maxLen+4, len(lines)+2)
	dst.FillRect(box, ' ', core.DefaultStyle)
	dst.DrawBox(box)

	for i, line := range lines {
		dst.DrawStyledText(centerX-len(line)/2, box.Y+1+i, line, core.Style{Fg: core.ColorBrightWhite, Bg: core.ColorDefault, Bold: i == 0})
	}
}
