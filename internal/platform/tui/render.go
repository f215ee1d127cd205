package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-2048/internal/core"
)

// lipglossStyle converts a cell style to its lipgloss equivalent.
func lipglossStyle(st core.Style) lipgloss.Style {
	s := lipgloss.NewStyle()
	if st.Fg != core.ColorDefault {
		s = s.Foreground(lipgloss.Color(strconv.Itoa(int(st.Fg))))
	}
	if st.Bg != core.ColorDefault {
		s = s.Background(lipgloss.Color(strconv.Itoa(int(st.Bg))))
	}
	if st.Bold {
		s = s.Bold(true)
	}
	return s
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same style to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	styles := make(map[core.Style]lipgloss.Style)

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			start := s.GetCell(x, y).Style

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Style != start {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			if start == core.DefaultStyle {
				sb.WriteString(run.String())
				continue
			}
			style, ok := styles[start]
			if !ok {
				style = lipglossStyle(start)
				styles[start] = style
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}
