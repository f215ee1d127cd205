// Package tui runs 2048 in a terminal with Bubble Tea, locally or over SSH.
// It maps keys and mouse drags to game actions and draws the cell buffer.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-2048/internal/core"
)

// maxTickRate caps redraws; terminals gain nothing past this.
const maxTickRate = 120

// TickMsg advances the game by one frame.
type TickMsg time.Time

// clampTickRate falls back to the default rate for non-positive values.
func clampTickRate(rate int) int {
	if rate <= 0 {
		return core.DefaultConfig().TickRate
	}
	return core.Clamp(rate, 1, maxTickRate)
}

// tickCmd schedules the next frame. Slide and pop lengths are counted in
// frames, so the rate also sets animation speed.
func tickCmd(rate int) tea.Cmd {
	interval := time.Second / time.Duration(clampTickRate(rate))
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
