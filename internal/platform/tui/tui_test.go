package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/game"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

func TestActionFor(t *testing.T) {
	keys := DefaultGameKeyMap()
	tests := []struct {
		msg  tea.KeyMsg
		want core.Action
	}{
		{tea.KeyMsg{Type: tea.KeyUp}, core.ActionUp},
		{runes("w"), core.ActionUp},
		{runes("k"), core.ActionUp},
		{tea.KeyMsg{Type: tea.KeyDown}, core.ActionDown},
		{runes("j"), core.ActionDown},
		{runes("a"), core.ActionLeft},
		{runes("h"), core.ActionLeft},
		{runes("l"), core.ActionRight},
		{tea.KeyMsg{Type: tea.KeyRight}, core.ActionRight},
		{runes("u"), core.ActionUndo},
		{tea.KeyMsg{Type: tea.KeyBackspace}, core.ActionUndo},
		{runes("n"), core.ActionRestart},
		{runes("r"), core.ActionRestart},
		{runes("c"), core.ActionContinue},
		{runes("p"), core.ActionPause},
		{tea.KeyMsg{Type: tea.KeyEsc}, core.ActionBack},
		{runes("q"), core.ActionQuit},
		{tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit},
		{runes("x"), core.ActionNone},
		{tea.KeyMsg{Type: tea.KeyEnter}, core.ActionNone},
	}

	for _, tt := range tests {
		t.Run(tt.msg.String(), func(t *testing.T) {
			if got := keys.ActionFor(tt.msg); got != tt.want {
				t.Errorf("ActionFor(%q) = %v, want %v", tt.msg.String(), got, tt.want)
			}
		})
	}
}

func TestMapKeyToMenuAction(t *testing.T) {
	tests := []struct {
		msg  tea.KeyMsg
		want MenuAction
	}{
		{tea.KeyMsg{Type: tea.KeyUp}, MenuActionUp},
		{runes("s"), MenuActionDown},
		{tea.KeyMsg{Type: tea.KeyEnter}, MenuActionSelect},
		{tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, MenuActionSelect},
		{tea.KeyMsg{Type: tea.KeyTab}, MenuActionScoreboard},
		{tea.KeyMsg{Type: tea.KeyEsc}, MenuActionBack},
		{runes("q"), MenuActionQuit},
		{runes("z"), MenuActionNone},
	}

	for _, tt := range tests {
		if got := MapKeyToMenuAction(tt.msg); got != tt.want {
			t.Errorf("MapKeyToMenuAction(%q) = %v, want %v", tt.msg.String(), got, tt.want)
		}
	}
}

func TestRenderScreenKeepsLayout(t *testing.T) {
	s := core.NewScreen(6, 3)
	s.DrawText(0, 0, "ab")
	s.DrawStyledText(2, 1, "16", game.TileStyle(16))
	s.SetStyled(5, 2, '#', core.Foreground(core.ColorGray))

	out := RenderScreen(s)
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	if !strings.HasPrefix(lines[0], "ab    ") {
		t.Errorf("line 0 = %q", lines[0])
	}
	if !strings.Contains(lines[1], "16") {
		t.Errorf("line 1 = %q, want it to contain 16", lines[1])
	}
	if !strings.Contains(lines[2], "#") {
		t.Errorf("line 2 = %q, want it to contain #", lines[2])
	}
}

func TestLipglossStyle(t *testing.T) {
	st := lipglossStyle(core.Style{Fg: 231, Bg: 209, Bold: true})
	if !st.GetBold() {
		t.Error("bold lost")
	}
	if _, unset := st.GetForeground().(lipgloss.NoColor); unset {
		t.Error("foreground not set")
	}

	plain := lipglossStyle(core.DefaultStyle)
	if _, unset := plain.GetBackground().(lipgloss.NoColor); !unset {
		t.Error("default style has a background")
	}
	if plain.GetBold() {
		t.Error("default style is bold")
	}
}

func TestCenterText(t *testing.T) {
	tests := []struct {
		text    string
		width   int
		visible int
		want    string
	}{
		{"abc", 9, 0, "   abc"},
		{"abc", 2, 0, "abc"},
		{"\x1b[1mab\x1b[0m", 6, 2, "  \x1b[1mab\x1b[0m"},
	}
	for _, tt := range tests {
		if got := centerText(tt.text, tt.width, tt.visible); got != tt.want {
			t.Errorf("centerText(%q, %d, %d) = %q, want %q", tt.text, tt.width, tt.visible, got, tt.want)
		}
	}
}

func TestMenuListsVariants(t *testing.T) {
	store := &fakeStore{best: 512}
	m := NewMenuModel(store, testConfig())

	if len(m.items) != len(game.Sizes) {
		t.Fatalf("items = %d, want %d", len(m.items), len(game.Sizes))
	}
	if m.items[0].GameID != game.VariantID(4) || m.items[0].Best != 512 {
		t.Errorf("first item = %+v", m.items[0])
	}
	if !strings.Contains(m.View(), "2048 (5x5)") {
		t.Error("view does not list the 5x5 board")
	}
}

func menuSend(m MenuModel, msgs ...tea.Msg) MenuModel {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(MenuModel)
	}
	return m
}

func TestMenuResult(t *testing.T) {
	down := tea.KeyMsg{Type: tea.KeyDown}
	tests := []struct {
		name string
		keys []tea.Msg
		want MenuResult
	}{
		{"select second", []tea.Msg{down, tea.KeyMsg{Type: tea.KeyEnter}}, MenuResult{GameID: game.VariantID(5)}},
		{"cursor stops at end", []tea.Msg{down, down, down, down, tea.KeyMsg{Type: tea.KeyEnter}}, MenuResult{GameID: game.VariantID(6)}},
		{"scoreboard", []tea.Msg{tea.KeyMsg{Type: tea.KeyTab}}, MenuResult{WantsScoreboard: true}},
		{"quit", []tea.Msg{runes("q")}, MenuResult{Quit: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := menuSend(NewMenuModel(nil, testConfig()), tt.keys...)
			got := m.Result()
			got.Config = core.RuntimeConfig{}
			if got != tt.want {
				t.Errorf("Result() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

type fakeScores struct {
	fakeStore
	requested []string
}

func (s *fakeScores) TopScores(gameID string, limit int) ([]storage.ScoreEntry, error) {
	s.requested = append(s.requested, gameID)
	if gameID != game.VariantID(4) {
		return nil, nil
	}
	return []storage.ScoreEntry{
		{ID: 2, GameID: gameID, Score: 20480, MaxTile: 2048, CreatedAt: time.Date(2026, 1, 2, 15, 4, 0, 0, time.UTC)},
		{ID: 1, GameID: gameID, Score: 3000, MaxTile: 256, CreatedAt: time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)},
	}, nil
}

func (s *fakeScores) GetGameStats(gameID string) (*storage.GameStats, error) {
	if gameID != game.VariantID(4) {
		return &storage.GameStats{GameID: gameID}, nil
	}
	return &storage.GameStats{GameID: gameID, GamesCount: 2, HighScore: 20480, AvgScore: 11740, BestTile: 2048}, nil
}

func TestScoreboardSwitchesVariant(t *testing.T) {
	src := &fakeScores{}
	m := NewScoreboardModel(src, 100, 30)

	view := m.View()
	for _, want := range []string{"20480", "2048", "2 games", "best tile 2048"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(ScoreboardModel)
	if got := src.requested[len(src.requested)-1]; got != game.VariantID(5) {
		t.Errorf("loaded %q after tab, want %q", got, game.VariantID(5))
	}
	if !strings.Contains(m.View(), "No scores recorded yet") {
		t.Error("empty variant shows rows")
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m = next.(ScoreboardModel)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m = next.(ScoreboardModel)
	if got := src.requested[len(src.requested)-1]; got != game.VariantID(6) {
		t.Errorf("shift+tab wrapped to %q, want %q", got, game.VariantID(6))
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !next.(ScoreboardModel).IsGoingBack() {
		t.Error("esc did not go back")
	}
}

func TestSessionFlow(t *testing.T) {
	src := &fakeScores{}
	pub := &fakePublisher{}
	opts := Options{Store: src, Publisher: pub, Player: "bob", AllowBack: true}
	var m tea.Model = NewSessionModel(src, testConfig(), opts)

	step := func(msg tea.Msg) {
		t.Helper()
		m, _ = m.Update(msg)
	}
	screen := func() sessionScreen { return m.(SessionModel).screen }

	step(tea.KeyMsg{Type: tea.KeyEnter})
	if screen() != screenGame {
		t.Fatalf("screen = %v after enter, want game", screen())
	}
	if len(pub.opened) != 1 || !strings.HasPrefix(pub.opened[0], "bob-") {
		t.Errorf("opened = %v, want one bob- session", pub.opened)
	}
	if !strings.Contains(m.View(), "Score:") {
		t.Error("game view not shown")
	}

	step(tea.KeyMsg{Type: tea.KeyEsc})
	if screen() != screenMenu {
		t.Fatalf("screen = %v after esc, want menu", screen())
	}
	if len(pub.ended) != 1 {
		t.Errorf("ended = %v, want one", pub.ended)
	}

	step(tea.KeyMsg{Type: tea.KeyTab})
	if screen() != screenScores {
		t.Fatalf("screen = %v after tab, want scores", screen())
	}
	step(tea.KeyMsg{Type: tea.KeyEsc})
	if screen() != screenMenu {
		t.Fatalf("screen = %v after esc, want menu", screen())
	}

	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Error("q in menu did not quit")
	}
}

func TestClampTickRate(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, 60},
		{-5, 60},
		{30, 30},
		{1000, maxTickRate},
	}
	for _, tt := range tests {
		if got := clampTickRate(tt.in); got != tt.want {
			t.Errorf("clampTickRate(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestSessionCloseFinishesAbandonedGame(t *testing.T) {
	src := &fakeScores{}
	pub := &fakePublisher{}
	opts := Options{Store: src, Publisher: pub, Player: "erin", AllowBack: true}
	sm := NewSessionModel(src, testConfig(), opts)

	// Nothing is running yet.
	sm.Close()
	if len(pub.ended) != 0 {
		t.Fatalf("ended = %v before a game started", pub.ended)
	}

	var m tea.Model = sm
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	moves := []tea.KeyType{tea.KeyLeft, tea.KeyUp, tea.KeyRight, tea.KeyDown}
	for i := 0; i < 200 && m.(SessionModel).game.State().Score == 0; i++ {
		m, _ = m.Update(tea.KeyMsg{Type: moves[i%len(moves)]})
		for range 12 {
			m, _ = m.Update(tick)
		}
	}
	score := m.(SessionModel).game.State().Score
	if score == 0 {
		t.Fatal("no merge happened")
	}

	// The connection drops: the program stops and the last model is lost.
	// Any copy of the session can still finish the game.
	sm.Close()
	sm.Close()

	if len(pub.ended) != 1 || !strings.HasPrefix(pub.ended[0], "erin-") {
		t.Errorf("ended = %v, want one erin- session", pub.ended)
	}
	if len(src.saves) != 1 || src.saves[0].score != score {
		t.Errorf("saves = %+v, want one save of %d", src.saves, score)
	}
}
