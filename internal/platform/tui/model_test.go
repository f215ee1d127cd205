package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/engine"
	"github.com/vovakirdan/tui-2048/internal/game"
)

// fakeGame is a scripted registry.Game.
type fakeGame struct {
	state   core.GameState
	maxTile int
	resets  []core.RuntimeConfig
	inputs  []core.Action
	w, h    int
}

func (g *fakeGame) ID() string { return "fake" }
func (g *fakeGame) Title() string { return "Fake" }

func (g *fakeGame) Reset(cfg core.RuntimeConfig) {
	g.resets = append(g.resets, cfg)
	g.state = core.GameState{BestScore: cfg.BestScore}
}

func (g *fakeGame) Resize(w, h int) { g.w, g.h = w, h }

func (g *fakeGame) Step(in core.InputFrame) core.StepResult {
	a, moved := in.Move()
	if moved {
		g.inputs = append(g.inputs, a)
	}
	return core.StepResult{State: g.state, Moved: moved}
}

func (g *fakeGame) Render(dst *core.Screen) {
	dst.Clear()
	dst.DrawText(0, 0, "fake")
}

func (g *fakeGame) State() core.GameState { return g.state }

func (g *fakeGame) Tiles() []engine.Tile {
	return []engine.Tile{{ID: "t", Value: g.maxTile}}
}

func (g *fakeGame) Snapshot() game.Snapshot {
	return game.Snapshot{Variant: "fake", Score: g.state.Score, MaxTile: g.maxTile}
}

type savedScore struct {
	id      int64
	gameID  string
	score   int
	maxTile int
}

type fakeStore struct {
	best    int
	saves   []savedScore
	updates []savedScore
}

func (s *fakeStore) HighScore(string) (int, error) { return s.best, nil }

func (s *fakeStore) SaveScore(gameID string, score, maxTile int) (int64, error) {
	id := int64(len(s.saves) + 1)
	s.saves = append(s.saves, savedScore{id, gameID, score, maxTile})
	return id, nil
}

func (s *fakeStore) UpdateScore(id int64, score, maxTile int) error {
	s.updates = append(s.updates, savedScore{id, "", score, maxTile})
	return nil
}

type fakePublisher struct {
	opened    []string
	published int
	ended     []string
}

func (p *fakePublisher) Open(id, _ string) { p.opened = append(p.opened, id) }
func (p *fakePublisher) Publish(string, game.Snapshot) { p.published++ }
func (p *fakePublisher) End(id string) { p.ended = append(p.ended, id) }

func testConfig() core.RuntimeConfig {
	return core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 1}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		if m, ok = next.(Model); !ok {
			t.Fatalf("Update returned %T", next)
		}
	}
	return m
}

var tick = TickMsg{}

func TestNewModelSeedsBestScore(t *testing.T) {
	g := &fakeGame{}
	store := &fakeStore{best: 900}
	cfg := testConfig()
	cfg.BestScore = 100

	m := NewModel(g, cfg, Options{Store: store})

	if len(g.resets) != 1 {
		t.Fatalf("resets = %d, want 1", len(g.resets))
	}
	if got := g.resets[0].BestScore; got != 900 {
		t.Errorf("BestScore = %d, want 900", got)
	}
	if g.h != 24-helpHeight {
		t.Errorf("game height = %d, want %d", g.h, 24-helpHeight)
	}
	if m.State().BestScore != 900 {
		t.Errorf("State().BestScore = %d, want 900", m.State().BestScore)
	}
}

func TestKeysReachGameOnTick(t *testing.T) {
	g := &fakeGame{}
	m := NewModel(g, testConfig(), Options{})

	m = send(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	if len(g.inputs) != 0 {
		t.Fatal("input applied before tick")
	}
	m = send(t, m, tick, runes("s"), tick, tick)

	want := []core.Action{core.ActionLeft, core.ActionDown}
	if len(g.inputs) != len(want) {
		t.Fatalf("inputs = %v, want %v", g.inputs, want)
	}
	for i := range want {
		if g.inputs[i] != want[i] {
			t.Errorf("inputs[%d] = %v, want %v", i, g.inputs[i], want[i])
		}
	}
}

func TestMouseDragMoves(t *testing.T) {
	tests := []struct {
		name   string
		x1, y1 int
		want   core.Action
	}{
		{"right", 20, 11, core.ActionRight},
		{"up", 11, 4, core.ActionUp},
		{"too short", 11, 10, core.ActionNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := &fakeGame{}
			m := NewModel(g, testConfig(), Options{})
			m = send(t, m,
				tea.MouseMsg{X: 10, Y: 10, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress},
				tea.MouseMsg{X: tt.x1, Y: tt.y1, Action: tea.MouseActionRelease},
				tick,
			)

			if tt.want == core.ActionNone {
				if len(g.inputs) != 0 {
					t.Errorf("inputs = %v, want none", g.inputs)
				}
				return
			}
			if len(g.inputs) != 1 || g.inputs[0] != tt.want {
				t.Errorf("inputs = %v, want [%v]", g.inputs, tt.want)
			}
		})
	}
}

func TestScoreSavedOncePerGame(t *testing.T) {
	g := &fakeGame{maxTile: 128}
	store := &fakeStore{}
	m := NewModel(g, testConfig(), Options{Store: store})

	g.state.Score = 1200
	g.state.GameOver = true
	m = send(t, m, tick, tick)

	if len(store.saves) != 1 {
		t.Fatalf("saves = %d, want 1", len(store.saves))
	}
	if s := store.saves[0]; s.gameID != "fake" || s.score != 1200 || s.maxTile != 128 {
		t.Errorf("saved %+v", s)
	}

	// Undo reopens the game and it ends again with a higher score.
	g.state.GameOver = false
	m = send(t, m, tick)
	g.state.Score = 1500
	g.state.GameOver = true
	send(t, m, tick)

	if len(store.saves) != 1 {
		t.Errorf("saves = %d, want 1", len(store.saves))
	}
	if len(store.updates) != 1 || store.updates[0].id != 1 || store.updates[0].score != 1500 {
		t.Errorf("updates = %+v, want one update of row 1 to 1500", store.updates)
	}
}

func TestRestartSavesAndResets(t *testing.T) {
	g := &fakeGame{maxTile: 64}
	store := &fakeStore{}
	m := NewModel(g, testConfig(), Options{Store: store})

	g.state.Score = 300
	g.state.BestScore = 300
	m = send(t, m, tick, runes("n"), tick)

	if len(store.saves) != 1 || store.saves[0].score != 300 {
		t.Fatalf("saves = %+v, want one save of 300", store.saves)
	}
	if len(g.resets) != 2 {
		t.Fatalf("resets = %d, want 2", len(g.resets))
	}
	if got := g.resets[1].BestScore; got != 300 {
		t.Errorf("new game BestScore = %d, want 300", got)
	}
	if m.State().Score != 0 {
		t.Errorf("score after restart = %d", m.State().Score)
	}
}

func TestRestartIgnoredWhileBusy(t *testing.T) {
	g := &fakeGame{}
	m := NewModel(g, testConfig(), Options{})

	g.state.Busy = true
	m = send(t, m, tick, runes("r"), tick)

	if len(g.resets) != 1 {
		t.Errorf("resets = %d, want 1", len(g.resets))
	}
}

func TestZeroScoreNotSaved(t *testing.T) {
	store := &fakeStore{}
	m := NewModel(&fakeGame{}, testConfig(), Options{Store: store})

	next, cmd := m.Update(runes("q"))
	if cmd == nil || !next.(Model).IsQuitting() {
		t.Fatal("q did not quit")
	}
	if len(store.saves) != 0 {
		t.Errorf("saves = %d, want 0", len(store.saves))
	}
}

func TestBackOnlyWhenAllowed(t *testing.T) {
	for _, allow := range []bool{false, true} {
		m := NewModel(&fakeGame{}, testConfig(), Options{AllowBack: allow})
		m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
		if m.BackToMenu() != allow {
			t.Errorf("AllowBack=%v: BackToMenu() = %v", allow, m.BackToMenu())
		}
	}
}

func TestPublisherLifecycle(t *testing.T) {
	g := &fakeGame{}
	pub := &fakePublisher{}
	store := &fakeStore{}
	m := NewModel(g, testConfig(), Options{Publisher: pub, SessionID: "alice-1", Player: "alice", Store: store})

	if len(pub.opened) != 1 || pub.opened[0] != "alice-1" {
		t.Fatalf("opened = %v", pub.opened)
	}
	if pub.published != 1 {
		t.Fatalf("published = %d after open, want 1", pub.published)
	}

	m = send(t, m, tick)
	if pub.published != 1 {
		t.Errorf("idle tick published")
	}

	g.state.Score = 4
	m = send(t, m, runes("d"), tick)
	if pub.published != 2 {
		t.Errorf("published = %d after move, want 2", pub.published)
	}

	send(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if len(pub.ended) != 1 || pub.ended[0] != "alice-1" {
		t.Errorf("ended = %v", pub.ended)
	}
	if len(store.saves) != 1 {
		t.Errorf("quit did not save score")
	}
}

func TestCloseFinishesAbandonedGame(t *testing.T) {
	g := &fakeGame{maxTile: 32}
	pub := &fakePublisher{}
	store := &fakeStore{}
	m := NewModel(g, testConfig(), Options{Publisher: pub, SessionID: "carol-1", Store: store})

	g.state.Score = 200
	m = send(t, m, runes("a"), tick)

	// The program stopped without a key reaching Update.
	m.Close()
	m.Close()

	if len(pub.ended) != 1 || pub.ended[0] != "carol-1" {
		t.Errorf("ended = %v, want [carol-1]", pub.ended)
	}
	if len(store.saves) != 1 || store.saves[0].score != 200 {
		t.Errorf("saves = %+v, want one save of 200", store.saves)
	}
}

func TestCloseAfterQuitIsNoop(t *testing.T) {
	g := &fakeGame{}
	pub := &fakePublisher{}
	store := &fakeStore{}
	m := NewModel(g, testConfig(), Options{Publisher: pub, SessionID: "dave-1", Store: store})

	g.state.Score = 64
	m = send(t, m, tick, runes("q"))
	m.Close()

	if len(pub.ended) != 1 {
		t.Errorf("ended = %v, want one", pub.ended)
	}
	if len(store.saves) != 1 || len(store.updates) != 0 {
		t.Errorf("saves = %+v, updates = %+v, want a single save", store.saves, store.updates)
	}
}

func TestNoPublishWithoutSession(t *testing.T) {
	pub := &fakePublisher{}
	m := NewModel(&fakeGame{}, testConfig(), Options{Publisher: pub})
	send(t, m, runes("w"), tick, runes("q"))

	if len(pub.opened)+pub.published+len(pub.ended) != 0 {
		t.Errorf("publisher used without a session id: %+v", pub)
	}
}

func TestViewIncludesHelp(t *testing.T) {
	m := NewModel(&fakeGame{}, testConfig(), Options{})
	view := m.View()

	if !strings.HasPrefix(view, "fake") {
		t.Errorf("view does not start with the game: %q", view[:min(len(view), 20)])
	}
	if !strings.Contains(view, "undo") {
		t.Error("view has no help bar")
	}
}

func TestWindowResizeReachesGame(t *testing.T) {
	g := &fakeGame{}
	m := NewModel(g, testConfig(), Options{})
	send(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})

	if g.w != 100 || g.h != 40-helpHeight {
		t.Errorf("game size = %dx%d, want 100x%d", g.w, g.h, 40-helpHeight)
	}
	if len(g.resets) != 1 {
		t.Error("resize reset the game")
	}
}

func TestModelWithRealGame(t *testing.T) {
	g := game.New(4, game.Options{Target: 2048, InitialTiles: 2})
	m := NewModel(g, testConfig(), Options{})

	if n := len(g.Tiles()); n != 2 {
		t.Fatalf("tiles = %d, want 2", n)
	}
	for range 20 {
		m = send(t, m,
			tea.KeyMsg{Type: tea.KeyLeft}, tick,
			tea.KeyMsg{Type: tea.KeyUp}, tick,
			tea.KeyMsg{Type: tea.KeyRight}, tick,
			tea.KeyMsg{Type: tea.KeyDown}, tick,
		)
	}
	if g.Snapshot().Moves == 0 {
		t.Error("no move was applied")
	}
	if !strings.Contains(m.View(), "Score:") {
		t.Error("view has no HUD")
	}
}
