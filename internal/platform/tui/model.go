package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/engine"
	"github.com/vovakirdan/tui-2048/internal/game"
	"github.com/vovakirdan/tui-2048/internal/registry"
)

// ScoreStore is the part of storage.Store the game screen needs.
type ScoreStore interface {
	HighScore(gameID string) (int, error)
	SaveScore(gameID string, score, maxTile int) (int64, error)
	UpdateScore(id int64, score, maxTile int) error
}

// Publisher receives live snapshots for spectators. *spectate.Hub
// implements it.
type Publisher interface {
	Open(id, player string)
	Publish(id string, snap game.Snapshot)
	End(id string)
}

type snapshotter interface {
	Snapshot() game.Snapshot
}

// helpHeight is the number of rows below the game kept for the help bar.
const helpHeight = 1

func gameHeight(h int) int {
	return max(h-helpHeight, 0)
}

// Options wires the collaborators of a game screen. Every field is optional.
type Options struct {
	Store     ScoreStore
	Logger    *log.Logger
	Publisher Publisher
	SessionID string // spectator session; empty disables publishing
	Player    string
	AllowBack bool // Esc/B returns to the menu instead of doing nothing
	SwipeMin  int  // a mouse drag must be longer than this, in cells, to move
}

// scoreRecord tracks the persisted row of the running game. Every copy of a
// Model points at the same record, so Close can finish the game after Bubble
// Tea has dropped the final model.
type scoreRecord struct {
	id    int64 // score row of the current game, 0 if unsaved
	score int
	ended bool
}

// Model is the Bubble Tea model for a single game screen.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	opts       Options
	logger     *log.Logger
	config     core.RuntimeConfig
	keys       GameKeyMap
	help       help.Model
	inputFrame core.InputFrame
	gameState  core.GameState

	dragging     bool
	dragX, dragY int

	record *scoreRecord

	quitting   bool
	backToMenu bool
}

// NewModel creates a new Bubble Tea model for the given game.
func NewModel(g registry.Game, cfg core.RuntimeConfig, opts Options) Model {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	cfg.TickRate = clampTickRate(cfg.TickRate)
	if opts.SwipeMin <= 0 {
		opts.SwipeMin = core.DefaultSwipeDistance
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	if opts.Store != nil {
		best, err := opts.Store.HighScore(g.ID())
		if err != nil {
			logger.Warn("could not read best score", "game", g.ID(), "err", err)
		}
		cfg.BestScore = max(cfg.BestScore, best)
	}

	// The game is reset here rather than in Init so the value copies Bubble
	// Tea hands around all share an initialised board.
	g.Reset(cfg)
	g.Resize(cfg.ScreenW, gameHeight(cfg.ScreenH))

	m := Model{
		game:       g,
		screen:     core.NewScreen(cfg.ScreenW, gameHeight(cfg.ScreenH)),
		opts:       opts,
		logger:     logger,
		config:     cfg,
		keys:       DefaultGameKeyMap(),
		help:       help.New(),
		inputFrame: core.NewInputFrame(),
		gameState:  g.State(),
		record:     &scoreRecord{},
	}

	if opts.Publisher != nil && opts.SessionID != "" {
		opts.Publisher.Open(opts.SessionID, opts.Player)
		m.publish()
	}
	return m
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, gameHeight(msg.Height))
		m.game.Resize(msg.Width, gameHeight(msg.Height))
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}
	switch action := m.keys.ActionFor(msg); action {
	case core.ActionQuit:
		m.endGame()
		m.quitting = true
		return m, tea.Quit
	case core.ActionBack:
		if !m.opts.AllowBack {
			return m, nil
		}
		m.endGame()
		m.backToMenu = true
		return m, tea.Quit
	case core.ActionNone:
		return m, nil
	default:
		m.inputFrame.Set(action)
	}
	return m, nil
}

// handleMouse turns a left-button drag into a move.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Button != tea.MouseButtonLeft && msg.Action != tea.MouseActionRelease {
		return m, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		m.dragging = true
		m.dragX, m.dragY = msg.X, msg.Y
	case tea.MouseActionRelease:
		if !m.dragging {
			return m, nil
		}
		m.dragging = false
		if a := core.SwipeAction(m.dragX, m.dragY, msg.X, msg.Y, m.opts.SwipeMin); a != core.ActionNone {
			m.inputFrame.Set(a)
		}
	}
	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.inputFrame.Has(core.ActionRestart) && !m.gameState.Busy {
		m.newGame()
		m.inputFrame.Clear()
		return m, tickCmd(m.config.TickRate)
	}

	wasOver := m.gameState.GameOver
	before := m.gameState

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State

	if result.Moved {
		m.logger.Debug("move",
			"game", m.game.ID(),
			"score", m.gameState.Score,
			"best", m.gameState.BestScore,
		)
	}

	if m.gameState.GameOver && !wasOver {
		m.logger.Info("game over", "game", m.game.ID(), "score", m.gameState.Score)
		m.saveScore()
	}

	if result.Moved || stateChanged(before, m.gameState) {
		m.publish()
	}

	m.inputFrame.Clear()
	return m, tickCmd(m.config.TickRate)
}

func stateChanged(a, b core.GameState) bool {
	return a.Score != b.Score || a.GameOver != b.GameOver || a.Won != b.Won || a.Paused != b.Paused
}

// newGame records the running game and starts a fresh board.
func (m *Model) newGame() {
	m.saveScore()
	m.config.Seed = time.Now().UnixNano()
	m.config.BestScore = max(m.config.BestScore, m.gameState.BestScore)
	m.game.Reset(m.config)
	m.game.Resize(m.config.ScreenW, gameHeight(m.config.ScreenH))
	m.gameState = m.game.State()
	m.record.id = 0
	m.record.score = 0
	m.logger.Info("new game", "game", m.game.ID())
	m.publish()
}

// endGame saves the score and closes the spectator session. Only the first
// call has any effect.
func (m *Model) endGame() {
	if m.record.ended {
		return
	}
	m.record.ended = true
	m.saveScore()
	if m.opts.Publisher != nil && m.opts.SessionID != "" {
		m.opts.Publisher.End(m.opts.SessionID)
	}
}

// Close finishes the game when the program stopped without a quit key, such
// as a dropped SSH connection. It is a no-op after Quit or Back.
func (m Model) Close() {
	m.endGame()
}

// saveScore writes the current score once per game. A game reopened by
// undo after it was saved updates its row instead of adding another.
func (m *Model) saveScore() {
	st := m.game.State()
	if m.opts.Store == nil || st.Score == 0 || st.Score == m.record.score {
		return
	}

	maxTile := maxTileOf(m.game)

	if m.record.id != 0 {
		if err := m.opts.Store.UpdateScore(m.record.id, st.Score, maxTile); err != nil {
			m.logger.Warn("could not update score", "game", m.game.ID(), "err", err)
			return
		}
	} else {
		id, err := m.opts.Store.SaveScore(m.game.ID(), st.Score, maxTile)
		if err != nil {
			m.logger.Warn("could not save score", "game", m.game.ID(), "err", err)
			return
		}
		m.record.id = id
	}
	m.record.score = st.Score
	m.logger.Info("score saved", "game", m.game.ID(), "score", st.Score, "max_tile", maxTile)
}

func (m Model) publish() {
	if m.opts.Publisher == nil || m.opts.SessionID == "" {
		return
	}
	if s, ok := m.game.(snapshotter); ok {
		m.opts.Publisher.Publish(m.opts.SessionID, s.Snapshot())
	}
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	dir := filepath.Join(config.UserDir(), "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("could not create screenshot directory", "err", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("could not save screenshot", "err", err)
		return
	}
	m.logger.Info("screenshot saved", "path", path)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	return RenderScreen(m.screen) + "\n" + helpStyle.Render(m.help.View(m.keys))
}

// State returns the last observed game state.
func (m Model) State() core.GameState {
	return m.gameState
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// maxTileOf returns the highest tile on the current board.
func maxTileOf(g registry.Game) int {
	if s, ok := g.(interface{ Tiles() []engine.Tile }); ok {
		return engine.MaxTile(s.Tiles())
	}
	return 0
}

// Run starts the Bubble Tea program for one game.
func Run(g registry.Game, cfg core.RuntimeConfig, opts Options) error {
	_, err := RunModel(g, cfg, opts)
	return err
}

// RunModel runs one game and returns the final model, so callers can tell
// a quit from a return to the menu.
func RunModel(g registry.Game, cfg core.RuntimeConfig, opts Options) (Model, error) {
	p := tea.NewProgram(
		NewModel(g, cfg, opts),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	final, err := p.Run()
	if err != nil {
		return Model{}, err
	}
	m, _ := final.(Model)
	return m, nil
}
