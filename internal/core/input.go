package core

// Action represents a semantic game action, abstracted from physical key presses.
// This allows games to work with high-level intents rather than raw input.
type Action int

const (
	ActionNone     Action = iota
	ActionUp              // W, K, Up arrow
	ActionDown            // S, J, Down arrow
	ActionLeft            // A, H, Left arrow
	ActionRight           // D, L, Right arrow
	ActionUndo            // U - take back the last move
	ActionContinue        // C - keep playing after reaching the target
	ActionConfirm         // Enter - confirm selection in menu
	ActionBack            // B, Escape - go back to menu
	ActionRestart         // N, R - start a new game
	ActionQuit            // Q, Ctrl+C - exit game/session
	ActionPause           // P - pause/unpause game
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionUndo:
		return "Undo"
	case ActionContinue:
		return "Continue"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	case ActionPause:
		return "Pause"
	default:
		return "Unknown"
	}
}

// IsMove reports whether the action is one of the four slide directions.
func (a Action) IsMove() bool {
	return a >= ActionUp && a <= ActionRight
}

// InputFrame represents the input state for a single player during one simulation tick.
// It contains all actions that were triggered during this frame.
type InputFrame struct {
	// Actions maps action types to whether they were triggered this frame.
	Actions map[Action]bool
	// order remembers the first move seen this frame so two arrow keys
	// pressed between ticks resolve to the earlier one.
	order []Action
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	if !f.Actions[a] {
		f.order = append(f.order, a)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// Move returns the first directional action set this frame.
func (f InputFrame) Move() (Action, bool) {
	for _, a := range f.order {
		if a.IsMove() {
			return a, true
		}
	}
	return ActionNone, false
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
	f.order = f.order[:0]
}

// DefaultSwipeDistance is the longest drag, in cells, still treated as a
// click rather than a swipe.
const DefaultSwipeDistance = 3

// SwipeAction classifies a pointer drag from (x0, y0) to (x1, y1).
// The dominant axis wins, with ties going vertical. The drag must be longer
// than minDistance on that axis; anything up to it yields ActionNone.
func SwipeAction(x0, y0, x1, y1, minDistance int) Action {
	dx := x1 - x0
	dy := y1 - y0
	absX, absY := Abs(dx), Abs(dy)

	if absX > absY && absX > minDistance {
		if dx < 0 {
			return ActionLeft
		}
		return ActionRight
	}
	if absY >= absX && absY > minDistance {
		if dy < 0 {
			return ActionUp
		}
		return ActionDown
	}
	return ActionNone
}
