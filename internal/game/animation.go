package game

import "github.com/vovakirdan/tui-2048/internal/engine"

// Phase is the animation phase a move is in.
type Phase int

const (
	PhaseNone  Phase = iota
	PhaseSlide       // tiles glide from their old cells to their new ones
	PhasePop         // merged and spawned tiles are highlighted
)

func (p Phase) String() string {
	switch p {
	case PhaseSlide:
		return "slide"
	case PhasePop:
		return "pop"
	default:
		return "idle"
	}
}

// pendingMove holds a move between MoveState and its deferred merge/spawn.
type pendingMove struct {
	from  []engine.Tile
	moved []engine.Tile
	pairs []engine.MergePair
}

// animation is a fixed-length countdown over one phase.
type animation struct {
	phase    Phase
	ticks    int
	duration int
	fresh    map[string]bool // tile ids highlighted in the pop phase
}

func newSlide(duration int) animation {
	return animation{phase: PhaseSlide, duration: duration}
}

func newPop(duration int, fresh map[string]bool) animation {
	return animation{phase: PhasePop, duration: duration, fresh: fresh}
}

func (a animation) active() bool {
	return a.phase != PhaseNone
}

// step advances one tick and reports whether the phase just ended.
func (a *animation) step() bool {
	a.ticks++
	return a.ticks >= a.duration
}

// progress returns 0..1 through the phase.
func (a animation) progress() float64 {
	if a.duration <= 0 {
		return 1
	}
	p := float64(a.ticks) / float64(a.duration)
	if p > 1 {
		return 1
	}
	return p
}

// easeOutQuad provides smooth deceleration for animation.
func easeOutQuad(t float64) float64 {
	return t * (2 - t)
}

// sprite is a tile drawn at a fractional cell position.
type sprite struct {
	value     int
	row, col  float64
	highlight bool
}

// sprites returns what to draw this frame. During a slide every tile is
// interpolated from its cell before the move to its cell after it, merge
// victims included, so two colliding tiles visibly meet.
func (g *Game) sprites() []sprite {
	if g.anim.phase == PhaseSlide && g.pending != nil {
		origin := make(map[string]engine.Position, len(g.pending.from))
		for _, t := range g.pending.from {
			origin[t.ID] = t.Position
		}

		t := easeOutQuad(g.anim.progress())
		out := make([]sprite, 0, len(g.pending.moved))
		for _, tile := range g.pending.moved {
			from, ok := origin[tile.ID]
			if !ok {
				from = tile.Position
			}
			out = append(out, sprite{
				value: tile.Value,
				row:   lerp(from.Row, tile.Position.Row, t),
				col:   lerp(from.Col, tile.Position.Col, t),
			})
		}
		return out
	}

	out := make([]sprite, 0, len(g.tiles))
	for _, tile := range g.tiles {
		out = append(out, sprite{
			value:     tile.Value,
			row:       float64(tile.Position.Row),
			col:       float64(tile.Position.Col),
			highlight: g.anim.phase == PhasePop && g.anim.fresh[tile.ID],
		})
	}
	return out
}

func lerp(from, to int, t float64) float64 {
	return float64(from) + float64(to-from)*t
}
