package game

import (
	"github.com/JMTC-dev/snake/pkg/protocol"
)

// Snake is a player's line segment on the grid. Body is head-first; it is
// never empty while the snake exists and never shrinks within a round.
type Snake struct {
	ID    int32
	Body  []protocol.Coord
	Dir   protocol.Direction
	Alive bool
	Score int32

	// turnLocked is armed when a direction change is accepted and cleared
	// at the start of the next tick, so at most one turn applies per tick.
	turnLocked bool

	// deathReported is set once the final body has ridden a tick
	// snapshot; later snapshots omit the snake.
	deathReported bool
}

func NewSnake(id int32, body []protocol.Coord) *Snake {
	return &Snake{
		ID:    id,
		Body:  body,
		Alive: true,
	}
}

func (s *Snake) Head() protocol.Coord {
	return s.Body[0]
}

// CandidateHead is the head position the snake would occupy after this
// tick, before any collision adjudication.
func (s *Snake) CandidateHead() protocol.Coord {
	head := s.Head()
	return protocol.Coord{X: head.X + s.Dir.Dx, Y: head.Y + s.Dir.Dy}
}

// TryTurn applies a steering intent immediately if the acceptance rule
// allows it and arms the turn lock. A second request in the same tick is
// rejected; the lock is released by UnlockTurn at the start of each tick.
func (s *Snake) TryTurn(dir protocol.Direction) bool {
	if !DirectionAllowed(s.Dir, s.turnLocked, dir) {
		return false
	}
	s.Dir = dir
	s.turnLocked = true
	return true
}

func (s *Snake) UnlockTurn() {
	s.turnLocked = false
}

// DirectionAllowed is the single acceptance rule shared by the server and
// the client prediction layer; both must reach identical decisions from the
// same prior state. A request is rejected when a change was already accepted
// this tick, when it reverses the current axis, when it equals the current
// direction, or when it lies on the current axis of motion (only turns are
// accepted, never re-confirmation of straight travel). A stationary snake
// accepts any valid direction.
func DirectionAllowed(current protocol.Direction, locked bool, requested protocol.Direction) bool {
	if locked {
		return false
	}
	if !requested.Valid() {
		return false
	}
	if current.IsZero() {
		return true
	}
	if requested == current.Opposite() {
		return false
	}
	if requested == current {
		return false
	}
	// Requests on the current axis of motion are either a repeat or a
	// reversal, both rejected above; this keeps the rule explicit.
	if (current.Dx != 0 && requested.Dx != 0) || (current.Dy != 0 && requested.Dy != 0) {
		return false
	}
	return true
}

// Advance commits the candidate head: it is inserted at the front and,
// unless the snake grew this tick, the tail is removed.
func (s *Snake) Advance(newHead protocol.Coord, grew bool) {
	s.Body = append([]protocol.Coord{newHead}, s.Body...)
	if !grew {
		s.Body = s.Body[:len(s.Body)-1]
	}
}

// Cells returns the body as a freshly allocated slice, safe to hand to
// snapshots after the snake mutates.
func (s *Snake) Cells() []protocol.Coord {
	cells := make([]protocol.Coord, len(s.Body))
	copy(cells, s.Body)
	return cells
}

// Occupies reports whether any body cell is at c.
func (s *Snake) Occupies(c protocol.Coord) bool {
	for _, cell := range s.Body {
		if cell == c {
			return true
		}
	}
	return false
}
