package game

import (
	"github.com/JMTC-dev/snake/pkg/protocol"
)

// moveIntent is one snake's pre-tick snapshot plus its candidate head.
// Collision predicates only ever read these, never the live bodies, so the
// outcome is independent of the order snakes are evaluated in.
type moveIntent struct {
	id        int32
	body      []protocol.Coord
	candidate protocol.Coord
	grew      bool
	moving    bool
}

// resolveCollisions adjudicates one tick's movement against the pre-tick
// snapshot and returns the set of snakes that die this tick. Alive flags
// are only ever lowered, never reverted, so pair order does not matter.
func resolveCollisions(cfg Config, intents []moveIntent, mode protocol.Gamemode) map[int32]bool {
	dead := make(map[int32]bool)

	// Wall collision: a candidate head outside the grid is lethal.
	for _, in := range intents {
		if !in.moving {
			continue
		}
		if !inBounds(cfg, in.candidate) {
			dead[in.id] = true
		}
	}

	// Self collision. The tail cell vacates this tick unless the snake
	// grew, so it is only a valid target on a growth tick.
	for _, in := range intents {
		if !in.moving || dead[in.id] {
			continue
		}
		body := in.body
		if !in.grew && len(body) > 1 {
			body = body[:len(body)-1]
		}
		if contains(body, in.candidate) {
			dead[in.id] = true
		}
	}

	// Cross-snake lethality only exists in competitive rounds.
	if mode != protocol.COMPETITIVE {
		return dead
	}

	// Head-to-head: two snakes steering into the same cell kill each
	// other. Only moving snakes take part; a stationary snake's head is
	// plain body for the check below.
	for i := 0; i < len(intents); i++ {
		for j := i + 1; j < len(intents); j++ {
			a, b := intents[i], intents[j]
			if !a.moving || !b.moving {
				continue
			}
			if dead[a.id] && dead[b.id] {
				continue
			}
			if a.candidate == b.candidate {
				dead[a.id] = true
				dead[b.id] = true
			}
		}
	}

	// Head-to-body: moving into any cell of another snake's pre-tick body
	// kills the mover alone.
	for _, in := range intents {
		if !in.moving || dead[in.id] {
			continue
		}
		for _, other := range intents {
			if other.id == in.id {
				continue
			}
			if contains(other.body, in.candidate) {
				dead[in.id] = true
				break
			}
		}
	}

	return dead
}

func inBounds(cfg Config, c protocol.Coord) bool {
	return c.X >= 0 && c.X < cfg.Width && c.Y >= 0 && c.Y < cfg.Height
}

func contains(cells []protocol.Coord, c protocol.Coord) bool {
	for _, cell := range cells {
		if cell == c {
			return true
		}
	}
	return false
}
