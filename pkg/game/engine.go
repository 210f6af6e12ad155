package game

import (
	"github.com/JMTC-dev/snake/pkg/protocol"
)

// Tick advances the world by one simulation step. It is a no-op outside a
// round. The step order is fixed: turn locks, candidate heads, food,
// collisions against the pre-tick snapshot, commit, respawn, termination,
// broadcast. Candidate heads and body snapshots are collected before any
// body mutates, so collision outcomes never depend on player order.
func (s *Session) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != protocol.IN_ROUND {
		return
	}

	// 1. Release the per-tick turn locks. Steering intents were already
	// applied on arrival, first accepted change wins until the next tick.
	for _, p := range s.players {
		if p.Snake != nil {
			p.Snake.UnlockTurn()
		}
	}

	// 2. Provisional movement into a side table; bodies stay untouched.
	intents := make([]moveIntent, 0, len(s.players))
	for _, p := range s.players {
		snake := p.Snake
		if snake == nil || !snake.Alive {
			continue
		}
		intents = append(intents, moveIntent{
			id:        snake.ID,
			body:      snake.Cells(),
			candidate: snake.CandidateHead(),
			moving:    !snake.Dir.IsZero(),
		})
	}

	// 3. Food consumption. Every snake arriving on the food cell this
	// tick scores and grows; cooperative rounds also feed the team score.
	foodEaten := false
	if s.food != protocol.FoodUnspawned {
		for i := range intents {
			in := &intents[i]
			if !in.moving || in.candidate != s.food {
				continue
			}
			in.grew = true
			foodEaten = true
			if p, ok := s.players[in.id]; ok && p.Snake != nil {
				p.Snake.Score++
			}
			if s.activeMode == protocol.COOPERATIVE {
				s.teamScore++
			}
		}
	}

	// 4-6. Wall, self and cross-snake collisions over the snapshot.
	dead := resolveCollisions(s.cfg, intents, s.activeMode)

	// 7. Commit. Dead snakes keep their final body for one last broadcast
	// and are excluded from every future step by the alive flag.
	for _, in := range intents {
		p, ok := s.players[in.id]
		if !ok || p.Snake == nil {
			// Player disconnected while the tick was being prepared.
			continue
		}
		if dead[in.id] {
			p.Snake.Alive = false
			continue
		}
		if in.moving {
			p.Snake.Advance(in.candidate, in.grew)
		}
	}

	// 8. Food respawn on a cell free of any living snake.
	if foodEaten {
		s.food = spawnFood(s.cfg, occupiedCells(s.players), s.rng)
	}

	// 9. Termination check.
	if s.roundOver() {
		s.endRound()
		return
	}

	// 10. Regular per-tick snapshot; a death pose rides exactly one.
	s.broadcast(s.tickMessage())
	for _, p := range s.players {
		if p.Snake != nil && !p.Snake.Alive {
			p.Snake.deathReported = true
		}
	}
}

// roundOver applies the mode's loss condition. Competitive rounds end once
// at most one snake lives (or zero, for a solo round); cooperative rounds
// only end when the whole team is gone. Caller holds the mutex.
func (s *Session) roundOver() bool {
	living := 0
	for _, p := range s.players {
		if p.Snake != nil && p.Snake.Alive {
			living++
		}
	}

	switch s.activeMode {
	case protocol.COOPERATIVE:
		return living == 0
	default:
		if s.roundPlayers >= 2 {
			return living <= 1
		}
		return living == 0
	}
}
