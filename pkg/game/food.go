package game

import (
	"math/rand"

	"github.com/JMTC-dev/snake/pkg/protocol"
)

// spawnFood picks a uniformly random free cell. After FoodSpawnAttempts
// rejected samples it degrades to a deterministic row-major scan so a
// nearly full grid cannot spin the tick; a completely full grid yields the
// unspawned sentinel and the spawn is retried on the next consumption.
func spawnFood(cfg Config, occupied map[protocol.Coord]bool, rng *rand.Rand) protocol.Coord {
	for attempt := 0; attempt < FoodSpawnAttempts; attempt++ {
		c := protocol.Coord{
			X: rng.Int31n(cfg.Width),
			Y: rng.Int31n(cfg.Height),
		}
		if !occupied[c] {
			return c
		}
	}

	for y := int32(0); y < cfg.Height; y++ {
		for x := int32(0); x < cfg.Width; x++ {
			c := protocol.Coord{X: x, Y: y}
			if !occupied[c] {
				return c
			}
		}
	}

	return protocol.FoodUnspawned
}

// occupiedCells collects every cell covered by a living snake's body.
func occupiedCells(players map[int32]*Player) map[protocol.Coord]bool {
	occupied := make(map[protocol.Coord]bool)
	for _, p := range players {
		if p.Snake == nil || !p.Snake.Alive {
			continue
		}
		for _, cell := range p.Snake.Body {
			occupied[cell] = true
		}
	}
	return occupied
}
