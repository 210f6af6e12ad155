package game

import "time"

// Config holds the process-wide simulation parameters. The server is the
// source of truth; clients receive these values in the welcome message.
type Config struct {
	Width  int32
	Height int32
	TickMs int32
}

const (
	DefaultWidth  = 40
	DefaultHeight = 30
	DefaultTickMs = 150

	// InitialLength is the body length every snake spawns with.
	InitialLength = 3

	// FoodSpawnAttempts bounds the random rejection sampling for a free
	// cell before falling back to a deterministic scan.
	FoodSpawnAttempts = 100
)

func DefaultConfig() Config {
	return Config{
		Width:  DefaultWidth,
		Height: DefaultHeight,
		TickMs: DefaultTickMs,
	}
}

func (c Config) TickInterval() time.Duration {
	return time.Duration(c.TickMs) * time.Millisecond
}

// PlayerColors is the palette cycled through as players join.
var PlayerColors = []string{
	"#2ecc71", "#3498db", "#f39c12", "#e91e63",
	"#1abc9c", "#e67e22", "#9b59b6", "#e74c3c",
}
