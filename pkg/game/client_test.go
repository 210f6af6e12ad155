package game

import (
	"testing"

	"github.com/JMTC-dev/snake/pkg/protocol"
)

func newRoundClient() *Client {
	c := NewClient()
	c.HandleWelcome(protocol.WelcomeMsg{
		PlayerID: 1, Color: "#2ecc71", Width: 10, Height: 10, TickMs: 100,
	})
	c.HandleRoundStarting(protocol.RoundMsg{
		Players: map[int32]protocol.RoundPlayer{
			1: {Name: "me", Color: "#2ecc71", Body: []protocol.Coord{{X: 4, Y: 4}, {X: 3, Y: 4}, {X: 2, Y: 4}}, Alive: true},
			2: {Name: "other", Color: "#3498db", Body: []protocol.Coord{{X: 7, Y: 7}, {X: 8, Y: 7}}, Alive: true},
		},
		Food:     protocol.Coord{X: 9, Y: 9},
		Gamemode: protocol.COMPETITIVE,
	})
	return c
}

func ownBody(c *Client) []protocol.Coord {
	view := c.Snapshot()
	for _, p := range view.Players {
		if p.ID == view.OwnID {
			return p.Body
		}
	}
	return nil
}

func TestWelcomeConfiguresPrediction(t *testing.T) {
	c := NewClient()
	c.HandleWelcome(protocol.WelcomeMsg{PlayerID: 3, Width: 24, Height: 18, TickMs: 200})

	if c.PlayerID() != 3 {
		t.Fatalf("player id = %d, want 3", c.PlayerID())
	}
	cfg := c.Config()
	if cfg.Width != 24 || cfg.Height != 18 || cfg.TickMs != 200 {
		t.Fatalf("config = %+v, want the server's values", cfg)
	}
}

func TestPredictStepMovesOwnSnakeOnly(t *testing.T) {
	c := newRoundClient()
	if !c.RequestDirection(protocol.Right) {
		t.Fatal("first turn should be accepted")
	}

	c.PredictStep()

	body := ownBody(c)
	if body[0] != (protocol.Coord{X: 5, Y: 4}) {
		t.Fatalf("predicted head = %+v, want (5,4)", body[0])
	}
	if len(body) != 3 {
		t.Fatalf("prediction must not grow, length = %d", len(body))
	}

	view := c.Snapshot()
	for _, p := range view.Players {
		if p.ID == 2 && p.Body[0] != (protocol.Coord{X: 7, Y: 7}) {
			t.Fatal("remote snakes are never predicted")
		}
	}
}

func TestPredictStepStopsAtWall(t *testing.T) {
	c := NewClient()
	c.HandleWelcome(protocol.WelcomeMsg{PlayerID: 1, Width: 6, Height: 6, TickMs: 100})
	c.HandleRoundStarting(protocol.RoundMsg{
		Players: map[int32]protocol.RoundPlayer{
			1: {Body: []protocol.Coord{{X: 5, Y: 3}, {X: 4, Y: 3}}, Alive: true},
		},
		Gamemode: protocol.COMPETITIVE,
		Food:     protocol.FoodUnspawned,
	})
	c.RequestDirection(protocol.Right)

	c.PredictStep()
	if head := ownBody(c)[0]; head != (protocol.Coord{X: 5, Y: 3}) {
		t.Fatalf("prediction must not step off the grid, head = %+v", head)
	}
}

func TestAuthoritativeSnapshotOverwritesPrediction(t *testing.T) {
	c := newRoundClient()
	c.RequestDirection(protocol.Right)
	c.PredictStep()
	c.PredictStep()

	// The server disagrees: it only confirms one step.
	c.HandleTick(protocol.TickMsg{
		Players: map[int32]protocol.TickPlayer{
			1: {Body: []protocol.Coord{{X: 5, Y: 4}, {X: 4, Y: 4}, {X: 3, Y: 4}}, Alive: true, Score: 0},
			2: {Body: []protocol.Coord{{X: 7, Y: 6}, {X: 7, Y: 7}}, Alive: true},
		},
		Food:     protocol.Coord{X: 9, Y: 9},
		Gamemode: protocol.COMPETITIVE,
	})

	body := ownBody(c)
	if body[0] != (protocol.Coord{X: 5, Y: 4}) {
		t.Fatalf("authoritative body must win, head = %+v", body[0])
	}
	if len(body) != 3 {
		t.Fatalf("predicted-but-unconfirmed segments must be discarded, length = %d", len(body))
	}
}

func TestPredictionRuleMatchesServerRule(t *testing.T) {
	c := newRoundClient()
	c.RequestDirection(protocol.Right)
	c.PredictStep()

	if c.RequestDirection(protocol.Left) {
		t.Fatal("the client must reject reversals exactly like the server")
	}
	if !c.RequestDirection(protocol.Up) {
		t.Fatal("orthogonal turn should be accepted")
	}
	if c.RequestDirection(protocol.Down) {
		t.Fatal("a second turn in the same prediction frame must be rejected")
	}
}

func TestTickCreatesMissingPlayers(t *testing.T) {
	c := newRoundClient()

	c.HandleTick(protocol.TickMsg{
		Players: map[int32]protocol.TickPlayer{
			9: {Body: []protocol.Coord{{X: 1, Y: 1}}, Alive: true, Score: 2},
		},
		Food:     protocol.Coord{X: 9, Y: 9},
		Gamemode: protocol.COMPETITIVE,
	})

	view := c.Snapshot()
	found := false
	for _, p := range view.Players {
		if p.ID == 9 {
			found = true
			if p.Score != 2 {
				t.Fatalf("late player score = %d, want 2", p.Score)
			}
		}
	}
	if !found {
		t.Fatal("a snapshot naming an untracked player should create the entry")
	}
}

func TestPlayerLeftRemovesEntry(t *testing.T) {
	c := newRoundClient()
	c.HandlePlayerLeft(protocol.PlayerLeft{ID: 2})

	for _, p := range c.Snapshot().Players {
		if p.ID == 2 {
			t.Fatal("player 2 should be gone")
		}
	}
}

func TestSummaryReturnsToLobbyAndDropsPrediction(t *testing.T) {
	c := newRoundClient()
	c.RequestDirection(protocol.Right)
	c.PredictStep()

	var got *protocol.RoundSummary
	c.SetSummaryHandler(func(s protocol.RoundSummary) { got = &s })

	c.HandleSummary(protocol.RoundSummary{
		Players:  map[int32]protocol.SummaryPlayer{1: {Name: "me", Score: 4}},
		Gamemode: protocol.COMPETITIVE,
	})

	if got == nil || got.Players[1].Score != 4 {
		t.Fatal("summary handler should receive the final scores")
	}
	if c.Phase() != protocol.LOBBY {
		t.Fatal("summary returns the client to the lobby view")
	}

	c.PredictStep() // must be a no-op without a predicted snake
}

func TestLobbySnapshotPrunesDepartedPlayers(t *testing.T) {
	c := newRoundClient()

	c.HandleLobby(protocol.LobbyMsg{
		Players: map[int32]protocol.LobbyPlayer{
			1: {Name: "me", Color: "#2ecc71", IsReady: false},
		},
		PendingGamemode: protocol.COMPETITIVE,
	})

	view := c.Snapshot()
	if len(view.Players) != 1 {
		t.Fatalf("players = %d, want only the ones the lobby lists", len(view.Players))
	}
	if view.Phase != protocol.LOBBY {
		t.Fatal("a lobby snapshot moves the client to the lobby phase")
	}
}
