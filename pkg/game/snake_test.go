package game

import (
	"testing"

	"github.com/JMTC-dev/snake/pkg/protocol"
)

func TestDirectionAllowed(t *testing.T) {
	cases := []struct {
		name      string
		current   protocol.Direction
		locked    bool
		requested protocol.Direction
		want      bool
	}{
		{"orthogonal turn while moving right", protocol.Right, false, protocol.Up, true},
		{"orthogonal turn while moving up", protocol.Up, false, protocol.Left, true},
		{"reversal rejected", protocol.Right, false, protocol.Left, false},
		{"vertical reversal rejected", protocol.Up, false, protocol.Down, false},
		{"repeat of current rejected", protocol.Right, false, protocol.Right, false},
		{"locked rejects everything", protocol.Right, true, protocol.Up, false},
		{"stationary accepts any axis", protocol.Direction{}, false, protocol.Down, true},
		{"stationary accepts horizontal", protocol.Direction{}, false, protocol.Left, true},
		{"zero request rejected", protocol.Right, false, protocol.Direction{}, false},
		{"diagonal rejected", protocol.Right, false, protocol.Direction{Dx: 1, Dy: 1}, false},
		{"out of range rejected", protocol.Right, false, protocol.Direction{Dx: 0, Dy: 2}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DirectionAllowed(tc.current, tc.locked, tc.requested)
			if got != tc.want {
				t.Errorf("DirectionAllowed(%+v, %v, %+v) = %v, want %v",
					tc.current, tc.locked, tc.requested, got, tc.want)
			}
		})
	}
}

func TestTryTurnLockAllowsOneTurnPerTick(t *testing.T) {
	s := NewSnake(1, []protocol.Coord{{X: 5, Y: 5}, {X: 4, Y: 5}, {X: 3, Y: 5}})
	s.Dir = protocol.Right

	if !s.TryTurn(protocol.Up) {
		t.Fatal("first orthogonal turn should be accepted")
	}
	if s.TryTurn(protocol.Left) {
		t.Fatal("second turn in the same tick should be rejected")
	}
	if s.Dir != protocol.Up {
		t.Fatalf("direction = %+v, want up", s.Dir)
	}

	s.UnlockTurn()
	if !s.TryTurn(protocol.Left) {
		t.Fatal("turn should be accepted again after the lock clears")
	}
}

func TestTryTurnNeverReverses(t *testing.T) {
	s := NewSnake(1, []protocol.Coord{{X: 5, Y: 5}, {X: 4, Y: 5}})
	s.Dir = protocol.Right

	if s.TryTurn(protocol.Left) {
		t.Fatal("reversal should be rejected")
	}
	if s.Dir != protocol.Right {
		t.Fatalf("direction changed to %+v on a rejected turn", s.Dir)
	}
	// A rejected request must not consume the tick's turn.
	if !s.TryTurn(protocol.Down) {
		t.Fatal("valid turn after a rejected one should be accepted")
	}
}

func TestAdvance(t *testing.T) {
	s := NewSnake(1, []protocol.Coord{{X: 5, Y: 5}, {X: 4, Y: 5}, {X: 3, Y: 5}})

	s.Advance(protocol.Coord{X: 6, Y: 5}, false)
	if len(s.Body) != 3 {
		t.Fatalf("length after plain move = %d, want 3", len(s.Body))
	}
	if s.Head() != (protocol.Coord{X: 6, Y: 5}) {
		t.Fatalf("head = %+v, want (6,5)", s.Head())
	}
	if s.Body[2] != (protocol.Coord{X: 4, Y: 5}) {
		t.Fatalf("tail = %+v, want (4,5)", s.Body[2])
	}

	s.Advance(protocol.Coord{X: 7, Y: 5}, true)
	if len(s.Body) != 4 {
		t.Fatalf("length after growth move = %d, want 4", len(s.Body))
	}
	if s.Body[3] != (protocol.Coord{X: 4, Y: 5}) {
		t.Fatalf("tail after growth = %+v, want (4,5)", s.Body[3])
	}
}

func TestCandidateHead(t *testing.T) {
	s := NewSnake(1, []protocol.Coord{{X: 2, Y: 3}, {X: 1, Y: 3}})
	s.Dir = protocol.Down
	if got := s.CandidateHead(); got != (protocol.Coord{X: 2, Y: 4}) {
		t.Fatalf("candidate head = %+v, want (2,4)", got)
	}
}
