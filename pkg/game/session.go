package game

import (
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/JMTC-dev/snake/pkg/protocol"
)

// Player is one connected session entry. The lobby fields are always
// meaningful; Snake is only non-nil while a round is running.
type Player struct {
	ID    int32
	Name  string
	Color string
	Ready bool
	Snake *Snake
}

// Session is the single authoritative world aggregate: the lobby/round
// state machine, the player map, the food and the mode selection. Every
// external event and the tick itself funnel through the one mutex, so the
// tick never observes a half-applied join or leave.
type Session struct {
	mu  sync.Mutex
	cfg Config
	rng *rand.Rand

	phase       protocol.Phase
	pendingMode protocol.Gamemode
	activeMode  protocol.Gamemode

	players      map[int32]*Player
	nextPlayerID int32

	food      protocol.Coord
	teamScore int32

	// roundPlayers is the player count when the active round started; the
	// competitive termination rule depends on it.
	roundPlayers int

	broadcast func(protocol.Message)
}

func NewSession(cfg Config) *Session {
	return &Session{
		cfg:          cfg,
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
		phase:        protocol.LOBBY,
		pendingMode:  protocol.COMPETITIVE,
		players:      make(map[int32]*Player),
		nextPlayerID: 1,
		food:         protocol.FoodUnspawned,
		broadcast:    func(protocol.Message) {},
	}
}

// SetBroadcast installs the snapshot sink, normally the network hub's
// fan-out. Must be set before connections are accepted.
func (s *Session) SetBroadcast(fn func(protocol.Message)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.broadcast = fn
}

func (s *Session) Config() Config {
	return s.cfg
}

// Join adds a player in either phase. A join never touches a running
// round's entities; the newcomer waits for the round to end. Lobby
// snapshots are a lobby-phase message, so a mid-round join broadcasts
// nothing and the round-end snapshot introduces the newcomer. Returns the
// assigned id and color for the welcome message.
func (s *Session) Join(name string) (int32, string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextPlayerID
	s.nextPlayerID++

	if name == "" {
		name = fmt.Sprintf("Player %d", id)
	}
	color := PlayerColors[int(id-1)%len(PlayerColors)]

	s.players[id] = &Player{
		ID:    id,
		Name:  name,
		Color: color,
	}
	log.Printf("session: player %d (%s) joined, %d connected", id, name, len(s.players))

	if s.phase == protocol.LOBBY {
		s.broadcast(s.lobbyMessage())
	}
	return id, color
}

// Leave removes a player. Mid-round the snake simply stops being
// simulated; the next tick's termination check sees the reduced living
// count. In the lobby the departure may unblock a pending start.
func (s *Session) Leave(id int32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.players[id]; !ok {
		return
	}
	delete(s.players, id)
	log.Printf("session: player %d left, %d connected", id, len(s.players))

	if s.phase == protocol.IN_ROUND {
		s.broadcast(protocol.Message{Type: protocol.MsgPlayerLeft, Left: &protocol.PlayerLeft{ID: id}})
		return
	}

	s.broadcast(s.lobbyMessage())
	s.maybeStartRound()
}

// ToggleReady flips a player's readiness. Lobby only; once every current
// player is ready the round starts.
func (s *Session) ToggleReady(id int32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != protocol.LOBBY {
		return
	}
	p, ok := s.players[id]
	if !ok {
		return
	}
	p.Ready = !p.Ready

	s.broadcast(s.lobbyMessage())
	s.maybeStartRound()
}

// ChangeGamemode toggles the mode of the next round. Lobby only; a running
// round's mode is locked at start and unaffected.
func (s *Session) ChangeGamemode(id int32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != protocol.LOBBY {
		return
	}
	if _, ok := s.players[id]; !ok {
		return
	}

	if s.pendingMode == protocol.COMPETITIVE {
		s.pendingMode = protocol.COOPERATIVE
	} else {
		s.pendingMode = protocol.COMPETITIVE
	}

	s.broadcast(s.lobbyMessage())
}

// DirectionIntent steers a player's snake. Fire-and-forget: anything
// malformed, out of phase or for a dead snake is dropped without a reply.
func (s *Session) DirectionIntent(id int32, dir protocol.Direction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != protocol.IN_ROUND {
		return
	}
	p, ok := s.players[id]
	if !ok || p.Snake == nil || !p.Snake.Alive {
		return
	}
	p.Snake.TryTurn(dir)
}

// maybeStartRound starts a round when at least one player exists and all
// of them are ready. Caller holds the mutex.
func (s *Session) maybeStartRound() {
	if s.phase != protocol.LOBBY || len(s.players) == 0 {
		return
	}
	for _, p := range s.players {
		if !p.Ready {
			return
		}
	}
	s.startRound()
}

// startRound performs round setup: spawn placement avoiding occupied
// cells, fixed-length bodies, zeroed direction and score, food placement,
// and the mode lock. Caller holds the mutex.
func (s *Session) startRound() {
	s.phase = protocol.IN_ROUND
	s.activeMode = s.pendingMode
	s.teamScore = 0

	occupied := make(map[protocol.Coord]bool)
	for _, p := range s.players {
		body, ok := s.spawnBody(occupied)
		if !ok {
			// No room left on the grid; the player sits this round out.
			log.Printf("session: no free spawn area for player %d", p.ID)
			p.Snake = nil
			continue
		}
		for _, cell := range body {
			occupied[cell] = true
		}
		p.Snake = NewSnake(p.ID, body)
	}

	s.roundPlayers = 0
	for _, p := range s.players {
		if p.Snake != nil {
			s.roundPlayers++
		}
	}

	s.food = spawnFood(s.cfg, occupied, s.rng)

	log.Printf("session: round starting, %d players, mode %s", s.roundPlayers, s.activeMode)
	s.broadcast(s.roundStartingMessage())
}

// spawnBody finds a free horizontal strip of InitialLength cells, head
// first. Random placement with bounded retries, then a deterministic scan.
// Caller holds the mutex.
func (s *Session) spawnBody(occupied map[protocol.Coord]bool) ([]protocol.Coord, bool) {
	if s.cfg.Width < InitialLength {
		return nil, false
	}

	tryAt := func(x, y int32) ([]protocol.Coord, bool) {
		body := make([]protocol.Coord, 0, InitialLength)
		for i := int32(0); i < InitialLength; i++ {
			c := protocol.Coord{X: x + i, Y: y}
			if occupied[c] {
				return nil, false
			}
			body = append(body, c)
		}
		return body, true
	}

	for attempt := 0; attempt < FoodSpawnAttempts; attempt++ {
		x := s.rng.Int31n(s.cfg.Width - InitialLength + 1)
		y := s.rng.Int31n(s.cfg.Height)
		if body, ok := tryAt(x, y); ok {
			return body, true
		}
	}

	for y := int32(0); y < s.cfg.Height; y++ {
		for x := int32(0); x <= s.cfg.Width-InitialLength; x++ {
			if body, ok := tryAt(x, y); ok {
				return body, true
			}
		}
	}

	return nil, false
}

// endRound transitions back to the lobby: readiness cleared, snakes
// dropped, pending mode reset, summary then a fresh lobby snapshot.
// Caller holds the mutex.
func (s *Session) endRound() {
	summary := s.summaryMessage()

	s.phase = protocol.LOBBY
	s.pendingMode = protocol.COMPETITIVE
	s.food = protocol.FoodUnspawned
	for _, p := range s.players {
		p.Ready = false
		p.Snake = nil
	}

	log.Printf("session: round over, back to lobby")
	s.broadcast(summary)
	s.broadcast(s.lobbyMessage())
}

func (s *Session) lobbyMessage() protocol.Message {
	players := make(map[int32]protocol.LobbyPlayer, len(s.players))
	for id, p := range s.players {
		players[id] = protocol.LobbyPlayer{
			Name:    p.Name,
			Color:   p.Color,
			IsReady: p.Ready,
		}
	}
	return protocol.Message{
		Type: protocol.MsgLobby,
		Lobby: &protocol.LobbyMsg{
			Players:         players,
			PendingGamemode: s.pendingMode,
		},
	}
}

func (s *Session) roundStartingMessage() protocol.Message {
	players := make(map[int32]protocol.RoundPlayer, len(s.players))
	for id, p := range s.players {
		if p.Snake == nil {
			continue
		}
		players[id] = protocol.RoundPlayer{
			Name:      p.Name,
			Color:     p.Color,
			Body:      p.Snake.Cells(),
			Direction: p.Snake.Dir,
			Alive:     p.Snake.Alive,
		}
	}
	return protocol.Message{
		Type: protocol.MsgRoundStarting,
		Round: &protocol.RoundMsg{
			Players:  players,
			Food:     s.food,
			Gamemode: s.activeMode,
		},
	}
}

func (s *Session) tickMessage() protocol.Message {
	players := make(map[int32]protocol.TickPlayer, len(s.players))
	for id, p := range s.players {
		if p.Snake == nil {
			continue
		}
		if !p.Snake.Alive && p.Snake.deathReported {
			continue
		}
		players[id] = protocol.TickPlayer{
			Body:  p.Snake.Cells(),
			Alive: p.Snake.Alive,
			Score: p.Snake.Score,
		}
	}
	msg := protocol.Message{
		Type: protocol.MsgTick,
		Tick: &protocol.TickMsg{
			Players:  players,
			Food:     s.food,
			Gamemode: s.activeMode,
		},
	}
	if s.activeMode == protocol.COOPERATIVE {
		score := s.teamScore
		msg.Tick.TeamScore = &score
	}
	return msg
}

func (s *Session) summaryMessage() protocol.Message {
	players := make(map[int32]protocol.SummaryPlayer, len(s.players))
	for id, p := range s.players {
		if p.Snake == nil {
			continue
		}
		players[id] = protocol.SummaryPlayer{
			Name:  p.Name,
			Score: p.Snake.Score,
		}
	}
	msg := protocol.Message{
		Type: protocol.MsgRoundSummary,
		Summary: &protocol.RoundSummary{
			Players:  players,
			Gamemode: s.activeMode,
		},
	}
	if s.activeMode == protocol.COOPERATIVE {
		score := s.teamScore
		msg.Summary.TeamScore = &score
	}
	return msg
}
