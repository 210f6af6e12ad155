package game

import (
	"sync"

	"github.com/JMTC-dev/snake/pkg/protocol"
)

// PlayerView is the client-side picture of one player, built entirely from
// server snapshots. Remote players are rendered exactly as last received.
type PlayerView struct {
	ID    int32
	Name  string
	Color string
	Ready bool
	Body  []protocol.Coord
	Alive bool
	Score int32
}

// Client mirrors the authoritative world on the client. The player's own
// snake is additionally predicted forward between snapshots with the same
// movement rule the server uses; every authoritative snapshot fully
// overwrites the prediction (last writer wins, no merge).
type Client struct {
	mu sync.RWMutex

	playerID int32
	color    string
	cfg      Config

	phase       protocol.Phase
	gamemode    protocol.Gamemode
	pendingMode protocol.Gamemode

	players   map[int32]*PlayerView
	food      protocol.Coord
	teamScore int32

	// predicted is the local copy of the player's own snake, stepped
	// every prediction frame and discarded on each server snapshot.
	predicted *Snake

	stateListeners    []func()
	summaryHandler    func(protocol.RoundSummary)
	disconnectHandler func(error)
	listenerMu        sync.RWMutex
}

func NewClient() *Client {
	return &Client{
		cfg:     DefaultConfig(),
		players: make(map[int32]*PlayerView),
		food:    protocol.FoodUnspawned,
	}
}

func (c *Client) AddStateListener(listener func()) {
	c.listenerMu.Lock()
	c.stateListeners = append(c.stateListeners, listener)
	c.listenerMu.Unlock()
}

func (c *Client) SetSummaryHandler(handler func(protocol.RoundSummary)) {
	c.listenerMu.Lock()
	c.summaryHandler = handler
	c.listenerMu.Unlock()
}

func (c *Client) SetDisconnectHandler(handler func(error)) {
	c.listenerMu.Lock()
	c.disconnectHandler = handler
	c.listenerMu.Unlock()
}

func (c *Client) notifyState() {
	c.listenerMu.RLock()
	listeners := make([]func(), len(c.stateListeners))
	copy(listeners, c.stateListeners)
	c.listenerMu.RUnlock()

	for _, listener := range listeners {
		listener()
	}
}

func (c *Client) NotifyDisconnect(err error) {
	c.listenerMu.RLock()
	handler := c.disconnectHandler
	c.listenerMu.RUnlock()

	if handler != nil {
		handler(err)
	}
}

func (c *Client) PlayerID() int32 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.playerID
}

func (c *Client) Config() Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cfg
}

func (c *Client) Phase() protocol.Phase {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.phase
}

// HandleWelcome records the identity and the server's simulation
// parameters; prediction must step with these, not compile-time defaults.
func (c *Client) HandleWelcome(w protocol.WelcomeMsg) {
	c.mu.Lock()
	c.playerID = w.PlayerID
	c.color = w.Color
	c.cfg = Config{Width: w.Width, Height: w.Height, TickMs: w.TickMs}
	c.mu.Unlock()
	c.notifyState()
}

func (c *Client) HandleLobby(msg protocol.LobbyMsg) {
	c.mu.Lock()
	c.phase = protocol.LOBBY
	c.pendingMode = msg.PendingGamemode
	c.predicted = nil
	c.food = protocol.FoodUnspawned

	seen := make(map[int32]bool, len(msg.Players))
	for id, lp := range msg.Players {
		seen[id] = true
		view := c.viewFor(id)
		view.Name = lp.Name
		view.Color = lp.Color
		view.Ready = lp.IsReady
		view.Body = nil
		view.Alive = false
		view.Score = 0
	}
	for id := range c.players {
		if !seen[id] {
			delete(c.players, id)
		}
	}
	c.mu.Unlock()
	c.notifyState()
}

func (c *Client) HandleRoundStarting(msg protocol.RoundMsg) {
	c.mu.Lock()
	c.phase = protocol.IN_ROUND
	c.gamemode = msg.Gamemode
	c.food = msg.Food
	c.teamScore = 0

	for id, rp := range msg.Players {
		view := c.viewFor(id)
		view.Name = rp.Name
		view.Color = rp.Color
		view.Body = rp.Body
		view.Alive = rp.Alive
		view.Score = 0
		if id == c.playerID {
			c.predicted = NewSnake(id, append([]protocol.Coord(nil), rp.Body...))
			c.predicted.Dir = rp.Direction
		}
	}
	c.mu.Unlock()
	c.notifyState()
}

// HandleTick applies an authoritative snapshot. The predicted own snake is
// overwritten wholesale: any predicted-but-unconfirmed segment is simply
// discarded. A snapshot naming an untracked player creates the entry
// rather than faulting, tolerating reordering around joins and leaves.
func (c *Client) HandleTick(msg protocol.TickMsg) {
	c.mu.Lock()
	c.phase = protocol.IN_ROUND
	c.gamemode = msg.Gamemode
	c.food = msg.Food
	if msg.TeamScore != nil {
		c.teamScore = *msg.TeamScore
	}

	for id, tp := range msg.Players {
		view := c.viewFor(id)
		view.Body = tp.Body
		view.Alive = tp.Alive
		view.Score = tp.Score
		if id == c.playerID {
			if c.predicted == nil {
				c.predicted = NewSnake(id, append([]protocol.Coord(nil), tp.Body...))
			} else {
				c.predicted.Body = append(c.predicted.Body[:0], tp.Body...)
			}
			c.predicted.Alive = tp.Alive
			c.predicted.Score = tp.Score
		}
	}
	c.mu.Unlock()
	c.notifyState()
}

func (c *Client) HandlePlayerLeft(msg protocol.PlayerLeft) {
	c.mu.Lock()
	delete(c.players, msg.ID)
	c.mu.Unlock()
	c.notifyState()
}

func (c *Client) HandleSummary(msg protocol.RoundSummary) {
	c.mu.Lock()
	c.phase = protocol.LOBBY
	c.predicted = nil
	c.mu.Unlock()

	c.listenerMu.RLock()
	handler := c.summaryHandler
	c.listenerMu.RUnlock()
	if handler != nil {
		handler(msg)
	}
	c.notifyState()
}

// viewFor is create-if-missing. Caller holds the mutex.
func (c *Client) viewFor(id int32) *PlayerView {
	view, ok := c.players[id]
	if !ok {
		view = &PlayerView{ID: id}
		c.players[id] = view
	}
	return view
}

// RequestDirection runs the shared acceptance rule against the predicted
// snake so the local decision matches the server's. It reports whether the
// turn was accepted; the caller only sends the intent when it was.
func (c *Client) RequestDirection(dir protocol.Direction) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != protocol.IN_ROUND || c.predicted == nil || !c.predicted.Alive {
		return false
	}
	return c.predicted.TryTurn(dir)
}

// PredictStep advances the local copy of the own snake by one frame using
// the server's movement rule, without growth or collision authority. A
// step that would leave the grid does not move; the server will decide the
// death and the next snapshot overwrites whatever was predicted.
func (c *Client) PredictStep() {
	c.mu.Lock()
	if c.phase != protocol.IN_ROUND || c.predicted == nil || !c.predicted.Alive {
		c.mu.Unlock()
		return
	}
	c.predicted.UnlockTurn()
	if c.predicted.Dir.IsZero() {
		c.mu.Unlock()
		return
	}
	candidate := c.predicted.CandidateHead()
	if inBounds(c.cfg, candidate) {
		c.predicted.Advance(candidate, false)
	}
	c.mu.Unlock()
	c.notifyState()
}

// WorldView is a render-ready copy of the client state. The own player's
// body is the predicted one; remote bodies are the last snapshot's.
type WorldView struct {
	Phase       protocol.Phase
	Gamemode    protocol.Gamemode
	PendingMode protocol.Gamemode
	Players     []PlayerView
	Food        protocol.Coord
	TeamScore   int32
	OwnID       int32
}

func (c *Client) Snapshot() WorldView {
	c.mu.RLock()
	defer c.mu.RUnlock()

	view := WorldView{
		Phase:       c.phase,
		Gamemode:    c.gamemode,
		PendingMode: c.pendingMode,
		Food:        c.food,
		TeamScore:   c.teamScore,
		OwnID:       c.playerID,
	}
	for _, p := range c.players {
		pv := *p
		pv.Body = append([]protocol.Coord(nil), p.Body...)
		if p.ID == c.playerID && c.predicted != nil {
			pv.Body = append(pv.Body[:0], c.predicted.Body...)
			pv.Alive = c.predicted.Alive
		}
		view.Players = append(view.Players, pv)
	}
	return view
}
