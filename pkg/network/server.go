package network

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/JMTC-dev/snake/pkg/game"
	"github.com/JMTC-dev/snake/pkg/protocol"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096

	// sendBuffer is the per-connection outbound queue depth. A client that
	// falls this many frames behind is dropped instead of being allowed to
	// stall the broadcast path.
	sendBuffer = 32
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(_ *http.Request) bool { return true },
}

// Hub owns the websocket side of the server: it fans session broadcasts
// out to every connection and funnels incoming commands into the session.
// The tick itself runs on the hub's ticker goroutine; broadcasts only ever
// enqueue frames, all socket writes happen on per-connection writers.
type Hub struct {
	session *game.Session

	mu    sync.Mutex
	conns map[*conn]struct{}

	stopCh   chan struct{}
	stopOnce sync.Once
}

// conn is one client connection. playerID and joined belong to the read
// loop goroutine alone; outbound frames go through send and are written by
// writePump, the only goroutine touching the socket's write side.
type conn struct {
	ws   *websocket.Conn
	send chan []byte

	playerID int32
	joined   bool
}

// writePump drains the outbound queue and keeps the ping schedule. It
// exits when the queue is closed, a write fails or the hub stops, closing
// the socket so the read loop unwinds too.
func (c *conn) writePump(stop <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.ws.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-stop:
			return
		}
	}
}

func NewHub(session *game.Session) *Hub {
	h := &Hub{
		session: session,
		conns:   make(map[*conn]struct{}),
		stopCh:  make(chan struct{}),
	}
	session.SetBroadcast(h.Broadcast)
	return h
}

// Run drives the simulation at the configured tick rate. Blocks until
// Stop; ticks outside a round are no-ops inside the session.
func (h *Hub) Run() {
	interval := h.session.Config().TickInterval()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	log.Printf("server: tick loop started, interval %v", interval)

	for {
		select {
		case <-ticker.C:
			h.session.Tick()
		case <-h.stopCh:
			return
		}
	}
}

func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.stopCh) })
}

// Broadcast marshals once and enqueues the frame on every connection
// without blocking. It is called from inside the tick with the session
// mutex held, so no socket I/O may happen here; a connection whose queue
// is full is dropped and its writer shuts the socket down.
func (h *Hub) Broadcast(msg protocol.Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("server: marshal broadcast: %v", err)
		return
	}

	h.mu.Lock()
	for c := range h.conns {
		select {
		case c.send <- data:
		default:
			log.Printf("server: dropping connection with a full send queue")
			delete(h.conns, c)
			close(c.send)
		}
	}
	h.mu.Unlock()
}

// drop deregisters the connection and closes its outbound queue exactly
// once; later calls for the same connection are no-ops.
func (h *Hub) drop(c *conn) {
	h.mu.Lock()
	if _, ok := h.conns[c]; ok {
		delete(h.conns, c)
		close(c.send)
	}
	h.mu.Unlock()
}

func (h *Hub) sendTo(c *conn, msg protocol.Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("server: marshal: %v", err)
		return
	}
	select {
	case c.send <- data:
	default:
		h.drop(c)
	}
}

// HandleWS upgrades the connection and runs its read loop. The first
// expected message is the join; everything malformed or out of phase is
// dropped silently, a closed socket is an ordinary leave.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("server: ws upgrade failed: %v", err)
		return
	}

	c := &conn{ws: ws, send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	h.conns[c] = struct{}{}
	h.mu.Unlock()
	go c.writePump(h.stopCh)

	defer func() {
		h.drop(c)
		_ = ws.Close()
		if c.joined {
			h.session.Leave(c.playerID)
		}
	}()

	ws.SetReadLimit(maxMessageSize)
	_ = ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, payload, err := ws.ReadMessage()
		if err != nil {
			return
		}

		var msg protocol.Message
		if err := json.Unmarshal(payload, &msg); err != nil {
			continue
		}

		switch msg.Type {
		case protocol.MsgJoin:
			if c.joined {
				continue
			}
			name := ""
			if msg.Join != nil {
				name = msg.Join.Name
			}
			id, color := h.session.Join(name)
			c.playerID = id
			c.joined = true

			cfg := h.session.Config()
			h.sendTo(c, protocol.Message{
				Type: protocol.MsgWelcome,
				Welcome: &protocol.WelcomeMsg{
					PlayerID: id,
					Color:    color,
					Width:    cfg.Width,
					Height:   cfg.Height,
					TickMs:   cfg.TickMs,
				},
			})

		case protocol.MsgToggleReady:
			if c.joined {
				h.session.ToggleReady(c.playerID)
			}

		case protocol.MsgChangeGamemode:
			if c.joined {
				h.session.ChangeGamemode(c.playerID)
			}

		case protocol.MsgDirection:
			if c.joined && msg.Direction != nil {
				h.session.DirectionIntent(c.playerID, *msg.Direction)
			}
		}
	}
}
