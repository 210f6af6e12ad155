package network

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/JMTC-dev/snake/pkg/game"
	"github.com/JMTC-dev/snake/pkg/protocol"
)

// Manager is the client's half of the wire: it owns the websocket, feeds
// incoming snapshots into the game.Client and sends commands out.
type Manager struct {
	client *game.Client

	ws      *websocket.Conn
	writeMu sync.Mutex

	closeOnce sync.Once
}

// Dial connects, announces the player and starts the read loop. The server
// answers with a welcome carrying the id and simulation parameters.
func Dial(url, name string, client *game.Client) (*Manager, error) {
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, err
	}

	m := &Manager{client: client, ws: ws}

	if err := m.send(protocol.Message{
		Type: protocol.MsgJoin,
		Join: &protocol.JoinMsg{Name: name},
	}); err != nil {
		_ = ws.Close()
		return nil, err
	}

	go m.readLoop()
	return m, nil
}

func (m *Manager) Close() {
	m.closeOnce.Do(func() {
		m.writeMu.Lock()
		_ = m.ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		m.writeMu.Unlock()
		_ = m.ws.Close()
	})
}

func (m *Manager) send(msg protocol.Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	m.writeMu.Lock()
	defer m.writeMu.Unlock()
	_ = m.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return m.ws.WriteMessage(websocket.TextMessage, data)
}

func (m *Manager) SendToggleReady() {
	_ = m.send(protocol.Message{Type: protocol.MsgToggleReady})
}

func (m *Manager) SendChangeGamemode() {
	_ = m.send(protocol.Message{Type: protocol.MsgChangeGamemode})
}

// SendDirection fires a steering intent. Not acknowledged; the caller has
// already run the shared acceptance rule through the prediction layer.
func (m *Manager) SendDirection(dir protocol.Direction) {
	d := dir
	_ = m.send(protocol.Message{Type: protocol.MsgDirection, Direction: &d})
}

func (m *Manager) readLoop() {
	for {
		_, payload, err := m.ws.ReadMessage()
		if err != nil {
			m.client.NotifyDisconnect(err)
			return
		}

		var msg protocol.Message
		if err := json.Unmarshal(payload, &msg); err != nil {
			continue
		}

		switch msg.Type {
		case protocol.MsgWelcome:
			if msg.Welcome != nil {
				m.client.HandleWelcome(*msg.Welcome)
			}
		case protocol.MsgLobby:
			if msg.Lobby != nil {
				m.client.HandleLobby(*msg.Lobby)
			}
		case protocol.MsgRoundStarting:
			if msg.Round != nil {
				m.client.HandleRoundStarting(*msg.Round)
			}
		case protocol.MsgTick:
			if msg.Tick != nil {
				m.client.HandleTick(*msg.Tick)
			}
		case protocol.MsgPlayerLeft:
			if msg.Left != nil {
				m.client.HandlePlayerLeft(*msg.Left)
			}
		case protocol.MsgRoundSummary:
			if msg.Summary != nil {
				m.client.HandleSummary(*msg.Summary)
			}
		}
	}
}
