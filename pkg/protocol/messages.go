package protocol

// All traffic is JSON over a persistent websocket, one Message per frame.
// The envelope carries a type tag plus at most one payload pointer.
//
//   Client → Server:
//     "join"           {"name":"Alice"}         sent once after connect
//     "toggle_ready"   no payload, lobby only
//     "change_gamemode" no payload, lobby only
//     "direction"      {"dx":1,"dy":0}          fire-and-forget steering
//   Server → Client:
//     "welcome"        player id, color and the config prediction needs
//     "lobby"          full lobby snapshot, on every lobby-affecting change
//     "round_starting" initial bodies, food and the locked gamemode
//     "tick"           per-tick world snapshot
//     "player_left"    a player disconnected mid-round
//     "round_summary"  final scores, then a fresh "lobby" follows

const (
	MsgJoin           = "join"
	MsgToggleReady    = "toggle_ready"
	MsgChangeGamemode = "change_gamemode"
	MsgDirection      = "direction"

	MsgWelcome       = "welcome"
	MsgLobby         = "lobby"
	MsgRoundStarting = "round_starting"
	MsgTick          = "tick"
	MsgPlayerLeft    = "player_left"
	MsgRoundSummary  = "round_summary"
)

type Message struct {
	Type string `json:"type"`

	Join      *JoinMsg      `json:"join,omitempty"`
	Direction *Direction    `json:"direction,omitempty"`
	Welcome   *WelcomeMsg   `json:"welcome,omitempty"`
	Lobby     *LobbyMsg     `json:"lobby,omitempty"`
	Round     *RoundMsg     `json:"round,omitempty"`
	Tick      *TickMsg      `json:"tick,omitempty"`
	Left      *PlayerLeft   `json:"left,omitempty"`
	Summary   *RoundSummary `json:"summary,omitempty"`
}

type JoinMsg struct {
	Name string `json:"name"`
}

// WelcomeMsg is sent once per connection. Grid dimensions and the tick
// interval come from the server so client prediction steps with the same
// parameters the simulation uses.
type WelcomeMsg struct {
	PlayerID int32  `json:"player_id"`
	Color    string `json:"color"`
	Width    int32  `json:"width"`
	Height   int32  `json:"height"`
	TickMs   int32  `json:"tick_ms"`
}

type LobbyPlayer struct {
	Name    string `json:"name"`
	Color   string `json:"color"`
	IsReady bool   `json:"is_ready"`
}

type LobbyMsg struct {
	Players         map[int32]LobbyPlayer `json:"players"`
	PendingGamemode Gamemode              `json:"pending_gamemode"`
}

type RoundPlayer struct {
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	Body      []Coord   `json:"body"`
	Direction Direction `json:"direction"`
	Alive     bool      `json:"alive"`
}

type RoundMsg struct {
	Players  map[int32]RoundPlayer `json:"players"`
	Food     Coord                 `json:"food"`
	Gamemode Gamemode              `json:"gamemode"`
}

type TickPlayer struct {
	Body  []Coord `json:"body"`
	Alive bool    `json:"alive"`
	Score int32   `json:"score"`
}

type TickMsg struct {
	Players   map[int32]TickPlayer `json:"players"`
	Food      Coord                `json:"food"`
	TeamScore *int32               `json:"team_score,omitempty"`
	Gamemode  Gamemode             `json:"gamemode"`
}

type PlayerLeft struct {
	ID int32 `json:"id"`
}

type SummaryPlayer struct {
	Name  string `json:"name"`
	Score int32  `json:"score"`
}

type RoundSummary struct {
	Players   map[int32]SummaryPlayer `json:"players"`
	TeamScore *int32                  `json:"team_score,omitempty"`
	Gamemode  Gamemode                `json:"gamemode"`
}
