package protocol

import "errors"

const (
	// Client -> Server
	TypeConnect      = "connect"
	TypeGetState     = "get_state"
	TypePlayerAction = "player_action"

	// Server -> Client
	TypeConnected = "connected"
	TypeState     = "state"
	TypeError     = "error"
)

// Error codes carried by Error messages and failed State responses.
const (
	CodeProtocolViolation = "protocol_violation"
	CodeInvalidMessage    = "invalid_message"
	CodeTableNotFound     = "table_not_found"
	CodeTableFull         = "table_full"
	CodeNameTaken         = "name_taken"
	CodePlayerNotFound    = "player_not_found"
	CodeWaiting           = "waiting_for_players"
	CodeOutOfTurn         = "out_of_turn"
	CodePlayerFolded      = "player_folded"
	CodeIllegalCheck      = "illegal_check"
	CodeInvalidAmount     = "invalid_amount"
	CodeInvalidMove       = "invalid_move"
	CodeHandComplete      = "hand_complete"
	CodeSessionOver       = "session_over"
	CodeInternal          = "internal_error"
)

// StatusOK is the handshake status of an accepted connection.
const StatusOK = "ok"

var (
	ErrUnknownMessageType = errors.New("unknown message type")
	ErrEmptyMessage       = errors.New("empty message")
)

// Envelope is decoded first to find a frame's message type.
type Envelope struct {
	Type string `msgpack:"type"`
}

// Client -> Server Messages

// Connect must be the first message on a connection.
type Connect struct {
	Type  string `msgpack:"type"`
	Table string `msgpack:"table"`
	Name  string `msgpack:"name"`
}

// GetState asks for the sender's current view.
type GetState struct {
	Type string `msgpack:"type"`
}

// PlayerAction submits a move. Amount is the bet size for "bet" and the
// total to raise to for "raise".
type PlayerAction struct {
	Type   string `msgpack:"type"`
	Move   string `msgpack:"move"`
	Amount int    `msgpack:"amount,omitempty"`
}

// Server -> Client Messages

// Connected acknowledges Connect and carries the stable player id.
type Connected struct {
	Type     string `msgpack:"type"`
	Status   string `msgpack:"status"`
	PlayerID string `msgpack:"player_id"`
	Table    string `msgpack:"table"`
	Seat     int    `msgpack:"seat"`
}

// State carries the player's view. A rejected request still returns the
// unchanged view along with the error.
type State struct {
	Type  string `msgpack:"type"`
	View  View   `msgpack:"view"`
	Code  string `msgpack:"code,omitempty"`
	Error string `msgpack:"error,omitempty"`
}

// Error reports a request that could not be tied to a view.
type Error struct {
	Type    string `msgpack:"type"`
	Code    string `msgpack:"code"`
	Message string `msgpack:"message"`
}

// View is the wire form of a player's view of the table.
type View struct {
	Player       string     `msgpack:"player"`
	Balance      int        `msgpack:"balance"`
	Bet          int        `msgpack:"bet"`
	HoleCards    []string   `msgpack:"hole_cards"`
	Folded       bool       `msgpack:"folded"`
	Bankrupt     bool       `msgpack:"bankrupt"`
	Opponents    []Opponent `msgpack:"opponents"`
	Community    []string   `msgpack:"community"`
	Pot          int        `msgpack:"pot"`
	CurrentBet   int        `msgpack:"current_bet"`
	MinimumRaise int        `msgpack:"minimum_raise"`
	Stage        string     `msgpack:"stage"`
	ValidActions []string   `msgpack:"valid_actions"`
	Log          []string   `msgpack:"log"`
	Current      string     `msgpack:"current_player"`
	IsTurn       bool       `msgpack:"is_turn"`
	HandNumber   int        `msgpack:"hand_number"`
	Dealer       string     `msgpack:"dealer"`
	SessionOver  bool       `msgpack:"session_over"`
	Winner       string     `msgpack:"winner,omitempty"`
	LastHand     *LastHand  `msgpack:"last_hand,omitempty"`
}

// Opponent is another seated player.
type Opponent struct {
	Name      string   `msgpack:"name"`
	Balance   int      `msgpack:"balance"`
	Bet       int      `msgpack:"bet"`
	Folded    bool     `msgpack:"folded"`
	Bankrupt  bool     `msgpack:"bankrupt"`
	Connected bool     `msgpack:"connected"`
	Cards     []string `msgpack:"cards"`
}

// LastHand summarises the most recently settled hand, including any cards
// shown down.
type LastHand struct {
	HandNumber int            `msgpack:"hand_number"`
	Pot        int            `msgpack:"pot"`
	Board      []string       `msgpack:"board"`
	Winners    map[string]int `msgpack:"winners"`
	Showdown   []Shown        `msgpack:"showdown,omitempty"`
}

// Shown is one hand revealed at showdown.
type Shown struct {
	Player      string   `msgpack:"player"`
	Cards       []string `msgpack:"cards"`
	Description string   `msgpack:"description"`
	Rank        int      `msgpack:"rank"`
}
