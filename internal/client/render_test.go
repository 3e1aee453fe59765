package client

import (
	"bytes"
	"testing"

	"github.com/lox/holdemtable/internal/protocol"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

func plainRenderer() *Renderer {
	return NewRenderer(&bytes.Buffer{}, termenv.Ascii)
}

func TestRenderWaiting(t *testing.T) {
	out := plainRenderer().View(protocol.View{
		Stage: protocol.StageWaiting,
		Log:   []string{"Waiting for more players to join..."},
	})
	assert.Equal(t, " Waiting \n> Waiting for more players to join...", out)
}

func TestRenderView(t *testing.T) {
	v := protocol.View{
		Player:       "Alice",
		Balance:      980,
		Bet:          20,
		HoleCards:    []string{"Ah", "Kd"},
		Community:    []string{"2c", "7s", "Th"},
		Pot:          60,
		CurrentBet:   20,
		MinimumRaise: 20,
		Stage:        "flop",
		HandNumber:   3,
		Dealer:       "Bob",
		IsTurn:       true,
		ValidActions: []string{"fold", "check", "raise"},
		Opponents: []protocol.Opponent{
			{Name: "Bob", Balance: 980, Bet: 20, Cards: []string{"??", "??"}, Connected: true},
			{Name: "Carol", Balance: 1000, Folded: true, Cards: []string{"??", "??"}},
		},
		Log: []string{"Bob called 10", "Flop: 2c 7s Th"},
	}

	out := plainRenderer().View(v)
	assert.Contains(t, out, " Hand #3 · flop ")
	assert.Contains(t, out, "Board: 2c 7s Th   Pot: 60   Bet: 20   Dealer: Bob")
	assert.Contains(t, out, "Alice: Ah Kd  balance 980  bet 20")
	assert.Contains(t, out, "  Bob: ?? ??  balance 980  bet 20\n")
	assert.Contains(t, out, "  Carol: ?? ??  balance 1000  bet 0 (folded, away)")
	assert.Contains(t, out, "> Flop: 2c 7s Th")
	assert.Contains(t, out, "Your move: fold, check, raise (min raise 20)")
}

func TestRenderShowdownAndErrors(t *testing.T) {
	r := plainRenderer()
	out := r.Render(&protocol.State{
		View: protocol.View{
			Player:      "Alice",
			Stage:       "pre-flop",
			Current:     "Bob",
			SessionOver: false,
			LastHand: &protocol.LastHand{
				HandNumber: 2,
				Pot:        80,
				Winners:    map[string]int{"Bob": 40, "Alice": 40},
				Showdown: []protocol.Shown{
					{Player: "Alice", Cards: []string{"Ah", "Kd"}, Description: "Straight"},
				},
			},
		},
		Code:  protocol.CodeOutOfTurn,
		Error: "not your turn",
	})
	assert.Contains(t, out, "Waiting for Bob")
	assert.Contains(t, out, "Hand #2 showdown:")
	assert.Contains(t, out, "  Alice: Ah Kd Straight")
	assert.Contains(t, out, "Winners: Alice +40, Bob +40")
	assert.Contains(t, out, "Error [out_of_turn]: not your turn")

	out = r.Render(&protocol.Error{Code: protocol.CodeTableNotFound, Message: "table not found: x"})
	assert.Equal(t, "Error [table_not_found]: table not found: x", out)

	out = r.Render(&protocol.Connected{Table: "main", Seat: 1, PlayerID: "abc"})
	assert.Equal(t, "Connected to main as seat 1 (id abc)", out)
}

func TestRenderSessionOver(t *testing.T) {
	out := plainRenderer().View(protocol.View{
		Player:      "Alice",
		Stage:       "showdown",
		SessionOver: true,
		Winner:      "Alice",
	})
	assert.Contains(t, out, "Session over, Alice wins")
	assert.Contains(t, out, "Board: --")
}
