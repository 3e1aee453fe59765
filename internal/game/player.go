package game

import "github.com/lox/holdemtable/poker"

// Player is a seated participant. Players outlive hands; Folded is reset at
// the start of each hand while Bankrupt is permanent for the session.
type Player struct {
	ID       string
	Name     string
	Seat     int
	Balance  int
	Folded   bool
	Bankrupt bool
}

// NewPlayer creates a player with a starting balance.
func NewPlayer(id, name string, balance int) *Player {
	return &Player{ID: id, Name: name, Balance: balance}
}

// Hand is a player's two hole cards for one hand.
type Hand [2]poker.Card

func (h Hand) Cards() []poker.Card {
	return []poker.Card{h[0], h[1]}
}

func (h Hand) String() string {
	return poker.FormatCards(h.Cards())
}
