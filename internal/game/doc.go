// Package game implements the table-side rules of a Texas Hold'em session.
//
// A BettingEngine owns exactly one hand: it deals hole cards, posts blinds,
// validates and applies player moves, tracks the pot and reveals community
// cards as betting rounds settle. It never blocks and knows nothing about
// timers or connections.
//
// A Session strings hands together. After every accepted move it checks
// whether the current hand is decided, awards the pot, marks players who can
// no longer cover the big blind as bankrupt, rotates the dealer button and
// deals the next hand with a fresh engine and deck.
//
// # Basic Usage
//
//	players := []*game.Player{game.NewPlayer("a", "Alice", 1000), game.NewPlayer("b", "Bob", 1000)}
//	s, err := game.NewSession(game.SessionConfig{SmallBlind: 10, BigBlind: 20, MinimumRaise: 20}, players)
//	if err != nil {
//	    return err
//	}
//	if err := s.StartHand(); err != nil {
//	    return err
//	}
//	result, err := s.Apply(s.Engine().Current(), game.Call, 0)
//
// Players only ever see a View, which masks opponents' hole cards until a
// showdown reveals them.
package game
