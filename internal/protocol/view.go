package protocol

import (
	"github.com/lox/holdemtable/internal/game"
	"github.com/lox/holdemtable/poker"
)

// StageWaiting is reported while a table is filling its seats.
const StageWaiting = "waiting_for_players"

// NewView converts a game view into its wire form.
func NewView(v game.View) View {
	out := View{
		Player:       v.Player,
		Balance:      v.Balance,
		Bet:          v.Bet,
		HoleCards:    cardStrings(v.HoleCards),
		Folded:       v.Folded,
		Bankrupt:     v.Bankrupt,
		Community:    cardStrings(v.Community),
		Pot:          v.Pot,
		CurrentBet:   v.CurrentBet,
		MinimumRaise: v.MinimumRaise,
		Stage:        v.Stage.String(),
		ValidActions: game.MoveStrings(v.ValidActions),
		Log:          v.Log,
		Current:      v.Current,
		IsTurn:       v.IsTurn,
		HandNumber:   v.HandNumber,
		Dealer:       v.Dealer,
		SessionOver:  v.SessionOver,
		Winner:       v.Winner,
	}
	if v.Waiting {
		out.Stage = StageWaiting
	}
	for _, o := range v.Opponents {
		out.Opponents = append(out.Opponents, Opponent{
			Name:      o.Name,
			Balance:   o.Balance,
			Bet:       o.Bet,
			Folded:    o.Folded,
			Bankrupt:  o.Bankrupt,
			Connected: o.Connected,
			Cards:     cardStrings(o.Cards),
		})
	}
	if r := v.LastHand; r != nil {
		last := &LastHand{
			HandNumber: r.HandNumber,
			Pot:        r.Pot,
			Board:      cardStrings(r.Board),
			Winners:    r.Winners,
		}
		for _, pr := range r.Ranks {
			last.Showdown = append(last.Showdown, Shown{
				Player:      pr.Player,
				Cards:       cardStrings(pr.Cards.Cards()),
				Description: pr.Description,
				Rank:        int(pr.Rank),
			})
		}
		out.LastHand = last
	}
	return out
}

func cardStrings(cards []poker.Card) []string {
	if cards == nil {
		return nil
	}
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.String()
	}
	return out
}
