package game

import "github.com/lox/holdemtable/poker"

// ViewLogSize is how many trailing log entries a view carries.
const ViewLogSize = 5

// WaitingMessage is shown while a table is still filling its seats.
const WaitingMessage = "Waiting for more players to join..."

// Opponent is another player as seen from a viewer's seat.
type Opponent struct {
	Name     string
	Balance  int
	Bet      int
	Folded   bool
	Bankrupt bool
	// Cards are nil when the player holds no hand, masked while hidden and
	// populated once revealed at showdown.
	Cards     []poker.Card
	Revealed  bool
	Connected bool
}

// View is the slice of table state one player is allowed to see.
type View struct {
	Player       string
	Balance      int
	Bet          int
	HoleCards    []poker.Card
	Folded       bool
	Bankrupt     bool
	Opponents    []Opponent
	Community    []poker.Card
	Pot          int
	CurrentBet   int
	MinimumRaise int
	Stage        Stage
	Waiting      bool
	ValidActions []Move
	Log          []string
	Current      string
	IsTurn       bool
	HandNumber   int
	Dealer       string
	SessionOver  bool
	Winner       string
	LastHand     *HandResult
}

// ViewFor projects the session for viewer. Opponents' hole cards stay
// hidden unless the hand reached showdown and they did not fold.
func (s *Session) ViewFor(viewer *Player) View {
	v := View{
		Player:       viewer.Name,
		Balance:      viewer.Balance,
		Folded:       viewer.Folded,
		Bankrupt:     viewer.Bankrupt,
		MinimumRaise: s.cfg.MinimumRaise,
		Log:          s.log.Tail(ViewLogSize),
		HandNumber:   s.handCount,
		Dealer:       s.Dealer().Name,
		SessionOver:  s.over,
		Winner:       s.WinnerName(),
		LastHand:     s.last,
	}

	e := s.engine
	if e == nil {
		v.Waiting = true
		for _, p := range s.players {
			if p != viewer {
				v.Opponents = append(v.Opponents, Opponent{Name: p.Name, Balance: p.Balance, Bankrupt: p.Bankrupt})
			}
		}
		return v
	}

	v.Community = e.Community()
	v.Pot = e.Pot()
	v.CurrentBet = e.MaxBet()
	v.Stage = e.Stage()
	v.Bet = e.BetOf(viewer)
	if hand, ok := e.HoleCards(viewer); ok {
		v.HoleCards = hand.Cards()
	}
	if cur := e.Current(); cur != nil {
		v.Current = cur.Name
		v.IsTurn = cur == viewer
	}
	if !s.over {
		v.ValidActions = e.ValidActions(viewer)
	}

	showdown := e.Stage() == Showdown
	for _, p := range s.players {
		if p == viewer {
			continue
		}
		o := Opponent{
			Name:     p.Name,
			Balance:  p.Balance,
			Bet:      e.BetOf(p),
			Folded:   p.Folded,
			Bankrupt: p.Bankrupt,
		}
		if hand, ok := e.HoleCards(p); ok {
			if showdown && !p.Folded {
				o.Cards = hand.Cards()
				o.Revealed = true
			} else {
				o.Cards = []poker.Card{poker.Hidden, poker.Hidden}
			}
		}
		v.Opponents = append(v.Opponents, o)
	}
	return v
}

// WaitingView is shown to a seated player before the session starts.
func WaitingView(viewer *Player, seated []*Player) View {
	v := View{
		Player:  viewer.Name,
		Balance: viewer.Balance,
		Waiting: true,
		Log:     []string{WaitingMessage},
	}
	for _, p := range seated {
		if p != viewer {
			v.Opponents = append(v.Opponents, Opponent{Name: p.Name, Balance: p.Balance})
		}
	}
	return v
}
