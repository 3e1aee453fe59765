package game

import (
	"fmt"
	"slices"
	"strings"

	"github.com/lox/holdemtable/poker"
)

// EngineConfig holds the per-session betting limits.
type EngineConfig struct {
	SmallBlind   int
	BigBlind     int
	MinimumRaise int
}

// BettingEngine runs a single hand: dealing, blinds, move validation, pot
// accounting and street progression.
type BettingEngine struct {
	cfg     EngineConfig
	players []*Player
	hands   []Hand
	deck    *poker.Deck
	log     *ActionLog

	community  []poker.Card
	pot        int
	bets       []int
	acted      []bool
	dealer     int
	current    int
	lastRaiser int
	stage      Stage
}

// NewBettingEngine deals a hand to players (in seat order) and posts blinds.
// dealer indexes into players. The dealer posts nothing, the next player
// posts the small blind and the one after that the big blind; heads-up this
// puts the big blind back on the dealer. Action starts after the big blind.
func NewBettingEngine(cfg EngineConfig, players []*Player, dealer int, deck *poker.Deck, log *ActionLog) (*BettingEngine, error) {
	n := len(players)
	if n < 2 {
		return nil, fmt.Errorf("%w: need 2, have %d", ErrNotEnoughPlayers, n)
	}
	if dealer < 0 || dealer >= n {
		return nil, fmt.Errorf("dealer index %d out of range", dealer)
	}
	if need := 2*n + 5; deck.Remaining() < need {
		return nil, &poker.ExhaustedError{Requested: need, Remaining: deck.Remaining()}
	}
	if log == nil {
		log = NewActionLog(0)
	}

	e := &BettingEngine{
		cfg:        cfg,
		players:    players,
		hands:      make([]Hand, n),
		deck:       deck,
		log:        log,
		bets:       make([]int, n),
		acted:      make([]bool, n),
		dealer:     dealer,
		current:    -1,
		lastRaiser: -1,
		stage:      PreFlop,
	}

	for _, p := range players {
		p.Folded = false
	}
	for i := range players {
		cards, err := deck.Draw(2)
		if err != nil {
			return nil, err
		}
		e.hands[i] = Hand{cards[0], cards[1]}
	}

	sb := (dealer + 1) % n
	bb := (dealer + 2) % n
	if err := e.postBlind(sb, cfg.SmallBlind, "small"); err != nil {
		return nil, err
	}
	if err := e.postBlind(bb, cfg.BigBlind, "big"); err != nil {
		return nil, err
	}
	e.lastRaiser = bb
	e.current = e.nextActive(bb + 1)
	return e, nil
}

func (e *BettingEngine) postBlind(i, amount int, kind string) error {
	p := e.players[i]
	if amount > p.Balance {
		return fmt.Errorf("%w: %s cannot cover %s blind of %d", ErrInvalidAmount, p.Name, kind, amount)
	}
	e.placeBet(i, amount)
	e.log.Addf("%s posted %s blind %d", p.Name, kind, amount)
	return nil
}

// placeBet moves chips from a player's balance into the pot.
func (e *BettingEngine) placeBet(i, amount int) {
	e.players[i].Balance -= amount
	e.bets[i] += amount
	e.pot += amount
}

// ApplyAction validates and applies a move by player. Rejected moves leave
// the engine untouched.
func (e *BettingEngine) ApplyAction(player *Player, move Move, amount int) error {
	if e.Complete() {
		return ErrHandComplete
	}
	i := e.indexOf(player)
	if i < 0 || i != e.current {
		return ErrOutOfTurn
	}
	if player.Folded {
		return ErrFoldedPlayer
	}

	maxBet := e.MaxBet()
	bet := e.bets[i]

	switch move {
	case Fold:
		player.Folded = true
		e.log.Addf("%s folded", player.Name)

	case Check:
		if bet != maxBet {
			return fmt.Errorf("%w: %d to call", ErrIllegalCheck, maxBet-bet)
		}
		e.log.Addf("%s checked", player.Name)

	case Call:
		delta := maxBet - bet
		if delta > player.Balance {
			return fmt.Errorf("%w: call of %d exceeds balance %d", ErrInvalidAmount, delta, player.Balance)
		}
		if delta == 0 {
			e.log.Addf("%s checked", player.Name)
			break
		}
		e.placeBet(i, delta)
		e.log.Addf("%s called %d", player.Name, delta)

	case Bet:
		if maxBet > 0 {
			return ErrIllegalBet
		}
		if amount < e.cfg.MinimumRaise || amount > player.Balance {
			return fmt.Errorf("%w: bet must be between %d and %d", ErrInvalidAmount, e.cfg.MinimumRaise, player.Balance)
		}
		e.placeBet(i, amount)
		e.reopen(i)
		e.log.Addf("%s bet %d", player.Name, amount)

	case Raise:
		if maxBet == 0 {
			return ErrIllegalRaise
		}
		if amount < maxBet+e.cfg.MinimumRaise {
			return fmt.Errorf("%w: raise must be to at least %d", ErrInvalidAmount, maxBet+e.cfg.MinimumRaise)
		}
		if amount-bet > player.Balance {
			return fmt.Errorf("%w: raise to %d exceeds balance %d", ErrInvalidAmount, amount, player.Balance+bet)
		}
		e.placeBet(i, amount-bet)
		e.reopen(i)
		e.log.Addf("%s raised to %d", player.Name, amount)

	default:
		return fmt.Errorf("%w: %v", ErrUnknownMove, move)
	}

	e.acted[i] = true
	e.advance()
	return nil
}

// reopen makes i the last aggressor and requires everyone else to respond.
func (e *BettingEngine) reopen(i int) {
	e.lastRaiser = i
	for j := range e.acted {
		e.acted[j] = false
	}
}

func (e *BettingEngine) advance() {
	if e.activeCount() <= 1 {
		e.current = -1
		return
	}
	if e.RoundComplete() {
		e.nextStage()
		return
	}
	e.current = e.nextActive(e.current + 1)
}

func (e *BettingEngine) nextStage() {
	for i := range e.bets {
		e.bets[i] = 0
		e.acted[i] = false
	}
	e.lastRaiser = -1
	e.stage++

	if e.stage == Showdown {
		e.current = -1
		return
	}

	// deck size was checked at construction
	cards, err := e.deck.Draw(e.stage.boardSize() - len(e.community))
	if err != nil {
		panic(err)
	}
	e.community = append(e.community, cards...)
	name := e.stage.String()
	e.log.Addf("%s: %s", strings.ToUpper(name[:1])+name[1:], poker.FormatCards(e.community))
	e.current = e.nextActive(e.dealer + 1)
}

// nextActive returns the first non-folded index at or after from, wrapping.
func (e *BettingEngine) nextActive(from int) int {
	n := len(e.players)
	for k := range n {
		i := (from + k) % n
		if !e.players[i].Folded {
			return i
		}
	}
	return -1
}

func (e *BettingEngine) activeCount() int {
	count := 0
	for _, p := range e.players {
		if !p.Folded {
			count++
		}
	}
	return count
}

func (e *BettingEngine) indexOf(p *Player) int {
	return slices.Index(e.players, p)
}

// RoundComplete reports whether the current betting round is settled: at
// most one player remains, or every remaining player has acted since the
// last bet and matched the highest stage bet.
func (e *BettingEngine) RoundComplete() bool {
	if e.activeCount() <= 1 {
		return true
	}
	maxBet := e.MaxBet()
	for i, p := range e.players {
		if p.Folded {
			continue
		}
		if !e.acted[i] || e.bets[i] != maxBet {
			return false
		}
	}
	return true
}

// Complete reports whether the hand is decided, either by folds or by
// reaching showdown.
func (e *BettingEngine) Complete() bool {
	return e.stage == Showdown || e.activeCount() <= 1
}

// ValidActions returns the moves player could make right now. It is empty
// unless it is player's turn.
func (e *BettingEngine) ValidActions(player *Player) []Move {
	i := e.indexOf(player)
	if e.Complete() || i < 0 || i != e.current || player.Folded {
		return nil
	}
	maxBet := e.MaxBet()
	bet := e.bets[i]

	moves := []Move{Fold}
	if bet == maxBet {
		moves = append(moves, Check)
	} else if maxBet-bet <= player.Balance {
		moves = append(moves, Call)
	}
	if maxBet == 0 {
		if player.Balance >= e.cfg.MinimumRaise {
			moves = append(moves, Bet)
		}
	} else if maxBet+e.cfg.MinimumRaise-bet <= player.Balance {
		moves = append(moves, Raise)
	}
	return moves
}

// MaxBet is the highest stage bet on the current street.
func (e *BettingEngine) MaxBet() int {
	return slices.Max(e.bets)
}

// ToCall is the number of chips player needs to match the current bet.
func (e *BettingEngine) ToCall(player *Player) int {
	i := e.indexOf(player)
	if i < 0 {
		return 0
	}
	return e.MaxBet() - e.bets[i]
}

func (e *BettingEngine) Stage() Stage { return e.stage }

func (e *BettingEngine) Pot() int { return e.pot }

func (e *BettingEngine) MinimumRaise() int { return e.cfg.MinimumRaise }

func (e *BettingEngine) Community() []poker.Card {
	return slices.Clone(e.community)
}

// Players returns the players dealt into this hand in seat order.
func (e *BettingEngine) Players() []*Player {
	return slices.Clone(e.players)
}

// Current returns the player to act, or nil once the hand is over.
func (e *BettingEngine) Current() *Player {
	if e.current < 0 {
		return nil
	}
	return e.players[e.current]
}

func (e *BettingEngine) Dealer() *Player {
	return e.players[e.dealer]
}

// LastRaiser returns the last player to bet or raise on this street, if any.
func (e *BettingEngine) LastRaiser() *Player {
	if e.lastRaiser < 0 {
		return nil
	}
	return e.players[e.lastRaiser]
}

// BetOf returns player's bet on the current street.
func (e *BettingEngine) BetOf(player *Player) int {
	if i := e.indexOf(player); i >= 0 {
		return e.bets[i]
	}
	return 0
}

// Acted reports whether player has acted since the last bet or raise.
func (e *BettingEngine) Acted(player *Player) bool {
	if i := e.indexOf(player); i >= 0 {
		return e.acted[i]
	}
	return false
}

// HoleCards returns player's hand, if they were dealt in.
func (e *BettingEngine) HoleCards(player *Player) (Hand, bool) {
	if i := e.indexOf(player); i >= 0 {
		return e.hands[i], true
	}
	return Hand{}, false
}

// Remaining returns the non-folded players, clockwise from the seat after
// the dealer.
func (e *BettingEngine) Remaining() []*Player {
	n := len(e.players)
	var out []*Player
	for k := 1; k <= n; k++ {
		p := e.players[(e.dealer+k)%n]
		if !p.Folded {
			out = append(out, p)
		}
	}
	return out
}

// payout empties the pot into the given shares.
func (e *BettingEngine) payout(shares map[*Player]int) {
	for p, amount := range shares {
		p.Balance += amount
		e.pot -= amount
	}
}
