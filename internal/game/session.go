package game

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/lox/holdemtable/internal/randutil"
	"github.com/lox/holdemtable/poker"
)

// SessionConfig configures a multi-hand session.
type SessionConfig struct {
	SmallBlind   int
	BigBlind     int
	MinimumRaise int

	// Evaluator ranks showdown hands. Defaults to poker.TreysEvaluator.
	Evaluator poker.HandEvaluator
	// Rand seeds every deck shuffle. Defaults to a time seeded source.
	Rand *rand.Rand
	// LogLimit bounds the retained action log.
	LogLimit int
	Logger   *log.Logger
}

// Validate checks the blind structure.
func (c SessionConfig) Validate() error {
	switch {
	case c.SmallBlind <= 0:
		return fmt.Errorf("small blind must be positive, got %d", c.SmallBlind)
	case c.BigBlind <= c.SmallBlind:
		return fmt.Errorf("big blind %d must exceed small blind %d", c.BigBlind, c.SmallBlind)
	case c.MinimumRaise <= 0:
		return fmt.Errorf("minimum raise must be positive, got %d", c.MinimumRaise)
	}
	return nil
}

// PlayerRank is one participant's showdown evaluation.
type PlayerRank struct {
	Player      string
	Cards       Hand
	Rank        poker.HandRank
	Description string
}

// HandResult describes how a hand was settled.
type HandResult struct {
	HandNumber int
	Pot        int
	Board      []poker.Card
	// Winnings per player name. Split pots have several entries.
	Winners  map[string]int
	Showdown bool
	// Ranks lists every showdown participant clockwise from the dealer.
	Ranks []PlayerRank
}

// WinnerNames returns the winners in a stable order.
func (r HandResult) WinnerNames() []string {
	var names []string
	for _, pr := range r.Ranks {
		if _, ok := r.Winners[pr.Player]; ok {
			names = append(names, pr.Player)
		}
	}
	if len(names) == 0 {
		for name := range r.Winners {
			names = append(names, name)
		}
	}
	return names
}

// Session runs consecutive hands between a fixed set of players until only
// one of them can still cover the big blind.
type Session struct {
	cfg       SessionConfig
	evaluator poker.HandEvaluator
	rng       *rand.Rand
	logger    *log.Logger

	players   []*Player
	dealer    int
	handCount int
	engine    *BettingEngine
	log       *ActionLog
	settled   bool
	last      *HandResult
	over      bool
	winner    *Player

	onResult func(HandResult)
}

// NewSession seats players in the order given. Players who already cannot
// cover the big blind are marked bankrupt.
func NewSession(cfg SessionConfig, players []*Player) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(players) < 2 {
		return nil, fmt.Errorf("%w: need 2, have %d", ErrNotEnoughPlayers, len(players))
	}
	s := &Session{
		cfg:       cfg,
		evaluator: cfg.Evaluator,
		rng:       cfg.Rand,
		logger:    cfg.Logger,
		players:   slices.Clone(players),
		log:       NewActionLog(cfg.LogLimit),
		settled:   true,
	}
	if s.evaluator == nil {
		s.evaluator = poker.TreysEvaluator{}
	}
	if s.rng == nil {
		s.rng = randutil.NewOrTime(0)
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	s.logger = s.logger.WithPrefix("session")

	for i, p := range s.players {
		p.Seat = i
		p.Folded = false
	}
	s.markBankrupt()
	if s.solventCount() < 2 {
		return nil, fmt.Errorf("%w: fewer than 2 players can cover the big blind", ErrNotEnoughPlayers)
	}
	s.dealer = s.nextSolvent(0)
	return s, nil
}

// OnResult registers a callback invoked with every settled hand.
func (s *Session) OnResult(fn func(HandResult)) {
	s.onResult = fn
}

// StartHand deals a new hand with a fresh deck and engine.
func (s *Session) StartHand() error {
	if s.over {
		return ErrSessionOver
	}
	if !s.settled {
		return ErrHandInProgress
	}

	var active []*Player
	dealer := -1
	for i, p := range s.players {
		if p.Bankrupt {
			p.Folded = true
			continue
		}
		if i == s.dealer {
			dealer = len(active)
		}
		active = append(active, p)
	}
	if len(active) < 2 {
		return fmt.Errorf("%w: %d solvent", ErrNotEnoughPlayers, len(active))
	}
	if dealer < 0 {
		return fmt.Errorf("dealer %s is bankrupt", s.players[s.dealer].Name)
	}

	deck := poker.NewDeck(randutil.Split(s.rng))
	engine, err := NewBettingEngine(EngineConfig{
		SmallBlind:   s.cfg.SmallBlind,
		BigBlind:     s.cfg.BigBlind,
		MinimumRaise: s.cfg.MinimumRaise,
	}, active, dealer, deck, s.log)
	if err != nil {
		return fmt.Errorf("start hand: %w", err)
	}

	s.handCount++
	s.engine = engine
	s.settled = false
	s.logger.Debug("Hand started", "hand", s.handCount, "dealer", s.players[s.dealer].Name, "players", len(active))
	return nil
}

// Apply submits a move to the current hand and then settles the hand if the
// move decided it. The returned result is non-nil only when a hand was
// settled by this move.
func (s *Session) Apply(player *Player, move Move, amount int) (*HandResult, error) {
	if s.over {
		return nil, ErrSessionOver
	}
	if s.engine == nil {
		return nil, ErrHandComplete
	}
	if err := s.engine.ApplyAction(player, move, amount); err != nil {
		return nil, err
	}
	return s.Advance()
}

// Advance settles the current hand once it is complete: the pot is awarded,
// bankruptcies are recorded and the next hand is dealt.
func (s *Session) Advance() (*HandResult, error) {
	if s.engine == nil || s.settled || !s.engine.Complete() {
		return nil, nil
	}
	result, err := s.GetWinner()
	if err != nil {
		return nil, err
	}
	if s.onResult != nil {
		s.onResult(result)
	}
	if _, err := s.CheckGameEnd(); err != nil {
		return &result, err
	}
	return &result, nil
}

// GetWinner awards the pot of a completed hand. A lone survivor takes it
// without evaluation; otherwise every remaining hand is ranked and the
// lowest rank wins. Tied winners split the pot, with odd chips going to the
// earliest winner clockwise from the dealer.
func (s *Session) GetWinner() (HandResult, error) {
	e := s.engine
	if e == nil || !e.Complete() {
		return HandResult{}, ErrHandInProgress
	}
	if s.settled {
		return HandResult{}, ErrHandComplete
	}

	pot := e.Pot()
	result := HandResult{
		HandNumber: s.handCount,
		Pot:        pot,
		Board:      e.Community(),
		Winners:    make(map[string]int),
	}
	remaining := e.Remaining()

	if len(remaining) == 1 {
		w := remaining[0]
		e.payout(map[*Player]int{w: pot})
		result.Winners[w.Name] = pot
		s.log.Addf("%s wins the pot of %d by default (all others folded)", w.Name, pot)
		s.finish(result)
		return result, nil
	}

	result.Showdown = true
	best := poker.HandRank(0)
	var winners []*Player
	for _, p := range remaining {
		hand, _ := e.HoleCards(p)
		rank, err := s.evaluator.Evaluate(hand.Cards(), result.Board)
		if err != nil {
			return HandResult{}, fmt.Errorf("evaluate %s: %w", p.Name, err)
		}
		desc, err := s.evaluator.Describe(hand.Cards(), result.Board)
		if err != nil {
			desc = fmt.Sprintf("rank %d", rank)
		}
		result.Ranks = append(result.Ranks, PlayerRank{Player: p.Name, Cards: hand, Rank: rank, Description: desc})
		s.log.Addf("%s had %s with %s (rank %d)", p.Name, desc, hand, rank)

		switch {
		case len(winners) == 0 || rank < best:
			best = rank
			winners = []*Player{p}
		case rank == best:
			winners = append(winners, p)
		}
	}

	share, odd := pot/len(winners), pot%len(winners)
	shares := make(map[*Player]int, len(winners))
	for i, w := range winners {
		amount := share
		if i < odd {
			amount++
		}
		shares[w] = amount
		result.Winners[w.Name] = amount
	}
	e.payout(shares)

	for _, pr := range result.Ranks {
		amount, ok := result.Winners[pr.Player]
		switch {
		case !ok:
		case len(winners) == 1:
			s.log.Addf("%s wins the pot of %d with %s (rank %d)", pr.Player, amount, pr.Description, pr.Rank)
		default:
			s.log.Addf("%s splits the pot of %d, taking %d with %s (rank %d)", pr.Player, pot, amount, pr.Description, pr.Rank)
		}
	}
	s.finish(result)
	return result, nil
}

func (s *Session) finish(result HandResult) {
	s.settled = true
	s.last = &result
	s.logger.Info("Hand settled", "hand", result.HandNumber, "pot", result.Pot, "winners", result.WinnerNames())
}

// CheckGameEnd runs after a hand is settled. Players who can no longer cover
// the big blind go bankrupt; if fewer than two remain the session ends,
// otherwise the button moves to the next solvent player and a new hand is
// dealt. It reports whether the session continues.
func (s *Session) CheckGameEnd() (bool, error) {
	if !s.settled {
		return false, ErrHandInProgress
	}
	if s.over {
		return false, nil
	}
	s.markBankrupt()

	if s.solventCount() < 2 {
		s.over = true
		for _, p := range s.players {
			if !p.Bankrupt {
				s.winner = p
				s.log.Addf("%s wins the session with %d chips", p.Name, p.Balance)
			}
		}
		s.logger.Info("Session over", "hands", s.handCount, "winner", s.WinnerName())
		return false, nil
	}

	s.dealer = s.nextSolvent(s.dealer + 1)
	if err := s.StartHand(); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Session) markBankrupt() {
	for _, p := range s.players {
		if !p.Bankrupt && p.Balance < s.cfg.BigBlind {
			p.Bankrupt = true
			s.log.Addf("%s is bankrupt", p.Name)
			s.logger.Info("Player bankrupt", "player", p.Name, "balance", p.Balance)
		}
	}
}

func (s *Session) solventCount() int {
	count := 0
	for _, p := range s.players {
		if !p.Bankrupt {
			count++
		}
	}
	return count
}

func (s *Session) nextSolvent(from int) int {
	n := len(s.players)
	for k := range n {
		i := (from + k) % n
		if !s.players[i].Bankrupt {
			return i
		}
	}
	return from % n
}

// Engine returns the engine of the current (or last) hand. It is nil before
// the first hand is dealt.
func (s *Session) Engine() *BettingEngine { return s.engine }

func (s *Session) Players() []*Player { return slices.Clone(s.players) }

func (s *Session) Dealer() *Player { return s.players[s.dealer] }

func (s *Session) HandCount() int { return s.handCount }

func (s *Session) Over() bool { return s.over }

func (s *Session) Winner() *Player { return s.winner }

func (s *Session) WinnerName() string {
	if s.winner == nil {
		return ""
	}
	return s.winner.Name
}

// LastResult is the most recently settled hand, if any.
func (s *Session) LastResult() *HandResult { return s.last }

func (s *Session) Log() *ActionLog { return s.log }

func (s *Session) Config() SessionConfig { return s.cfg }

// TotalChips is every player's balance plus the pot in play. It never
// changes over the life of a session.
func (s *Session) TotalChips() int {
	total := 0
	for _, p := range s.players {
		total += p.Balance
	}
	if s.engine != nil {
		total += s.engine.Pot()
	}
	return total
}

// FoldCurrent folds whoever is to act, used when a player times out or
// disconnects. It returns the folded player.
func (s *Session) FoldCurrent() (*Player, *HandResult, error) {
	if s.engine == nil {
		return nil, nil, ErrHandComplete
	}
	p := s.engine.Current()
	if p == nil {
		return nil, nil, ErrHandComplete
	}
	result, err := s.Apply(p, Fold, 0)
	return p, result, err
}
