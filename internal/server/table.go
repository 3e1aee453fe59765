package server

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/holdemtable/internal/game"
	"github.com/lox/holdemtable/internal/gameid"
	"github.com/lox/holdemtable/internal/history"
	"github.com/lox/holdemtable/internal/randutil"
	"github.com/lox/holdemtable/poker"
)

// Listener receives a fresh view for every connected player whenever the
// table changes. It runs with the table locked and must not call back into
// the table.
type Listener func(playerID string, view game.View)

type seat struct {
	player    *game.Player
	connected bool
}

// Table owns one session and serializes every operation on it.
type Table struct {
	id       string
	cfg      TableConfig
	timeout  time.Duration
	clock    quartz.Clock
	logger   *log.Logger
	recorder history.Recorder
	ev       poker.HandEvaluator

	mu        sync.Mutex
	seats     []*seat
	session   *game.Session
	sessionID string
	timer     *quartz.Timer
	turn      uint64
	actions   uint64
	armedAt   uint64
	listener  Listener
}

// TableOption configures a Table.
type TableOption func(*Table)

// WithClock injects the clock behind action timeouts.
func WithClock(clock quartz.Clock) TableOption {
	return func(t *Table) { t.clock = clock }
}

// WithRecorder stores every settled hand.
func WithRecorder(r history.Recorder) TableOption {
	return func(t *Table) { t.recorder = r }
}

// WithLogger sets the table's logger.
func WithLogger(logger *log.Logger) TableOption {
	return func(t *Table) { t.logger = logger }
}

// NewTable creates an empty table from its configuration.
func NewTable(cfg TableConfig, opts ...TableOption) (*Table, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ev, err := poker.NewEvaluator(cfg.Evaluator)
	if err != nil {
		return nil, err
	}
	t := &Table{
		id:       cfg.Name,
		cfg:      cfg,
		timeout:  cfg.Timeout(),
		clock:    quartz.NewReal(),
		logger:   log.Default(),
		recorder: history.Nop{},
		ev:       ev,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.logger = t.logger.WithPrefix("table").With("table", t.id)
	return t, nil
}

func (t *Table) ID() string { return t.id }

// SetListener registers the callback that pushes state to connections.
func (t *Table) SetListener(fn Listener) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.listener = fn
}

// Join seats a player by name. A name belonging to a disconnected seat
// reclaims that seat under a new player id. The session starts once every
// seat is filled.
func (t *Table) Join(name string) (*game.Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidName
	}

	t.mu.Lock()
	var joined *game.Player
	for _, s := range t.seats {
		if s.player.Name != name {
			continue
		}
		if s.connected {
			t.mu.Unlock()
			return nil, fmt.Errorf("%w: %s", ErrNameTaken, name)
		}
		s.player.ID = gameid.Generate()
		s.connected = true
		joined = s.player
		t.logger.Info("Player reconnected", "player", name, "seat", s.player.Seat)
	}

	if joined == nil {
		if len(t.seats) >= t.cfg.Seats {
			t.mu.Unlock()
			return nil, ErrTableFull
		}
		joined = game.NewPlayer(gameid.Generate(), name, t.cfg.StartingBalance)
		joined.Seat = len(t.seats)
		t.seats = append(t.seats, &seat{player: joined, connected: true})
		t.logger.Info("Player joined", "player", name, "seat", joined.Seat, "seated", len(t.seats))

		if len(t.seats) == t.cfg.Seats {
			if err := t.startSessionLocked(); err != nil {
				t.mu.Unlock()
				return nil, err
			}
		}
	}

	t.settleLocked()
	t.mu.Unlock()
	return joined, nil
}

func (t *Table) startSessionLocked() error {
	players := make([]*game.Player, len(t.seats))
	for i, s := range t.seats {
		players[i] = s.player
	}
	session, err := game.NewSession(game.SessionConfig{
		SmallBlind:   t.cfg.SmallBlind,
		BigBlind:     t.cfg.BigBlind,
		MinimumRaise: t.cfg.MinimumRaise,
		Evaluator:    t.ev,
		Rand:         randutil.NewOrTime(t.cfg.Seed),
		Logger:       t.logger,
	}, players)
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	session.OnResult(t.record)
	if err := session.StartHand(); err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	t.session = session
	t.sessionID = gameid.Generate()
	t.logger.Info("Session started", "players", len(players), "session", t.sessionID)
	return nil
}

func (t *Table) record(result game.HandResult) {
	if err := t.recorder.Record(context.Background(), t.id, t.sessionID, result); err != nil {
		t.logger.Error("Failed to record hand", "hand", result.HandNumber, "error", err)
	}
}

// Leave marks a player disconnected. Their seat is kept; they are folded
// whenever the action reaches them until they reconnect.
func (t *Table) Leave(playerID string) error {
	t.mu.Lock()
	s := t.seatByID(playerID)
	if s == nil {
		t.mu.Unlock()
		return ErrPlayerNotFound
	}
	s.connected = false
	t.logger.Info("Player disconnected", "player", s.player.Name)

	t.settleLocked()
	t.mu.Unlock()
	return nil
}

// View returns the player's current view.
func (t *Table) View(playerID string) (game.View, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := t.seatByID(playerID)
	if s == nil {
		return game.View{}, ErrPlayerNotFound
	}
	return t.viewLocked(s), nil
}

// Submit applies a move for a player. The returned view reflects the table
// after the move, or is unchanged if the move was rejected.
func (t *Table) Submit(playerID string, move game.Move, amount int) (game.View, error) {
	t.mu.Lock()
	s := t.seatByID(playerID)
	if s == nil {
		t.mu.Unlock()
		return game.View{}, ErrPlayerNotFound
	}
	if t.session == nil {
		view := t.viewLocked(s)
		t.mu.Unlock()
		return view, ErrWaitingForPlayers
	}

	if _, err := t.session.Apply(s.player, move, amount); err != nil {
		t.logger.Debug("Rejected action", "player", s.player.Name, "move", move, "amount", amount, "error", err)
		view := t.viewLocked(s)
		t.mu.Unlock()
		return view, err
	}
	t.logger.Debug("Applied action", "player", s.player.Name, "move", move, "amount", amount)

	t.actions++
	t.settleLocked()
	view := t.viewLocked(s)
	t.mu.Unlock()
	return view, nil
}

// settleLocked folds disconnected players who are due to act, rearms the
// action timer if the turn moved and pushes every connected player's view.
// Views are pushed under the lock, in the order the table changed.
func (t *Table) settleLocked() {
	t.foldDisconnectedLocked()
	t.armTimerLocked()

	if t.listener == nil {
		return
	}
	for _, s := range t.seats {
		if s.connected {
			t.listener(s.player.ID, t.viewLocked(s))
		}
	}
}

// foldDisconnectedLocked folds absent players for the rest of the current
// hand. A new hand gives them the full action timeout to come back.
func (t *Table) foldDisconnectedLocked() {
	if t.session == nil {
		return
	}
	hand := t.session.HandCount()
	for !t.session.Over() && t.session.HandCount() == hand {
		cur := t.session.Engine().Current()
		if cur == nil {
			return
		}
		if s := t.seatByID(cur.ID); s == nil || s.connected {
			return
		}
		if _, _, err := t.session.FoldCurrent(); err != nil {
			t.logger.Error("Failed to fold disconnected player", "player", cur.Name, "error", err)
			return
		}
		t.actions++
		t.logger.Info("Folded disconnected player", "player", cur.Name)
	}
}

// armTimerLocked starts the action timer for a new turn. A turn only ends
// when a move is applied, so joins and disconnects leave a running timer
// alone.
func (t *Table) armTimerLocked() {
	if t.session == nil || t.session.Over() || t.session.Engine().Current() == nil {
		t.stopTimerLocked()
		return
	}
	if t.timer != nil && t.armedAt == t.actions {
		return
	}
	t.stopTimerLocked()
	t.turn++
	turn := t.turn
	t.armedAt = t.actions
	t.timer = t.clock.AfterFunc(t.timeout, func() { t.expire(turn) }, "table", "turn")
}

func (t *Table) stopTimerLocked() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

// expire folds the player whose turn timed out, unless the turn has since
// moved on.
func (t *Table) expire(turn uint64) {
	t.mu.Lock()
	if turn != t.turn || t.session == nil {
		t.mu.Unlock()
		return
	}
	p, _, err := t.session.FoldCurrent()
	if err != nil {
		t.logger.Debug("Timeout with nothing to fold", "error", err)
		t.mu.Unlock()
		return
	}
	t.actions++
	t.timer = nil
	t.logger.Warn("Action timed out", "player", p.Name, "timeout", t.timeout)

	t.settleLocked()
	t.mu.Unlock()
}

func (t *Table) viewLocked(s *seat) game.View {
	var v game.View
	if t.session == nil {
		players := make([]*game.Player, len(t.seats))
		for i, other := range t.seats {
			players[i] = other.player
		}
		v = game.WaitingView(s.player, players)
	} else {
		v = t.session.ViewFor(s.player)
	}
	for i := range v.Opponents {
		if other := t.seatByName(v.Opponents[i].Name); other != nil {
			v.Opponents[i].Connected = other.connected
		}
	}
	return v
}

func (t *Table) seatByID(id string) *seat {
	for _, s := range t.seats {
		if s.player.ID == id {
			return s
		}
	}
	return nil
}

func (t *Table) seatByName(name string) *seat {
	for _, s := range t.seats {
		if s.player.Name == name {
			return s
		}
	}
	return nil
}

// TableSummary is the JSON shape served on /tables.
type TableSummary struct {
	ID          string   `json:"id"`
	SmallBlind  int      `json:"small_blind"`
	BigBlind    int      `json:"big_blind"`
	Seats       int      `json:"seats"`
	Players     []string `json:"players"`
	HandsPlayed int      `json:"hands_played"`
	Status      string   `json:"status"`
	Winner      string   `json:"winner,omitempty"`
}

// Summary describes the table for listings.
func (t *Table) Summary() TableSummary {
	t.mu.Lock()
	defer t.mu.Unlock()

	sum := TableSummary{
		ID:         t.id,
		SmallBlind: t.cfg.SmallBlind,
		BigBlind:   t.cfg.BigBlind,
		Seats:      t.cfg.Seats,
		Players:    []string{},
		Status:     "waiting",
	}
	for _, s := range t.seats {
		sum.Players = append(sum.Players, s.player.Name)
	}
	if t.session != nil {
		sum.HandsPlayed = t.session.HandCount()
		sum.Status = "playing"
		if t.session.Over() {
			sum.Status = "finished"
			sum.Winner = t.session.WinnerName()
		}
	}
	return sum
}

// Close stops the action timer.
func (t *Table) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopTimerLocked()
	t.turn++
}
