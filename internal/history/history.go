// Package history persists settled hands to sqlite.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lox/holdemtable/internal/game"
	"github.com/lox/holdemtable/internal/gameid"
	"github.com/lox/holdemtable/poker"
	_ "github.com/mattn/go-sqlite3"
)

// Recorder receives every settled hand along with the table and session
// it was played in.
type Recorder interface {
	Record(ctx context.Context, tableID, sessionID string, result game.HandResult) error
}

// Nop discards results.
type Nop struct{}

func (Nop) Record(context.Context, string, string, game.HandResult) error { return nil }

const schema = `
CREATE TABLE IF NOT EXISTS hands (
	id          TEXT PRIMARY KEY,
	table_id    TEXT NOT NULL,
	session_id  TEXT NOT NULL,
	hand_number INTEGER NOT NULL,
	pot         INTEGER NOT NULL,
	board       TEXT NOT NULL,
	showdown    BOOLEAN NOT NULL,
	created_at  DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS hands_table ON hands (table_id, session_id, hand_number);
CREATE TABLE IF NOT EXISTS hand_players (
	hand_id     TEXT NOT NULL REFERENCES hands(id),
	player      TEXT NOT NULL,
	cards       TEXT NOT NULL DEFAULT '',
	rank        INTEGER,
	description TEXT NOT NULL DEFAULT '',
	won         INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (hand_id, player)
);
`

// Store is a sqlite-backed Recorder.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the hand history database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	// sqlite allows one writer at a time
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create history schema: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores a settled hand and its participants in one transaction.
func (s *Store) Record(ctx context.Context, tableID, sessionID string, result game.HandResult) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	id := gameid.Generate()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO hands (id, table_id, session_id, hand_number, pot, board, showdown, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, tableID, sessionID, result.HandNumber, result.Pot, poker.FormatCards(result.Board), result.Showdown, s.now().UTC())
	if err != nil {
		return fmt.Errorf("insert hand: %w", err)
	}

	seen := make(map[string]bool)
	for _, pr := range result.Ranks {
		seen[pr.Player] = true
		_, err = tx.ExecContext(ctx,
			`INSERT INTO hand_players (hand_id, player, cards, rank, description, won) VALUES (?, ?, ?, ?, ?, ?)`,
			id, pr.Player, pr.Cards.String(), int(pr.Rank), pr.Description, result.Winners[pr.Player])
		if err != nil {
			return fmt.Errorf("insert hand player: %w", err)
		}
	}
	for name, won := range result.Winners {
		if seen[name] {
			continue
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO hand_players (hand_id, player, won) VALUES (?, ?, ?)`, id, name, won)
		if err != nil {
			return fmt.Errorf("insert hand winner: %w", err)
		}
	}
	return tx.Commit()
}

// Hand is a stored hand summary.
type Hand struct {
	ID           string
	TableID      string
	SessionID    string
	SessionStart time.Time
	HandNumber   int
	Pot          int
	Board        string
	Showdown     bool
	Winners      map[string]int
}

// Hands returns the recorded hands for a table in play order. Session ids
// sort by creation time, so sessions come out oldest first.
func (s *Store) Hands(ctx context.Context, tableID string) ([]Hand, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, table_id, session_id, hand_number, pot, board, showdown FROM hands
		WHERE table_id = ? ORDER BY session_id, hand_number`, tableID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hands []Hand
	for rows.Next() {
		var h Hand
		if err := rows.Scan(&h.ID, &h.TableID, &h.SessionID, &h.HandNumber, &h.Pot, &h.Board, &h.Showdown); err != nil {
			return nil, err
		}
		if u, err := gameid.Decode(h.SessionID); err == nil {
			h.SessionStart = time.Unix(u.Time().UnixTime()).UTC()
		}
		hands = append(hands, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range hands {
		winners, err := s.winners(ctx, hands[i].ID)
		if err != nil {
			return nil, err
		}
		hands[i].Winners = winners
	}
	return hands, nil
}

func (s *Store) winners(ctx context.Context, handID string) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT player, won FROM hand_players WHERE hand_id = ? AND won > 0`, handID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	winners := make(map[string]int)
	for rows.Next() {
		var name string
		var won int
		if err := rows.Scan(&name, &won); err != nil {
			return nil, err
		}
		winners[name] = won
	}
	return winners, rows.Err()
}
