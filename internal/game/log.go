package game

import "fmt"

// DefaultLogLimit is how many action log entries a session retains.
const DefaultLogLimit = 200

// ActionLog is an append-only record of what happened at the table. Only
// the most recent entries are retained.
type ActionLog struct {
	entries []string
	limit   int
}

// NewActionLog returns a log retaining at most limit entries.
func NewActionLog(limit int) *ActionLog {
	if limit <= 0 {
		limit = DefaultLogLimit
	}
	return &ActionLog{limit: limit}
}

func (l *ActionLog) Addf(format string, args ...any) {
	l.entries = append(l.entries, fmt.Sprintf(format, args...))
	if over := len(l.entries) - l.limit; over > 0 {
		l.entries = append(l.entries[:0:0], l.entries[over:]...)
	}
}

// Entries returns a copy of every retained entry.
func (l *ActionLog) Entries() []string {
	return append([]string(nil), l.entries...)
}

// Tail returns a copy of the last n entries.
func (l *ActionLog) Tail(n int) []string {
	if n >= len(l.entries) {
		return l.Entries()
	}
	return append([]string(nil), l.entries[len(l.entries)-n:]...)
}

func (l *ActionLog) Len() int {
	return len(l.entries)
}
