// Package gameid issues the identifiers handed to players and recorded with
// hands: UUIDv7 values rendered as 26 character lowercase Crockford base32,
// so they sort by creation time.
package gameid

import (
	"encoding/base32"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Length of every encoded ID.
const Length = 26

var encoding = base32.NewEncoding(alphabet).WithPadding(base32.NoPadding)

// Generate returns a new time-ordered ID.
func Generate() string {
	u, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails when the system random source does
		u = uuid.New()
	}
	return Encode(u)
}

// Encode renders u in the ID alphabet.
func Encode(u uuid.UUID) string {
	return encoding.EncodeToString(u[:])
}

// Decode parses an ID back into its UUID.
func Decode(id string) (uuid.UUID, error) {
	if err := Validate(id); err != nil {
		return uuid.Nil, err
	}
	b, err := encoding.DecodeString(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid id %q: %w", id, err)
	}
	return uuid.FromBytes(b)
}

// Validate checks that id has the right length and alphabet.
func Validate(id string) error {
	if len(id) != Length {
		return fmt.Errorf("invalid id length: expected %d, got %d", Length, len(id))
	}
	for i, r := range id {
		if !strings.ContainsRune(alphabet, r) {
			return fmt.Errorf("invalid character %q at position %d", r, i)
		}
	}
	return nil
}
