package poker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardString(t *testing.T) {
	t.Parallel()

	if got := NewCard(Ace, Spades).String(); got != "As" {
		t.Errorf("Expected 'As', got %s", got)
	}
	if got := NewCard(Two, Clubs).String(); got != "2c" {
		t.Errorf("Expected '2c', got %s", got)
	}
	if got := Card(60).String(); got != "??" {
		t.Errorf("Expected '??' for invalid card, got %s", got)
	}
}

func TestParseCard(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input   string
		want    Card
		wantErr bool
	}{
		{"As", NewCard(Ace, Spades), false},
		{"2h", NewCard(Two, Hearts), false},
		{"Kd", NewCard(King, Diamonds), false},
		{"tc", NewCard(Ten, Clubs), false},
		{"10h", NewCard(Ten, Hearts), false},
		{"1s", 0, true},
		{"Ax", 0, true},
		{"", 0, true},
		{"Asd", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCard(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAll52CardsRoundTrip(t *testing.T) {
	t.Parallel()
	seen := make(map[string]bool)
	for i := range DeckSize {
		c := Card(i)
		s := c.String()
		assert.False(t, seen[s], "duplicate card string %s", s)
		seen[s] = true

		parsed, err := ParseCard(s)
		require.NoError(t, err)
		assert.Equal(t, c, parsed)
	}
}

func TestFormatCards(t *testing.T) {
	t.Parallel()
	cards := MustParseCards("Ah Kd 2c")
	assert.Equal(t, "Ah Kd 2c", FormatCards(cards))
	assert.Equal(t, "", FormatCards(nil))
}
