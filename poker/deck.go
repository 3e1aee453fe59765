package poker

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

// ErrDeckExhausted is returned when more cards are requested than remain.
var ErrDeckExhausted = errors.New("deck exhausted")

// ExhaustedError carries the counts behind an ErrDeckExhausted failure.
type ExhaustedError struct {
	Requested int
	Remaining int
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("deck exhausted: requested %d cards, %d remaining", e.Requested, e.Remaining)
}

func (e *ExhaustedError) Unwrap() error {
	return ErrDeckExhausted
}

// Deck is a single shuffle of a standard 52-card deck. Cards drawn from it
// are never returned again.
type Deck struct {
	cards [DeckSize]Card
	next  int
	rng   *rand.Rand
}

// NewDeck creates a deck shuffled with rng. A nil rng uses the global source.
func NewDeck(rng *rand.Rand) *Deck {
	d := &Deck{rng: rng}
	for i := range d.cards {
		d.cards[i] = Card(i)
	}
	d.shuffle()
	return d
}

// Fisher-Yates
func (d *Deck) shuffle() {
	d.next = 0
	for i := len(d.cards) - 1; i > 0; i-- {
		var j int
		if d.rng != nil {
			j = d.rng.IntN(i + 1)
		} else {
			j = rand.IntN(i + 1)
		}
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Draw removes and returns the next n cards. It fails without drawing
// anything if fewer than n cards remain.
func (d *Deck) Draw(n int) ([]Card, error) {
	if n < 0 {
		return nil, fmt.Errorf("invalid draw count %d", n)
	}
	if d.next+n > len(d.cards) {
		return nil, &ExhaustedError{Requested: n, Remaining: d.Remaining()}
	}
	cards := make([]Card, n)
	copy(cards, d.cards[d.next:d.next+n])
	d.next += n
	return cards, nil
}

// Remaining returns the number of cards left in the deck.
func (d *Deck) Remaining() int {
	return len(d.cards) - d.next
}
