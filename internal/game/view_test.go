package game

import (
	"testing"

	"github.com/lox/holdemtable/poker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewMasksOpponents(t *testing.T) {
	t.Parallel()
	s, players := newTestSession(t, nil, 1000, 1000, 1000)
	a, b := players[0], players[1]

	v := s.ViewFor(a)
	hand, _ := s.Engine().HoleCards(a)
	assert.Equal(t, hand.Cards(), v.HoleCards)
	assert.Equal(t, "Alice", v.Player)
	assert.Equal(t, "Alice", v.Dealer)
	assert.Equal(t, 30, v.Pot)
	assert.Equal(t, 20, v.CurrentBet)
	assert.Equal(t, PreFlop, v.Stage)
	assert.Equal(t, 1, v.HandNumber)
	require.Len(t, v.Opponents, 2)
	for _, o := range v.Opponents {
		assert.Equal(t, []poker.Card{poker.Hidden, poker.Hidden}, o.Cards)
		assert.False(t, o.Revealed)
	}
	assert.Equal(t, "??", v.Opponents[0].Cards[0].String())

	assert.True(t, v.IsTurn)
	assert.Equal(t, []Move{Fold, Call, Raise}, v.ValidActions)

	other := s.ViewFor(b)
	assert.False(t, other.IsTurn)
	assert.Equal(t, "Alice", other.Current)
	assert.Empty(t, other.ValidActions)
	assert.Equal(t, 10, other.Bet)
}

func TestViewLogTail(t *testing.T) {
	t.Parallel()
	s, players := newTestSession(t, nil)
	alice, bob := players[0], players[1]

	_, err := s.Apply(bob, Call, 0)
	require.NoError(t, err)
	_, err = s.Apply(alice, Check, 0)
	require.NoError(t, err)
	_, err = s.Apply(bob, Check, 0)
	require.NoError(t, err)
	_, err = s.Apply(alice, Check, 0)
	require.NoError(t, err)

	v := s.ViewFor(alice)
	require.Len(t, v.Log, ViewLogSize)
	assert.Equal(t, s.Log().Tail(ViewLogSize), v.Log)
	assert.Equal(t, "Alice checked", v.Log[len(v.Log)-2])
	assert.Contains(t, v.Log[len(v.Log)-1], "Turn: ")
}

// favour returns an evaluator that ranks winner's hand above everyone else's.
func favour(s *Session, winner *Player) *spyEvaluator {
	hand, _ := s.Engine().HoleCards(winner)
	spy := s.evaluator.(*spyEvaluator)
	spy.rank = func(hole []poker.Card) poker.HandRank {
		if hole[0] == hand[0] {
			return 100
		}
		return 200
	}
	return spy
}

func TestViewRevealsAtShowdown(t *testing.T) {
	t.Parallel()
	s, players := newTestSession(t, &spyEvaluator{}, 1000, 20)
	alice, bob := players[0], players[1]
	favour(s, alice)
	bobHand, _ := s.Engine().HoleCards(bob)

	// Bob calls off his whole stack, both check it down and Bob busts
	result, err := s.Apply(bob, Call, 0)
	require.NoError(t, err)
	require.Nil(t, result)
	result = checkDown(t, s)
	assert.True(t, result.Showdown)
	assert.Equal(t, map[string]int{"Alice": 40}, result.Winners)
	require.True(t, s.Over())

	// the final engine is kept, so the showdown is visible
	v := s.ViewFor(alice)
	assert.Equal(t, Showdown, v.Stage)
	assert.True(t, v.SessionOver)
	assert.Equal(t, "Alice", v.Winner)
	assert.Empty(t, v.ValidActions)
	require.Len(t, v.Opponents, 1)
	assert.True(t, v.Opponents[0].Revealed)
	assert.Equal(t, bobHand.Cards(), v.Opponents[0].Cards)
	require.NotNil(t, v.LastHand)
	assert.Len(t, v.LastHand.Ranks, 2)
}

func TestViewKeepsFoldedCardsHiddenAtShowdown(t *testing.T) {
	t.Parallel()
	// Alice deals, Bob posts 10 of his 20, Carol posts her whole 20
	s, players := newTestSession(t, &spyEvaluator{}, 1000, 20, 20)
	alice, bob, carol := players[0], players[1], players[2]
	favour(s, alice)
	carolHand, _ := s.Engine().HoleCards(carol)

	_, err := s.Apply(alice, Call, 0)
	require.NoError(t, err)
	_, err = s.Apply(bob, Fold, 0)
	require.NoError(t, err)
	result := checkDown(t, s)
	assert.Equal(t, map[string]int{"Alice": 50}, result.Winners)
	require.Len(t, result.Ranks, 2, "the folded player is not ranked")
	require.True(t, s.Over(), "Bob and Carol can no longer cover the big blind")

	v := s.ViewFor(alice)
	assert.Equal(t, Showdown, v.Stage)
	require.Len(t, v.Opponents, 2)

	folded, shown := v.Opponents[0], v.Opponents[1]
	assert.Equal(t, "Bob", folded.Name)
	assert.True(t, folded.Folded)
	assert.False(t, folded.Revealed)
	assert.Equal(t, []poker.Card{poker.Hidden, poker.Hidden}, folded.Cards)

	assert.Equal(t, "Carol", shown.Name)
	assert.True(t, shown.Revealed)
	assert.Equal(t, carolHand.Cards(), shown.Cards)
}

func TestWaitingView(t *testing.T) {
	t.Parallel()
	alice := NewPlayer("a", "Alice", 1000)
	v := WaitingView(alice, []*Player{alice})
	assert.True(t, v.Waiting)
	assert.Equal(t, []string{WaitingMessage}, v.Log)
	assert.Empty(t, v.Opponents)
	assert.Empty(t, v.ValidActions)
}

func TestParseMove(t *testing.T) {
	t.Parallel()
	for _, m := range []Move{Fold, Check, Call, Bet, Raise} {
		got, err := ParseMove(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	got, err := ParseMove(" RAISE ")
	require.NoError(t, err)
	assert.Equal(t, Raise, got)

	_, err = ParseMove("allin")
	assert.ErrorIs(t, err, ErrUnknownMove)
	assert.Equal(t, "move(9)", Move(9).String())
	assert.Equal(t, "pre-flop", PreFlop.String())
}

func TestActionLogLimit(t *testing.T) {
	t.Parallel()
	l := NewActionLog(3)
	for i := range 5 {
		l.Addf("entry %d", i)
	}
	assert.Equal(t, []string{"entry 2", "entry 3", "entry 4"}, l.Entries())
	assert.Equal(t, []string{"entry 4"}, l.Tail(1))
	assert.Equal(t, 3, l.Len())
}
