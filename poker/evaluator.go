package poker

import (
	"errors"
	"fmt"
	"math"

	treys "github.com/chehsunliu/poker"
	hankin "github.com/paulhankin/poker"
)

// HandRank orders showdown hands. Lower ranks are stronger hands; equal ranks
// are exact ties.
type HandRank int32

// HandEvaluator ranks a player's hole cards together with the board.
type HandEvaluator interface {
	Evaluate(hole, board []Card) (HandRank, error)
	Describe(hole, board []Card) (string, error)
}

// ErrCardCount is returned when an evaluator cannot rank the number of cards given.
var ErrCardCount = errors.New("unsupported number of cards")

// Evaluator names accepted by NewEvaluator.
const (
	EvaluatorTreys  = "treys"
	EvaluatorHankin = "hankin"
)

// NewEvaluator returns the evaluator registered under name.
func NewEvaluator(name string) (HandEvaluator, error) {
	switch name {
	case "", EvaluatorTreys:
		return TreysEvaluator{}, nil
	case EvaluatorHankin:
		return HankinEvaluator{}, nil
	default:
		return nil, fmt.Errorf("unknown evaluator %q", name)
	}
}

// TreysEvaluator ranks 5 to 7 cards with the chehsunliu/poker lookup tables.
// Its ranks run from 1 (royal flush) to 7462 (seven high).
type TreysEvaluator struct{}

func (TreysEvaluator) Evaluate(hole, board []Card) (HandRank, error) {
	cards, err := toTreys(hole, board)
	if err != nil {
		return 0, err
	}
	return HandRank(treys.Evaluate(cards)), nil
}

func (TreysEvaluator) Describe(hole, board []Card) (string, error) {
	cards, err := toTreys(hole, board)
	if err != nil {
		return "", err
	}
	return treys.RankString(treys.Evaluate(cards)), nil
}

func toTreys(hole, board []Card) ([]treys.Card, error) {
	n := len(hole) + len(board)
	if n < 5 || n > 7 {
		return nil, fmt.Errorf("%w: %d", ErrCardCount, n)
	}
	out := make([]treys.Card, 0, n)
	for _, c := range append(append([]Card{}, hole...), board...) {
		if !c.Valid() {
			return nil, fmt.Errorf("invalid card %d", c)
		}
		out = append(out, treys.NewCard(c.String()))
	}
	return out, nil
}

// HankinEvaluator ranks exactly seven cards with paulhankin/poker. Its native
// scores grow with hand strength, so they are inverted into a HandRank.
type HankinEvaluator struct{}

func (HankinEvaluator) Evaluate(hole, board []Card) (HandRank, error) {
	cards, err := toHankin(hole, board)
	if err != nil {
		return 0, err
	}
	return HandRank(math.MaxInt16 - int32(hankin.Eval7(&cards))), nil
}

func (HankinEvaluator) Describe(hole, board []Card) (string, error) {
	cards, err := toHankin(hole, board)
	if err != nil {
		return "", err
	}
	return hankin.Describe(cards[:])
}

func toHankin(hole, board []Card) ([7]hankin.Card, error) {
	var out [7]hankin.Card
	if n := len(hole) + len(board); n != 7 {
		return out, fmt.Errorf("%w: %d", ErrCardCount, n)
	}
	for i, c := range append(append([]Card{}, hole...), board...) {
		if !c.Valid() {
			return out, fmt.Errorf("invalid card %d", c)
		}
		// paulhankin ranks run Ace=1 through King=13
		rank := c.Rank() + 2
		if c.Rank() == Ace {
			rank = 1
		}
		hc, err := hankin.MakeCard(hankin.Suit(c.Suit()), hankin.Rank(rank))
		if err != nil {
			return out, fmt.Errorf("convert %s: %w", c, err)
		}
		out[i] = hc
	}
	return out, nil
}
