package equity

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cardroom/holdem/internal/deck"
)

func TestPocketAcesHeadsUp(t *testing.T) {
	hole := []deck.Card{
		deck.NewCard(deck.Ace, deck.Spades),
		deck.NewCard(deck.Ace, deck.Hearts),
	}
	rng := rand.New(rand.NewSource(42))

	p := Estimate(hole, nil, 1, 1000, rng)

	// AA vs one random hand preflop is ~85% equity. Wide band: the
	// estimator is randomized and ties count as wins.
	assert.GreaterOrEqual(t, p, 0.80)
	assert.LessOrEqual(t, p, 0.90)
}

func TestWeakHandMultiway(t *testing.T) {
	hole := []deck.Card{
		deck.NewCard(deck.Two, deck.Spades),
		deck.NewCard(deck.Seven, deck.Hearts),
	}
	rng := rand.New(rand.NewSource(42))

	p := Estimate(hole, nil, 4, 1000, rng)

	// 72o against four opponents wins well under half the time.
	assert.Less(t, p, 0.40)
	assert.GreaterOrEqual(t, p, 0.0)
}

func TestProbabilityBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		d := deck.NewShuffled(rng)
		hole := d.Deal(2)
		community := d.Deal(3)

		p := Estimate(hole, community, 2, 200, rng)
		assert.GreaterOrEqual(t, p, 0.0)
		assert.LessOrEqual(t, p, 1.0)
	}
}

func TestMadeNutsOnRiver(t *testing.T) {
	// Royal flush on the board-complete river: cannot lose, ties count
	// as wins, so every trial is a win.
	hole := []deck.Card{
		deck.NewCard(deck.Ace, deck.Spades),
		deck.NewCard(deck.King, deck.Spades),
	}
	community := []deck.Card{
		deck.NewCard(deck.Queen, deck.Spades),
		deck.NewCard(deck.Jack, deck.Spades),
		deck.NewCard(deck.Ten, deck.Spades),
		deck.NewCard(deck.Two, deck.Hearts),
		deck.NewCard(deck.Three, deck.Diamonds),
	}
	rng := rand.New(rand.NewSource(1))

	p := Estimate(hole, community, 3, 300, rng)
	assert.Equal(t, 1.0, p)
}

func TestEmptyHoleCardsReturnsZero(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	assert.Equal(t, 0.0, Estimate(nil, nil, 1, 100, rng))
}

func TestParallelMatchesSequentialStatistically(t *testing.T) {
	hole := []deck.Card{
		deck.NewCard(deck.Ace, deck.Spades),
		deck.NewCard(deck.Ace, deck.Hearts),
	}

	seq := Estimate(hole, nil, 1, 1500, rand.New(rand.NewSource(3)))
	par := EstimateParallel(hole, nil, 1, 5000, rand.New(rand.NewSource(4)))

	assert.InDelta(t, seq, par, 0.06)
}
