package deck

import (
	"fmt"
	"math/rand"
)

// Size is the number of cards in a full deck.
const Size = 52

// Deck is a mutable ordered sequence of unique cards.
type Deck struct {
	cards []Card
}

// All returns the 52 cards in canonical order.
func All() []Card {
	cards := make([]Card, 0, Size)
	for suit := Spades; suit <= Clubs; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			cards = append(cards, NewCard(rank, suit))
		}
	}
	return cards
}

// New creates a full 52-card deck in canonical order.
func New() *Deck {
	return &Deck{cards: All()}
}

// NewShuffled creates a full deck and shuffles it with rng.
func NewShuffled(rng *rand.Rand) *Deck {
	d := New()
	d.Shuffle(rng)
	return d
}

// Without creates a deck of the cards not in exclude, in canonical order.
// Used to build the estimator's working deck of unseen cards.
func Without(exclude []Card) *Deck {
	used := make(map[Card]struct{}, len(exclude))
	for _, c := range exclude {
		used[c] = struct{}{}
	}
	d := &Deck{cards: make([]Card, 0, Size-len(exclude))}
	for _, c := range All() {
		if _, ok := used[c]; !ok {
			d.cards = append(d.cards, c)
		}
	}
	return d
}

// Shuffle applies a uniform Fisher-Yates permutation.
func (d *Deck) Shuffle(rng *rand.Rand) {
	for i := len(d.cards) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Deal removes and returns the first n cards. Dealing past the end of
// the deck is a programming error, not a game condition: at most
// 10 players x 2 hole cards + 5 community cards fit in 52.
func (d *Deck) Deal(n int) []Card {
	if n > len(d.cards) {
		panic(fmt.Sprintf("deck: dealt %d cards with %d remaining", n, len(d.cards)))
	}
	dealt := d.cards[:n:n]
	d.cards = d.cards[n:]
	return dealt
}

// Remaining returns the number of cards left in the deck.
func (d *Deck) Remaining() int {
	return len(d.cards)
}

// Cards returns a copy of the remaining cards in order.
func (d *Deck) Cards() []Card {
	out := make([]Card, len(d.cards))
	copy(out, d.cards)
	return out
}
