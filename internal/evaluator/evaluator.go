// Package evaluator ranks poker hands of 5 to 7 cards into a total order.
//
// A hand's strength is a packed integer Score: the hand category occupies the
// high bits and up to five kicker ranks occupy 4-bit slots below it, in
// descending significance. Comparing two Scores as integers is therefore the
// same as comparing the (category, tiebreak...) tuples lexicographically, so a
// flush with any ranks always beats a straight with any ranks.
package evaluator

import (
	"errors"
	"sort"

	"github.com/cardroom/holdem/internal/deck"
)

// Category is a canonical poker hand category, ordered weakest to strongest.
type Category int

const (
	HighCard Category = iota + 1
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

// String returns the display name of the category.
func (c Category) String() string {
	switch c {
	case HighCard:
		return "High Card"
	case OnePair:
		return "One Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	case RoyalFlush:
		return "Royal Flush"
	default:
		return "Unknown"
	}
}

// Score is a totally ordered hand strength. Higher is stronger.
// Layout: category << 20 | k1 << 16 | k2 << 12 | k3 << 8 | k4 << 4 | k5,
// where k1..k5 are rank values (2-14) in descending significance.
type Score uint32

// Category extracts the hand category from a score.
func (s Score) Category() Category {
	return Category(s >> 20)
}

// Compare returns 1 if s is stronger than other, -1 if weaker, 0 if equal.
func (s Score) Compare(other Score) int {
	switch {
	case s > other:
		return 1
	case s < other:
		return -1
	default:
		return 0
	}
}

// ErrTooFewCards is returned when fewer than five cards are evaluated.
var ErrTooFewCards = errors.New("evaluator: need at least 5 cards")

func pack(cat Category, kickers ...deck.Rank) Score {
	s := Score(cat) << 20
	shift := 16
	for _, k := range kickers {
		s |= Score(k) << shift
		shift -= 4
	}
	return s
}

// Evaluate ranks a set of 5 to 7 cards. It returns the strength score and the
// five cards making the best hand. With more than five cards every 5-card
// subset is scored and the maximum wins; ties between equal-score subsets are
// broken arbitrarily.
func Evaluate(cards []deck.Card) (Score, []deck.Card, error) {
	switch {
	case len(cards) < 5:
		return 0, nil, ErrTooFewCards
	case len(cards) == 5:
		five := make([]deck.Card, 5)
		copy(five, cards)
		return evaluate5(five), five, nil
	}

	var (
		best     Score
		bestFive []deck.Card
		idx      [5]int
		five     = make([]deck.Card, 5)
	)
	n := len(cards)
	var walk func(start, k int)
	walk = func(start, k int) {
		if k == 5 {
			for i, ci := range idx {
				five[i] = cards[ci]
			}
			if score := evaluate5(five); bestFive == nil || score > best {
				best = score
				bestFive = append(bestFive[:0], five...)
			}
			return
		}
		for i := start; i <= n-(5-k); i++ {
			idx[k] = i
			walk(i+1, k+1)
		}
	}
	walk(0, 0)

	out := make([]deck.Card, 5)
	copy(out, bestFive)
	return best, out, nil
}

// Compare evaluates both card sets and compares their scores:
// 1 if a is stronger, -1 if b is stronger, 0 on an exact tie.
func Compare(a, b []deck.Card) (int, error) {
	sa, _, err := Evaluate(a)
	if err != nil {
		return 0, err
	}
	sb, _, err := Evaluate(b)
	if err != nil {
		return 0, err
	}
	return sa.Compare(sb), nil
}

// evaluate5 scores exactly five cards.
func evaluate5(cards []deck.Card) Score {
	ranks := make([]deck.Rank, 5)
	flush := true
	for i, c := range cards {
		ranks[i] = c.Rank
		if c.Suit != cards[0].Suit {
			flush = false
		}
	}
	sort.Slice(ranks, func(i, j int) bool { return ranks[i] > ranks[j] })

	straight, straightHigh := straightHighCard(ranks)

	if flush && straight {
		if straightHigh == deck.Ace {
			return pack(RoyalFlush)
		}
		return pack(StraightFlush, straightHigh)
	}

	// Group ranks by multiplicity, larger groups first, higher ranks first
	// within equal multiplicity. ranks is already descending so the counts
	// come out ordered.
	type group struct {
		rank  deck.Rank
		count int
	}
	var groups []group
	for _, r := range ranks {
		if len(groups) > 0 && groups[len(groups)-1].rank == r {
			groups[len(groups)-1].count++
			continue
		}
		groups = append(groups, group{rank: r, count: 1})
	}
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].count > groups[j].count })

	switch {
	case groups[0].count == 4:
		return pack(FourOfAKind, groups[0].rank, groups[1].rank)
	case groups[0].count == 3 && groups[1].count == 2:
		return pack(FullHouse, groups[0].rank, groups[1].rank)
	case flush:
		return pack(Flush, ranks[0], ranks[1], ranks[2], ranks[3], ranks[4])
	case straight:
		return pack(Straight, straightHigh)
	case groups[0].count == 3:
		return pack(ThreeOfAKind, groups[0].rank, groups[1].rank, groups[2].rank)
	case groups[0].count == 2 && groups[1].count == 2:
		return pack(TwoPair, groups[0].rank, groups[1].rank, groups[2].rank)
	case groups[0].count == 2:
		return pack(OnePair, groups[0].rank, groups[1].rank, groups[2].rank, groups[3].rank)
	default:
		return pack(HighCard, ranks[0], ranks[1], ranks[2], ranks[3], ranks[4])
	}
}

// straightHighCard reports whether the descending ranks form a straight and
// its high card. The wheel (A-5-4-3-2) counts as a 5-high straight.
func straightHighCard(desc []deck.Rank) (bool, deck.Rank) {
	for i := 1; i < 5; i++ {
		if desc[i] == desc[i-1] {
			return false, 0
		}
	}
	if desc[0]-desc[4] == 4 {
		return true, desc[0]
	}
	if desc[0] == deck.Ace && desc[1] == deck.Five && desc[1]-desc[4] == 3 {
		return true, deck.Five
	}
	return false, 0
}
