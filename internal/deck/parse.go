package deck

import "fmt"

// ParseCard parses a card from its display form ("A♠") or the two-letter
// form ("As"). Rank letters are case-sensitive, suit letters are not.
func ParseCard(s string) (Card, error) {
	runes := []rune(s)
	if len(runes) != 2 {
		return Card{}, fmt.Errorf("deck: malformed card %q", s)
	}

	var rank Rank
	switch runes[0] {
	case 'T':
		rank = Ten
	case 'J':
		rank = Jack
	case 'Q':
		rank = Queen
	case 'K':
		rank = King
	case 'A':
		rank = Ace
	default:
		if runes[0] < '2' || runes[0] > '9' {
			return Card{}, fmt.Errorf("deck: unknown rank in %q", s)
		}
		rank = Rank(runes[0] - '0')
	}

	var suit Suit
	switch runes[1] {
	case '♠', 's', 'S':
		suit = Spades
	case '♥', 'h', 'H':
		suit = Hearts
	case '♦', 'd', 'D':
		suit = Diamonds
	case '♣', 'c', 'C':
		suit = Clubs
	default:
		return Card{}, fmt.Errorf("deck: unknown suit in %q", s)
	}
	return Card{Rank: rank, Suit: suit}, nil
}

// ParseCards parses a slice of card strings, failing on the first bad one.
func ParseCards(ss []string) ([]Card, error) {
	cards := make([]Card, 0, len(ss))
	for _, s := range ss {
		c, err := ParseCard(s)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}
