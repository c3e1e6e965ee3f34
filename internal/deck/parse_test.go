package deck

import "testing"

func TestParseCard(t *testing.T) {
	cases := []struct {
		in   string
		want Card
	}{
		{"A♠", Card{Ace, Spades}},
		{"As", Card{Ace, Spades}},
		{"T♥", Card{Ten, Hearts}},
		{"Th", Card{Ten, Hearts}},
		{"2♣", Card{Two, Clubs}},
		{"9d", Card{Nine, Diamonds}},
		{"KC", Card{King, Clubs}},
	}
	for _, tc := range cases {
		got, err := ParseCard(tc.in)
		if err != nil {
			t.Errorf("ParseCard(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseCard(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseCardRoundTrip(t *testing.T) {
	for _, c := range All() {
		got, err := ParseCard(c.String())
		if err != nil {
			t.Fatalf("ParseCard(%q): %v", c, err)
		}
		if got != c {
			t.Fatalf("ParseCard(%q) = %v", c, got)
		}
	}
}

func TestParseCardRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "A", "1♠", "Ax", "AA♠", "♠A"} {
		if _, err := ParseCard(in); err == nil {
			t.Errorf("ParseCard(%q) accepted garbage", in)
		}
	}
}

func TestParseCards(t *testing.T) {
	cards, err := ParseCards([]string{"A♠", "K♦"})
	if err != nil {
		t.Fatal(err)
	}
	if len(cards) != 2 || cards[0] != (Card{Ace, Spades}) || cards[1] != (Card{King, Diamonds}) {
		t.Errorf("ParseCards = %v", cards)
	}
	if _, err := ParseCards([]string{"A♠", "??"}); err == nil {
		t.Error("ParseCards accepted a masked card")
	}
}
