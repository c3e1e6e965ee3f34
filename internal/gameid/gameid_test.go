package gameid

import (
	"math/rand"
	"testing"
	"time"
)

func TestGenerateIsValid(t *testing.T) {
	for i := 0; i < 100; i++ {
		id := New()
		if err := Validate(id); err != nil {
			t.Fatalf("generated invalid ID %q: %v", id, err)
		}
	}
}

func TestGenerateIsDeterministicWithSource(t *testing.T) {
	at := time.UnixMilli(1700000000000)
	mk := func() *Generator {
		g := NewGenerator(rand.New(rand.NewSource(5)))
		g.now = func() time.Time { return at }
		return g
	}
	if a, b := mk().Generate(), mk().Generate(); a != b {
		t.Errorf("same source and time produced %q and %q", a, b)
	}
}

func TestIDsSortByCreationTime(t *testing.T) {
	g := NewGenerator(rand.New(rand.NewSource(5)))
	ms := int64(1700000000000)
	g.now = func() time.Time { return time.UnixMilli(ms) }
	early := g.Generate()
	ms += 60_000
	late := g.Generate()
	if early >= late {
		t.Errorf("later ID %q does not sort after earlier %q", late, early)
	}
}

func TestUniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := New()
		if seen[id] {
			t.Fatalf("duplicate ID %q", id)
		}
		seen[id] = true
	}
}

func TestValidateRejectsMalformed(t *testing.T) {
	cases := []string{
		"",
		"short",
		"zzzzzzzzzzzzzzzzzzzzzzzzzz", // first char out of range
		"0123456789abcdefghjkmnpqr!", // bad character
		"0123456789abcdefghjkmnpqrstv", // too long
	}
	for _, id := range cases {
		if Validate(id) == nil {
			t.Errorf("Validate(%q) accepted malformed ID", id)
		}
	}
}
