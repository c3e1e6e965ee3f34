package bot

import (
	"math/rand"

	"github.com/cardroom/holdem/internal/deck"
	"github.com/cardroom/holdem/internal/game"
)

// Heuristic grades its hole cards without simulating: pairs and big cards
// raise, playable hands call when the price is right, and everything else
// folds unless a bluff fires. It never reads the board, so it plays the
// same preflop hand ranking on every street.
type Heuristic struct {
	difficulty Difficulty
	rng        *rand.Rand
}

// NewHeuristic returns a heuristic policy at the given difficulty.
func NewHeuristic(difficulty Difficulty, rng *rand.Rand) *Heuristic {
	return &Heuristic{difficulty: difficulty, rng: rng}
}

func (p *Heuristic) Decide(snap game.Snapshot, name string) Decision {
	if d, done := fallback(snap, name); done {
		return d
	}
	pv, _ := findPlayer(snap, name)
	hole, err := deck.ParseCards(pv.Hand)
	if err != nil || len(hole) != 2 {
		return checkOrFold(snap)
	}

	strength := holeStrength(hole[0], hole[1])
	switch {
	case strength >= 0.75:
		want := 2 * snap.CurrentBet
		if want == 0 {
			want = snap.Pot / 2
		}
		if raise, ok := clampRaise(snap, pv, want); ok {
			return Decision{Action: game.ActionRaise, RaiseAmount: raise}
		}
		return checkOrCall(snap)

	case strength >= 0.45:
		// Call only when the price is small relative to the pot.
		if snap.ToCall == 0 || (snap.Pot > 0 && float64(snap.ToCall) < 0.4*float64(snap.Pot)) {
			return checkOrCall(snap)
		}
		return Decision{Action: game.ActionFold}

	default:
		if p.rng.Float64() < p.difficulty.bluffChance() {
			if raise, ok := clampRaise(snap, pv, snap.Pot/2); ok {
				return Decision{Action: game.ActionRaise, RaiseAmount: raise}
			}
		}
		return checkOrFold(snap)
	}
}

// holeStrength grades two hole cards on [0, 1]. Pairs dominate, then high
// cards, with small bonuses for suitedness and connectedness.
func holeStrength(a, b deck.Card) float64 {
	hi, lo := a.Rank, b.Rank
	if lo > hi {
		hi, lo = lo, hi
	}

	if hi == lo {
		// 22 scores 0.60, aces 0.95.
		return 0.60 + 0.35*float64(hi-deck.Two)/float64(deck.Ace-deck.Two)
	}

	s := 0.50 * float64(hi+lo-2*deck.Two) / float64(2*(deck.Ace-deck.Two))
	if a.Suit == b.Suit {
		s += 0.08
	}
	if gap := int(hi - lo); gap <= 2 {
		s += 0.05
	}
	return s
}

func checkOrCall(snap game.Snapshot) Decision {
	if legal(snap, game.ActionCall) {
		return Decision{Action: game.ActionCall}
	}
	return Decision{Action: game.ActionCheck}
}

func checkOrFold(snap game.Snapshot) Decision {
	if legal(snap, game.ActionCheck) {
		return Decision{Action: game.ActionCheck}
	}
	return Decision{Action: game.ActionFold}
}
