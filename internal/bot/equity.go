package bot

import (
	"math/rand"

	"github.com/cardroom/holdem/internal/deck"
	"github.com/cardroom/holdem/internal/equity"
	"github.com/cardroom/holdem/internal/game"
)

// EstimateFunc computes win probability for a hand. Matches the signature
// of equity.Estimate; tests substitute a canned function.
type EstimateFunc func(hole, community []deck.Card, opponents, trials int, rng *rand.Rand) float64

// equityRaises are the raise sizes a strong hand picks between.
var equityRaises = []int{30, 70, 150}

// Equity runs a Monte Carlo estimate of its winning chances each turn and
// bets in three bands: strong hands raise, medium hands call a fair price,
// weak hands check or fold with an occasional difficulty-scaled bluff.
type Equity struct {
	difficulty Difficulty
	rng        *rand.Rand
	estimate   EstimateFunc
}

// NewEquity returns an equity-driven policy at the given difficulty.
func NewEquity(difficulty Difficulty, rng *rand.Rand) *Equity {
	return &Equity{
		difficulty: difficulty,
		rng:        rng,
		estimate:   equity.Estimate,
	}
}

func (p *Equity) Decide(snap game.Snapshot, name string) Decision {
	if d, done := fallback(snap, name); done {
		return d
	}
	pv, _ := findPlayer(snap, name)
	hole, err := deck.ParseCards(pv.Hand)
	if err != nil || len(hole) != 2 {
		return checkOrFold(snap)
	}
	community, err := deck.ParseCards(snap.CommunityCards)
	if err != nil {
		return checkOrFold(snap)
	}

	opponents := 0
	for _, other := range snap.Players {
		if other.Seated && !other.Folded && other.Name != name {
			opponents++
		}
	}

	win := p.estimate(hole, community, opponents, p.difficulty.trials(), p.rng)

	switch {
	case win > 0.70:
		if raise, ok := p.raiseSize(snap, pv); ok {
			return Decision{Action: game.ActionRaise, RaiseAmount: raise}
		}
		return checkOrCall(snap)

	case win >= 0.45:
		if snap.ToCall == 0 {
			return Decision{Action: game.ActionCheck}
		}
		if snap.Pot > 0 && float64(snap.ToCall) < 0.4*float64(snap.Pot) {
			return Decision{Action: game.ActionCall}
		}
		return Decision{Action: game.ActionFold}

	default:
		if p.rng.Float64() < p.difficulty.bluffChance() {
			if raise, ok := p.raiseSize(snap, pv); ok {
				return Decision{Action: game.ActionRaise, RaiseAmount: raise}
			}
		}
		return checkOrFold(snap)
	}
}

// raiseSize picks a raise the stack can actually cover.
func (p *Equity) raiseSize(snap game.Snapshot, pv game.PlayerView) (int, bool) {
	return clampRaise(snap, pv, equityRaises[p.rng.Intn(len(equityRaises))])
}
