package bot

import (
	"math/rand"

	"github.com/cardroom/holdem/internal/game"
)

// randomRaises are the raise sizes a random policy picks between.
var randomRaises = []int{30, 40, 50}

// Random plays without looking at its cards: it raises a quarter of the
// time, folds to a bet a tenth of the time, and otherwise checks or calls.
// Useful as a baseline opponent and for exercising the engine in tests.
type Random struct {
	rng *rand.Rand
}

// NewRandom returns a random policy driven by rng.
func NewRandom(rng *rand.Rand) *Random {
	return &Random{rng: rng}
}

func (p *Random) Decide(snap game.Snapshot, name string) Decision {
	if d, done := fallback(snap, name); done {
		return d
	}

	if p.rng.Float64() < 0.25 {
		pv, _ := findPlayer(snap, name)
		want := randomRaises[p.rng.Intn(len(randomRaises))]
		if raise, ok := clampRaise(snap, pv, want); ok {
			return Decision{Action: game.ActionRaise, RaiseAmount: raise}
		}
	}
	if legal(snap, game.ActionCall) {
		if p.rng.Float64() < 0.10 {
			return Decision{Action: game.ActionFold}
		}
		return Decision{Action: game.ActionCall}
	}
	return Decision{Action: game.ActionCheck}
}
