// Package equity approximates win probability by Monte Carlo simulation.
//
// The estimator is pure over its inputs and randomized: callers pass the RNG,
// and tests assert statistical bounds rather than exact values.
package equity

import (
	"math/rand"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/cardroom/holdem/internal/deck"
	"github.com/cardroom/holdem/internal/evaluator"
)

// parallelThreshold is the trial count above which Estimate fans out
// across workers.
const parallelThreshold = 2000

// Estimate approximates the probability that hole+community ends up as the
// best hand at showdown against opponents random hands, using the given
// number of simulated deals. Ties count as wins: the caller only needs a
// "did not lose" signal, not a split-pot calculation.
//
// Degenerate inputs return conservative sentinels rather than failing:
// no hole cards yields 0 (a caller should never ask with an empty hand),
// and a working deck too small to complete the board yields 0.5.
func Estimate(hole, community []deck.Card, opponents, trials int, rng *rand.Rand) float64 {
	if trials >= parallelThreshold {
		return EstimateParallel(hole, community, opponents, trials, rng)
	}
	wins := simulate(hole, community, opponents, trials, rng)
	return finish(hole, community, wins, trials)
}

// EstimateParallel splits the trials across a worker per CPU, each with an
// independently seeded RNG, and merges the win counts.
func EstimateParallel(hole, community []deck.Card, opponents, trials int, rng *rand.Rand) float64 {
	workers := runtime.NumCPU()
	if workers > 8 {
		workers = 8
	}
	if workers < 1 || trials < workers {
		workers = 1
	}

	counts := make([]int, workers)
	var g errgroup.Group
	for w := 0; w < workers; w++ {
		share := trials / workers
		if w < trials%workers {
			share++
		}
		seed := rng.Int63()
		g.Go(func() error {
			wrng := rand.New(rand.NewSource(seed))
			counts[w] = simulate(hole, community, opponents, share, wrng)
			return nil
		})
	}
	_ = g.Wait() // workers never error

	wins := 0
	for _, c := range counts {
		wins += c
	}
	return finish(hole, community, wins, trials)
}

// finish turns a win count into a probability, applying the degenerate-input
// sentinels that simulate signals by returning -1.
func finish(hole, community []deck.Card, wins, trials int) float64 {
	switch {
	case len(hole) == 0 || trials <= 0:
		return 0
	case wins < 0:
		return 0.5
	default:
		return float64(wins) / float64(trials)
	}
}

// simulate runs the trials and returns the win count, or -1 when the unseen
// portion of the deck cannot complete a board.
func simulate(hole, community []deck.Card, opponents, trials int, rng *rand.Rand) int {
	if len(hole) == 0 || trials <= 0 {
		return 0
	}

	known := make([]deck.Card, 0, len(hole)+len(community))
	known = append(known, hole...)
	known = append(known, community...)
	unseen := deck.Without(known).Cards()

	need := 5 - len(community)
	if need < 0 {
		need = 0
	}
	if len(unseen) < need {
		return -1
	}

	working := make([]deck.Card, len(unseen))
	board := make([]deck.Card, 0, 5)
	ours := make([]deck.Card, 0, 7)
	theirs := make([]deck.Card, 0, 7)

	wins := 0
	for t := 0; t < trials; t++ {
		copy(working, unseen)
		rng.Shuffle(len(working), func(i, j int) {
			working[i], working[j] = working[j], working[i]
		})
		next := 0

		board = append(board[:0], community...)
		for len(board) < 5 {
			board = append(board, working[next])
			next++
		}

		ourScore, _, err := evaluator.Evaluate(append(append(ours[:0], hole...), board...))
		if err != nil {
			continue
		}

		won := true
		for o := 0; o < opponents; o++ {
			// Skip opponents once the deck runs dry rather than
			// discarding the whole trial.
			if next+2 > len(working) {
				break
			}
			oppHole := working[next : next+2]
			next += 2

			oppScore, _, err := evaluator.Evaluate(append(append(theirs[:0], oppHole...), board...))
			if err != nil {
				continue
			}
			if oppScore.Compare(ourScore) > 0 {
				won = false
				break
			}
		}
		if won {
			wins++
		}
	}
	return wins
}
