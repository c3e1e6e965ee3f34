// Package bot implements decision policies for computer-controlled seats.
// Policies are pure functions of a game snapshot: they never touch the
// engine directly, so the session layer can run them outside the table lock.
package bot

import (
	"fmt"

	"github.com/cardroom/holdem/internal/game"
)

// Decision is the action a policy chose, with the raise size when raising.
type Decision struct {
	Action      game.Action
	RaiseAmount int
}

// Policy decides an action for the named player given a snapshot taken on
// that player's turn. Implementations degrade rather than fail: an empty
// legal-action list yields a check and an unrecognized name yields a fold,
// both of which the engine will reject or accept safely.
type Policy interface {
	Decide(snap game.Snapshot, name string) Decision
}

// Difficulty scales how speculative a policy plays.
type Difficulty int

const (
	Easy Difficulty = iota
	Medium
	Hard
)

func (d Difficulty) String() string {
	return [...]string{"easy", "medium", "hard"}[d]
}

// ParseDifficulty converts a wire-format difficulty name.
func ParseDifficulty(s string) (Difficulty, error) {
	switch s {
	case "easy":
		return Easy, nil
	case "medium":
		return Medium, nil
	case "hard":
		return Hard, nil
	default:
		return 0, fmt.Errorf("bot: unknown difficulty %q", s)
	}
}

// bluffChance is the probability of raising a hand the policy would
// otherwise give up on.
func (d Difficulty) bluffChance() float64 {
	return [...]float64{0.05, 0.10, 0.20}[d]
}

// trials is the Monte Carlo budget for equity-driven policies.
func (d Difficulty) trials() int {
	return [...]int{500, 1500, 3000}[d]
}

func legal(snap game.Snapshot, a game.Action) bool {
	for _, s := range snap.LegalActions {
		if s == a.String() {
			return true
		}
	}
	return false
}

// fallback covers the degraded cases shared by every policy.
func fallback(snap game.Snapshot, name string) (Decision, bool) {
	if len(snap.LegalActions) == 0 {
		return Decision{Action: game.ActionCheck}, true
	}
	for _, pv := range snap.Players {
		if pv.Name == name {
			return Decision{}, false
		}
	}
	return Decision{Action: game.ActionFold}, true
}

func findPlayer(snap game.Snapshot, name string) (game.PlayerView, bool) {
	for _, pv := range snap.Players {
		if pv.Name == name {
			return pv, true
		}
	}
	return game.PlayerView{}, false
}

// clampRaise bounds a desired raise to what the stack covers after the
// call, reporting false when no legal raise exists.
func clampRaise(snap game.Snapshot, pv game.PlayerView, want int) (int, bool) {
	if !legal(snap, game.ActionRaise) {
		return 0, false
	}
	margin := pv.Chips - snap.ToCall
	if margin <= 0 {
		return 0, false
	}
	if want > margin {
		want = margin
	}
	if want < 1 {
		want = min(margin, 1)
	}
	return want, true
}
