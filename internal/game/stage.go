package game

// Stage is the phase of a hand. Hands begin in the lobby, move through the
// four betting streets, and end at showdown (or earlier on a fold-out).
type Stage int

const (
	StageLobby Stage = iota
	StagePreflop
	StageFlop
	StageTurn
	StageRiver
	StageShowdown
)

func (s Stage) String() string {
	return [...]string{"lobby", "preflop", "flop", "turn", "river", "showdown"}[s]
}
