package game

// Action is a player decision in a betting round.
type Action int

const (
	ActionFold Action = iota
	ActionCheck
	ActionCall
	ActionRaise
)

func (a Action) String() string {
	return [...]string{"fold", "check", "call", "raise"}[a]
}

// ParseAction converts a wire-format action name to an Action.
func ParseAction(s string) (Action, error) {
	switch s {
	case "fold":
		return ActionFold, nil
	case "check":
		return ActionCheck, nil
	case "call":
		return ActionCall, nil
	case "raise":
		return ActionRaise, nil
	default:
		return 0, ErrUnknownAction
	}
}
