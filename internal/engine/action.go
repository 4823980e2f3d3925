package engine

import "fmt"

// ActionType is the closed set of player actions. On-wire strings map to
// this set at the transport boundary only.
type ActionType int

const (
	Fold ActionType = iota
	Check
	Call
	Bet
	Raise
	AllIn
)

// String returns the wire name of the action
func (a ActionType) String() string {
	switch a {
	case Fold:
		return "fold"
	case Check:
		return "check"
	case Call:
		return "call"
	case Bet:
		return "bet"
	case Raise:
		return "raise"
	case AllIn:
		return "all_in"
	default:
		return "unknown"
	}
}

// ParseActionType maps a wire name back to an ActionType
func ParseActionType(s string) (ActionType, error) {
	switch s {
	case "fold":
		return Fold, nil
	case "check":
		return Check, nil
	case "call":
		return Call, nil
	case "bet":
		return Bet, nil
	case "raise":
		return Raise, nil
	case "all_in", "allin":
		return AllIn, nil
	default:
		return 0, fmt.Errorf("invalid action %q", s)
	}
}

// Action is a player action with its amount. Amount is meaningful for Bet
// (the bet size) and Raise (the raise-to total); other actions ignore it.
type Action struct {
	Type   ActionType
	Amount int
}

// LegalAction describes one available action and its parameters: the call
// cost for Call, the amount range for Bet and Raise, the stack for AllIn.
type LegalAction struct {
	Type   ActionType
	Amount int
	Min    int
	Max    int
}
