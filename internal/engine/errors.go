package engine

import (
	"errors"
	"fmt"
)

// Engine errors form a small closed set. The transport layer maps these to
// user-visible failure codes but never invents its own.
var (
	ErrTableFull           = errors.New("table is full")
	ErrUnknownSeat         = errors.New("unknown seat")
	ErrInsufficientPlayers = errors.New("need at least 2 seats with chips")
	ErrNotYourTurn         = errors.New("not your turn to act")
	ErrWrongPhase          = errors.New("action not allowed in current phase")
)

// IllegalReason identifies why an action violated the betting rules
type IllegalReason string

const (
	CheckWithBetOutstanding IllegalReason = "check_with_bet_outstanding"
	CallWithNoBet           IllegalReason = "call_with_no_bet"
	BetWhileBetOutstanding  IllegalReason = "bet_while_bet_outstanding"
	BetBelowBigBlind        IllegalReason = "bet_below_big_blind"
	RaiseWithNoBet          IllegalReason = "raise_with_no_bet"
	RaiseBelowMinimum       IllegalReason = "raise_below_minimum"
	RaiseNotReopened        IllegalReason = "raise_not_reopened"
	AmountExceedsStack      IllegalReason = "amount_exceeds_stack"
	ActionRequiresChips     IllegalReason = "action_requires_chips"
)

// IllegalActionError reports an action that violates the betting rules.
// It carries a machine-readable reason code.
type IllegalActionError struct {
	Action ActionType
	Reason IllegalReason
}

func (e *IllegalActionError) Error() string {
	return fmt.Sprintf("illegal action %s: %s", e.Action, e.Reason)
}

func illegal(action ActionType, reason IllegalReason) error {
	return &IllegalActionError{Action: action, Reason: reason}
}
