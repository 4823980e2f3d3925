package engine

// LegalActions returns the structured set of actions available to the given
// seat, or nil when the seat is not to act.
//
// A raise is only offered to a seat that has not yet acted this round: a
// short all-in that fails to match the last raise increment pushes the high
// bet up without re-opening the action (seats that already acted may only
// fold, call, or shove).
func (e *Engine) LegalActions(idx int) []LegalAction {
	s := e.Seat(idx)
	if s == nil || !e.inBettingPhase() || idx != e.toAct || !s.actionable() {
		return nil
	}

	h, r, c := e.highBet, s.RoundBet, s.Chips
	actions := []LegalAction{{Type: Fold}}

	if h == r {
		actions = append(actions, LegalAction{Type: Check})
	} else {
		actions = append(actions, LegalAction{Type: Call, Amount: min(c, h-r)})
	}

	if h == 0 {
		if c >= e.cfg.BigBlind {
			actions = append(actions, LegalAction{Type: Bet, Min: e.cfg.BigBlind, Max: c})
		}
	} else if !s.Acted && c+r >= h+e.minRaiseDelta {
		actions = append(actions, LegalAction{Type: Raise, Min: h + e.minRaiseDelta, Max: c + r})
	}

	if c > 0 {
		actions = append(actions, LegalAction{Type: AllIn, Amount: c})
	}

	return actions
}

// Act validates and applies an action for the given seat. A rejected action
// leaves the engine state untouched and does not consume the turn.
func (e *Engine) Act(idx int, a Action) error {
	if !e.inBettingPhase() {
		return ErrWrongPhase
	}
	s := e.Seat(idx)
	if s == nil {
		return ErrUnknownSeat
	}
	if idx != e.toAct {
		return ErrNotYourTurn
	}

	h, r, c := e.highBet, s.RoundBet, s.Chips

	// Validate fully before mutating anything
	switch a.Type {
	case Fold:
	case Check:
		if h != r {
			return illegal(Check, CheckWithBetOutstanding)
		}
	case Call:
		if h == r {
			return illegal(Call, CallWithNoBet)
		}
	case Bet:
		if h != 0 {
			return illegal(Bet, BetWhileBetOutstanding)
		}
		if a.Amount > c {
			return illegal(Bet, AmountExceedsStack)
		}
		if a.Amount < e.cfg.BigBlind {
			return illegal(Bet, BetBelowBigBlind)
		}
	case Raise:
		if h == 0 {
			return illegal(Raise, RaiseWithNoBet)
		}
		if s.Acted {
			return illegal(Raise, RaiseNotReopened)
		}
		if a.Amount > c+r {
			return illegal(Raise, AmountExceedsStack)
		}
		if a.Amount < h+e.minRaiseDelta {
			return illegal(Raise, RaiseBelowMinimum)
		}
	case AllIn:
		if c == 0 {
			return illegal(AllIn, ActionRequiresChips)
		}
	}

	switch a.Type {
	case Fold:
		s.Folded = true

	case Check:

	case Call:
		s.pay(min(c, h-r))

	case Bet:
		s.pay(a.Amount)
		e.highBet = a.Amount
		e.minRaiseDelta = a.Amount
		e.reopen(idx)

	case Raise:
		delta := a.Amount - h
		s.pay(a.Amount - r)
		e.highBet = a.Amount
		e.minRaiseDelta = delta
		e.reopen(idx)

	case AllIn:
		s.pay(c)
		if s.RoundBet > e.highBet {
			delta := s.RoundBet - e.highBet
			e.highBet = s.RoundBet
			// A short shove raises the price to call but only re-opens
			// the round when it amounts to a full raise.
			if delta >= e.minRaiseDelta {
				e.minRaiseDelta = delta
				e.reopen(idx)
			}
		}
	}

	s.Acted = true
	e.advance(idx)
	return nil
}

// reopen clears the acted flag on every other seat still able to act
func (e *Engine) reopen(aggressor int) {
	for _, s := range e.seats {
		if s.actionable() && s.Index != aggressor {
			s.Acted = false
		}
	}
}

// forceFold folds a seat out of turn (disconnect, removal). The fold is
// applied directly rather than through Act so it works regardless of whose
// turn it is.
func (e *Engine) forceFold(s *Seat) {
	s.Folded = true
	s.Acted = true

	switch {
	case e.toAct == s.Index:
		e.advance(s.Index)
	case e.liveCount() <= 1:
		e.endByFold()
	case e.roundComplete():
		e.closeRound()
	}
}

// liveCount counts seats still contesting the hand
func (e *Engine) liveCount() int {
	n := 0
	for _, s := range e.seats {
		if s.live() {
			n++
		}
	}
	return n
}

// roundComplete reports whether the betting round is finished: every seat
// that can still act has acted and matched the high bet. Zero actionable
// seats also completes the round (the board runs out).
func (e *Engine) roundComplete() bool {
	for _, s := range e.seats {
		if s.actionable() && (!s.Acted || s.RoundBet != e.highBet) {
			return false
		}
	}
	return true
}

// advance moves the turn on after seat `from` acted, closing the round or
// ending the hand as needed.
func (e *Engine) advance(from int) {
	if e.liveCount() <= 1 {
		e.endByFold()
		return
	}
	if e.roundComplete() {
		e.closeRound()
		return
	}
	e.toAct = e.nextSeat(from, (*Seat).actionable)
}

// closeRound recomputes side pots, resets per-round state and deals the
// next street. With nobody left to act the remaining streets run out.
func (e *Engine) closeRound() {
	e.pots = e.computePots()
	for _, s := range e.seats {
		if s != nil && s.InHand {
			s.RoundBet = 0
			s.Acted = false
		}
	}
	e.highBet = 0
	e.minRaiseDelta = e.cfg.BigBlind

	switch e.phase {
	case PhasePreFlop:
		e.burnAndDeal(3)
		e.phase = PhaseFlop
	case PhaseFlop:
		e.burnAndDeal(1)
		e.phase = PhaseTurn
	case PhaseTurn:
		e.burnAndDeal(1)
		e.phase = PhaseRiver
	case PhaseRiver:
		e.phase = PhaseShowdown
		e.toAct = -1
		e.distribute()
		return
	}

	e.toAct = e.nextSeat(e.dealer, (*Seat).actionable)
	if e.toAct == -1 {
		e.closeRound()
	}
}

// burnAndDeal burns one card and deals n to the community
func (e *Engine) burnAndDeal(n int) {
	if _, err := e.deck.Draw(); err != nil {
		panic("deck exhausted mid-hand")
	}
	cards, err := e.deck.DrawN(n)
	if err != nil {
		panic("deck exhausted mid-hand")
	}
	e.community = append(e.community, cards...)
}
