package engine

import "github.com/cardroom/holdemd/internal/deck"

// SeatView is the public per-seat state carried on a snapshot. Hole cards
// are present only when the snapshot is personalized for that seat (or it
// is the admin god view).
type SeatView struct {
	ID        int      `json:"id"`
	Name      string   `json:"name"`
	Chips     int      `json:"chips"`
	RoundBet  int      `json:"roundBet"`
	Role      string   `json:"role,omitempty"`
	Folded    bool     `json:"folded"`
	AllIn     bool     `json:"allIn"`
	HoleCards []string `json:"holeCards,omitempty"`
}

// ActionOption carries the parameters of one legal action: the call cost,
// or the bet/raise amount range.
type ActionOption struct {
	Amount int `json:"amount,omitempty"`
	Min    int `json:"min,omitempty"`
	Max    int `json:"max,omitempty"`
}

// WinnerView is one entry of the winners list after a hand concludes
type WinnerView struct {
	Seat     int    `json:"seat"`
	Amount   int    `json:"amount"`
	Category string `json:"category,omitempty"`
}

// Snapshot is the authoritative view of the table that gets fanned out to
// subscribers after every state change.
type Snapshot struct {
	Phase      string                  `json:"phase,omitempty"`
	Community  []string                `json:"community"`
	Pot        int                     `json:"pot"`
	HighBet    int                     `json:"highBet"`
	Dealer     int                     `json:"dealer"`
	SmallBlind int                     `json:"smallBlind"`
	BigBlind   int                     `json:"bigBlind"`
	ToAct      int                     `json:"toAct"`
	Seats      []SeatView              `json:"seats"`
	Actions    map[string]ActionOption `json:"actions,omitempty"`
	Winners    []WinnerView            `json:"winners,omitempty"`
	Message    string                  `json:"message,omitempty"`
}

// Snapshot builds the view personalized for the given seat; pass -1 for a
// spectator view. It is a pure read and never mutates engine state.
func (e *Engine) Snapshot(viewer int) *Snapshot {
	return e.snapshot(viewer, false)
}

// GodSnapshot builds the admin view with every hole card revealed
func (e *Engine) GodSnapshot() *Snapshot {
	return e.snapshot(e.toAct, true)
}

func (e *Engine) snapshot(viewer int, revealAll bool) *Snapshot {
	snap := &Snapshot{
		Phase:      e.phase.String(),
		Community:  deck.Strings(e.community),
		Pot:        e.PotTotal(),
		HighBet:    e.highBet,
		Dealer:     e.dealer,
		SmallBlind: e.sbSeat,
		BigBlind:   e.bbSeat,
		ToAct:      e.toAct,
		Message:    e.message,
	}

	for _, s := range e.seats {
		if s == nil || s.Removed {
			continue
		}
		view := SeatView{
			ID:       s.Index,
			Name:     s.Name,
			Chips:    s.Chips,
			RoundBet: s.RoundBet,
			Role:     s.Role.String(),
			Folded:   s.Folded,
			AllIn:    s.AllIn,
		}
		if revealAll || s.Index == viewer {
			view.HoleCards = deck.Strings(s.Hole)
		}
		snap.Seats = append(snap.Seats, view)
	}

	if viewer >= 0 && viewer == e.toAct {
		legal := e.LegalActions(viewer)
		if len(legal) > 0 {
			snap.Actions = make(map[string]ActionOption, len(legal))
			for _, la := range legal {
				snap.Actions[la.Type.String()] = ActionOption{
					Amount: la.Amount,
					Min:    la.Min,
					Max:    la.Max,
				}
			}
		}
	}

	if e.phase == PhaseShowdown {
		for _, w := range e.winners {
			snap.Winners = append(snap.Winners, WinnerView{
				Seat:     w.Seat,
				Amount:   w.Amount,
				Category: w.Category,
			})
		}
	}

	return snap
}
