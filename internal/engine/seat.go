package engine

import "github.com/cardroom/holdemd/internal/deck"

// Role is the positional role a seat holds for the current hand
type Role int

const (
	RoleNone Role = iota
	RoleDealer
	RoleSmallBlind
	RoleBigBlind
)

// String returns the wire name of the role
func (r Role) String() string {
	switch r {
	case RoleDealer:
		return "dealer"
	case RoleSmallBlind:
		return "small_blind"
	case RoleBigBlind:
		return "big_blind"
	default:
		return ""
	}
}

// Seat represents a participant at the table. Seats are created on join and
// persist across hands; the index is stable and never reused.
type Seat struct {
	Index int
	Name  string
	Chips int

	// Removed marks a seat whose player left mid-hand. It stays in place
	// until the hand ends so its contributions remain in the pot, then is
	// swept at the next StartHand.
	Removed bool

	// Per-hand state, reset at StartHand
	Hole     []deck.Card
	InHand   bool // dealt into the current hand
	Folded   bool
	AllIn    bool
	Acted    bool // has acted this betting round
	RoundBet int  // contribution this betting round
	HandBet  int  // contribution this hand (includes antes and blinds)
	Role     Role
}

// resetForHand clears per-hand state. Chips are only changed by play or
// game-external admin action.
func (s *Seat) resetForHand() {
	s.Hole = nil
	s.InHand = false
	s.Folded = false
	s.AllIn = false
	s.Acted = false
	s.RoundBet = 0
	s.HandBet = 0
	s.Role = RoleNone
}

// actionable reports whether the seat can still act this round
func (s *Seat) actionable() bool {
	return s != nil && s.InHand && !s.Folded && !s.AllIn
}

// live reports whether the seat is still contesting the hand
func (s *Seat) live() bool {
	return s != nil && s.InHand && !s.Folded
}

// pay moves chips from the stack into the current round and hand totals,
// flagging all-in when the stack empties. The amount must not exceed Chips.
func (s *Seat) pay(amount int) {
	s.Chips -= amount
	s.RoundBet += amount
	s.HandBet += amount
	if s.Chips == 0 {
		s.AllIn = true
	}
}
