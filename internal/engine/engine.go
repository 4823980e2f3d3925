// Package engine implements the per-table Texas Hold'em rules core: the
// state machine that drives a hand from blinds through showdown, enforces
// betting legality, manages main and side pots, and evaluates showdowns.
//
// The engine does no I/O and is not safe for concurrent use; the table
// actor serializes all access to it.
package engine

import (
	rand "math/rand/v2"

	"github.com/cardroom/holdemd/internal/deck"
)

// Phase is the stage of the current hand
type Phase int

const (
	PhaseNone Phase = iota
	PhasePreFlop
	PhaseFlop
	PhaseTurn
	PhaseRiver
	PhaseShowdown
)

// String returns the wire name of the phase; PhaseNone is the empty string
// (no hand in progress).
func (p Phase) String() string {
	switch p {
	case PhasePreFlop:
		return "pre_flop"
	case PhaseFlop:
		return "flop"
	case PhaseTurn:
		return "turn"
	case PhaseRiver:
		return "river"
	case PhaseShowdown:
		return "showdown"
	default:
		return ""
	}
}

// Config holds the fixed parameters of a table
type Config struct {
	SmallBlind int
	BigBlind   int
	Ante       int
	MaxSeats   int
}

// Engine is the rules core for a single table
type Engine struct {
	cfg  Config
	rng  *rand.Rand
	deck *deck.Deck

	// rigged is set when a test installed a stacked deck for the next hand
	rigged bool

	// seats indexed by seat number; removed seats leave a nil hole so
	// indices are never reused.
	seats []*Seat

	phase     Phase
	community []deck.Card
	pots      []Pot
	potsPaid  bool

	highBet       int
	minRaiseDelta int
	toAct         int
	dealer        int
	sbSeat        int
	bbSeat        int
	handNum       int

	winners []Winner
	message string
}

// Option configures an Engine at creation
type Option func(*Engine)

// WithRNG injects the randomness source used for shuffling. Required for
// deterministic deals in tests.
func WithRNG(rng *rand.Rand) Option {
	return func(e *Engine) {
		e.rng = rng
		e.deck = deck.New(rng)
	}
}

// WithDeck installs a stacked deck consumed as-is by the next StartHand.
func WithDeck(d *deck.Deck) Option {
	return func(e *Engine) {
		e.deck = d
		e.rigged = true
	}
}

// New creates an engine for a table with the given configuration
func New(cfg Config, opts ...Option) *Engine {
	e := &Engine{
		cfg:    cfg,
		deck:   deck.New(nil),
		phase:  PhaseNone,
		toAct:  -1,
		dealer: -1,
		sbSeat: -1,
		bbSeat: -1,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetDeck installs a stacked deck for the next StartHand. Test hook.
func (e *Engine) SetDeck(d *deck.Deck) {
	e.deck = d
	e.rigged = true
}

// Config returns the table configuration
func (e *Engine) Config() Config { return e.cfg }

// Phase returns the current phase
func (e *Engine) Phase() Phase { return e.phase }

// ToAct returns the seat index awaiting action, or -1
func (e *Engine) ToAct() int { return e.toAct }

// HandNum returns the number of hands started
func (e *Engine) HandNum() int { return e.handNum }

// Seat returns the seat at the given index, or nil
func (e *Engine) Seat(idx int) *Seat {
	if idx < 0 || idx >= len(e.seats) {
		return nil
	}
	s := e.seats[idx]
	if s != nil && s.Removed {
		return nil
	}
	return s
}

// SeatCount returns the number of occupied seats
func (e *Engine) SeatCount() int {
	n := 0
	for _, s := range e.seats {
		if s != nil && !s.Removed {
			n++
		}
	}
	return n
}

// Pots returns the current pot chain
func (e *Engine) Pots() []Pot { return e.pots }

// AddSeat seats a new player and returns the assigned seat index
func (e *Engine) AddSeat(name string, chips int) (int, error) {
	if e.SeatCount() >= e.cfg.MaxSeats {
		return 0, ErrTableFull
	}
	idx := len(e.seats)
	e.seats = append(e.seats, &Seat{Index: idx, Name: name, Chips: chips})
	return idx, nil
}

// RemoveSeat removes a player. If the seat is part of the current hand it
// is folded and kept in place as dead money until the hand ends; otherwise
// it vacates immediately. Either way the index is never reused.
func (e *Engine) RemoveSeat(idx int) error {
	s := e.Seat(idx)
	if s == nil {
		return ErrUnknownSeat
	}
	if s.InHand && e.inBettingPhase() {
		s.Removed = true
		if s.live() {
			e.forceFold(s)
		}
		return nil
	}
	e.seats[idx] = nil
	return nil
}

func (e *Engine) inBettingPhase() bool {
	switch e.phase {
	case PhasePreFlop, PhaseFlop, PhaseTurn, PhaseRiver:
		return true
	}
	return false
}

// fundedCount counts seats able to play the next hand
func (e *Engine) fundedCount() int {
	n := 0
	for _, s := range e.seats {
		if s != nil && !s.Removed && s.Chips > 0 {
			n++
		}
	}
	return n
}

// nextSeat steps clockwise from (not including) idx to the next seat
// accepted by ok, wrapping around. Returns -1 if none matches.
func (e *Engine) nextSeat(idx int, ok func(*Seat) bool) int {
	n := len(e.seats)
	if n == 0 {
		return -1
	}
	for i := 1; i <= n; i++ {
		pos := ((idx + i) % n + n) % n
		if s := e.seats[pos]; s != nil && ok(s) {
			return pos
		}
	}
	return -1
}

func funded(s *Seat) bool { return !s.Removed && s.Chips > 0 }

// StartHand begins a new hand: shuffles, advances the button, posts antes
// and blinds, deals hole cards, and opens pre-flop betting.
func (e *Engine) StartHand() error {
	if e.inBettingPhase() {
		return ErrWrongPhase
	}

	// Sweep seats whose players left during the previous hand
	for i, s := range e.seats {
		if s != nil && s.Removed {
			e.seats[i] = nil
		}
	}

	if e.fundedCount() < 2 {
		return ErrInsufficientPlayers
	}

	if e.rigged {
		e.rigged = false
	} else {
		e.deck.Reset()
		e.deck.Shuffle()
	}

	e.community = nil
	e.pots = nil
	e.potsPaid = false
	e.winners = nil
	e.message = ""
	for _, s := range e.seats {
		if s == nil {
			continue
		}
		s.resetForHand()
		if s.Chips > 0 {
			s.InHand = true
		}
	}

	// Advance the button, skipping broke seats
	if e.handNum == 0 {
		if s := e.Seat(0); s != nil && s.Chips > 0 {
			e.dealer = 0
		} else {
			e.dealer = e.nextSeat(0, funded)
		}
	} else {
		e.dealer = e.nextSeat(e.dealer, funded)
	}

	headsUp := e.fundedCount() == 2
	if headsUp {
		// Heads-up the dealer posts the small blind
		e.sbSeat = e.dealer
		e.bbSeat = e.nextSeat(e.dealer, funded)
	} else {
		e.sbSeat = e.nextSeat(e.dealer, funded)
		e.bbSeat = e.nextSeat(e.sbSeat, funded)
	}
	// Heads-up the button's role reads as the small blind; snapshots still
	// identify the button through the dealer index.
	e.seats[e.dealer].Role = RoleDealer
	e.seats[e.sbSeat].Role = RoleSmallBlind
	e.seats[e.bbSeat].Role = RoleBigBlind

	// Antes are dead money: they count toward the hand total but not the
	// current round bet.
	if e.cfg.Ante > 0 {
		for _, s := range e.seats {
			if s == nil || !s.InHand {
				continue
			}
			ante := min(e.cfg.Ante, s.Chips)
			s.Chips -= ante
			s.HandBet += ante
			if s.Chips == 0 {
				s.AllIn = true
			}
		}
	}

	// Forced blinds, capped at the stack. A short post still counts for
	// turn-order purposes.
	sb := e.seats[e.sbSeat]
	sb.pay(min(e.cfg.SmallBlind, sb.Chips))
	bb := e.seats[e.bbSeat]
	bb.pay(min(e.cfg.BigBlind, bb.Chips))

	// Two hole cards per seat, dealt in seat order
	for _, s := range e.seats {
		if s == nil || !s.InHand {
			continue
		}
		cards, err := e.deck.DrawN(2)
		if err != nil {
			return err
		}
		s.Hole = cards
	}

	e.highBet = e.cfg.BigBlind
	e.minRaiseDelta = e.cfg.BigBlind
	e.phase = PhasePreFlop
	e.handNum++

	if headsUp {
		e.toAct = e.sbSeat
	} else {
		e.toAct = e.nextSeat(e.bbSeat, (*Seat).actionable)
	}
	if !e.Seat(e.toAct).actionable() {
		e.toAct = -1
	}

	// Blinds and antes can leave nobody able to act: run the board out.
	if e.toAct == -1 || e.roundComplete() {
		e.closeRound()
	}

	return nil
}
