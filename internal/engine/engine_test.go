package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardroom/holdemd/internal/deck"
	"github.com/cardroom/holdemd/internal/randutil"
)

// newTestEngine seats one player per stack and returns the engine
func newTestEngine(t *testing.T, cfg Config, stacks ...int) *Engine {
	t.Helper()
	e := New(cfg, WithRNG(randutil.New(1)))
	for i, chips := range stacks {
		idx, err := e.AddSeat(string(rune('A'+i)), chips)
		require.NoError(t, err)
		require.Equal(t, i, idx)
	}
	return e
}

// stack builds a rigged deck from card text forms
func stack(t *testing.T, cards ...string) *deck.Deck {
	t.Helper()
	parsed, err := deck.ParseAll(cards...)
	require.NoError(t, err)
	return deck.NewStacked(parsed...)
}

// totalChips sums stacks plus outstanding pot money
func totalChips(e *Engine) int {
	total := e.PotTotal()
	for _, s := range e.seats {
		if s != nil {
			total += s.Chips
		}
	}
	return total
}

func TestAddSeatAssignsStableIndices(t *testing.T) {
	e := newTestEngine(t, Config{SmallBlind: 5, BigBlind: 10, MaxSeats: 4}, 100, 100)

	require.NoError(t, e.RemoveSeat(0))
	assert.Nil(t, e.Seat(0))

	// A new join takes a fresh index, never the vacated one
	idx, err := e.AddSeat("C", 100)
	require.NoError(t, err)
	assert.Equal(t, 2, idx)
	assert.Equal(t, 2, e.SeatCount())
}

func TestAddSeatTableFull(t *testing.T) {
	e := newTestEngine(t, Config{SmallBlind: 5, BigBlind: 10, MaxSeats: 2}, 100, 100)
	_, err := e.AddSeat("C", 100)
	assert.ErrorIs(t, err, ErrTableFull)
}

func TestRemoveUnknownSeat(t *testing.T) {
	e := newTestEngine(t, Config{SmallBlind: 5, BigBlind: 10, MaxSeats: 4}, 100)
	assert.ErrorIs(t, e.RemoveSeat(3), ErrUnknownSeat)
	assert.ErrorIs(t, e.RemoveSeat(-1), ErrUnknownSeat)
}

func TestStartHandNeedsTwoFundedSeats(t *testing.T) {
	e := newTestEngine(t, Config{SmallBlind: 5, BigBlind: 10, MaxSeats: 4}, 100)
	assert.ErrorIs(t, e.StartHand(), ErrInsufficientPlayers)

	// A broke seat does not count
	_, err := e.AddSeat("B", 0)
	require.NoError(t, err)
	assert.ErrorIs(t, e.StartHand(), ErrInsufficientPlayers)

	_, err = e.AddSeat("C", 100)
	require.NoError(t, err)
	assert.NoError(t, e.StartHand())
}

func TestStartHandMidHandIsRejected(t *testing.T) {
	e := newTestEngine(t, Config{SmallBlind: 5, BigBlind: 10, MaxSeats: 4}, 100, 100, 100)
	require.NoError(t, e.StartHand())
	assert.ErrorIs(t, e.StartHand(), ErrWrongPhase)
}

func TestStartHandPostsBlindsAndDeals(t *testing.T) {
	e := newTestEngine(t, Config{SmallBlind: 5, BigBlind: 10, MaxSeats: 6}, 1000, 1000, 1000)
	require.NoError(t, e.StartHand())

	assert.Equal(t, PhasePreFlop, e.Phase())
	assert.Equal(t, 0, e.dealer)
	assert.Equal(t, 1, e.sbSeat)
	assert.Equal(t, 2, e.bbSeat)

	assert.Equal(t, 995, e.Seat(1).Chips)
	assert.Equal(t, 5, e.Seat(1).RoundBet)
	assert.Equal(t, 990, e.Seat(2).Chips)
	assert.Equal(t, 10, e.Seat(2).RoundBet)
	assert.Equal(t, 10, e.highBet)

	for i := 0; i < 3; i++ {
		assert.Len(t, e.Seat(i).Hole, 2, "seat %d", i)
	}
	assert.Empty(t, e.community)
	assert.Equal(t, 20, e.PotTotal())

	// First to act pre-flop is the seat after the big blind
	assert.Equal(t, 0, e.ToAct())

	assert.Equal(t, RoleDealer, e.Seat(0).Role)
	assert.Equal(t, RoleSmallBlind, e.Seat(1).Role)
	assert.Equal(t, RoleBigBlind, e.Seat(2).Role)
}

func TestHeadsUpDealerPostsSmallBlindAndActsFirst(t *testing.T) {
	e := newTestEngine(t, Config{SmallBlind: 5, BigBlind: 10, MaxSeats: 6}, 1000, 1000)
	require.NoError(t, e.StartHand())

	assert.Equal(t, 0, e.dealer)
	assert.Equal(t, 0, e.sbSeat)
	assert.Equal(t, 1, e.bbSeat)
	assert.Equal(t, 0, e.ToAct())

	// The button's role reads as the small blind; the dealer index still
	// identifies the button.
	assert.Equal(t, RoleSmallBlind, e.Seat(0).Role)
	assert.Equal(t, RoleBigBlind, e.Seat(1).Role)
	assert.Equal(t, 0, e.Snapshot(-1).Dealer)
}

func TestAntesAreDeadMoney(t *testing.T) {
	e := newTestEngine(t, Config{SmallBlind: 5, BigBlind: 10, Ante: 2, MaxSeats: 6}, 1000, 1000, 1000)
	require.NoError(t, e.StartHand())

	// Antes count toward the hand total but not the round bet
	assert.Equal(t, 2, e.Seat(0).HandBet)
	assert.Equal(t, 0, e.Seat(0).RoundBet)
	assert.Equal(t, 7, e.Seat(1).HandBet)
	assert.Equal(t, 5, e.Seat(1).RoundBet)
	assert.Equal(t, 12, e.Seat(2).HandBet)
	assert.Equal(t, 10, e.Seat(2).RoundBet)
	assert.Equal(t, 26, e.PotTotal())

	// A call matches the high bet, not ante-inclusive totals
	require.NoError(t, e.Act(0, Action{Type: Call}))
	assert.Equal(t, 10, e.Seat(0).RoundBet)
}

func TestDealerButtonRotates(t *testing.T) {
	e := newTestEngine(t, Config{SmallBlind: 5, BigBlind: 10, MaxSeats: 6}, 1000, 1000, 1000)

	playFoldOut := func() {
		// Everyone folds to the big blind
		require.NoError(t, e.Act(e.ToAct(), Action{Type: Fold}))
		require.NoError(t, e.Act(e.ToAct(), Action{Type: Fold}))
		require.Equal(t, PhaseShowdown, e.Phase())
	}

	require.NoError(t, e.StartHand())
	assert.Equal(t, 0, e.dealer)
	playFoldOut()

	require.NoError(t, e.StartHand())
	assert.Equal(t, 1, e.dealer)
	playFoldOut()

	require.NoError(t, e.StartHand())
	assert.Equal(t, 2, e.dealer)
	playFoldOut()

	require.NoError(t, e.StartHand())
	assert.Equal(t, 0, e.dealer)
}

func TestDealerSkipsBrokeSeats(t *testing.T) {
	e := newTestEngine(t, Config{SmallBlind: 5, BigBlind: 10, MaxSeats: 6}, 1000, 1000, 1000)
	require.NoError(t, e.StartHand())
	require.NoError(t, e.Act(0, Action{Type: Fold}))
	require.NoError(t, e.Act(1, Action{Type: Fold}))

	// Bust the would-be next dealer
	e.Seat(1).Chips = 0

	require.NoError(t, e.StartHand())
	assert.Equal(t, 2, e.dealer)
	assert.False(t, e.Seat(1).InHand)
}

func TestRemoveSeatMidHandFolds(t *testing.T) {
	e := newTestEngine(t, Config{SmallBlind: 5, BigBlind: 10, MaxSeats: 6}, 1000, 1000, 1000)
	require.NoError(t, e.StartHand())

	// Removing the to-act seat passes the turn on; its blind stays in the pot
	require.NoError(t, e.Act(0, Action{Type: Call}))
	require.NoError(t, e.RemoveSeat(1))
	assert.Equal(t, 2, e.ToAct())
	assert.Equal(t, 25, e.PotTotal())
}

func TestRemovedTopContributorResidualStaysInPot(t *testing.T) {
	// The raiser leaves mid-hand before anyone matches the raise, then both
	// remaining seats shove for less. No pot level may form above the
	// highest live contribution; the abandoned excess is dead money in the
	// last side pot and the hand still plays to showdown.
	e := newTestEngine(t, Config{SmallBlind: 5, BigBlind: 10, MaxSeats: 6}, 1000, 150, 100)
	e.SetDeck(stack(t,
		"QC", "JC", // seat 0, leaves after raising
		"KS", "KH", // seat 1
		"AS", "AH", // seat 2
		"5C", "2C", "7D", "9H",
		"6S", "3S",
		"8C", "4D",
	))
	require.NoError(t, e.StartHand())

	require.NoError(t, e.Act(0, Action{Type: Raise, Amount: 200}))
	require.NoError(t, e.RemoveSeat(0))
	require.NoError(t, e.Act(1, Action{Type: AllIn}))
	require.NoError(t, e.Act(2, Action{Type: AllIn}))

	require.Equal(t, PhaseShowdown, e.Phase())
	require.Len(t, e.community, 5)

	// Main pot 300 to the aces, side pot 100 plus the 50 the raiser never
	// got called for to the kings.
	winners := e.Winners()
	require.Len(t, winners, 2)
	bySeat := make(map[int]Winner)
	for _, w := range winners {
		bySeat[w.Seat] = w
	}
	assert.Equal(t, 300, bySeat[2].Amount)
	assert.Equal(t, "Pair", bySeat[2].Category)
	assert.Equal(t, 150, bySeat[1].Amount)
	assert.Equal(t, "Pair", bySeat[1].Category)

	assert.Equal(t, 300, e.Seat(2).Chips)
	assert.Equal(t, 150, e.Seat(1).Chips)
	assert.Equal(t, 1250, totalChips(e))
}

func TestChipConservationAcrossHands(t *testing.T) {
	e := newTestEngine(t, Config{SmallBlind: 5, BigBlind: 10, MaxSeats: 6}, 1000, 1000, 1000, 1000)
	const want = 4000

	for hand := 0; hand < 10; hand++ {
		require.NoError(t, e.StartHand())
		for e.inBettingPhase() {
			idx := e.ToAct()
			require.GreaterOrEqual(t, idx, 0)
			legal := e.LegalActions(idx)
			require.NotEmpty(t, legal)

			// Call when facing a bet, otherwise check
			applied := false
			for _, la := range []ActionType{Call, Check} {
				for _, opt := range legal {
					if opt.Type == la {
						require.NoError(t, e.Act(idx, Action{Type: la}))
						applied = true
						break
					}
				}
				if applied {
					break
				}
			}
			require.True(t, applied)
			assert.Equal(t, want, totalChips(e), "hand %d mid-round", hand)
		}
		require.Equal(t, PhaseShowdown, e.Phase())
		assert.Len(t, e.community, 5)
		assert.Equal(t, want, totalChips(e), "hand %d after distribution", hand)
	}
}

func TestCommunityCountMatchesPhase(t *testing.T) {
	e := newTestEngine(t, Config{SmallBlind: 5, BigBlind: 10, MaxSeats: 6}, 1000, 1000)
	require.NoError(t, e.StartHand())

	checkRound := func(wantPhase Phase, wantCommunity int) {
		require.Equal(t, wantPhase, e.Phase())
		require.Len(t, e.community, wantCommunity)
		for e.Phase() == wantPhase {
			idx := e.ToAct()
			a := Action{Type: Check}
			if e.highBet != e.Seat(idx).RoundBet {
				a = Action{Type: Call}
			}
			require.NoError(t, e.Act(idx, a))
		}
	}

	checkRound(PhasePreFlop, 0)
	checkRound(PhaseFlop, 3)
	checkRound(PhaseTurn, 4)
	checkRound(PhaseRiver, 5)
	assert.Equal(t, PhaseShowdown, e.Phase())
	assert.Len(t, e.community, 5)
	assert.Equal(t, -1, e.ToAct())
}

func TestDealtCardsAreUnique(t *testing.T) {
	e := newTestEngine(t, Config{SmallBlind: 5, BigBlind: 10, MaxSeats: 6}, 1000, 1000, 1000, 1000)
	require.NoError(t, e.StartHand())

	for e.inBettingPhase() {
		idx := e.ToAct()
		a := Action{Type: Check}
		if e.highBet != e.Seat(idx).RoundBet {
			a = Action{Type: Call}
		}
		require.NoError(t, e.Act(idx, a))
	}

	seen := make(map[deck.Card]bool)
	record := func(cards []deck.Card) {
		for _, c := range cards {
			assert.False(t, seen[c], "card %s dealt twice", c)
			seen[c] = true
		}
	}
	for i := 0; i < 4; i++ {
		record(e.Seat(i).Hole)
	}
	record(e.community)
	assert.Len(t, seen, 13)
}
