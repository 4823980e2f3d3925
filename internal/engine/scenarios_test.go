package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Full-hand walkthroughs with rigged decks. Stacked deck order is: two hole
// cards per in-hand seat (ascending seat index), then burn+flop, burn+turn,
// burn+river.

func TestCheckdownBoardPlaysAndSplits(t *testing.T) {
	e := newTestEngine(t, Config{SmallBlind: 5, BigBlind: 10, MaxSeats: 6}, 1000, 1000)
	e.SetDeck(stack(t,
		"2C", "3C", // seat 0
		"2D", "3D", // seat 1
		"9S", "AH", "KH", "QH", // burn + flop
		"8S", "JH", // burn + turn
		"7S", "TH", // burn + river
	))
	require.NoError(t, e.StartHand())

	// Heads-up: dealer posts the small blind and acts first
	require.Equal(t, 0, e.ToAct())
	require.NoError(t, e.Act(0, Action{Type: Call}))
	require.NoError(t, e.Act(1, Action{Type: Check}))
	for _, seat := range []int{1, 0, 1, 0, 1, 0} {
		require.Equal(t, seat, e.ToAct())
		require.NoError(t, e.Act(seat, Action{Type: Check}))
	}

	require.Equal(t, PhaseShowdown, e.Phase())
	assert.Equal(t, []string{"AH", "KH", "QH", "JH", "TH"},
		func() []string {
			out := make([]string, len(e.community))
			for i, c := range e.community {
				out[i] = c.String()
			}
			return out
		}())

	winners := e.Winners()
	require.Len(t, winners, 2)
	for _, w := range winners {
		assert.Equal(t, 10, w.Amount)
		assert.Equal(t, "Royal Flush", w.Category)
	}
	assert.Equal(t, 1000, e.Seat(0).Chips)
	assert.Equal(t, 1000, e.Seat(1).Chips)
}

func TestFlopBetTakesItUncontested(t *testing.T) {
	// Dealer, SB, BB, UTG. UTG and the dealer fold pre-flop; on the flop the
	// small blind bets and the big blind folds.
	e := newTestEngine(t, Config{SmallBlind: 5, BigBlind: 10, MaxSeats: 6}, 1000, 1000, 1000, 1000)
	require.NoError(t, e.StartHand())

	require.NoError(t, e.Act(3, Action{Type: Fold}))
	require.NoError(t, e.Act(0, Action{Type: Fold}))
	require.NoError(t, e.Act(1, Action{Type: Call}))
	require.NoError(t, e.Act(2, Action{Type: Check}))
	require.Equal(t, PhaseFlop, e.Phase())

	require.NoError(t, e.Act(1, Action{Type: Bet, Amount: 20}))
	require.NoError(t, e.Act(2, Action{Type: Fold}))

	require.Equal(t, PhaseShowdown, e.Phase())
	require.Len(t, e.Winners(), 1)
	assert.Equal(t, 1, e.Winners()[0].Seat)
	assert.Equal(t, 40, e.Winners()[0].Amount)

	assert.Equal(t, 1010, e.Seat(1).Chips)
	assert.Equal(t, 990, e.Seat(2).Chips)
	assert.Equal(t, 1000, e.Seat(0).Chips)
	assert.Equal(t, 1000, e.Seat(3).Chips)
}

func TestThreeWayAllInSidePots(t *testing.T) {
	// Stacks: dealer 200, SB 50, BB 100. The dealer shoves, both blinds call
	// all-in for less. Contribution levels 50/100/200 give pots of
	// 150 {all}, 100 {sb-excluded... the two bigger stacks}, 100 {dealer}.
	t.Run("big stack wins everything", func(t *testing.T) {
		e := newTestEngine(t, Config{SmallBlind: 5, BigBlind: 10, MaxSeats: 6}, 200, 50, 100)
		e.SetDeck(stack(t,
			"AS", "AH", // seat 0: dealer, covers everyone
			"2C", "3D", // seat 1: small blind
			"4C", "6D", // seat 2: big blind
			"2H", "KS", "QD", "JC",
			"5H", "9H",
			"7S", "8C",
		))
		require.NoError(t, e.StartHand())

		require.NoError(t, e.Act(0, Action{Type: AllIn}))
		require.NoError(t, e.Act(1, Action{Type: AllIn}))
		require.NoError(t, e.Act(2, Action{Type: AllIn}))

		// The board runs out with no further betting
		require.Equal(t, PhaseShowdown, e.Phase())
		require.Len(t, e.community, 5)

		require.Len(t, e.Winners(), 1)
		assert.Equal(t, 0, e.Winners()[0].Seat)
		assert.Equal(t, 350, e.Winners()[0].Amount)
		assert.Equal(t, 350, e.Seat(0).Chips)
		assert.Equal(t, 0, e.Seat(1).Chips)
		assert.Equal(t, 0, e.Seat(2).Chips)
	})

	t.Run("short stack wins only the main pot", func(t *testing.T) {
		e := newTestEngine(t, Config{SmallBlind: 5, BigBlind: 10, MaxSeats: 6}, 200, 50, 100)
		e.SetDeck(stack(t,
			"2C", "7D", // dealer: worst hand
			"AS", "AH", // small blind: best hand
			"KS", "KH", // big blind: middle hand
			"3H", "QD", "JC", "9H",
			"5S", "8C",
			"6H", "4S",
		))
		require.NoError(t, e.StartHand())

		require.NoError(t, e.Act(0, Action{Type: AllIn}))
		require.NoError(t, e.Act(1, Action{Type: AllIn}))
		require.NoError(t, e.Act(2, Action{Type: AllIn}))
		require.Equal(t, PhaseShowdown, e.Phase())

		// Main pot 150 to the small blind, first side pot 100 to the big
		// blind, second side pot 100 back to the dealer uncontested.
		winners := e.Winners()
		require.Len(t, winners, 3)
		bySeat := make(map[int]Winner)
		for _, w := range winners {
			bySeat[w.Seat] = w
		}
		assert.Equal(t, 150, bySeat[1].Amount)
		assert.Equal(t, "Pair", bySeat[1].Category)
		assert.Equal(t, 100, bySeat[2].Amount)
		assert.Equal(t, "Pair", bySeat[2].Category)
		assert.Equal(t, 100, bySeat[0].Amount)

		assert.Equal(t, 150, e.Seat(1).Chips)
		assert.Equal(t, 100, e.Seat(2).Chips)
		assert.Equal(t, 100, e.Seat(0).Chips)
	})
}

func TestSidePotEligibilityNests(t *testing.T) {
	e := newTestEngine(t, Config{SmallBlind: 5, BigBlind: 10, MaxSeats: 6}, 200, 50, 100)
	require.NoError(t, e.StartHand())
	require.NoError(t, e.Act(0, Action{Type: AllIn}))
	require.NoError(t, e.Act(1, Action{Type: AllIn}))

	// With one seat still to act, the pot chain so far is visible
	pots := e.computePots()
	require.Len(t, pots, 2)
	assert.Equal(t, 110, pots[0].Amount) // 50+50+10
	assert.ElementsMatch(t, []int{0, 1}, pots[0].Eligible)
	assert.Equal(t, 150, pots[1].Amount)
	assert.ElementsMatch(t, []int{0}, pots[1].Eligible)

	// Eligibility strictly contracts along the chain
	require.NoError(t, e.Act(2, Action{Type: AllIn}))
	require.Equal(t, PhaseShowdown, e.Phase())
}

func TestChoppedPotRemainderGoesClockwiseFromDealer(t *testing.T) {
	// Dealer limps, the small blind folds, the big blind checks: pot 25.
	// Both live seats play the board straight; seat 2 sits clockwise-first
	// from the dealer and takes the odd chip.
	e := newTestEngine(t, Config{SmallBlind: 5, BigBlind: 10, MaxSeats: 6}, 1000, 1000, 1000)
	e.SetDeck(stack(t,
		"2C", "3C", // seat 0
		"4H", "5H", // seat 1, folds pre-flop
		"2D", "3D", // seat 2
		"6S", "TH", "JD", "QS",
		"7S", "KC",
		"8H", "9D",
	))
	require.NoError(t, e.StartHand())

	require.NoError(t, e.Act(0, Action{Type: Call}))
	require.NoError(t, e.Act(1, Action{Type: Fold}))
	require.NoError(t, e.Act(2, Action{Type: Check}))

	for e.inBettingPhase() {
		require.NoError(t, e.Act(e.ToAct(), Action{Type: Check}))
	}

	require.Equal(t, PhaseShowdown, e.Phase())
	winners := e.Winners()
	require.Len(t, winners, 2)
	bySeat := make(map[int]Winner)
	for _, w := range winners {
		bySeat[w.Seat] = w
	}
	assert.Equal(t, 13, bySeat[2].Amount)
	assert.Equal(t, 12, bySeat[0].Amount)
	assert.Equal(t, "Straight", bySeat[0].Category)

	assert.Equal(t, 1002, e.Seat(0).Chips)
	assert.Equal(t, 995, e.Seat(1).Chips)
	assert.Equal(t, 1003, e.Seat(2).Chips)
}

func TestRaiseReopensActionForTheBigBlind(t *testing.T) {
	e := newTestEngine(t, Config{SmallBlind: 5, BigBlind: 10, MaxSeats: 6}, 1000, 1000, 1000, 1000)
	require.NoError(t, e.StartHand())

	// UTG raises, dealer and small blind call
	require.NoError(t, e.Act(3, Action{Type: Raise, Amount: 30}))
	require.NoError(t, e.Act(0, Action{Type: Call}))
	require.NoError(t, e.Act(1, Action{Type: Call}))

	// The big blind already has chips in but must still get its action
	require.Equal(t, 2, e.ToAct())
	require.NoError(t, e.Act(2, Action{Type: Raise, Amount: 90}))

	// The raise re-opens the round for everyone else
	for _, seat := range []int{3, 0, 1} {
		require.Equal(t, PhasePreFlop, e.Phase())
		require.Equal(t, seat, e.ToAct())
		require.NoError(t, e.Act(seat, Action{Type: Call}))
	}

	require.Equal(t, PhaseFlop, e.Phase())
	assert.Equal(t, 360, e.PotTotal())
	for i := 0; i < 4; i++ {
		assert.Equal(t, 90, e.Seat(i).HandBet, "seat %d", i)
		assert.Equal(t, 910, e.Seat(i).Chips, "seat %d", i)
	}
}
