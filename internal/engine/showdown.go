package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cardroom/holdemd/internal/deck"
	"github.com/cardroom/holdemd/internal/evaluator"
)

// Winner records one seat's winnings from the hand just concluded
type Winner struct {
	Seat     int
	Amount   int
	Category string
}

// Winners returns the winners of the previous hand, if one just concluded
func (e *Engine) Winners() []Winner { return e.winners }

// endByFold ends the hand when a single live seat remains. Every pot goes
// to that seat without evaluation, and no further community cards are dealt.
func (e *Engine) endByFold() {
	e.pots = e.computePots()
	var winner *Seat
	for _, s := range e.seats {
		if s.live() {
			winner = s
		}
	}

	total := 0
	for _, pot := range e.pots {
		total += pot.Amount
	}
	winner.Chips += total

	e.winners = []Winner{{Seat: winner.Index, Amount: total}}
	e.message = fmt.Sprintf("%s wins %d uncontested", winner.Name, total)
	e.pots = nil
	e.potsPaid = true
	e.phase = PhaseShowdown
	e.toAct = -1
}

// distribute evaluates every live hand and pays out each pot in order.
// Ties split the pot evenly; remainder chips go one at a time starting
// from the seat immediately clockwise from the dealer.
func (e *Engine) distribute() {
	e.pots = e.computePots()

	ranks := make(map[int]evaluator.HandRank)
	for _, s := range e.seats {
		if !s.live() {
			continue
		}
		cards := make([]deck.Card, 0, 7)
		cards = append(cards, s.Hole...)
		cards = append(cards, e.community...)
		rank, err := evaluator.Evaluate(cards)
		if err != nil {
			panic("showdown with short board: " + err.Error())
		}
		ranks[s.Index] = rank
	}

	won := make(map[int]int)
	for _, pot := range e.pots {
		contenders := pot.Eligible
		var best []int
		if len(contenders) == 1 {
			best = contenders
		} else {
			bestRank := evaluator.HandRank{Category: -1}
			for _, idx := range contenders {
				cmp := evaluator.Compare(ranks[idx], bestRank)
				if cmp > 0 {
					bestRank = ranks[idx]
					best = []int{idx}
				} else if cmp == 0 {
					best = append(best, idx)
				}
			}
		}

		ordered := e.clockwiseFromDealer(best)
		share := pot.Amount / len(ordered)
		rem := pot.Amount % len(ordered)
		for i, idx := range ordered {
			amount := share
			if i < rem {
				amount++
			}
			e.seats[idx].Chips += amount
			won[idx] += amount
		}
	}

	seats := make([]int, 0, len(won))
	for idx := range won {
		seats = append(seats, idx)
	}
	sort.Ints(seats)

	var parts []string
	e.winners = e.winners[:0]
	for _, idx := range seats {
		category := ranks[idx].Category.String()
		e.winners = append(e.winners, Winner{Seat: idx, Amount: won[idx], Category: category})
		parts = append(parts, fmt.Sprintf("%s wins %d with %s", e.seats[idx].Name, won[idx], category))
	}
	e.message = strings.Join(parts, "; ")

	e.pots = nil
	e.potsPaid = true
}

// clockwiseFromDealer orders the given seat indices by clockwise distance
// from the seat after the dealer.
func (e *Engine) clockwiseFromDealer(indices []int) []int {
	in := make(map[int]bool, len(indices))
	for _, idx := range indices {
		in[idx] = true
	}
	ordered := make([]int, 0, len(indices))
	n := len(e.seats)
	for i := 1; i <= n; i++ {
		pos := (e.dealer + i) % n
		if in[pos] {
			ordered = append(ordered, pos)
		}
	}
	return ordered
}
