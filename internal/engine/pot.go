package engine

import "sort"

// Pot is a chip pool plus the seats eligible to win it. A hand has one main
// pot, or a chain of main+side pots once players are all-in for different
// amounts. Eligibility strictly contracts along the chain.
type Pot struct {
	Amount   int
	Eligible []int
}

// PotTotal returns the chips across all pots, including contributions not
// yet folded into the pot chain.
func (e *Engine) PotTotal() int {
	if e.potsPaid {
		return 0
	}
	total := 0
	for _, s := range e.seats {
		if s != nil {
			total += s.HandBet
		}
	}
	return total
}

// computePots derives the pot chain from per-hand contributions. For each
// distinct all-in total t (ascending), the pot at level t collects
// min(contribution, t) minus the previous level from every seat, with
// eligibility {seats with contribution >= t, not folded}. Levels never
// exceed the highest live contribution: a folded seat's excess (an
// unmatched raise abandoned mid-hand) has no one eligible to contest it,
// so it sweeps into the last pot as dead money.
func (e *Engine) computePots() []Pot {
	var levels []int
	seen := make(map[int]bool)
	maxContribution, maxLive := 0, 0
	for _, s := range e.seats {
		if s == nil {
			continue
		}
		if s.HandBet > maxContribution {
			maxContribution = s.HandBet
		}
		if !s.live() {
			continue
		}
		if s.HandBet > maxLive {
			maxLive = s.HandBet
		}
		if s.AllIn && s.HandBet > 0 && !seen[s.HandBet] {
			seen[s.HandBet] = true
			levels = append(levels, s.HandBet)
		}
	}
	sort.Ints(levels)
	if len(levels) == 0 || levels[len(levels)-1] < maxLive {
		levels = append(levels, maxLive)
	}

	var pots []Pot
	prev := 0
	for _, t := range levels {
		pot := Pot{}
		for _, s := range e.seats {
			if s == nil {
				continue
			}
			contribution := min(s.HandBet, t) - min(s.HandBet, prev)
			pot.Amount += contribution
			if s.live() && s.HandBet >= t {
				pot.Eligible = append(pot.Eligible, s.Index)
			}
		}
		if pot.Amount > 0 {
			pots = append(pots, pot)
		}
		prev = t
	}

	if maxContribution > maxLive && len(pots) > 0 {
		extra := 0
		for _, s := range e.seats {
			if s != nil && s.HandBet > maxLive {
				extra += s.HandBet - maxLive
			}
		}
		pots[len(pots)-1].Amount += extra
	}
	return pots
}
