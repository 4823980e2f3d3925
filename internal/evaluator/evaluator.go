// Package evaluator ranks poker hands. Given 5 to 7 cards it finds the best
// five-card hand by enumerating every 5-card subset (at most C(7,5)=21) and
// keeping the maximum. Comparison is lexicographic on (category, tiebreak);
// suits never break ties.
package evaluator

import (
	"fmt"
	"sort"

	"github.com/cardroom/holdemd/internal/deck"
)

// Category is a hand category, ordered low to high
type Category int

const (
	HighCard Category = iota
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

// String returns the display name of the category
func (c Category) String() string {
	switch c {
	case HighCard:
		return "High Card"
	case Pair:
		return "Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	case RoyalFlush:
		return "Royal Flush"
	default:
		return "Unknown"
	}
}

// HandRank is an evaluated hand: a category plus a tiebreak key rich enough
// to resolve every non-tied pair within the category.
type HandRank struct {
	Category Category
	Tiebreak []int
}

// Evaluate returns the rank of the best five-card hand within the given
// 5 to 7 cards.
func Evaluate(cards []deck.Card) (HandRank, error) {
	if len(cards) < 5 || len(cards) > 7 {
		return HandRank{}, fmt.Errorf("evaluate needs 5..7 cards, got %d", len(cards))
	}

	best := HandRank{Category: -1}
	var five [5]deck.Card

	consider := func(skipA, skipB int) {
		k := 0
		for idx, c := range cards {
			if idx == skipA || idx == skipB {
				continue
			}
			five[k] = c
			k++
		}
		r := evaluateFive(five)
		if Compare(r, best) > 0 {
			best = r
		}
	}

	// Enumerate 5-card subsets by choosing which indices to drop.
	switch len(cards) {
	case 5:
		consider(-1, -1)
	case 6:
		for i := range cards {
			consider(i, -1)
		}
	case 7:
		for i := 0; i < len(cards); i++ {
			for j := i + 1; j < len(cards); j++ {
				consider(i, j)
			}
		}
	}

	return best, nil
}

// evaluateFive scores exactly five cards
func evaluateFive(hand [5]deck.Card) HandRank {
	values := make([]int, 5)
	counts := make(map[int]int, 5)
	flush := true
	for i, c := range hand {
		values[i] = c.Rank.Value()
		counts[values[i]]++
		if c.Suit != hand[0].Suit {
			flush = false
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(values)))

	straight := false
	straightKey := values
	if len(counts) == 5 {
		if values[0]-values[4] == 4 {
			straight = true
		} else if values[0] == deck.Ace.Value() && values[1] == 3 && values[4] == 0 {
			// The wheel: A-2-3-4-5. The ace plays low, below the deuce.
			straight = true
			straightKey = []int{3, 2, 1, 0, -1}
		}
	}

	if straight && flush {
		if straightKey[0] == deck.Ace.Value() {
			return HandRank{Category: RoyalFlush, Tiebreak: straightKey}
		}
		return HandRank{Category: StraightFlush, Tiebreak: straightKey}
	}

	// Group ranks by multiplicity
	var quads, trips, pairs, singles []int
	for v, n := range counts {
		switch n {
		case 4:
			quads = append(quads, v)
		case 3:
			trips = append(trips, v)
		case 2:
			pairs = append(pairs, v)
		default:
			singles = append(singles, v)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(pairs)))
	sort.Sort(sort.Reverse(sort.IntSlice(singles)))

	switch {
	case len(quads) == 1:
		return HandRank{Category: FourOfAKind, Tiebreak: []int{quads[0], singles[0]}}
	case len(trips) == 1 && len(pairs) == 1:
		return HandRank{Category: FullHouse, Tiebreak: []int{trips[0], pairs[0]}}
	case flush:
		return HandRank{Category: Flush, Tiebreak: values}
	case straight:
		return HandRank{Category: Straight, Tiebreak: straightKey}
	case len(trips) == 1:
		return HandRank{Category: ThreeOfAKind, Tiebreak: append([]int{trips[0]}, singles...)}
	case len(pairs) == 2:
		return HandRank{Category: TwoPair, Tiebreak: []int{pairs[0], pairs[1], singles[0]}}
	case len(pairs) == 1:
		return HandRank{Category: Pair, Tiebreak: append([]int{pairs[0]}, singles...)}
	default:
		return HandRank{Category: HighCard, Tiebreak: values}
	}
}

// Compare returns >0 if a beats b, <0 if b beats a, 0 on a genuine split
func Compare(a, b HandRank) int {
	if a.Category != b.Category {
		return int(a.Category) - int(b.Category)
	}
	for i := 0; i < len(a.Tiebreak) && i < len(b.Tiebreak); i++ {
		if a.Tiebreak[i] != b.Tiebreak[i] {
			return a.Tiebreak[i] - b.Tiebreak[i]
		}
	}
	return len(a.Tiebreak) - len(b.Tiebreak)
}
