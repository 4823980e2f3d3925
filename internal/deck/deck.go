package deck

import (
	"errors"
	rand "math/rand/v2"
)

// ErrEmpty is returned when drawing from an exhausted deck.
var ErrEmpty = errors.New("deck is empty")

// Deck is an ordered sequence of up to 52 distinct cards. The RNG is
// injected so callers can produce deterministic deals in tests.
type Deck struct {
	cards []Card
	rng   *rand.Rand
}

// New creates a full, ordered 52-card deck. Callers are expected to
// Shuffle before drawing.
func New(rng *rand.Rand) *Deck {
	d := &Deck{
		cards: make([]Card, 0, 52),
		rng:   rng,
	}
	d.fill()
	return d
}

// NewStacked creates a deck containing exactly the given cards in the
// given draw order. Used by tests that need a rigged deal.
func NewStacked(cards ...Card) *Deck {
	d := &Deck{cards: make([]Card, len(cards))}
	copy(d.cards, cards)
	return d
}

func (d *Deck) fill() {
	d.cards = d.cards[:0]
	for suit := Clubs; suit <= Spades; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			d.cards = append(d.cards, NewCard(rank, suit))
		}
	}
}

// Reset restores all 52 cards in canonical order
func (d *Deck) Reset() {
	d.fill()
}

// Shuffle applies a uniform Fisher-Yates permutation
func (d *Deck) Shuffle() {
	for i := len(d.cards) - 1; i > 0; i-- {
		var j int
		if d.rng != nil {
			j = d.rng.IntN(i + 1)
		} else {
			j = rand.IntN(i + 1)
		}
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Draw removes and returns the top card
func (d *Deck) Draw() (Card, error) {
	if len(d.cards) == 0 {
		return Card{}, ErrEmpty
	}
	card := d.cards[0]
	d.cards = d.cards[1:]
	return card, nil
}

// DrawN removes and returns the top n cards
func (d *Deck) DrawN(n int) ([]Card, error) {
	if n > len(d.cards) {
		return nil, ErrEmpty
	}
	cards := make([]Card, n)
	copy(cards, d.cards[:n])
	d.cards = d.cards[n:]
	return cards, nil
}

// Remaining returns the number of cards left
func (d *Deck) Remaining() int {
	return len(d.cards)
}
