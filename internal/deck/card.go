package deck

import "fmt"

// Suit represents a card suit
type Suit uint8

const (
	Clubs Suit = iota
	Diamonds
	Hearts
	Spades
)

// String returns the single-letter suit code used on the wire
func (s Suit) String() string {
	switch s {
	case Clubs:
		return "C"
	case Diamonds:
		return "D"
	case Hearts:
		return "H"
	case Spades:
		return "S"
	default:
		return "?"
	}
}

// Rank represents a card rank with numeric value 0..12 (Two=0, Ace=12)
type Rank uint8

const (
	Two Rank = iota
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

const rankChars = "23456789TJQKA"

// String returns the single-letter rank code used on the wire
func (r Rank) String() string {
	if r > Ace {
		return "?"
	}
	return string(rankChars[r])
}

// Value returns the numeric rank value used for hand comparison
func (r Rank) Value() int {
	return int(r)
}

// Card represents a playing card. Cards have value semantics; two cards
// are equal iff rank and suit match.
type Card struct {
	Rank Rank
	Suit Suit
}

// NewCard creates a new card
func NewCard(rank Rank, suit Suit) Card {
	return Card{Rank: rank, Suit: suit}
}

// String returns the two-character text form, e.g. "AH" or "TC"
func (c Card) String() string {
	return c.Rank.String() + c.Suit.String()
}

// Parse decodes the two-character text form back into a Card
func Parse(s string) (Card, error) {
	if len(s) != 2 {
		return Card{}, fmt.Errorf("card must be 2 characters, got %q", s)
	}

	var rank Rank
	found := false
	for i := 0; i < len(rankChars); i++ {
		if rankChars[i] == s[0] {
			rank = Rank(i)
			found = true
			break
		}
	}
	if !found {
		return Card{}, fmt.Errorf("invalid rank character %q", s[0])
	}

	var suit Suit
	switch s[1] {
	case 'C':
		suit = Clubs
	case 'D':
		suit = Diamonds
	case 'H':
		suit = Hearts
	case 'S':
		suit = Spades
	default:
		return Card{}, fmt.Errorf("invalid suit character %q", s[1])
	}

	return Card{Rank: rank, Suit: suit}, nil
}

// MustParse is Parse that panics on invalid input. For tests and literals.
func MustParse(s string) Card {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

// ParseAll decodes a list of card text forms
func ParseAll(ss ...string) ([]Card, error) {
	cards := make([]Card, len(ss))
	for i, s := range ss {
		c, err := Parse(s)
		if err != nil {
			return nil, err
		}
		cards[i] = c
	}
	return cards, nil
}

// Strings encodes a list of cards to their text forms
func Strings(cards []Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.String()
	}
	return out
}
