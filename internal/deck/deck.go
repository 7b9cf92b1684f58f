// Package deck holds the prompt decks that seed each round's drawing.
package deck

import (
	"errors"
	"math/rand/v2"
)

// ErrEmpty is returned when a draw asks for more cards than remain.
var ErrEmpty = errors.New("deck is empty")

// Deck is an ordered pile of cards. Draws take from the top (the end of the
// pile) and are never put back.
type Deck[T any] struct {
	cards []T
}

func New[T any](cards ...T) *Deck[T] {
	pile := make([]T, len(cards))
	copy(pile, cards)
	return &Deck[T]{cards: pile}
}

// FromDecks concatenates decks in order into a new deck. The sources are left
// untouched.
func FromDecks[T any](decks ...*Deck[T]) *Deck[T] {
	total := 0
	for _, d := range decks {
		if d != nil {
			total += len(d.cards)
		}
	}
	pile := make([]T, 0, total)
	for _, d := range decks {
		if d != nil {
			pile = append(pile, d.cards...)
		}
	}
	return &Deck[T]{cards: pile}
}

func (d *Deck[T]) Add(card T) {
	d.cards = append(d.cards, card)
}

func (d *Deck[T]) Len() int {
	return len(d.cards)
}

func (d *Deck[T]) Draw() (T, error) {
	var zero T
	if len(d.cards) == 0 {
		return zero, ErrEmpty
	}
	last := len(d.cards) - 1
	card := d.cards[last]
	d.cards[last] = zero
	d.cards = d.cards[:last]
	return card, nil
}

// DrawN draws n cards, or none at all when fewer than n remain.
func (d *Deck[T]) DrawN(n int) ([]T, error) {
	if n < 0 || n > len(d.cards) {
		return nil, ErrEmpty
	}
	out := make([]T, 0, n)
	for i := 0; i < n; i++ {
		card, _ := d.Draw()
		out = append(out, card)
	}
	return out, nil
}

// Shuffle applies a uniform random permutation to the remaining cards.
func (d *Deck[T]) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}
