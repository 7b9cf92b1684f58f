package deck

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDrawPopsFromTop(t *testing.T) {
	d := New("a", "b", "c")

	card, err := d.Draw()
	require.NoError(t, err)
	assert.Equal(t, "c", card)
	assert.Equal(t, 2, d.Len())
}

func TestDrawEmpty(t *testing.T) {
	d := New[string]()
	_, err := d.Draw()
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestDrawNIsAllOrNothing(t *testing.T) {
	d := New(1, 2, 3)

	_, err := d.DrawN(4)
	require.ErrorIs(t, err, ErrEmpty)
	assert.Equal(t, 3, d.Len())

	cards, err := d.DrawN(2)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 2}, cards)
	assert.Equal(t, 1, d.Len())
}

func TestFromDecksConcatenatesWithoutMutatingSources(t *testing.T) {
	a := New("x", "y")
	b := New("z")

	merged := FromDecks(a, nil, b)
	merged.Add("bonus")

	assert.Equal(t, 4, merged.Len())
	assert.Equal(t, 2, a.Len())
	assert.Equal(t, 1, b.Len())

	cards, err := merged.DrawN(4)
	require.NoError(t, err)
	assert.Equal(t, []string{"bonus", "z", "y", "x"}, cards)
}

func TestShuffleKeepsCards(t *testing.T) {
	d := New(1, 2, 3, 4, 5, 6, 7, 8)
	d.Shuffle(rand.New(rand.NewPCG(1, 2)))

	cards, err := d.DrawN(8)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{1, 2, 3, 4, 5, 6, 7, 8}, cards)
}

func TestShuffleIsDeterministicForSeed(t *testing.T) {
	a := New(1, 2, 3, 4, 5, 6, 7, 8)
	b := New(1, 2, 3, 4, 5, 6, 7, 8)
	a.Shuffle(rand.New(rand.NewPCG(7, 7)))
	b.Shuffle(rand.New(rand.NewPCG(7, 7)))
	assert.Equal(t, a.cards, b.cards)
}
