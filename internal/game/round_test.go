package game

import (
	"math"
	"testing"

	"sketch-imprint/internal/deck"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRound(t *testing.T, members ...uuid.UUID) *Round {
	t.Helper()
	imprints := make(map[uuid.UUID]Drawing, len(members))
	for _, id := range members {
		imprints[id] = nil
	}
	r, err := NewRound(1, members, deck.New(prompts("card", 10)...), imprints, testRand())
	require.NoError(t, err)
	return r
}

func TestNewRoundDeckUnderflow(t *testing.T) {
	members := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	pile := deck.New("one", "two")

	_, err := NewRound(1, members, pile, map[uuid.UUID]Drawing{}, testRand())
	require.ErrorIs(t, err, ErrInternal)
	assert.Equal(t, 2, pile.Len())
}

func TestNewRoundAssignsDistinctPrompts(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	r := newTestRound(t, a, b)

	assert.NotEmpty(t, r.Prompt(a))
	assert.NotEqual(t, r.Prompt(a), r.Prompt(b))
	assert.NotEqual(t, r.DrawingID(a), r.DrawingID(b))
	assert.Equal(t, []uuid.UUID{a, b}, r.Members())
}

func TestSetDrawingOnce(t *testing.T) {
	a := uuid.New()
	r := newTestRound(t, a)

	require.NoError(t, r.SetDrawing(a, drawingOf(2)))
	err := r.SetDrawing(a, drawingOf(5))
	assert.ErrorIs(t, err, ErrDrawingAlreadySubmitted)

	drawing, ok := r.Drawing(a)
	require.True(t, ok)
	assert.Len(t, drawing, 2)

	assert.ErrorIs(t, r.SetDrawing(uuid.New(), drawingOf(1)), ErrInternal)
}

func TestSubmitVoteIsAllOrNothing(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	r := newTestRound(t, a, b, c)
	for _, id := range []uuid.UUID{a, b, c} {
		require.NoError(t, r.SetDrawing(id, drawingOf(1)))
	}
	idA, idB, idC := r.DrawingID(a), r.DrawingID(b), r.DrawingID(c)

	cases := []struct {
		name  string
		votes map[uuid.UUID]int
		want  error
	}{
		{"too many", map[uuid.UUID]int{idB: 2, idC: 2}, ErrMaximumVotesExceeded},
		{"single amount over budget", map[uuid.UUID]int{idB: 4}, ErrMaximumVotesExceeded},
		{"amounts that would wrap", map[uuid.UUID]int{idB: math.MaxInt, idC: math.MaxInt}, ErrMaximumVotesExceeded},
		{"negative", map[uuid.UUID]int{idB: 4, idC: -1}, ErrInvalidVoteAmount},
		{"self", map[uuid.UUID]int{idA: 1, idB: 1}, ErrVotedForSelf},
		{"unknown id", map[uuid.UUID]int{idB: 1, uuid.New(): 1}, ErrInvalidDrawingID},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := r.SubmitVote(a, tc.votes)
			assert.ErrorIs(t, err, tc.want)
			assert.Equal(t, 0, r.Tally(idA))
			assert.Equal(t, 0, r.Tally(idB))
			assert.Equal(t, 0, r.Tally(idC))
		})
	}

	require.NoError(t, r.SubmitVote(a, map[uuid.UUID]int{idA: 0, idB: 2, idC: 1}))
	assert.Equal(t, 2, r.Tally(idB))
	assert.Equal(t, 1, r.Tally(idC))
	assert.ErrorIs(t, r.SubmitVote(a, map[uuid.UUID]int{idB: 1}), ErrVoteAlreadySubmitted)
	assert.Equal(t, map[uuid.UUID]int{a: 0, b: 2, c: 1}, r.Scores())
}

func TestSubmitVoteRejectsUnsubmittedDrawing(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	r := newTestRound(t, a, b, c)
	require.NoError(t, r.SetDrawing(b, drawingOf(1)))

	err := r.SubmitVote(a, map[uuid.UUID]int{r.DrawingID(b): 1, r.DrawingID(c): 1})
	assert.ErrorIs(t, err, ErrInvalidDrawingID)
	assert.Equal(t, 0, r.Tally(r.DrawingID(b)))
	assert.Equal(t, 0, r.Tally(r.DrawingID(c)))

	require.NoError(t, r.SubmitVote(a, map[uuid.UUID]int{r.DrawingID(b): 1}))
	assert.Equal(t, 1, r.Tally(r.DrawingID(b)))
}

func TestCompletionSkipsDisconnected(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	r := newTestRound(t, a, b)
	connected := map[uuid.UUID]bool{a: true, b: true}
	isConnected := func(id uuid.UUID) bool { return connected[id] }

	require.NoError(t, r.SetDrawing(a, drawingOf(1)))
	assert.False(t, r.IsDoneDrawing(isConnected))

	connected[b] = false
	assert.True(t, r.IsDoneDrawing(isConnected))

	assert.False(t, r.IsDoneVoting(isConnected))
	require.NoError(t, r.SubmitVote(a, map[uuid.UUID]int{}))
	assert.True(t, r.IsDoneVoting(isConnected))
}
