package game

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMatchesSentinelByCode(t *testing.T) {
	err := reject(OpJoinGame, CodeGameFull)

	assert.ErrorIs(t, err, ErrGameFull)
	assert.NotErrorIs(t, err, ErrGameAlreadyStarted)
	assert.Equal(t, "join_game: game is full", err.Error())
}

func TestClassify(t *testing.T) {
	outcome, reason := Classify(nil)
	assert.Equal(t, OutcomeSuccess, outcome)
	assert.Empty(t, reason)

	outcome, reason = Classify(fmt.Errorf("wrapped: %w", reject(OpSubmitVote, CodeVotedForSelf)))
	assert.Equal(t, OutcomeClientError, outcome)
	assert.Equal(t, "client cannot vote for their own drawing", reason)

	outcome, reason = Classify(internalf("round %d missing", 3))
	assert.Equal(t, OutcomeServerError, outcome)
	assert.Equal(t, "internal server error", reason)

	outcome, _ = Classify(errors.New("boom"))
	assert.Equal(t, OutcomeServerError, outcome)
	assert.Equal(t, "server_error", outcome.String())
}
