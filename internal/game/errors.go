package game

import (
	"errors"
	"fmt"
)

// Code is a machine-readable rejection code.
type Code string

const (
	// Membership errors
	CodeAlreadyInAGame     Code = "ALREADY_IN_A_GAME"
	CodeNotInAGame         Code = "NOT_IN_A_GAME"
	CodeRoomDoesNotExist   Code = "ROOM_DOES_NOT_EXIST"
	CodeGameFull           Code = "GAME_FULL"
	CodeGameAlreadyStarted Code = "GAME_ALREADY_STARTED"
	CodeInvalidName        Code = "INVALID_NAME"

	// Authorization errors
	CodeNotTheHost Code = "NOT_THE_HOST"

	// Phase errors
	CodeGameIsNotOver            Code = "GAME_IS_NOT_OVER"
	CodeWrongRound               Code = "WRONG_ROUND"
	CodeWrongPhase               Code = "WRONG_PHASE"
	CodeGameHasNotStarted        Code = "GAME_HAS_NOT_STARTED"
	CodeMinimumPlayersNotReached Code = "MINIMUM_PLAYERS_NOT_REACHED"

	// Settings errors
	CodeInvalidNumRounds        Code = "INVALID_NUM_ROUNDS"
	CodeInvalidDrawingTimeLimit Code = "INVALID_DRAWING_TIME_LIMIT"
	CodeInvalidVotingTimeLimit  Code = "INVALID_VOTING_TIME_LIMIT"
	CodeInvalidGameMode         Code = "INVALID_GAME_MODE"
	CodeDeckDoesNotExist        Code = "DECK_DOES_NOT_EXIST"
	CodeSettingRemovesAllDecks  Code = "SETTING_REMOVES_ALL_DECKS"

	// Round errors
	CodeDrawingAlreadySubmitted Code = "DRAWING_ALREADY_SUBMITTED"
	CodeVoteAlreadySubmitted    Code = "VOTE_ALREADY_SUBMITTED"
	CodeMaximumVotesExceeded    Code = "MAXIMUM_VOTES_EXCEEDED"
	CodeInvalidVoteAmount       Code = "INVALID_VOTE_AMOUNT"
	CodeVotedForSelf            Code = "VOTED_FOR_SELF"
	CodeInvalidDrawingID        Code = "INVALID_DRAWING_ID"
)

var reasons = map[Code]string{
	CodeAlreadyInAGame:           "client is already in a game",
	CodeNotInAGame:               "client is not in a game",
	CodeRoomDoesNotExist:         "room does not exist",
	CodeGameFull:                 "game is full",
	CodeGameAlreadyStarted:       "game already started",
	CodeInvalidName:              "name is empty, too long or contains unsupported characters",
	CodeNotTheHost:               "client is not the host",
	CodeGameIsNotOver:            "game is not over",
	CodeWrongRound:               "drawing submitted for the wrong round",
	CodeWrongPhase:               "action is not allowed in the current phase",
	CodeGameHasNotStarted:        "game has not started",
	CodeMinimumPlayersNotReached: "minimum number of players not reached",
	CodeInvalidNumRounds:         "invalid number of rounds",
	CodeInvalidDrawingTimeLimit:  "invalid drawing phase time limit",
	CodeInvalidVotingTimeLimit:   "invalid voting phase time limit",
	CodeInvalidGameMode:          "invalid game mode",
	CodeDeckDoesNotExist:         "deck does not exist",
	CodeSettingRemovesAllDecks:   "settings would remove every deck",
	CodeDrawingAlreadySubmitted:  "drawing was already submitted",
	CodeVoteAlreadySubmitted:     "vote was already submitted",
	CodeMaximumVotesExceeded:     "maximum votes exceeded",
	CodeInvalidVoteAmount:        "vote amounts cannot be negative",
	CodeVotedForSelf:             "client cannot vote for their own drawing",
	CodeInvalidDrawingID:         "votes included an invalid drawing id",
}

// Reason is the human-readable text sent back to the client.
func (c Code) Reason() string {
	if reason, ok := reasons[c]; ok {
		return reason
	}
	return string(c)
}

// Error is a recoverable rejection of a client command.
type Error struct {
	Op   Op
	Code Code
}

func reject(op Op, code Code) *Error {
	return &Error{Op: op, Code: code}
}

func (e *Error) Error() string {
	if e.Op == "" {
		return e.Code.Reason()
	}
	return string(e.Op) + ": " + e.Code.Reason()
}

// Is matches any *Error carrying the same code, so callers can compare
// against the sentinels below regardless of the operation.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

var (
	ErrAlreadyInAGame           = &Error{Code: CodeAlreadyInAGame}
	ErrNotInAGame               = &Error{Code: CodeNotInAGame}
	ErrRoomDoesNotExist         = &Error{Code: CodeRoomDoesNotExist}
	ErrGameFull                 = &Error{Code: CodeGameFull}
	ErrGameAlreadyStarted       = &Error{Code: CodeGameAlreadyStarted}
	ErrInvalidName              = &Error{Code: CodeInvalidName}
	ErrNotTheHost               = &Error{Code: CodeNotTheHost}
	ErrGameIsNotOver            = &Error{Code: CodeGameIsNotOver}
	ErrWrongRound               = &Error{Code: CodeWrongRound}
	ErrWrongPhase               = &Error{Code: CodeWrongPhase}
	ErrGameHasNotStarted        = &Error{Code: CodeGameHasNotStarted}
	ErrMinimumPlayersNotReached = &Error{Code: CodeMinimumPlayersNotReached}
	ErrInvalidNumRounds         = &Error{Code: CodeInvalidNumRounds}
	ErrInvalidDrawingTimeLimit  = &Error{Code: CodeInvalidDrawingTimeLimit}
	ErrInvalidVotingTimeLimit   = &Error{Code: CodeInvalidVotingTimeLimit}
	ErrInvalidGameMode          = &Error{Code: CodeInvalidGameMode}
	ErrDeckDoesNotExist         = &Error{Code: CodeDeckDoesNotExist}
	ErrSettingRemovesAllDecks   = &Error{Code: CodeSettingRemovesAllDecks}
	ErrDrawingAlreadySubmitted  = &Error{Code: CodeDrawingAlreadySubmitted}
	ErrVoteAlreadySubmitted     = &Error{Code: CodeVoteAlreadySubmitted}
	ErrMaximumVotesExceeded     = &Error{Code: CodeMaximumVotesExceeded}
	ErrInvalidVoteAmount        = &Error{Code: CodeInvalidVoteAmount}
	ErrVotedForSelf             = &Error{Code: CodeVotedForSelf}
	ErrInvalidDrawingID         = &Error{Code: CodeInvalidDrawingID}
)

// ErrInternal marks a broken invariant inside a room. It is reported to the
// client as a server error and never retried.
var ErrInternal = errors.New("internal error")

func internalf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInternal}, args...)...)
}

// Outcome is how the transport reports the result of a command.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeClientError
	OutcomeServerError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeClientError:
		return "client_error"
	default:
		return "server_error"
	}
}

// Classify maps a command result to its outcome and the reason shown to the
// client. Anything that is not a rejection is a server error.
func Classify(err error) (Outcome, string) {
	if err == nil {
		return OutcomeSuccess, ""
	}
	var rejection *Error
	if errors.As(err, &rejection) {
		return OutcomeClientError, rejection.Code.Reason()
	}
	return OutcomeServerError, "internal server error"
}
