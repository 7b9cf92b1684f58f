package game

import "github.com/google/uuid"

const (
	MessageLobbyUpdate       = "lobby_update"
	MessageSettingsUpdate    = "game_settings_update"
	MessageDrawingParameters = "drawing_parameters"
	MessageVotingBallot      = "voting_ballot"
	MessageResults           = "results"
)

// Message is an outbound event addressed to one player.
type Message interface {
	Name() string
}

// Sink delivers messages to one player. Send must not block the room.
type Sink interface {
	Send(Message)
}

type PlayerView struct {
	Name           string      `json:"name"`
	State          PlayerState `json:"state"`
	Score          int         `json:"score"`
	IsHost         bool        `json:"is_host"`
	IsYou          bool        `json:"is_you"`
	IsDisconnected bool        `json:"is_disconnected"`
}

type LobbyUpdate struct {
	MessageName string       `json:"message_name"`
	RoomCode    string       `json:"room_code"`
	State       GameState    `json:"state"`
	Round       *int         `json:"round"`
	NumRounds   int          `json:"num_rounds"`
	Players     []PlayerView `json:"players"`
}

func (LobbyUpdate) Name() string { return MessageLobbyUpdate }

type SettingsUpdate struct {
	MessageName string `json:"message_name"`
	Settings
}

func (SettingsUpdate) Name() string { return MessageSettingsUpdate }

type DrawingParameters struct {
	MessageName       string  `json:"message_name"`
	Round             int     `json:"round"`
	DrawingSuggestion string  `json:"drawing_suggestion"`
	Imprint           Drawing `json:"imprint"`
}

func (DrawingParameters) Name() string { return MessageDrawingParameters }

type BallotItem struct {
	ID              uuid.UUID `json:"id"`
	Suggestion      string    `json:"suggestion"`
	Drawing         Drawing   `json:"drawing"`
	Imprint         Drawing   `json:"imprint"`
	IsVotingEnabled bool      `json:"is_voting_enabled"`
}

type VotingBallot struct {
	MessageName string       `json:"message_name"`
	Round       int          `json:"round"`
	Ballot      []BallotItem `json:"ballot"`
}

func (VotingBallot) Name() string { return MessageVotingBallot }

type Results struct {
	MessageName         string  `json:"message_name"`
	HighestRatedDrawing Drawing `json:"highest_rated_drawing"`
	Imprint             Drawing `json:"imprint"`
	NumVotes            int     `json:"num_votes"`
	DrawingSuggestion   string  `json:"drawing_suggestion"`
}

func (Results) Name() string { return MessageResults }
