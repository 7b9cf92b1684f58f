// Package game is the session state machine of one room: roster, settings,
// rounds, scoring and the imprint carry-over between rounds.
//
// A Game is not safe for concurrent use. The rooms package serializes every
// command for a room through a single worker.
package game

import "github.com/google/uuid"

const (
	MinPlayers       = 2
	MaxPlayers       = 8
	MaxVotesPerRound = 3
	MaxRounds        = 25
	MaxPhaseSeconds  = 300

	DefaultRounds         = 5
	DefaultImprintStrokes = 3

	// BonusCard is added to every game deck on top of the enabled decks.
	BonusCard = "rabbit"
)

type GameState string

const (
	StateWaitingForPlayers GameState = "WaitingForPlayers"
	StateDrawingPhase      GameState = "DrawingPhase"
	StateVotingPhase       GameState = "VotingPhase"
	StateResults           GameState = "Results"
)

type PlayerState string

const (
	PlayerNotReady    PlayerState = "NotReady"
	PlayerReady       PlayerState = "Ready"
	PlayerDrawing     PlayerState = "Drawing"
	PlayerDrawingDone PlayerState = "DrawingDone"
	PlayerVoting      PlayerState = "Voting"
	PlayerVotingDone  PlayerState = "VotingDone"
)

// Stroke is one pen stroke. The geometry is opaque to the game.
type Stroke struct {
	Coordinates [][2]float32 `json:"coordinates"`
	BrushSize   int          `json:"brush_size"`
	Color       string       `json:"color"`
}

type Drawing []Stroke

func (d Drawing) clone() Drawing {
	if d == nil {
		return nil
	}
	out := make(Drawing, len(d))
	copy(out, d)
	return out
}

// Player is owned by its Game and only mutated through it.
type Player struct {
	ID           uuid.UUID
	Name         string
	HostRank     int
	State        PlayerState
	Score        int
	Disconnected bool

	sink Sink
}

func (p *Player) send(msg Message) {
	if p.Disconnected || p.sink == nil {
		return
	}
	p.sink.Send(msg)
}
