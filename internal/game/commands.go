package game

import "github.com/google/uuid"

// Op names the operation a command performs. The values double as the
// inbound message names on the wire.
type Op string

const (
	OpCreateGame     Op = "create_game"
	OpJoinGame       Op = "join_game"
	OpUpdateSettings Op = "update_game_settings"
	OpStartGame      Op = "start_game"
	OpSubmitDrawing  Op = "submit_drawing"
	OpSubmitVote     Op = "submit_vote"
	OpSetPlayerReady Op = "set_player_ready"
	OpPlayAgain      Op = "play_again"
	OpDisconnect     Op = "disconnect"
	OpPhaseTimeout   Op = "phase_timeout"
)

// Command is every input a room accepts. Game.Handle is the single entry
// point that applies them.
type Command interface {
	Op() Op
}

type JoinGame struct {
	Name string
	Sink Sink
}

type UpdateSettings struct {
	Settings Settings
}

type StartGame struct{}

type SubmitDrawing struct {
	Drawing Drawing
	Round   int
}

type SubmitVote struct {
	Votes map[uuid.UUID]int
}

type SetPlayerReady struct {
	Ready bool
}

type PlayAgain struct{}

type Disconnect struct{}

// PhaseTimeout is posted by the room's deadline timer. It only applies if the
// game is still in the same round and phase it was armed for.
type PhaseTimeout struct {
	Round int
	State GameState
}

func (JoinGame) Op() Op       { return OpJoinGame }
func (UpdateSettings) Op() Op { return OpUpdateSettings }
func (StartGame) Op() Op      { return OpStartGame }
func (SubmitDrawing) Op() Op  { return OpSubmitDrawing }
func (SubmitVote) Op() Op     { return OpSubmitVote }
func (SetPlayerReady) Op() Op { return OpSetPlayerReady }
func (PlayAgain) Op() Op      { return OpPlayAgain }
func (Disconnect) Op() Op     { return OpDisconnect }
func (PhaseTimeout) Op() Op   { return OpPhaseTimeout }
