package rooms

import "sketch-imprint/internal/game"

const (
	EventGameCreated   = "game_created"
	EventGameStarted   = "game_started"
	EventRoundStarted  = "round_started"
	EventVotingStarted = "voting_started"
	EventGameFinished  = "game_finished"
	EventGameReset     = "game_reset"
	EventRoomClosed    = "room_closed"
)

// Recorder receives room lifecycle events. Implementations must not block.
type Recorder interface {
	Record(roomCode string, round int, eventType string, payload any)
}

type nopRecorder struct{}

func (nopRecorder) Record(string, int, string, any) {}

type eventPayload struct {
	Host    string         `json:"host,omitempty"`
	Players int            `json:"players,omitempty"`
	Scores  map[string]int `json:"scores,omitempty"`
	Reason  string         `json:"reason,omitempty"`
}

func (r *room) recordTransition(before, after phaseKey) {
	var event string
	switch {
	case before.state == game.StateWaitingForPlayers && after.state == game.StateDrawingPhase:
		event = EventGameStarted
	case after.state == game.StateDrawingPhase && after.round > before.round:
		event = EventRoundStarted
	case after.state == game.StateVotingPhase && before.state != game.StateVotingPhase:
		event = EventVotingStarted
	case after.state == game.StateResults && before.state != game.StateResults:
		event = EventGameFinished
	case before.state == game.StateResults && after.state == game.StateWaitingForPlayers:
		event = EventGameReset
	default:
		return
	}

	payload := eventPayload{Players: len(r.game.Players())}
	if event == EventGameFinished {
		payload.Scores = make(map[string]int)
		for _, p := range r.game.Players() {
			payload.Scores[p.Name] = p.Score
		}
	}
	r.recorder.Record(r.code, after.round, event, payload)
	r.log.Info().Str("event", event).Int("round", after.round).Msg("room transition")
}
