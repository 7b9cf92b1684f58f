package rooms

import (
	"time"

	"sketch-imprint/internal/game"
)

// Stopper cancels a pending timer.
type Stopper interface {
	Stop() bool
}

// AfterFunc schedules f after d. Tests swap in a manual clock.
type AfterFunc func(d time.Duration, f func()) Stopper

func systemAfterFunc(d time.Duration, f func()) Stopper {
	return time.AfterFunc(d, f)
}

type phaseKey struct {
	round int
	state game.GameState
}

// armPhaseTimer replaces the pending deadline with one for the phase the
// game is in now. The timer never touches the game itself; it posts a
// PhaseTimeout into the mailbox like any other command.
func (r *room) armPhaseTimer() {
	r.cancelPhaseTimer()
	limit, ok := r.game.PhaseTimeLimit()
	if !ok {
		return
	}
	key := phaseKey{round: r.game.RoundNumber(), state: r.game.State()}
	r.timer = r.afterFunc(limit, func() {
		r.post(game.PhaseTimeout{Round: key.round, State: key.state})
	})
	r.log.Debug().Int("round", key.round).Str("phase", string(key.state)).Dur("limit", limit).Msg("phase timer armed")
}

func (r *room) cancelPhaseTimer() {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}
