package rooms

import (
	"context"

	"sketch-imprint/internal/game"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type envelope struct {
	playerID uuid.UUID
	cmd      game.Command
	reply    chan error
}

// room is the worker that owns one Game. Every command for the room goes
// through inbox and is applied by run, one at a time.
type room struct {
	code  string
	game  *game.Game
	inbox chan envelope
	done  chan struct{}

	mgr       *Manager
	recorder  Recorder
	afterFunc AfterFunc
	timer     Stopper
	log       zerolog.Logger
}

// send delivers a command and waits for its result. ctx only bounds the wait
// for mailbox space; an accepted command is always answered.
func (r *room) send(ctx context.Context, playerID uuid.UUID, cmd game.Command) error {
	reply := make(chan error, 1)
	select {
	case r.inbox <- envelope{playerID: playerID, cmd: cmd, reply: reply}:
	case <-r.done:
		return roomGone(cmd)
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-reply:
		return err
	case <-r.done:
		select {
		case err := <-reply:
			return err
		default:
			return roomGone(cmd)
		}
	}
}

// post is used by timers. It drops the command if the room has closed.
func (r *room) post(cmd game.Command) {
	select {
	case r.inbox <- envelope{playerID: uuid.Nil, cmd: cmd, reply: make(chan error, 1)}:
	case <-r.done:
	}
}

func (r *room) run() {
	defer r.mgr.wg.Done()
	for {
		select {
		case env := <-r.inbox:
			r.handle(env)
			if r.game.AllPlayersDisconnected() {
				r.close("all players disconnected")
				return
			}
		case <-r.mgr.quit:
			r.close("server shutting down")
			return
		}
	}
}

func (r *room) handle(env envelope) {
	before := r.snapshot()
	err := r.game.Handle(env.playerID, env.cmd)
	defer func() { env.reply <- err }()

	if outcome, _ := game.Classify(err); outcome == game.OutcomeServerError {
		r.log.Error().Err(err).Str("player_id", env.playerID.String()).Str("op", string(env.cmd.Op())).Msg("command failed")
	} else if err != nil {
		r.log.Debug().Err(err).Str("player_id", env.playerID.String()).Str("op", string(env.cmd.Op())).Msg("command rejected")
	}

	after := r.snapshot()
	if after == before {
		return
	}
	r.recordTransition(before, after)
	r.armPhaseTimer()
}

func (r *room) snapshot() phaseKey {
	return phaseKey{round: r.game.RoundNumber(), state: r.game.State()}
}

func (r *room) close(reason string) {
	r.cancelPhaseTimer()
	close(r.done)
	r.recorder.Record(r.code, r.game.RoundNumber(), EventRoomClosed, eventPayload{Reason: reason})
	r.log.Info().Str("reason", reason).Msg("room closed")
	r.mgr.removeRoom(r)
}

func roomGone(cmd game.Command) error {
	return &game.Error{Op: cmd.Op(), Code: game.CodeRoomDoesNotExist}
}
