package server

import (
	"context"
	"strings"

	"sketch-imprint/internal/game"

	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
)

// messageUnknown answers frames whose name could not be read.
const messageUnknown game.Op = "unknown"

type envelope struct {
	MessageName string `json:"message_name"`
}

type createGameRequest struct {
	HostPlayerName string `json:"host_player_name" binding:"required,name"`
}

type joinGameRequest struct {
	RoomCode   string `json:"room_code" binding:"required,max=12"`
	PlayerName string `json:"player_name" binding:"required,name"`
}

type updateSettingsRequest struct {
	GameSettings *game.Settings `json:"game_settings" binding:"required"`
}

type submitDrawingRequest struct {
	Drawing game.Drawing `json:"drawing" binding:"required"`
	Round   int          `json:"round" binding:"required,min=1"`
}

type submitVoteRequest struct {
	Votes map[uuid.UUID]int `json:"votes" binding:"required,dive,min=0,max=3"`
}

type setPlayerReadyRequest struct {
	ReadyState *bool `json:"ready_state" binding:"required"`
}

type createGameResult struct {
	RoomCode string `json:"room_code"`
}

// response is the reply to every inbound message. Exactly one of the three
// outcome fields is set.
type response struct {
	MessageName string `json:"message_name"`
	Success     any    `json:"success,omitempty"`
	ClientError string `json:"client_error,omitempty"`
	ServerError string `json:"server_error,omitempty"`
}

func clientError(op game.Op, reason string) response {
	return response{MessageName: string(op), ClientError: reason}
}

func (s *Server) respond(cl *client, op game.Op, err error, result any) response {
	outcome, reason := game.Classify(err)
	switch outcome {
	case game.OutcomeSuccess:
		if result == nil {
			result = struct{}{}
		}
		return response{MessageName: string(op), Success: result}
	case game.OutcomeClientError:
		cl.log.Debug().Str("message_name", string(op)).Str("reason", reason).Msg("command rejected")
		return clientError(op, reason)
	default:
		cl.log.Error().Err(err).Str("message_name", string(op)).Msg("command failed")
		return response{MessageName: string(op), ServerError: reason}
	}
}

// route decodes the request for op and hands it to the rooms.
func (s *Server) route(ctx context.Context, cl *client, op game.Op, data []byte) response {
	var cmd game.Command
	switch op {
	case game.OpCreateGame:
		var req createGameRequest
		if err := binding.JSON.BindBody(data, &req); err != nil {
			return bindError(op, err)
		}
		code, err := s.rooms.CreateGame(ctx, cl.id, req.HostPlayerName, cl)
		if err != nil {
			return s.respond(cl, op, err, nil)
		}
		cl.log.Info().Str("room_code", code).Msg("game created")
		return s.respond(cl, op, nil, createGameResult{RoomCode: code})
	case game.OpJoinGame:
		var req joinGameRequest
		if err := binding.JSON.BindBody(data, &req); err != nil {
			return bindError(op, err)
		}
		code := strings.ToUpper(strings.TrimSpace(req.RoomCode))
		err := s.rooms.JoinGame(ctx, cl.id, code, req.PlayerName, cl)
		if err == nil {
			cl.log.Info().Str("room_code", code).Msg("player joined")
		}
		return s.respond(cl, op, err, nil)
	case game.OpUpdateSettings:
		var req updateSettingsRequest
		if err := binding.JSON.BindBody(data, &req); err != nil {
			return bindError(op, err)
		}
		cmd = game.UpdateSettings{Settings: *req.GameSettings}
	case game.OpStartGame:
		cmd = game.StartGame{}
	case game.OpSubmitDrawing:
		var req submitDrawingRequest
		if err := binding.JSON.BindBody(data, &req); err != nil {
			return bindError(op, err)
		}
		cmd = game.SubmitDrawing{Drawing: req.Drawing, Round: req.Round}
	case game.OpSubmitVote:
		var req submitVoteRequest
		if err := binding.JSON.BindBody(data, &req); err != nil {
			return bindError(op, err)
		}
		cmd = game.SubmitVote{Votes: req.Votes}
	case game.OpSetPlayerReady:
		var req setPlayerReadyRequest
		if err := binding.JSON.BindBody(data, &req); err != nil {
			return bindError(op, err)
		}
		cmd = game.SetPlayerReady{Ready: *req.ReadyState}
	case game.OpPlayAgain:
		cmd = game.PlayAgain{}
	default:
		return clientError(op, "unknown message")
	}
	return s.respond(cl, op, s.rooms.Dispatch(ctx, cl.id, cmd), nil)
}
