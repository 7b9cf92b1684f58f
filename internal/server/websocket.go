package server

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"sketch-imprint/internal/game"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 512 * 1024
	commandTimeout = 5 * time.Second
)

// client is one websocket connection. It is also the player's game.Sink, so
// rooms write to it directly and must never block on it.
type client struct {
	id      uuid.UUID
	conn    *websocket.Conn
	send    chan []byte
	limiter *rate.Limiter
	done    chan struct{}
	once    sync.Once
	log     zerolog.Logger
}

func newClient(conn *websocket.Conn, buffer int, perSecond float64, burst int) *client {
	if buffer <= 0 {
		buffer = 1
	}
	id := uuid.New()
	return &client{
		id:      id,
		conn:    conn,
		send:    make(chan []byte, buffer),
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
		done:    make(chan struct{}),
		log:     log.With().Str("player_id", id.String()).Logger(),
	}
}

func (c *client) Send(msg game.Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		c.log.Error().Err(err).Str("message_name", msg.Name()).Msg("encode message")
		return
	}
	c.enqueue(data)
}

func (c *client) reply(resp response) {
	data, err := json.Marshal(resp)
	if err != nil {
		c.log.Error().Err(err).Str("message_name", resp.MessageName).Msg("encode response")
		return
	}
	c.enqueue(data)
}

// enqueue hands a frame to the writer. A client that cannot keep up is
// dropped rather than stalling its room.
func (c *client) enqueue(data []byte) {
	select {
	case <-c.done:
		return
	default:
	}
	select {
	case c.send <- data:
	default:
		c.log.Warn().Int("buffered", len(c.send)).Msg("send buffer full, closing connection")
		c.close()
	}
}

func (c *client) close() {
	c.once.Do(func() { close(c.done) })
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case data := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.close()
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.close()
				return
			}
		case <-c.done:
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return
		}
	}
}

func (s *Server) handleWebsocket(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Str("remote", c.Request.RemoteAddr).Msg("websocket upgrade failed")
		return
	}
	cl := newClient(conn, s.cfg.ClientSendBuffer, s.cfg.ClientMessagesPerSecond, s.cfg.ClientMessageBurst)
	cl.log.Info().Str("remote", c.Request.RemoteAddr).Msg("ws connected")
	s.track(cl)
	go cl.writePump()
	go s.readPump(cl)
}

func (s *Server) readPump(cl *client) {
	defer func() {
		cl.close()
		s.untrack(cl)
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		if err := s.rooms.Disconnect(ctx, cl.id); err != nil {
			cl.log.Warn().Err(err).Msg("disconnect from room")
		}
		cl.log.Info().Msg("ws disconnected")
	}()

	cl.conn.SetReadLimit(maxMessageSize)
	_ = cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	cl.conn.SetPongHandler(func(string) error {
		return cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		_, data, err := cl.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				cl.log.Warn().Err(err).Msg("ws read")
			}
			return
		}
		s.handleMessage(cl, data)
	}
}

func (s *Server) handleMessage(cl *client, data []byte) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil || env.MessageName == "" {
		cl.reply(clientError(messageUnknown, "malformed message"))
		return
	}
	op := game.Op(env.MessageName)
	if !cl.limiter.Allow() {
		cl.reply(clientError(op, "too many messages"))
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	cl.reply(s.route(ctx, cl, op, data))
}
