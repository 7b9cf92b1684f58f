// Package server exposes the game rooms over websockets.
package server

import (
	"context"
	"net/http"
	"slices"
	"sync"
	"time"

	"sketch-imprint/internal/config"
	"sketch-imprint/internal/game"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Rooms is the part of rooms.Manager the transport drives.
type Rooms interface {
	CreateGame(ctx context.Context, playerID uuid.UUID, hostName string, sink game.Sink) (string, error)
	JoinGame(ctx context.Context, playerID uuid.UUID, code, name string, sink game.Sink) error
	Dispatch(ctx context.Context, playerID uuid.UUID, cmd game.Command) error
	Disconnect(ctx context.Context, playerID uuid.UUID) error
}

// Catalog lists the prompt decks a host can enable.
type Catalog interface {
	Names() []string
	Size(name string) int
}

type Server struct {
	rooms    Rooms
	decks    Catalog
	cfg      config.Config
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
}

func New(rooms Rooms, decks Catalog, cfg config.Config) *Server {
	registerValidators()
	return &Server{
		rooms: rooms,
		decks: decks,
		cfg:   cfg,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return originAllowed(cfg.AllowedOrigins, r.Header.Get("Origin"))
			},
		},
		clients: make(map[*client]struct{}),
	}
}

func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())
	if len(s.cfg.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins: s.cfg.AllowedOrigins,
			AllowMethods: []string{http.MethodGet, http.MethodOptions},
			AllowHeaders: []string{
				"Content-Type",
				"Upgrade",
				"Connection",
				"Sec-WebSocket-Key",
				"Sec-WebSocket-Version",
				"Sec-WebSocket-Extensions",
				"Sec-WebSocket-Protocol",
			},
		}))
	}
	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "healthy") })
	r.GET("/api/decks", s.handleDecks)
	r.GET("/ws", s.handleWebsocket)
	return r
}

type deckSummary struct {
	Name string `json:"name"`
	Size int    `json:"size"`
}

func (s *Server) handleDecks(c *gin.Context) {
	names := s.decks.Names()
	decks := make([]deckSummary, 0, len(names))
	for _, name := range names {
		decks = append(decks, deckSummary{Name: name, Size: s.decks.Size(name)})
	}
	c.JSON(http.StatusOK, gin.H{"decks": decks})
}

// CloseClients drops every open connection. Each one disconnects from its
// room on the way out.
func (s *Server) CloseClients() {
	s.mu.Lock()
	clients := make([]*client, 0, len(s.clients))
	for cl := range s.clients {
		clients = append(clients, cl)
	}
	s.mu.Unlock()
	for _, cl := range clients {
		cl.close()
	}
}

func (s *Server) track(cl *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[cl] = struct{}{}
}

func (s *Server) untrack(cl *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.clients, cl)
}

// originAllowed accepts any origin when none are configured, and requests
// without an Origin header, which only non-browser clients send.
func originAllowed(allowed []string, origin string) bool {
	if len(allowed) == 0 || origin == "" {
		return true
	}
	return slices.Contains(allowed, origin)
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("http request")
	}
}
