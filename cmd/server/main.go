package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sketch-imprint/internal/config"
	"sketch-imprint/internal/db"
	"sketch-imprint/internal/deck"
	"sketch-imprint/internal/logger"
	"sketch-imprint/internal/rooms"
	"sketch-imprint/internal/server"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Warn().Err(err).Msg("failed to load .env")
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	logger.Setup(cfg.LogLevel, cfg.LogFormat)
	gin.SetMode(gin.ReleaseMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var conn *gorm.DB
	if cfg.DatabaseURL != "" {
		conn, err = db.Open(cfg.DatabaseURL, db.PoolConfig{
			MaxOpenConns:    cfg.DBMaxOpenConns,
			MaxIdleConns:    cfg.DBMaxIdleConns,
			ConnMaxLifetime: cfg.DBConnMaxLifetime(),
			ConnMaxIdleTime: cfg.DBConnMaxIdleTime(),
		})
		if err != nil {
			log.Fatal().Err(err).Msg("database connection failed")
		}
		if err := db.Migrate(conn); err != nil {
			log.Fatal().Err(err).Msg("database migration failed")
		}
	}

	library, err := loadLibrary(cfg, conn)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load decks")
	}
	log.Info().Strs("decks", library.Names()).Msg("decks loaded")

	roomsCfg := rooms.Config{
		Library:        library,
		DefaultRounds:  cfg.DefaultRounds,
		ImprintStrokes: cfg.ImprintStrokes,
		CodeLength:     cfg.RoomCodeLength,
		MailboxSize:    cfg.RoomMailbox,
	}
	// The event log outlives the rooms so room_closed rows still land.
	eventsCtx, stopEvents := context.WithCancel(context.Background())
	eventsDone := make(chan struct{})
	if conn != nil {
		events := db.NewEventLog(conn, 0)
		roomsCfg.Recorder = events
		go func() {
			defer close(eventsDone)
			events.Run(eventsCtx)
		}()
	} else {
		close(eventsDone)
	}
	manager := rooms.NewManager(roomsCfg)

	srv := server.New(manager, library, cfg)
	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("sketch-imprint server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	srv.CloseClients()
	if err := manager.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("rooms shutdown")
	}
	stopEvents()
	<-eventsDone
}

// loadLibrary picks the deck source: the prompt_library table when a
// database is configured and holds prompts, then DECK_DIR, then the bundled
// decks.
func loadLibrary(cfg config.Config, conn *gorm.DB) (*deck.Library, error) {
	if conn != nil {
		decks, err := db.LoadDecks(conn)
		if err != nil {
			return nil, err
		}
		if len(decks) > 0 {
			return deck.NewLibrary(decks)
		}
		log.Info().Msg("prompt library is empty, falling back to deck files")
	}
	if cfg.DeckDir != "" {
		return deck.LoadDir(cfg.DeckDir)
	}
	return deck.LoadDefault()
}
