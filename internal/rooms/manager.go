// Package rooms routes player commands to per-room workers and owns the
// directory of live rooms.
package rooms

import (
	"context"
	"math/rand/v2"
	"sync"

	"sketch-imprint/internal/game"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const DefaultMailboxSize = 64

type Config struct {
	Library        game.DeckLibrary
	DefaultRounds  int
	ImprintStrokes int
	CodeLength     int
	MailboxSize    int
	// CodeRand seeds room codes. Nil means a crypto-seeded source.
	CodeRand  *rand.Rand
	Recorder  Recorder
	AfterFunc AfterFunc
}

// Manager maps room codes to rooms and players to the room they are in.
// A player is in at most one room.
type Manager struct {
	cfg Config

	mu           sync.Mutex
	rooms        map[string]*room
	roomByPlayer map[uuid.UUID]string
	codes        *CodeGenerator

	quit     chan struct{}
	quitOnce sync.Once
	wg       sync.WaitGroup
}

func NewManager(cfg Config) *Manager {
	if cfg.MailboxSize <= 0 {
		cfg.MailboxSize = DefaultMailboxSize
	}
	if cfg.Recorder == nil {
		cfg.Recorder = nopRecorder{}
	}
	if cfg.AfterFunc == nil {
		cfg.AfterFunc = systemAfterFunc
	}
	return &Manager{
		cfg:          cfg,
		rooms:        make(map[string]*room),
		roomByPlayer: make(map[uuid.UUID]string),
		codes:        NewCodeGenerator(cfg.CodeLength, cfg.CodeRand),
		quit:         make(chan struct{}),
	}
}

// CreateGame opens a new room with the caller as host and returns its code.
func (m *Manager) CreateGame(ctx context.Context, playerID uuid.UUID, hostName string, sink game.Sink) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	select {
	case <-m.quit:
		return "", game.ErrInternal
	default:
	}
	if _, ok := m.roomByPlayer[playerID]; ok {
		return "", &game.Error{Op: game.OpCreateGame, Code: game.CodeAlreadyInAGame}
	}
	code := m.codes.Next(func(code string) bool {
		_, taken := m.rooms[code]
		return taken
	})
	g, err := game.NewGame(code, playerID, hostName, sink, game.Options{
		Library:        m.cfg.Library,
		DefaultRounds:  m.cfg.DefaultRounds,
		ImprintStrokes: m.cfg.ImprintStrokes,
	})
	if err != nil {
		return "", err
	}

	r := &room{
		code:      code,
		game:      g,
		inbox:     make(chan envelope, m.cfg.MailboxSize),
		done:      make(chan struct{}),
		mgr:       m,
		recorder:  m.cfg.Recorder,
		afterFunc: m.cfg.AfterFunc,
		log:       log.With().Str("room_code", code).Logger(),
	}
	m.rooms[code] = r
	m.roomByPlayer[playerID] = code
	m.wg.Add(1)
	go r.run()

	m.cfg.Recorder.Record(code, 0, EventGameCreated, eventPayload{Host: hostName, Players: 1})
	return code, nil
}

// JoinGame adds the caller to an existing room. The player is reserved in the
// index before the room sees the join, so a concurrent create or join for the
// same player fails, and the reservation is dropped if the room rejects it.
func (m *Manager) JoinGame(ctx context.Context, playerID uuid.UUID, code, name string, sink game.Sink) error {
	m.mu.Lock()
	if _, ok := m.roomByPlayer[playerID]; ok {
		m.mu.Unlock()
		return &game.Error{Op: game.OpJoinGame, Code: game.CodeAlreadyInAGame}
	}
	r, ok := m.rooms[code]
	if !ok {
		m.mu.Unlock()
		return &game.Error{Op: game.OpJoinGame, Code: game.CodeRoomDoesNotExist}
	}
	m.roomByPlayer[playerID] = code
	m.mu.Unlock()

	err := r.send(ctx, playerID, game.JoinGame{Name: name, Sink: sink})
	if err != nil {
		m.mu.Lock()
		if m.roomByPlayer[playerID] == code {
			delete(m.roomByPlayer, playerID)
		}
		m.mu.Unlock()
	}
	return err
}

// Dispatch routes a command to the caller's room.
func (m *Manager) Dispatch(ctx context.Context, playerID uuid.UUID, cmd game.Command) error {
	m.mu.Lock()
	code, ok := m.roomByPlayer[playerID]
	if !ok {
		m.mu.Unlock()
		return &game.Error{Op: cmd.Op(), Code: game.CodeNotInAGame}
	}
	r, ok := m.rooms[code]
	m.mu.Unlock()
	if !ok {
		return roomGone(cmd)
	}
	return r.send(ctx, playerID, cmd)
}

// Disconnect tells the caller's room that their connection is gone. The
// room tears itself down once nobody is left connected.
//
// The player leaves the index immediately, so the room must hear about it:
// ctx deadlines are ignored and the call waits for mailbox space until the
// room closes.
func (m *Manager) Disconnect(ctx context.Context, playerID uuid.UUID) error {
	m.mu.Lock()
	code, ok := m.roomByPlayer[playerID]
	delete(m.roomByPlayer, playerID)
	r, found := m.rooms[code]
	m.mu.Unlock()
	if !ok || !found {
		return nil
	}
	return r.send(context.WithoutCancel(ctx), playerID, game.Disconnect{})
}

// removeRoom is called by a room's worker after it has closed.
func (m *Manager) removeRoom(r *room) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rooms[r.code] == r {
		delete(m.rooms, r.code)
	}
	for playerID, code := range m.roomByPlayer {
		if code == r.code {
			delete(m.roomByPlayer, playerID)
		}
	}
}

func (m *Manager) RoomCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rooms)
}

// RoomOf returns the code of the room the player is in.
func (m *Manager) RoomOf(playerID uuid.UUID) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	code, ok := m.roomByPlayer[playerID]
	return code, ok
}

// Shutdown closes every room and waits for the workers to exit.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	m.quitOnce.Do(func() { close(m.quit) })
	m.mu.Unlock()
	finished := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(finished)
	}()
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
