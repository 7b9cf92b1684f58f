package db

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const defaultEventBuffer = 256

// EventLog writes room lifecycle events on a background goroutine so room
// workers never wait on the database.
type EventLog struct {
	conn  *gorm.DB
	queue chan Event
}

func NewEventLog(conn *gorm.DB, buffer int) *EventLog {
	if buffer <= 0 {
		buffer = defaultEventBuffer
	}
	return &EventLog{conn: conn, queue: make(chan Event, buffer)}
}

// Record queues an event. When the queue is full the event is dropped.
func (l *EventLog) Record(roomCode string, round int, eventType string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Warn().Err(err).Str("room_code", roomCode).Str("event", eventType).Msg("event payload encode failed")
		return
	}
	event := Event{
		RoomCode:  roomCode,
		Round:     round,
		Type:      eventType,
		Payload:   datatypes.JSON(data),
		CreatedAt: time.Now().UTC(),
	}
	select {
	case l.queue <- event:
	default:
		log.Warn().Str("room_code", roomCode).Str("event", eventType).Msg("event log full, dropping event")
	}
}

// Run drains the queue until ctx is cancelled, then flushes what is left.
func (l *EventLog) Run(ctx context.Context) {
	for {
		select {
		case event := <-l.queue:
			l.write(event)
		case <-ctx.Done():
			for {
				select {
				case event := <-l.queue:
					l.write(event)
				default:
					return
				}
			}
		}
	}
}

func (l *EventLog) write(event Event) {
	if l.conn == nil {
		return
	}
	if err := l.conn.Create(&event).Error; err != nil {
		log.Error().Err(err).Str("room_code", event.RoomCode).Str("event", event.Type).Msg("event write failed")
	}
}
