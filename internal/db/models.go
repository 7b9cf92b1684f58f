package db

import (
	"time"

	"gorm.io/datatypes"
)

// PromptLibrary stores one prompt of one deck. Category is the deck name.
type PromptLibrary struct {
	ID        uint      `gorm:"primaryKey"`
	Category  string    `gorm:"size:64;not null;uniqueIndex:idx_prompt_library_category_text"`
	Text      string    `gorm:"size:280;not null;uniqueIndex:idx_prompt_library_category_text"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (PromptLibrary) TableName() string {
	return "prompt_library"
}

// Event is one row of the room lifecycle audit trail. Rooms live in memory,
// so rows are keyed by room code rather than a foreign key.
type Event struct {
	ID        uint           `gorm:"primaryKey"`
	RoomCode  string         `gorm:"size:12;index:idx_game_events_room_code;not null"`
	Round     int            `gorm:"not null;default:0"`
	Type      string         `gorm:"size:64;not null"`
	Payload   datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt time.Time      `gorm:"not null"`
}

func (Event) TableName() string {
	return "game_events"
}
