package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Event struct {
	gorm.Model
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	Title       string    `gorm:"not null"`
	Description string    `gorm:"not null"`
	Date        time.Time `gorm:"not null;index"`
	Venue       string    `gorm:"not null"`
	City        string    `gorm:"not null"`
	PosterPath  string
	IsArchived  bool `gorm:"not null;default:false"`
	TicketTiers []TicketTier
	User        User
	UserID      uuid.UUID
}

func (event *Event) BeforeCreate(tx *gorm.DB) (err error) {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	return
}

// HasPassed reports whether the event date is strictly before now.
func (event *Event) HasPassed(now time.Time) bool {
	return event.Date.Before(now)
}
