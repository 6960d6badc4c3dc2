package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TicketTier struct {
	gorm.Model
	ID            uuid.UUID `gorm:"type:uuid;primary_key"`
	EventID       uuid.UUID `gorm:"type:uuid;not null;index"`
	Event         Event
	Name          string `gorm:"not null"`
	Price         int    `gorm:"not null"`
	OriginalPrice *int
	Capacity      int  `gorm:"not null"`
	SoldCount     int  `gorm:"not null;default:0"`
	IsActive      bool `gorm:"not null;default:true"`
	// Advisory sale window, shown on the event page; not consulted at the door.
	AvailableFrom  *time.Time
	AvailableUntil *time.Time
}

func (tier *TicketTier) BeforeCreate(tx *gorm.DB) (err error) {
	if tier.ID == uuid.Nil {
		tier.ID = uuid.New()
	}
	return
}
