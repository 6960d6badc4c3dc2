package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	GuestlistCategoryFree   = "free"
	GuestlistCategoryGL     = "GL"
	GuestlistCategoryTables = "tables"
	GuestlistCategoryOther  = "other"
)

// GuestlistPass is a single shareable credential good for TotalTickets
// admissions, independent of the ticket tier system. RemainingScans starts
// at TotalTickets and only ever moves down, never below zero.
type GuestlistPass struct {
	gorm.Model
	ID             uuid.UUID `gorm:"type:uuid;primary_key"`
	EventID        uuid.UUID `gorm:"type:uuid;not null;index"`
	Event          Event
	LeadName       string `gorm:"not null"`
	LeadEmail      string `gorm:"not null"`
	LeadPhone      string
	TotalTickets   int    `gorm:"not null"`
	RemainingScans int    `gorm:"not null"`
	Category       string `gorm:"not null;default:'GL'"`
	Notes          string
}

func (pass *GuestlistPass) BeforeCreate(tx *gorm.DB) (err error) {
	if pass.ID == uuid.Nil {
		pass.ID = uuid.New()
	}
	return
}
