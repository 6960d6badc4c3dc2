package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ScanTypeEntry = "entry"
	ScanTypeExit  = "exit"
)

// TicketScan is one admission event against a purchased ticket. Rows are
// append-only; up to the purchased quantity may exist per (order, tier,
// scan type).
type TicketScan struct {
	ID            uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primary_key"`
	OrderID       uuid.UUID `gorm:"type:uuid;not null;index:idx_scan_order_tier"`
	TicketTierID  uuid.UUID `gorm:"type:uuid;not null;index:idx_scan_order_tier"`
	EventID       uuid.UUID `gorm:"type:uuid;not null;index"`
	CustomerEmail string    `gorm:"not null"`
	ScanType      string    `gorm:"not null;default:'entry'"`
	ScannedAt     time.Time `gorm:"not null"`
	ScannedBy     string    `gorm:"not null"`
	Location      string
	Notes         string
	CreatedAt     time.Time
}

// GuestlistScan is one admission event against a guestlist pass.
type GuestlistScan struct {
	ID              uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primary_key"`
	GuestlistPassID uuid.UUID `gorm:"type:uuid;not null;index"`
	EventID         uuid.UUID `gorm:"type:uuid;not null;index"`
	ScanType        string    `gorm:"not null;default:'entry'"`
	ScannedAt       time.Time `gorm:"not null"`
	ScannedBy       string    `gorm:"not null"`
	Location        string
	Notes           string
	CreatedAt       time.Time
}
