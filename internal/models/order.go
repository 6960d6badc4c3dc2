package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
	OrderStatusFailed    = "failed"
	OrderStatusExpired   = "expired"
)

type Order struct {
	gorm.Model
	ID            uuid.UUID `gorm:"type:uuid;primary_key"`
	EventID       uuid.UUID `gorm:"type:uuid;not null;index"`
	Event         Event
	CustomerEmail string `gorm:"not null;index"`
	CustomerName  string `gorm:"not null"`
	CustomerPhone string
	DateOfBirth   *time.Time
	Gender        string
	Status        string  `gorm:"not null;default:'pending'"`
	TotalAmount   int     `gorm:"not null"`
	Currency      string  `gorm:"not null;default:'GBP'"`
	ReferralCode  *string `gorm:"index"`
	Tickets       []OrderTicket
}

func (order *Order) BeforeCreate(tx *gorm.DB) (err error) {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	return
}

type OrderTicket struct {
	gorm.Model
	ID           uuid.UUID `gorm:"type:uuid;primary_key"`
	OrderID      uuid.UUID `gorm:"type:uuid;not null;index:idx_order_tier"`
	TicketTierID uuid.UUID `gorm:"type:uuid;not null;index:idx_order_tier"`
	TicketTier   TicketTier
	Quantity     int `gorm:"not null"`
	UnitPrice    int `gorm:"not null"`
	TotalPrice   int `gorm:"not null"`
}

func (item *OrderTicket) BeforeCreate(tx *gorm.DB) (err error) {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	return
}
