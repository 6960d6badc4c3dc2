package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Affiliate is a referral partner; completed orders carry their code.
type Affiliate struct {
	gorm.Model
	ID       uuid.UUID `gorm:"type:uuid;primary_key"`
	Code     string    `gorm:"unique;not null"`
	Name     string    `gorm:"not null"`
	Email    string
	IsActive bool `gorm:"not null;default:true"`
}

func (affiliate *Affiliate) BeforeCreate(tx *gorm.DB) (err error) {
	if affiliate.ID == uuid.Nil {
		affiliate.ID = uuid.New()
	}
	return
}
