package inventory

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/krizhnx/CarnivalLDN-sub000/internal/models"
)

var (
	ErrTierNotFound = errors.New("ticket tier not found")
	ErrTierInactive = errors.New("ticket tier is not on sale")
	ErrSoldOut      = errors.New("not enough tickets remaining")
)

// Remaining returns the unsold capacity of a tier, floored at zero.
func Remaining(tier models.TicketTier) int {
	remaining := tier.Capacity - tier.SoldCount
	if remaining < 0 {
		return 0
	}
	return remaining
}

// IsOnSale reports whether the tier should be purchasable right now. The
// availability window is advisory and only consulted here, never at the door.
func IsOnSale(tier models.TicketTier, now time.Time) bool {
	if !tier.IsActive || Remaining(tier) == 0 {
		return false
	}
	if tier.AvailableFrom != nil && now.Before(*tier.AvailableFrom) {
		return false
	}
	if tier.AvailableUntil != nil && now.After(*tier.AvailableUntil) {
		return false
	}
	return true
}

// Reserve bumps sold_count by qty inside the caller's transaction, guarded
// by the capacity ceiling and the active flag so concurrent checkouts cannot
// oversell. RowsAffected zero means the guard refused; the follow-up read is
// only for picking the right error.
func Reserve(tx *gorm.DB, tierID uuid.UUID, qty int) error {
	res := tx.Model(&models.TicketTier{}).
		Where("id = ? AND is_active = true AND sold_count + ? <= capacity", tierID, qty).
		UpdateColumn("sold_count", gorm.Expr("sold_count + ?", qty))
	if res.Error != nil {
		return fmt.Errorf("reserving tickets: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var tier models.TicketTier
	if err := tx.Where("id = ?", tierID).First(&tier).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTierNotFound
		}
		return fmt.Errorf("reserving tickets: %w", err)
	}
	if !tier.IsActive {
		return ErrTierInactive
	}
	return ErrSoldOut
}

// Release gives reserved tickets back after a failed or expired payment.
// Floored at zero so a double release cannot drive sold_count negative.
func Release(tx *gorm.DB, tierID uuid.UUID, qty int) error {
	res := tx.Model(&models.TicketTier{}).
		Where("id = ?", tierID).
		UpdateColumn("sold_count", gorm.Expr("GREATEST(sold_count - ?, 0)", qty))
	if res.Error != nil {
		return fmt.Errorf("releasing tickets: %w", res.Error)
	}
	return nil
}
