package inventory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/krizhnx/CarnivalLDN-sub000/internal/models"
)

func TestRemaining(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		sold     int
		want     int
	}{
		{"untouched", 50, 0, 50},
		{"partially sold", 50, 30, 20},
		{"sold out", 50, 50, 0},
		{"oversold floors at zero", 50, 55, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tier := models.TicketTier{Capacity: tt.capacity, SoldCount: tt.sold}
			assert.Equal(t, tt.want, Remaining(tier))
		})
	}
}

func TestIsOnSale(t *testing.T) {
	now := time.Date(2025, 6, 20, 12, 0, 0, 0, time.UTC)
	earlier := now.Add(-time.Hour)
	later := now.Add(time.Hour)

	base := models.TicketTier{Capacity: 10, SoldCount: 0, IsActive: true}

	t.Run("active with stock", func(t *testing.T) {
		assert.True(t, IsOnSale(base, now))
	})

	t.Run("forced inactive", func(t *testing.T) {
		tier := base
		tier.IsActive = false
		assert.False(t, IsOnSale(tier, now))
	})

	t.Run("sold out", func(t *testing.T) {
		tier := base
		tier.SoldCount = 10
		assert.False(t, IsOnSale(tier, now))
	})

	t.Run("before sale window", func(t *testing.T) {
		tier := base
		tier.AvailableFrom = &later
		assert.False(t, IsOnSale(tier, now))
	})

	t.Run("after sale window", func(t *testing.T) {
		tier := base
		tier.AvailableUntil = &earlier
		assert.False(t, IsOnSale(tier, now))
	})

	t.Run("inside sale window", func(t *testing.T) {
		tier := base
		tier.AvailableFrom = &earlier
		tier.AvailableUntil = &later
		assert.True(t, IsOnSale(tier, now))
	})
}
