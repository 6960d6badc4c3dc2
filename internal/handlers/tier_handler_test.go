package handlers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/krizhnx/CarnivalLDN-sub000/internal/models"
)

func TestUpdateTierRequestApply_KeepsOmittedFields(t *testing.T) {
	from := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	until := time.Date(2025, 6, 20, 22, 0, 0, 0, time.UTC)
	original := 2000

	tier := models.TicketTier{
		Name:           "Early Bird",
		Price:          1500,
		OriginalPrice:  &original,
		Capacity:       100,
		AvailableFrom:  &from,
		AvailableUntil: &until,
	}

	name := "General Release"
	price := 2500
	UpdateTierRequest{Name: &name, Price: &price}.apply(&tier)

	assert.Equal(t, "General Release", tier.Name)
	assert.Equal(t, 2500, tier.Price)
	assert.Equal(t, 100, tier.Capacity)
	assert.Equal(t, &original, tier.OriginalPrice)
	assert.Equal(t, &from, tier.AvailableFrom)
	assert.Equal(t, &until, tier.AvailableUntil)
}

func TestUpdateTierRequestApply_SetsProvidedFields(t *testing.T) {
	tier := models.TicketTier{Name: "Early Bird", Capacity: 100}

	capacity := 150
	from := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)
	UpdateTierRequest{Capacity: &capacity, AvailableFrom: &from}.apply(&tier)

	assert.Equal(t, "Early Bird", tier.Name)
	assert.Equal(t, 150, tier.Capacity)
	assert.Equal(t, &from, tier.AvailableFrom)
}
