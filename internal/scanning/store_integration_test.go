package scanning

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/krizhnx/CarnivalLDN-sub000/internal/models"
	"github.com/krizhnx/CarnivalLDN-sub000/internal/testdb"
)

type pgFixture struct {
	db    *gorm.DB
	store Store
	event models.Event
	tier  models.TicketTier
	order models.Order
}

func newPGFixture(t *testing.T) *pgFixture {
	t.Helper()
	db := testdb.Open(t)

	event := models.Event{
		ID:          uuid.New(),
		Title:       "Carnival Closing Party",
		Description: "Season finale",
		Date:        time.Now().Add(7 * 24 * time.Hour),
		Venue:       "Electric Brixton",
		City:        "London",
	}
	require.NoError(t, db.Create(&event).Error)

	tier := models.TicketTier{
		ID:       uuid.New(),
		EventID:  event.ID,
		Name:     "Early Bird",
		Price:    1500,
		Capacity: 100,
		IsActive: true,
	}
	require.NoError(t, db.Create(&tier).Error)

	order := models.Order{
		ID:            uuid.New(),
		EventID:       event.ID,
		CustomerEmail: "jamie@example.com",
		CustomerName:  "Jamie",
		Status:        models.OrderStatusCompleted,
		TotalAmount:   3000,
		Currency:      "GBP",
	}
	require.NoError(t, db.Create(&order).Error)

	return &pgFixture{db: db, store: NewStore(db), event: event, tier: tier, order: order}
}

func (f *pgFixture) ticketScan(scanType string) *models.TicketScan {
	return &models.TicketScan{
		OrderID:       f.order.ID,
		TicketTierID:  f.tier.ID,
		EventID:       f.event.ID,
		CustomerEmail: f.order.CustomerEmail,
		ScanType:      scanType,
		ScannedAt:     time.Now(),
		ScannedBy:     "door-1",
	}
}

func (f *pgFixture) scanRows(t *testing.T, scanType string) int64 {
	t.Helper()
	var count int64
	require.NoError(t, f.db.Model(&models.TicketScan{}).
		Where("order_id = ? AND ticket_tier_id = ? AND scan_type = ?", f.order.ID, f.tier.ID, scanType).
		Count(&count).Error)
	return count
}

func TestGormStore_AppendTicketScanEnforcesQuantity(t *testing.T) {
	f := newPGFixture(t)

	require.NoError(t, f.store.AppendTicketScan(f.ticketScan(models.ScanTypeEntry), 2))
	require.NoError(t, f.store.AppendTicketScan(f.ticketScan(models.ScanTypeEntry), 2))

	err := f.store.AppendTicketScan(f.ticketScan(models.ScanTypeEntry), 2)
	assert.ErrorIs(t, err, ErrScanLimitReached)
	assert.EqualValues(t, 2, f.scanRows(t, models.ScanTypeEntry))
}

func TestGormStore_AppendTicketScanCountsScanTypesSeparately(t *testing.T) {
	f := newPGFixture(t)

	require.NoError(t, f.store.AppendTicketScan(f.ticketScan(models.ScanTypeEntry), 1))
	require.NoError(t, f.store.AppendTicketScan(f.ticketScan(models.ScanTypeExit), 1))

	assert.ErrorIs(t, f.store.AppendTicketScan(f.ticketScan(models.ScanTypeEntry), 1), ErrScanLimitReached)
	assert.EqualValues(t, 1, f.scanRows(t, models.ScanTypeEntry))
	assert.EqualValues(t, 1, f.scanRows(t, models.ScanTypeExit))
}

func TestGormStore_ConsumeGuestlistPassStopsAtZero(t *testing.T) {
	f := newPGFixture(t)

	pass := models.GuestlistPass{
		ID:             uuid.New(),
		EventID:        f.event.ID,
		LeadName:       "Priya",
		LeadEmail:      "priya@example.com",
		TotalTickets:   2,
		RemainingScans: 2,
		Category:       models.GuestlistCategoryGL,
	}
	require.NoError(t, f.db.Create(&pass).Error)

	newScan := func() *models.GuestlistScan {
		return &models.GuestlistScan{
			GuestlistPassID: pass.ID,
			EventID:         f.event.ID,
			ScanType:        models.ScanTypeEntry,
			ScannedAt:       time.Now(),
			ScannedBy:       "door-1",
		}
	}

	require.NoError(t, f.store.ConsumeGuestlistPass(newScan()))
	require.NoError(t, f.store.ConsumeGuestlistPass(newScan()))

	err := f.store.ConsumeGuestlistPass(newScan())
	assert.ErrorIs(t, err, ErrPassExhausted)

	var reloaded models.GuestlistPass
	require.NoError(t, f.db.Where("id = ?", pass.ID).First(&reloaded).Error)
	assert.Equal(t, 0, reloaded.RemainingScans)

	// The refused scan must not leave a row behind.
	var rows int64
	require.NoError(t, f.db.Model(&models.GuestlistScan{}).
		Where("guestlist_pass_id = ?", pass.ID).
		Count(&rows).Error)
	assert.EqualValues(t, 2, rows)
}

func TestGormStore_ConsumeGuestlistPassUnknownPass(t *testing.T) {
	f := newPGFixture(t)

	err := f.store.ConsumeGuestlistPass(&models.GuestlistScan{
		GuestlistPassID: uuid.New(),
		EventID:         f.event.ID,
		ScanType:        models.ScanTypeEntry,
		ScannedAt:       time.Now(),
		ScannedBy:       "door-1",
	})
	assert.ErrorIs(t, err, ErrNotFound)
}
