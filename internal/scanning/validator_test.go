package scanning

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krizhnx/CarnivalLDN-sub000/internal/models"
)

type fixture struct {
	store     *fakeStore
	validator *Validator
	recorder  *Recorder

	eventID uuid.UUID
	tierID  uuid.UUID
	orderID uuid.UUID
	email   string
	now     time.Time
}

// newFixture seeds a completed order for quantity tickets of one tier of an
// event happening tomorrow.
func newFixture(t *testing.T, quantity int) *fixture {
	t.Helper()

	now := time.Date(2025, 6, 20, 22, 0, 0, 0, time.UTC)
	f := &fixture{
		store:   newFakeStore(),
		eventID: uuid.New(),
		tierID:  uuid.New(),
		orderID: uuid.New(),
		email:   "reveller@example.com",
		now:     now,
	}

	f.store.events[f.eventID] = &models.Event{
		ID:    f.eventID,
		Title: "Carnival Closing Party",
		Date:  now.Add(24 * time.Hour),
	}
	f.store.tiers[f.tierID] = &models.TicketTier{
		ID:       f.tierID,
		EventID:  f.eventID,
		Name:     "Early Bird",
		Price:    1500,
		Capacity: 50,
		IsActive: true,
	}
	f.store.orders[f.orderID] = &models.Order{
		ID:            f.orderID,
		EventID:       f.eventID,
		CustomerEmail: f.email,
		CustomerName:  "Jamie",
		Status:        models.OrderStatusCompleted,
		TotalAmount:   1500 * quantity,
	}
	f.store.items[orderTierKey{f.orderID, f.tierID}] = &models.OrderTicket{
		OrderID:      f.orderID,
		TicketTierID: f.tierID,
		Quantity:     quantity,
	}

	f.validator = NewValidator(f.store)
	f.validator.now = func() time.Time { return now }
	f.recorder = NewRecorder(f.store)
	f.recorder.now = func() time.Time { return now }

	return f
}

func (f *fixture) recordEntry(t *testing.T) {
	t.Helper()
	_, err := f.recorder.RecordTicketScan(TicketScanInput{
		OrderID:       f.orderID,
		TicketTierID:  f.tierID,
		EventID:       f.eventID,
		CustomerEmail: f.email,
		ScanType:      models.ScanTypeEntry,
		ScannedBy:     "door-1",
	})
	require.NoError(t, err)
}

func TestValidateTicket_AdmitsUpToQuantity(t *testing.T) {
	const quantity = 3
	f := newFixture(t, quantity)

	for i := 0; i < quantity; i++ {
		result := f.validator.ValidateTicket(f.orderID, f.tierID, f.email, models.ScanTypeEntry)
		require.True(t, result.IsValid, "scan %d should be admitted", i+1)
		assert.Equal(t, "Carnival Closing Party", result.EventTitle)
		assert.Equal(t, "Early Bird", result.TicketTierName)
		assert.Equal(t, "Jamie", result.CustomerName)
		f.recordEntry(t)
	}

	result := f.validator.ValidateTicket(f.orderID, f.tierID, f.email, models.ScanTypeEntry)
	require.False(t, result.IsValid)
	assert.Equal(t, ReasonAlreadyConsumed, result.Reason)
	assert.Contains(t, result.Message, fmt.Sprintf("already scanned %d times", quantity))
}

func TestValidateTicket_SingleTicketRoundTrip(t *testing.T) {
	f := newFixture(t, 1)

	first := f.validator.ValidateTicket(f.orderID, f.tierID, f.email, models.ScanTypeEntry)
	require.True(t, first.IsValid)

	f.recordEntry(t)

	second := f.validator.ValidateTicket(f.orderID, f.tierID, f.email, models.ScanTypeEntry)
	require.False(t, second.IsValid)
	assert.Equal(t, ReasonAlreadyConsumed, second.Reason)
	assert.Contains(t, second.Message, "already scanned 1 time")
}

func TestValidateTicket_ExitWithoutEntry(t *testing.T) {
	f := newFixture(t, 2)

	result := f.validator.ValidateTicket(f.orderID, f.tierID, f.email, models.ScanTypeExit)
	require.False(t, result.IsValid)
	assert.Equal(t, ReasonInvalidSequence, result.Reason)
	assert.Contains(t, result.Message, "without an entry scan")
}

func TestValidateTicket_ExitCappedAtQuantity(t *testing.T) {
	const quantity = 2
	f := newFixture(t, quantity)

	f.recordEntry(t)
	f.recordEntry(t)

	for i := 0; i < quantity; i++ {
		result := f.validator.ValidateTicket(f.orderID, f.tierID, f.email, models.ScanTypeExit)
		require.True(t, result.IsValid, "exit %d should be admitted", i+1)
		_, err := f.recorder.RecordTicketScan(TicketScanInput{
			OrderID:      f.orderID,
			TicketTierID: f.tierID,
			EventID:      f.eventID,
			ScanType:     models.ScanTypeExit,
			ScannedBy:    "door-1",
		})
		require.NoError(t, err)
	}

	result := f.validator.ValidateTicket(f.orderID, f.tierID, f.email, models.ScanTypeExit)
	require.False(t, result.IsValid)
	assert.Equal(t, ReasonAlreadyConsumed, result.Reason)
	assert.Contains(t, result.Message, "already exited")
}

func TestValidateTicket_OrderNotFound(t *testing.T) {
	f := newFixture(t, 1)

	result := f.validator.ValidateTicket(uuid.New(), f.tierID, f.email, models.ScanTypeEntry)
	require.False(t, result.IsValid)
	assert.Equal(t, ReasonNotFound, result.Reason)
	assert.Equal(t, "Order not found.", result.Message)
}

func TestValidateTicket_EmailMismatch(t *testing.T) {
	f := newFixture(t, 1)

	result := f.validator.ValidateTicket(f.orderID, f.tierID, "someone-else@example.com", models.ScanTypeEntry)
	require.False(t, result.IsValid)
	assert.Equal(t, ReasonIdentityMismatch, result.Reason)
}

func TestValidateTicket_StatusRejected(t *testing.T) {
	for _, status := range []string{models.OrderStatusPending, models.OrderStatusFailed, models.OrderStatusExpired} {
		t.Run(status, func(t *testing.T) {
			f := newFixture(t, 1)
			f.store.orders[f.orderID].Status = status

			result := f.validator.ValidateTicket(f.orderID, f.tierID, f.email, models.ScanTypeEntry)
			require.False(t, result.IsValid)
			assert.Equal(t, ReasonStatusRejected, result.Reason)
			assert.Contains(t, result.Message, status)
		})
	}
}

func TestValidateTicket_EventPassed(t *testing.T) {
	f := newFixture(t, 1)
	f.store.events[f.eventID].Date = f.now.Add(-time.Hour)

	result := f.validator.ValidateTicket(f.orderID, f.tierID, f.email, models.ScanTypeEntry)
	require.False(t, result.IsValid)
	assert.Equal(t, ReasonExpired, result.Reason)
	assert.Contains(t, result.Message, "passed")
}

func TestValidateTicket_TierDoesNotBelongToEvent(t *testing.T) {
	f := newFixture(t, 1)
	otherTier := uuid.New()
	f.store.tiers[otherTier] = &models.TicketTier{
		ID:       otherTier,
		EventID:  uuid.New(),
		Name:     "VIP",
		IsActive: true,
	}
	f.store.items[orderTierKey{f.orderID, otherTier}] = &models.OrderTicket{Quantity: 1}

	result := f.validator.ValidateTicket(f.orderID, otherTier, f.email, models.ScanTypeEntry)
	require.False(t, result.IsValid)
	assert.Equal(t, ReasonNotFound, result.Reason)
}

func TestValidateTicket_InactiveTier(t *testing.T) {
	f := newFixture(t, 1)
	f.store.tiers[f.tierID].IsActive = false

	result := f.validator.ValidateTicket(f.orderID, f.tierID, f.email, models.ScanTypeEntry)
	require.False(t, result.IsValid)
	assert.Equal(t, ReasonInactiveInventory, result.Reason)
}

func TestValidateTicket_MissingLineItemFallsBackToOne(t *testing.T) {
	f := newFixture(t, 3)
	delete(f.store.items, orderTierKey{f.orderID, f.tierID})

	first := f.validator.ValidateTicket(f.orderID, f.tierID, f.email, models.ScanTypeEntry)
	require.True(t, first.IsValid)
	f.recordEntry(t)

	// Fallback caps admissions at one even though three were purchased.
	second := f.validator.ValidateTicket(f.orderID, f.tierID, f.email, models.ScanTypeEntry)
	require.False(t, second.IsValid)
	assert.Equal(t, ReasonAlreadyConsumed, second.Reason)
}

func TestValidateTicket_DefaultsToEntry(t *testing.T) {
	f := newFixture(t, 1)

	result := f.validator.ValidateTicket(f.orderID, f.tierID, f.email, "")
	require.True(t, result.IsValid)
}

func TestValidateGuestlist_AdmitsWithRemaining(t *testing.T) {
	f := newFixture(t, 1)
	passID := uuid.New()
	f.store.passes[passID] = &models.GuestlistPass{
		ID:             passID,
		EventID:        f.eventID,
		LeadName:       "Alex",
		TotalTickets:   4,
		RemainingScans: 4,
	}

	result := f.validator.ValidateGuestlist(passID, models.ScanTypeEntry)
	require.True(t, result.IsValid)
	assert.Equal(t, 4, result.RemainingScans)
	assert.Contains(t, result.Message, "4 of 4")
	assert.Equal(t, "Alex", result.CustomerName)
}

func TestValidateGuestlist_Exhausted(t *testing.T) {
	f := newFixture(t, 1)
	passID := uuid.New()
	f.store.passes[passID] = &models.GuestlistPass{
		ID:             passID,
		EventID:        f.eventID,
		TotalTickets:   3,
		RemainingScans: 0,
	}

	// Exhaustion is scan-type agnostic: entry and exit consume alike.
	for _, scanType := range []string{models.ScanTypeEntry, models.ScanTypeExit} {
		result := f.validator.ValidateGuestlist(passID, scanType)
		require.False(t, result.IsValid)
		assert.Equal(t, ReasonAlreadyConsumed, result.Reason)
		assert.Contains(t, result.Message, "All 3 tickets")
	}
}

func TestValidateGuestlist_NotFound(t *testing.T) {
	f := newFixture(t, 1)

	result := f.validator.ValidateGuestlist(uuid.New(), models.ScanTypeEntry)
	require.False(t, result.IsValid)
	assert.Equal(t, ReasonNotFound, result.Reason)
}

func TestValidateGuestlist_EventPassed(t *testing.T) {
	f := newFixture(t, 1)
	passID := uuid.New()
	f.store.passes[passID] = &models.GuestlistPass{
		ID:             passID,
		EventID:        f.eventID,
		TotalTickets:   2,
		RemainingScans: 2,
	}
	f.store.events[f.eventID].Date = f.now.Add(-time.Hour)

	result := f.validator.ValidateGuestlist(passID, models.ScanTypeEntry)
	require.False(t, result.IsValid)
	assert.Equal(t, ReasonExpired, result.Reason)
}
