package scanning

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krizhnx/CarnivalLDN-sub000/internal/models"
)

func TestRecordTicketScan_GuardRefusesOverScan(t *testing.T) {
	f := newFixture(t, 1)

	_, err := f.recorder.RecordTicketScan(TicketScanInput{
		OrderID:      f.orderID,
		TicketTierID: f.tierID,
		EventID:      f.eventID,
		ScannedBy:    "door-1",
	})
	require.NoError(t, err)

	_, err = f.recorder.RecordTicketScan(TicketScanInput{
		OrderID:      f.orderID,
		TicketTierID: f.tierID,
		EventID:      f.eventID,
		ScannedBy:    "door-1",
	})
	require.ErrorIs(t, err, ErrScanLimitReached)
	assert.Len(t, f.store.ticketScans, 1)
}

func TestRecordTicketScan_ExitRequiresEntry(t *testing.T) {
	f := newFixture(t, 2)

	_, err := f.recorder.RecordTicketScan(TicketScanInput{
		OrderID:      f.orderID,
		TicketTierID: f.tierID,
		EventID:      f.eventID,
		ScanType:     models.ScanTypeExit,
		ScannedBy:    "door-1",
	})
	require.ErrorIs(t, err, ErrNoEntryScan)
	assert.Empty(t, f.store.ticketScans)
}

func TestRecordTicketScan_EntryAndExitTrackedSeparately(t *testing.T) {
	f := newFixture(t, 2)

	for i := 0; i < 2; i++ {
		f.recordEntry(t)
	}
	for i := 0; i < 2; i++ {
		_, err := f.recorder.RecordTicketScan(TicketScanInput{
			OrderID:      f.orderID,
			TicketTierID: f.tierID,
			EventID:      f.eventID,
			ScanType:     models.ScanTypeExit,
			ScannedBy:    "door-1",
		})
		require.NoError(t, err)
	}

	_, err := f.recorder.RecordTicketScan(TicketScanInput{
		OrderID:      f.orderID,
		TicketTierID: f.tierID,
		EventID:      f.eventID,
		ScanType:     models.ScanTypeExit,
		ScannedBy:    "door-1",
	})
	require.ErrorIs(t, err, ErrScanLimitReached)
	assert.Len(t, f.store.ticketScans, 4)
}

func TestRecordTicketScan_MissingLineItemCapsAtOne(t *testing.T) {
	f := newFixture(t, 3)
	delete(f.store.items, orderTierKey{f.orderID, f.tierID})

	_, err := f.recorder.RecordTicketScan(TicketScanInput{
		OrderID:      f.orderID,
		TicketTierID: f.tierID,
		EventID:      f.eventID,
		ScannedBy:    "door-1",
	})
	require.NoError(t, err)

	_, err = f.recorder.RecordTicketScan(TicketScanInput{
		OrderID:      f.orderID,
		TicketTierID: f.tierID,
		EventID:      f.eventID,
		ScannedBy:    "door-1",
	})
	require.ErrorIs(t, err, ErrScanLimitReached)
}

func TestRecordGuestlistScan_ConsumesExactlyTotal(t *testing.T) {
	const total = 3
	f := newFixture(t, 1)
	passID := uuid.New()
	f.store.passes[passID] = &models.GuestlistPass{
		ID:             passID,
		EventID:        f.eventID,
		TotalTickets:   total,
		RemainingScans: total,
	}

	// Mixed entry/exit scans all consume from the same pool.
	scanTypes := []string{models.ScanTypeEntry, models.ScanTypeExit, models.ScanTypeEntry}
	for i, scanType := range scanTypes {
		result := f.validator.ValidateGuestlist(passID, scanType)
		require.True(t, result.IsValid, "scan %d should be admitted", i+1)

		_, err := f.recorder.RecordGuestlistScan(GuestlistScanInput{
			GuestlistPassID: passID,
			EventID:         f.eventID,
			ScanType:        scanType,
			ScannedBy:       "door-2",
		})
		require.NoError(t, err)
		assert.Equal(t, total-i-1, f.store.passes[passID].RemainingScans)
	}

	result := f.validator.ValidateGuestlist(passID, models.ScanTypeEntry)
	require.False(t, result.IsValid)
	assert.Equal(t, ReasonAlreadyConsumed, result.Reason)

	_, err := f.recorder.RecordGuestlistScan(GuestlistScanInput{
		GuestlistPassID: passID,
		EventID:         f.eventID,
		ScannedBy:       "door-2",
	})
	require.ErrorIs(t, err, ErrPassExhausted)
	assert.Equal(t, 0, f.store.passes[passID].RemainingScans)
	assert.Len(t, f.store.passScans, total)
}

func TestRecordGuestlistScan_PassNotFound(t *testing.T) {
	f := newFixture(t, 1)

	_, err := f.recorder.RecordGuestlistScan(GuestlistScanInput{
		GuestlistPassID: uuid.New(),
		EventID:         f.eventID,
		ScannedBy:       "door-2",
	})
	require.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, f.store.passScans)
}

func TestRecordTicketScan_DefaultsToEntry(t *testing.T) {
	f := newFixture(t, 1)

	scan, err := f.recorder.RecordTicketScan(TicketScanInput{
		OrderID:      f.orderID,
		TicketTierID: f.tierID,
		EventID:      f.eventID,
		ScannedBy:    "door-1",
	})
	require.NoError(t, err)
	assert.Equal(t, models.ScanTypeEntry, scan.ScanType)
	assert.Equal(t, f.now, scan.ScannedAt)
}
