package scanning

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/krizhnx/CarnivalLDN-sub000/internal/models"
)

// Recorder appends validated scans. The operator flow is validate first,
// confirm, then record; since those are separate calls, the recorder's
// appends are guarded at the store so a lost race fails closed instead of
// over-admitting.
type Recorder struct {
	store Store
	now   func() time.Time
}

func NewRecorder(store Store) *Recorder {
	return &Recorder{store: store, now: time.Now}
}

type TicketScanInput struct {
	OrderID       uuid.UUID
	TicketTierID  uuid.UUID
	EventID       uuid.UUID
	CustomerEmail string
	ScanType      string
	ScannedBy     string
	Location      string
	Notes         string
}

func (r *Recorder) RecordTicketScan(in TicketScanInput) (*models.TicketScan, error) {
	if in.ScanType == "" {
		in.ScanType = models.ScanTypeEntry
	}

	quantity := 1
	if item, err := r.store.GetOrderTicket(in.OrderID, in.TicketTierID); err == nil {
		quantity = item.Quantity
	} else {
		zap.L().Warn("order ticket line item not found while recording, assuming quantity 1",
			zap.String("order_id", in.OrderID.String()),
			zap.String("ticket_tier_id", in.TicketTierID.String()),
			zap.Error(err),
		)
	}

	if in.ScanType == models.ScanTypeExit {
		entryCount, err := r.store.CountTicketScans(in.OrderID, in.TicketTierID, models.ScanTypeEntry)
		if err != nil {
			return nil, err
		}
		if entryCount == 0 {
			return nil, ErrNoEntryScan
		}
	}

	scan := &models.TicketScan{
		OrderID:       in.OrderID,
		TicketTierID:  in.TicketTierID,
		EventID:       in.EventID,
		CustomerEmail: in.CustomerEmail,
		ScanType:      in.ScanType,
		ScannedAt:     r.now(),
		ScannedBy:     in.ScannedBy,
		Location:      in.Location,
		Notes:         in.Notes,
	}
	if err := r.store.AppendTicketScan(scan, quantity); err != nil {
		return nil, err
	}
	return scan, nil
}

type GuestlistScanInput struct {
	GuestlistPassID uuid.UUID
	EventID         uuid.UUID
	ScanType        string
	ScannedBy       string
	Location        string
	Notes           string
}

// RecordGuestlistScan consumes one admission from the pass. Entry and exit
// scans consume alike; the pass model does not track direction-specific
// capacity. The decrement and the scan row land atomically, so the pass
// never goes below zero and no scan row exists without a matching decrement.
func (r *Recorder) RecordGuestlistScan(in GuestlistScanInput) (*models.GuestlistScan, error) {
	if in.ScanType == "" {
		in.ScanType = models.ScanTypeEntry
	}

	scan := &models.GuestlistScan{
		GuestlistPassID: in.GuestlistPassID,
		EventID:         in.EventID,
		ScanType:        in.ScanType,
		ScannedAt:       r.now(),
		ScannedBy:       in.ScannedBy,
		Location:        in.Location,
		Notes:           in.Notes,
	}
	if err := r.store.ConsumeGuestlistPass(scan); err != nil {
		return nil, err
	}
	return scan, nil
}
