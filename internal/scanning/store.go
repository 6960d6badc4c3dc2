package scanning

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/krizhnx/CarnivalLDN-sub000/internal/models"
)

var (
	ErrNotFound         = errors.New("record not found")
	ErrScanLimitReached = errors.New("scan limit reached for purchased quantity")
	ErrPassExhausted    = errors.New("guestlist pass has no remaining scans")
	ErrNoEntryScan      = errors.New("no entry scan recorded")
)

// Store is the data access surface the validator and recorder need. The
// validator only uses the read methods; the two append methods carry the
// guarded, atomic semantics.
type Store interface {
	GetOrder(id uuid.UUID) (*models.Order, error)
	GetOrderForCustomer(id uuid.UUID, customerEmail string) (*models.Order, error)
	GetOrderTicket(orderID, tierID uuid.UUID) (*models.OrderTicket, error)
	CountTicketScans(orderID, tierID uuid.UUID, scanType string) (int64, error)
	GetEvent(id uuid.UUID) (*models.Event, error)
	GetTicketTier(id uuid.UUID) (*models.TicketTier, error)
	GetGuestlistPass(id uuid.UUID) (*models.GuestlistPass, error)

	// AppendTicketScan inserts the scan row only while the existing count of
	// rows with the same (order, tier, scan type) is below max. Returns
	// ErrScanLimitReached when the guard refuses the insert.
	AppendTicketScan(scan *models.TicketScan, max int) error

	// ConsumeGuestlistPass decrements the pass's remaining scans (never below
	// zero) and appends the scan row in one transaction. Returns
	// ErrPassExhausted when the pass is already at zero; no row is written in
	// that case.
	ConsumeGuestlistPass(scan *models.GuestlistScan) error
}

type gormStore struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) GetOrder(id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := s.db.Where("id = ?", id).First(&order).Error; err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

func (s *gormStore) GetOrderForCustomer(id uuid.UUID, customerEmail string) (*models.Order, error) {
	var order models.Order
	if err := s.db.Where("id = ? AND customer_email = ?", id, customerEmail).First(&order).Error; err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

func (s *gormStore) GetOrderTicket(orderID, tierID uuid.UUID) (*models.OrderTicket, error) {
	var item models.OrderTicket
	if err := s.db.Where("order_id = ? AND ticket_tier_id = ?", orderID, tierID).First(&item).Error; err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

func (s *gormStore) CountTicketScans(orderID, tierID uuid.UUID, scanType string) (int64, error) {
	var count int64
	err := s.db.Model(&models.TicketScan{}).
		Where("order_id = ? AND ticket_tier_id = ? AND scan_type = ?", orderID, tierID, scanType).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("counting ticket scans: %w", err)
	}
	return count, nil
}

func (s *gormStore) GetEvent(id uuid.UUID) (*models.Event, error) {
	var event models.Event
	if err := s.db.Where("id = ?", id).First(&event).Error; err != nil {
		return nil, translate(err)
	}
	return &event, nil
}

func (s *gormStore) GetTicketTier(id uuid.UUID) (*models.TicketTier, error) {
	var tier models.TicketTier
	if err := s.db.Where("id = ?", id).First(&tier).Error; err != nil {
		return nil, translate(err)
	}
	return &tier, nil
}

func (s *gormStore) GetGuestlistPass(id uuid.UUID) (*models.GuestlistPass, error) {
	var pass models.GuestlistPass
	if err := s.db.Where("id = ?", id).First(&pass).Error; err != nil {
		return nil, translate(err)
	}
	return &pass, nil
}

func (s *gormStore) AppendTicketScan(scan *models.TicketScan, max int) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		// Under read committed two transactions could both see count < max,
		// so racing scans of the same ticket are serialized on a
		// transaction-scoped advisory lock before the guarded insert.
		lockKey := fmt.Sprintf("%s:%s:%s", scan.OrderID, scan.TicketTierID, scan.ScanType)
		if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", lockKey).Error; err != nil {
			return fmt.Errorf("locking ticket scans: %w", err)
		}

		// Conditional insert: the row only lands while the current scan count
		// is below the purchased quantity.
		res := tx.Exec(`
			INSERT INTO ticket_scans
				(id, order_id, ticket_tier_id, event_id, customer_email, scan_type, scanned_at, scanned_by, location, notes, created_at)
			SELECT uuid_generate_v4(), ?, ?, ?, ?, ?, ?, ?, ?, ?, NOW()
			WHERE (
				SELECT COUNT(*) FROM ticket_scans
				WHERE order_id = ? AND ticket_tier_id = ? AND scan_type = ?
			) < ?`,
			scan.OrderID, scan.TicketTierID, scan.EventID, scan.CustomerEmail,
			scan.ScanType, scan.ScannedAt, scan.ScannedBy, scan.Location, scan.Notes,
			scan.OrderID, scan.TicketTierID, scan.ScanType, max,
		)
		if res.Error != nil {
			return fmt.Errorf("appending ticket scan: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrScanLimitReached
		}
		return nil
	})
}

func (s *gormStore) ConsumeGuestlistPass(scan *models.GuestlistScan) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.GuestlistPass{}).
			Where("id = ? AND remaining_scans > 0", scan.GuestlistPassID).
			UpdateColumn("remaining_scans", gorm.Expr("remaining_scans - 1"))
		if res.Error != nil {
			return fmt.Errorf("decrementing guestlist pass: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			var pass models.GuestlistPass
			if err := tx.Where("id = ?", scan.GuestlistPassID).First(&pass).Error; err != nil {
				return translate(err)
			}
			return ErrPassExhausted
		}
		if err := tx.Create(scan).Error; err != nil {
			return fmt.Errorf("appending guestlist scan: %w", err)
		}
		return nil
	})
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
