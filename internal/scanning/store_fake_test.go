package scanning

import (
	"github.com/google/uuid"

	"github.com/krizhnx/CarnivalLDN-sub000/internal/models"
)

type orderTierKey struct {
	orderID uuid.UUID
	tierID  uuid.UUID
}

// fakeStore is an in-memory Store honoring the same guarded semantics as
// the SQL implementation.
type fakeStore struct {
	orders      map[uuid.UUID]*models.Order
	items       map[orderTierKey]*models.OrderTicket
	events      map[uuid.UUID]*models.Event
	tiers       map[uuid.UUID]*models.TicketTier
	passes      map[uuid.UUID]*models.GuestlistPass
	ticketScans []*models.TicketScan
	passScans   []*models.GuestlistScan
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		orders: make(map[uuid.UUID]*models.Order),
		items:  make(map[orderTierKey]*models.OrderTicket),
		events: make(map[uuid.UUID]*models.Event),
		tiers:  make(map[uuid.UUID]*models.TicketTier),
		passes: make(map[uuid.UUID]*models.GuestlistPass),
	}
}

func (s *fakeStore) GetOrder(id uuid.UUID) (*models.Order, error) {
	order, ok := s.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	return order, nil
}

func (s *fakeStore) GetOrderForCustomer(id uuid.UUID, customerEmail string) (*models.Order, error) {
	order, ok := s.orders[id]
	if !ok || order.CustomerEmail != customerEmail {
		return nil, ErrNotFound
	}
	return order, nil
}

func (s *fakeStore) GetOrderTicket(orderID, tierID uuid.UUID) (*models.OrderTicket, error) {
	item, ok := s.items[orderTierKey{orderID, tierID}]
	if !ok {
		return nil, ErrNotFound
	}
	return item, nil
}

func (s *fakeStore) CountTicketScans(orderID, tierID uuid.UUID, scanType string) (int64, error) {
	var count int64
	for _, scan := range s.ticketScans {
		if scan.OrderID == orderID && scan.TicketTierID == tierID && scan.ScanType == scanType {
			count++
		}
	}
	return count, nil
}

func (s *fakeStore) GetEvent(id uuid.UUID) (*models.Event, error) {
	event, ok := s.events[id]
	if !ok {
		return nil, ErrNotFound
	}
	return event, nil
}

func (s *fakeStore) GetTicketTier(id uuid.UUID) (*models.TicketTier, error) {
	tier, ok := s.tiers[id]
	if !ok {
		return nil, ErrNotFound
	}
	return tier, nil
}

func (s *fakeStore) GetGuestlistPass(id uuid.UUID) (*models.GuestlistPass, error) {
	pass, ok := s.passes[id]
	if !ok {
		return nil, ErrNotFound
	}
	return pass, nil
}

func (s *fakeStore) AppendTicketScan(scan *models.TicketScan, max int) error {
	count, _ := s.CountTicketScans(scan.OrderID, scan.TicketTierID, scan.ScanType)
	if count >= int64(max) {
		return ErrScanLimitReached
	}
	s.ticketScans = append(s.ticketScans, scan)
	return nil
}

func (s *fakeStore) ConsumeGuestlistPass(scan *models.GuestlistScan) error {
	pass, ok := s.passes[scan.GuestlistPassID]
	if !ok {
		return ErrNotFound
	}
	if pass.RemainingScans <= 0 {
		return ErrPassExhausted
	}
	pass.RemainingScans--
	s.passScans = append(s.passScans, scan)
	return nil
}
