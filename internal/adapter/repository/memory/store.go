// Package memory implements every repository port against process memory.
// It backs the STORAGE=memory mode and the service test suite; the locking
// discipline mirrors the guarantees of the postgres adapter.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/bbarni2020/Event-Pyramide/internal/core/domain"
)

type Store struct {
	mu sync.RWMutex

	attendees       map[int64]domain.Attendee
	ticketsByToken  map[string]*domain.Ticket
	ticketsByOwner  map[int64]*domain.Ticket
	edgesByHandle   map[string]*domain.ReferralEdge
	edgesByInviter  map[int64][]*domain.ReferralEdge
	config          domain.EventPricingConfig
	tiers           []domain.DiscountTier
	overrides       map[int64]domain.PresetOverride
	items           map[int64]*domain.InventoryItem
	sales           []domain.SaleTransaction
	payouts         []domain.PayoutRecord
	incidents       map[int64]*domain.Incident
	nextID          int64

	opGuard sync.Mutex
	opLocks map[int64]*sync.Mutex
}

func NewStore() *Store {
	return &Store{
		attendees:      make(map[int64]domain.Attendee),
		ticketsByToken: make(map[string]*domain.Ticket),
		ticketsByOwner: make(map[int64]*domain.Ticket),
		edgesByHandle:  make(map[string]*domain.ReferralEdge),
		edgesByInviter: make(map[int64][]*domain.ReferralEdge),
		overrides:      make(map[int64]domain.PresetOverride),
		items:          make(map[int64]*domain.InventoryItem),
		incidents:      make(map[int64]*domain.Incident),
		opLocks:        make(map[int64]*sync.Mutex),
	}
}

// operatorLock returns the per-operator mutex that serializes balance checks
// against appends for the same operator.
func (s *Store) operatorLock(operatorID int64) *sync.Mutex {
	s.opGuard.Lock()
	defer s.opGuard.Unlock()
	l, ok := s.opLocks[operatorID]
	if !ok {
		l = &sync.Mutex{}
		s.opLocks[operatorID] = l
	}
	return l
}

func (s *Store) allocID() int64 {
	s.nextID++
	return s.nextID
}

// Provisioning surface used by the memory mode bootstrap and by tests.

func (s *Store) AddAttendee(a domain.Attendee) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == 0 {
		a.ID = s.allocID()
	}
	s.attendees[a.ID] = a
}

func (s *Store) SetPricing(cfg domain.EventPricingConfig, tiers []domain.DiscountTier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = cfg
	s.tiers = append([]domain.DiscountTier(nil), tiers...)
	sort.Slice(s.tiers, func(i, j int) bool {
		return s.tiers[i].InviteCount > s.tiers[j].InviteCount
	})
}

func (s *Store) SetPresetOverride(o domain.PresetOverride) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[o.AttendeeID] = o
}

func (s *Store) AddItem(item domain.InventoryItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if item.ID == 0 {
		item.ID = s.allocID()
	}
	cp := item
	s.items[item.ID] = &cp
}

// AttendeeRepo implements ports.AttendeeRepository.

type AttendeeRepo struct{ s *Store }

func (s *Store) Attendees() *AttendeeRepo { return &AttendeeRepo{s: s} }

func (r *AttendeeRepo) GetByID(_ context.Context, attendeeID int64) (*domain.Attendee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	a, ok := r.s.attendees[attendeeID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := a
	return &cp, nil
}
