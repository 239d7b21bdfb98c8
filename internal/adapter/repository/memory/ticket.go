package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/bbarni2020/Event-Pyramide/internal/core/domain"
)

// TicketRepo implements ports.TicketRepository.

type TicketRepo struct{ s *Store }

func (s *Store) Tickets() *TicketRepo { return &TicketRepo{s: s} }

func (r *TicketRepo) GetByToken(_ context.Context, token string) (*domain.Ticket, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, ok := r.s.ticketsByToken[token]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *TicketRepo) GetByOwner(_ context.Context, ownerID int64) (*domain.Ticket, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, ok := r.s.ticketsByOwner[ownerID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *TicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.ticketsByOwner[ticket.OwnerID]; exists {
		return fmt.Errorf("%w: attendee already holds a ticket", domain.ErrValidation)
	}
	if _, exists := r.s.ticketsByToken[ticket.Token]; exists {
		return fmt.Errorf("%w: token already issued", domain.ErrValidation)
	}
	if ticket.ID == 0 {
		ticket.ID = r.s.allocID()
	}
	cp := *ticket
	r.s.ticketsByToken[ticket.Token] = &cp
	r.s.ticketsByOwner[ticket.OwnerID] = &cp
	return nil
}

// Verify is the check-and-set: the stamps are written only while the lock is
// held and only if the flag is still down.
func (r *TicketRepo) Verify(_ context.Context, token string, verifierID int64, at time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.ticketsByToken[token]
	if !ok {
		return false, domain.ErrNotFound
	}
	if t.Verified {
		return false, nil
	}
	t.Verified = true
	t.VerifiedAt = &at
	t.VerifiedBy = &verifierID
	return true, nil
}
