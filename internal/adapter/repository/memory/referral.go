package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/bbarni2020/Event-Pyramide/internal/core/domain"
)

// ReferralRepo implements ports.ReferralRepository.

type ReferralRepo struct{ s *Store }

func (s *Store) Referrals() *ReferralRepo { return &ReferralRepo{s: s} }

func (r *ReferralRepo) CountAccepted(_ context.Context, inviterID int64) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	count := 0
	for _, e := range r.s.edgesByInviter[inviterID] {
		if e.Status == domain.ReferralAccepted {
			count++
		}
	}
	return count, nil
}

func (r *ReferralRepo) CountAll(_ context.Context, inviterID int64) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.edgesByInviter[inviterID]), nil
}

func (r *ReferralRepo) ListByInviter(_ context.Context, inviterID int64) ([]domain.ReferralEdge, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	edges := make([]domain.ReferralEdge, 0, len(r.s.edgesByInviter[inviterID]))
	for _, e := range r.s.edgesByInviter[inviterID] {
		edges = append(edges, *e)
	}
	return edges, nil
}

func (r *ReferralRepo) Create(_ context.Context, edge *domain.ReferralEdge) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.edgesByHandle[edge.InviteeHandle]; exists {
		return fmt.Errorf("%w: invitee already invited", domain.ErrValidation)
	}
	if edge.ID == 0 {
		edge.ID = r.s.allocID()
	}
	cp := *edge
	r.s.edgesByHandle[edge.InviteeHandle] = &cp
	r.s.edgesByInviter[edge.InviterID] = append(r.s.edgesByInviter[edge.InviterID], &cp)
	return nil
}

func (r *ReferralRepo) Accept(_ context.Context, inviteeHandle string, at time.Time) (*domain.ReferralEdge, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.edgesByHandle[inviteeHandle]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if e.Status == domain.ReferralAccepted {
		return nil, fmt.Errorf("%w: invitation already accepted", domain.ErrValidation)
	}
	e.Status = domain.ReferralAccepted
	e.AcceptedAt = &at
	cp := *e
	return &cp, nil
}
