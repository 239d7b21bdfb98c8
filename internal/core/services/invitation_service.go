package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bbarni2020/Event-Pyramide/internal/core/domain"
	"github.com/bbarni2020/Event-Pyramide/internal/core/ports"
)

// InvitationService maintains the referral edges the discount systems are
// derived from.
type InvitationService struct {
	attendeeRepo ports.AttendeeRepository
	referralRepo ports.ReferralRepository
	configRepo   ports.PricingConfigRepository
}

func NewInvitationService(
	attendeeRepo ports.AttendeeRepository,
	referralRepo ports.ReferralRepository,
	configRepo ports.PricingConfigRepository,
) *InvitationService {
	return &InvitationService{
		attendeeRepo: attendeeRepo,
		referralRepo: referralRepo,
		configRepo:   configRepo,
	}
}

// CreateInvitation records a pending referral edge. Banned inviters cannot
// invite, non-admin inviters are capped at the configured invite limit, and
// each invitee handle can be claimed once.
func (s *InvitationService) CreateInvitation(ctx context.Context, inviterID int64, inviteeHandle string) (*domain.ReferralEdge, error) {
	inviteeHandle = strings.ToLower(strings.TrimSpace(inviteeHandle))
	if inviteeHandle == "" {
		return nil, fmt.Errorf("%w: invitee handle is required", domain.ErrValidation)
	}

	inviter, err := s.attendeeRepo.GetByID(ctx, inviterID)
	if err != nil {
		return nil, fmt.Errorf("get inviter: %w", err)
	}
	if inviter.IsBanned {
		return nil, fmt.Errorf("%w: banned accounts cannot send invitations", domain.ErrValidation)
	}

	if !inviter.Role.Capabilities().CanManage {
		snapshot, err := s.configRepo.Snapshot(ctx)
		if err != nil {
			return nil, fmt.Errorf("pricing snapshot: %w", err)
		}
		sent, err := s.referralRepo.CountAll(ctx, inviterID)
		if err != nil {
			return nil, fmt.Errorf("count invitations: %w", err)
		}
		if sent >= snapshot.Config.MaxInvitesPerUser {
			return nil, fmt.Errorf("%w: maximum invitation limit reached", domain.ErrValidation)
		}
	}

	edge := &domain.ReferralEdge{
		InviterID:     inviterID,
		InviteeHandle: inviteeHandle,
		Status:        domain.ReferralPending,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.referralRepo.Create(ctx, edge); err != nil {
		return nil, fmt.Errorf("create invitation: %w", err)
	}

	return edge, nil
}

// AcceptInvitation flips the invitee's pending edge to accepted, feeding
// both discount systems. Each edge can be accepted once.
func (s *InvitationService) AcceptInvitation(ctx context.Context, inviteeHandle string) (*domain.ReferralEdge, error) {
	inviteeHandle = strings.ToLower(strings.TrimSpace(inviteeHandle))
	if inviteeHandle == "" {
		return nil, fmt.Errorf("%w: invitee handle is required", domain.ErrValidation)
	}

	edge, err := s.referralRepo.Accept(ctx, inviteeHandle, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("accept invitation: %w", err)
	}

	return edge, nil
}

func (s *InvitationService) ListInvitations(ctx context.Context, inviterID int64) ([]domain.ReferralEdge, error) {
	if _, err := s.attendeeRepo.GetByID(ctx, inviterID); err != nil {
		return nil, fmt.Errorf("get inviter: %w", err)
	}
	return s.referralRepo.ListByInviter(ctx, inviterID)
}
