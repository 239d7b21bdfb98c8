package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/bbarni2020/Event-Pyramide/internal/core/domain"
	"github.com/bbarni2020/Event-Pyramide/internal/core/ports"
)

type AdmitRequest struct {
	Token     string `json:"qr_code"`
	ScannerID int64  `json:"scanner_id"`
}

type AdmitResponse struct {
	Status             domain.AdmissionStatus `json:"status"`
	AttendeeID         int64                  `json:"user_id,omitempty"`
	Username           string                 `json:"username,omitempty"`
	Role               domain.Role            `json:"role,omitempty"`
	IsSpecial          bool                   `json:"is_special"`
	VerifiedAt         *time.Time             `json:"verified_at,omitempty"`
	VerifiedBy         *int64                 `json:"verified_by,omitempty"`
	Price              float64                `json:"ticket_price"`
	PaymentStatus      domain.PaymentStatus   `json:"payment_status,omitempty"`
	Color              string                 `json:"color"`
	AcceptedInvites    int                    `json:"invites"`
	BarDiscountPercent float64                `json:"bar_discount"`
}

type ConfirmPaymentResponse struct {
	Token            string `json:"qr_code"`
	Confirmed        bool   `json:"confirmed"`
	AlreadyConfirmed bool   `json:"already_confirmed"`
}

// AdmissionService owns the ticket state machine. A ticket moves from issued
// to verified at most once; every other presentation of the same token is a
// read-only replay of the stored outcome.
type AdmissionService struct {
	logger       *logrus.Logger
	ticketRepo   ports.TicketRepository
	attendeeRepo ports.AttendeeRepository
	referralRepo ports.ReferralRepository
	configRepo   ports.PricingConfigRepository
}

func NewAdmissionService(
	logger *logrus.Logger,
	ticketRepo ports.TicketRepository,
	attendeeRepo ports.AttendeeRepository,
	referralRepo ports.ReferralRepository,
	configRepo ports.PricingConfigRepository,
) *AdmissionService {
	return &AdmissionService{
		logger:       logger,
		ticketRepo:   ticketRepo,
		attendeeRepo: attendeeRepo,
		referralRepo: referralRepo,
		configRepo:   configRepo,
	}
}

// Admit validates a presented token and performs the at-most-once transition
// to verified. Unknown tokens come back as AdmissionInvalid without touching
// any state. Repeated or concurrent calls for the same token observe exactly
// one verifier and timestamp.
func (s *AdmissionService) Admit(ctx context.Context, req AdmitRequest) (*AdmitResponse, error) {
	if req.Token == "" {
		return nil, fmt.Errorf("%w: qr_code is required", domain.ErrValidation)
	}

	ticket, err := s.ticketRepo.GetByToken(ctx, req.Token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return &AdmitResponse{Status: domain.AdmissionInvalid, Color: "red"}, nil
		}
		return nil, fmt.Errorf("get ticket: %w", err)
	}

	resp, err := s.buildResponse(ctx, ticket)
	if err != nil {
		return nil, err
	}

	if ticket.Verified {
		resp.Status = domain.AdmissionAlreadyVerified
		resp.VerifiedAt = ticket.VerifiedAt
		resp.VerifiedBy = ticket.VerifiedBy
		return resp, nil
	}

	now := time.Now().UTC()
	won, err := s.ticketRepo.Verify(ctx, req.Token, req.ScannerID, now)
	if err != nil {
		return nil, fmt.Errorf("verify ticket: %w", err)
	}

	if !won {
		// Lost the race; replay the winner's stamps.
		current, err := s.ticketRepo.GetByToken(ctx, req.Token)
		if err != nil {
			return nil, fmt.Errorf("reload ticket: %w", err)
		}
		if resp.PaymentStatus == domain.PaymentUnpaid {
			resp.PaymentStatus = domain.PaymentPaid
			resp.Color = resp.PaymentStatus.DisplayColor()
		}
		resp.Status = domain.AdmissionAlreadyVerified
		resp.VerifiedAt = current.VerifiedAt
		resp.VerifiedBy = current.VerifiedBy
		return resp, nil
	}

	s.logger.WithFields(logrus.Fields{
		"token":   req.Token,
		"scanner": req.ScannerID,
		"owner":   ticket.OwnerID,
	}).Info("ticket verified")

	resp.Status = domain.AdmissionVerified
	resp.VerifiedAt = &now
	resp.VerifiedBy = &req.ScannerID
	return resp, nil
}

// buildResponse computes the price and discount metadata against the
// ticket's pre-transition state.
func (s *AdmissionService) buildResponse(ctx context.Context, ticket *domain.Ticket) (*AdmitResponse, error) {
	owner, err := s.attendeeRepo.GetByID(ctx, ticket.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("get ticket owner: %w", err)
	}

	snapshot, err := s.configRepo.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("pricing snapshot: %w", err)
	}

	accepted, err := s.referralRepo.CountAccepted(ctx, owner.ID)
	if err != nil {
		return nil, fmt.Errorf("count accepted invites: %w", err)
	}

	override, err := s.configRepo.PresetOverride(ctx, owner.ID)
	if err != nil {
		return nil, fmt.Errorf("preset override: %w", err)
	}

	caps := owner.Role.Capabilities()

	resp := &AdmitResponse{
		AttendeeID:         owner.ID,
		Username:           owner.Username,
		Role:               owner.Role,
		IsSpecial:          caps.FreeAdmission,
		AcceptedInvites:    accepted,
		BarDiscountPercent: BarDiscountPercent(override, snapshot.Tiers, accepted),
	}

	if caps.FreeAdmission {
		resp.Price = 0
		resp.PaymentStatus = domain.PaymentStaff
	} else {
		resp.Price = TicketPrice(snapshot.Config, accepted)
		if ticket.Verified {
			resp.PaymentStatus = domain.PaymentPaid
		} else {
			resp.PaymentStatus = domain.PaymentUnpaid
		}
	}
	resp.Color = resp.PaymentStatus.DisplayColor()

	return resp, nil
}

// IssueTicket hands out the attendee's ticket, creating one with a fresh
// token on first call. Issuing is idempotent per attendee.
func (s *AdmissionService) IssueTicket(ctx context.Context, attendeeID int64) (*domain.Ticket, error) {
	if _, err := s.attendeeRepo.GetByID(ctx, attendeeID); err != nil {
		return nil, fmt.Errorf("get attendee: %w", err)
	}

	existing, err := s.ticketRepo.GetByOwner(ctx, attendeeID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get ticket: %w", err)
	}

	ticket := &domain.Ticket{
		OwnerID:  attendeeID,
		Token:    uuid.New().String(),
		IssuedAt: time.Now().UTC(),
	}

	if err := s.ticketRepo.Create(ctx, ticket); err != nil {
		if errors.Is(err, domain.ErrValidation) {
			// Another request issued the ticket first.
			return s.ticketRepo.GetByOwner(ctx, attendeeID)
		}
		return nil, fmt.Errorf("create ticket: %w", err)
	}

	return ticket, nil
}

// ConfirmPayment marks an ordinary attendee's ticket as paid. It rides the
// same compare-and-set as Admit, so a ticket that is already verified keeps
// its original verifier and timestamp untouched.
func (s *AdmissionService) ConfirmPayment(ctx context.Context, token string, scannerID int64) (*ConfirmPaymentResponse, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: qr_code is required", domain.ErrValidation)
	}

	if _, err := s.ticketRepo.GetByToken(ctx, token); err != nil {
		return nil, fmt.Errorf("get ticket: %w", err)
	}

	won, err := s.ticketRepo.Verify(ctx, token, scannerID, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("confirm payment: %w", err)
	}

	return &ConfirmPaymentResponse{
		Token:            token,
		Confirmed:        true,
		AlreadyConfirmed: !won,
	}, nil
}
