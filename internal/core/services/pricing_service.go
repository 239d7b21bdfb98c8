package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/bbarni2020/Event-Pyramide/internal/core/domain"
	"github.com/bbarni2020/Event-Pyramide/internal/core/ports"
)

type PriceResponse struct {
	Price         float64              `json:"price"`
	Currency      string               `json:"currency"`
	PaymentStatus domain.PaymentStatus `json:"payment_status"`
}

// PricingService computes the payable ticket price for an attendee. It has
// no side effects; every call prices against an immutable configuration
// snapshot and the current verified flag.
type PricingService struct {
	attendeeRepo ports.AttendeeRepository
	referralRepo ports.ReferralRepository
	ticketRepo   ports.TicketRepository
	configRepo   ports.PricingConfigRepository
}

func NewPricingService(
	attendeeRepo ports.AttendeeRepository,
	referralRepo ports.ReferralRepository,
	ticketRepo ports.TicketRepository,
	configRepo ports.PricingConfigRepository,
) *PricingService {
	return &PricingService{
		attendeeRepo: attendeeRepo,
		referralRepo: referralRepo,
		ticketRepo:   ticketRepo,
		configRepo:   configRepo,
	}
}

func (s *PricingService) Price(ctx context.Context, attendeeID int64) (*PriceResponse, error) {
	attendee, err := s.attendeeRepo.GetByID(ctx, attendeeID)
	if err != nil {
		return nil, fmt.Errorf("get attendee: %w", err)
	}

	snapshot, err := s.configRepo.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("pricing snapshot: %w", err)
	}

	if attendee.Role.Capabilities().FreeAdmission {
		return &PriceResponse{
			Price:         0,
			Currency:      snapshot.Config.Currency,
			PaymentStatus: domain.PaymentStaff,
		}, nil
	}

	accepted, err := s.referralRepo.CountAccepted(ctx, attendeeID)
	if err != nil {
		return nil, fmt.Errorf("count accepted invites: %w", err)
	}

	price := TicketPrice(snapshot.Config, accepted)

	status := domain.PaymentUnpaid
	ticket, err := s.ticketRepo.GetByOwner(ctx, attendeeID)
	switch {
	case err == nil:
		if ticket.Verified {
			status = domain.PaymentPaid
		}
	case errors.Is(err, domain.ErrNotFound):
		// no ticket issued yet, still unpaid
	default:
		return nil, fmt.Errorf("get ticket: %w", err)
	}

	return &PriceResponse{
		Price:         price,
		Currency:      snapshot.Config.Currency,
		PaymentStatus: status,
	}, nil
}

// TicketPrice applies the linear invite discount to the base price, rounded
// to cents.
func TicketPrice(cfg domain.EventPricingConfig, acceptedInvites int) float64 {
	pct := LinearTicketDiscountPercent(cfg, acceptedInvites)
	return round2(cfg.BasePrice * (1 - pct/100))
}
