package ports

import (
	"context"
	"time"

	"github.com/bbarni2020/Event-Pyramide/internal/core/domain"
)

type AttendeeRepository interface {
	GetByID(ctx context.Context, attendeeID int64) (*domain.Attendee, error)
}

type ReferralRepository interface {
	// CountAccepted returns the number of this inviter's edges that have
	// reached accepted status.
	CountAccepted(ctx context.Context, inviterID int64) (int, error)
	CountAll(ctx context.Context, inviterID int64) (int, error)
	ListByInviter(ctx context.Context, inviterID int64) ([]domain.ReferralEdge, error)
	// Create fails with domain.ErrValidation when the invitee handle is
	// already claimed by any inviter.
	Create(ctx context.Context, edge *domain.ReferralEdge) error
	// Accept flips a pending edge to accepted. domain.ErrNotFound for an
	// unknown handle, domain.ErrValidation when already accepted.
	Accept(ctx context.Context, inviteeHandle string, at time.Time) (*domain.ReferralEdge, error)
}

type PricingConfigRepository interface {
	// Snapshot returns the pricing configuration and discount tiers as one
	// immutable view; tiers come back sorted by threshold descending.
	Snapshot(ctx context.Context) (*domain.PricingSnapshot, error)
	PresetOverride(ctx context.Context, attendeeID int64) (*domain.PresetOverride, error)
}

type TicketRepository interface {
	GetByToken(ctx context.Context, token string) (*domain.Ticket, error)
	GetByOwner(ctx context.Context, ownerID int64) (*domain.Ticket, error)
	Create(ctx context.Context, ticket *domain.Ticket) error
	// Verify performs the compare-and-set on the verified flag: it stamps
	// verifier and timestamp only if the ticket is still unverified, and
	// reports whether this call won the transition. Losing is not an error.
	Verify(ctx context.Context, token string, verifierID int64, at time.Time) (bool, error)
}

type InventoryRepository interface {
	GetItem(ctx context.Context, itemID int64) (*domain.InventoryItem, error)
	ListItems(ctx context.Context, onlyAvailable bool) ([]domain.InventoryItem, error)
	// SetStock upserts the stock quantity for an item (admin restock).
	SetStock(ctx context.Context, itemID int64, quantity int) error
}

type SaleRepository interface {
	// Create appends the transaction and decrements stock for every line,
	// floored at zero, as one atomic unit.
	Create(ctx context.Context, sale *domain.SaleTransaction) error
	SumNetByOperator(ctx context.Context, operatorID int64) (float64, error)
	ListByOperator(ctx context.Context, operatorID int64) ([]domain.SaleTransaction, error)
}

type PayoutRepository interface {
	// Create appends the payout after re-checking the outstanding balance,
	// serialized against concurrent sales and payouts for the same
	// operator. domain.ErrInsufficientBalance when the balance no longer
	// covers the amount.
	Create(ctx context.Context, payout *domain.PayoutRecord) error
	SumByOperator(ctx context.Context, operatorID int64) (float64, error)
	ListOperators(ctx context.Context) ([]domain.Attendee, error)
}

type IncidentRepository interface {
	GetByID(ctx context.Context, incidentID int64) (*domain.Incident, error)
	List(ctx context.Context, status domain.IncidentStatus, limit int) ([]domain.Incident, error)
	Create(ctx context.Context, incident *domain.Incident) error
	UpdateStatus(ctx context.Context, incidentID int64, status domain.IncidentStatus, resolvedAt *time.Time) error
	UpdatePeopleAvailable(ctx context.Context, incidentID int64, available int) error
	// Assign and Unassign are idempotent set operations on the responder
	// join relation.
	Assign(ctx context.Context, incidentID, attendeeID int64) error
	Unassign(ctx context.Context, incidentID, attendeeID int64) error
}

// CodeStore holds short-lived one-time codes keyed by login handle. Reading
// a code removes it atomically, so each code survives exactly one check.
type CodeStore interface {
	Put(ctx context.Context, key, code string, ttl time.Duration) error
	CheckAndRemove(ctx context.Context, key, code string) (bool, error)
}
