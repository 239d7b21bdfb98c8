package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/bbarni2020/Event-Pyramide/internal/core/domain"
)

const uniqueViolation = "23505"

type TicketRepository struct {
	db *sql.DB
}

func NewTicketRepository(db *sql.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

func (r *TicketRepository) scanTicket(row *sql.Row) (*domain.Ticket, error) {
	var t domain.Ticket
	var verifiedAt sql.NullTime
	var verifiedBy sql.NullInt64

	err := row.Scan(
		&t.ID,
		&t.OwnerID,
		&t.Token,
		&t.Verified,
		&verifiedAt,
		&verifiedBy,
		&t.IssuedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	if verifiedAt.Valid {
		t.VerifiedAt = &verifiedAt.Time
	}
	if verifiedBy.Valid {
		t.VerifiedBy = &verifiedBy.Int64
	}

	return &t, nil
}

func (r *TicketRepository) GetByToken(ctx context.Context, token string) (*domain.Ticket, error) {
	query := `
	SELECT id, user_id, qr_code, verified, verified_at, verified_by, issued_at
	FROM tickets
	WHERE qr_code = $1
	`

	return r.scanTicket(r.db.QueryRowContext(ctx, query, token))
}

func (r *TicketRepository) GetByOwner(ctx context.Context, ownerID int64) (*domain.Ticket, error) {
	query := `
	SELECT id, user_id, qr_code, verified, verified_at, verified_by, issued_at
	FROM tickets
	WHERE user_id = $1
	`

	return r.scanTicket(r.db.QueryRowContext(ctx, query, ownerID))
}

func (r *TicketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	query := `
	INSERT INTO tickets (user_id, qr_code, verified, issued_at)
	VALUES ($1, $2, FALSE, $3)
	RETURNING id
	`

	err := r.db.QueryRowContext(ctx, query, ticket.OwnerID, ticket.Token, ticket.IssuedAt).Scan(&ticket.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("%w: attendee already holds a ticket", domain.ErrValidation)
		}
		return fmt.Errorf("failed to insert ticket: %w", err)
	}

	return nil
}

// Verify flips the flag with a guarded UPDATE. Zero rows affected means
// another scan won the transition first.
func (r *TicketRepository) Verify(ctx context.Context, token string, verifierID int64, at time.Time) (bool, error) {
	query := `
	UPDATE tickets
	SET verified = TRUE,
		verified_at = $2,
		verified_by = $3
	WHERE qr_code = $1 AND verified = FALSE
	`

	result, err := r.db.ExecContext(ctx, query, token, at, verifierID)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected == 1, nil
}
