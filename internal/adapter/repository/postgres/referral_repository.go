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

type ReferralRepository struct {
	db *sql.DB
}

func NewReferralRepository(db *sql.DB) *ReferralRepository {
	return &ReferralRepository{db: db}
}

func (r *ReferralRepository) CountAccepted(ctx context.Context, inviterID int64) (int, error) {
	query := `
	SELECT COUNT(*)
	FROM invitations
	WHERE inviter_id = $1 AND status = 'accepted'
	`

	var count int
	if err := r.db.QueryRowContext(ctx, query, inviterID).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}

func (r *ReferralRepository) CountAll(ctx context.Context, inviterID int64) (int, error) {
	query := `
	SELECT COUNT(*)
	FROM invitations
	WHERE inviter_id = $1
	`

	var count int
	if err := r.db.QueryRowContext(ctx, query, inviterID).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}

func (r *ReferralRepository) ListByInviter(ctx context.Context, inviterID int64) ([]domain.ReferralEdge, error) {
	query := `
	SELECT id, inviter_id, invitee_username, status, created_at, accepted_at
	FROM invitations
	WHERE inviter_id = $1
	ORDER BY created_at
	`

	rows, err := r.db.QueryContext(ctx, query, inviterID)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var edges []domain.ReferralEdge
	for rows.Next() {
		var edge domain.ReferralEdge
		var acceptedAt sql.NullTime
		if err := rows.Scan(
			&edge.ID,
			&edge.InviterID,
			&edge.InviteeHandle,
			&edge.Status,
			&edge.CreatedAt,
			&acceptedAt,
		); err != nil {
			return nil, err
		}
		if acceptedAt.Valid {
			edge.AcceptedAt = &acceptedAt.Time
		}
		edges = append(edges, edge)
	}

	return edges, rows.Err()
}

func (r *ReferralRepository) Create(ctx context.Context, edge *domain.ReferralEdge) error {
	query := `
	INSERT INTO invitations (inviter_id, invitee_username, status, created_at)
	VALUES ($1, $2, $3, $4)
	RETURNING id
	`

	err := r.db.QueryRowContext(ctx, query, edge.InviterID, edge.InviteeHandle, edge.Status, edge.CreatedAt).Scan(&edge.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("%w: invitee already invited", domain.ErrValidation)
		}
		return fmt.Errorf("failed to insert invitation: %w", err)
	}

	return nil
}

func (r *ReferralRepository) Accept(ctx context.Context, inviteeHandle string, at time.Time) (*domain.ReferralEdge, error) {
	query := `
	UPDATE invitations
	SET status = 'accepted',
		accepted_at = $2
	WHERE invitee_username = $1 AND status = 'pending'
	RETURNING id, inviter_id, invitee_username, status, created_at, accepted_at
	`

	var edge domain.ReferralEdge
	var acceptedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, query, inviteeHandle, at).Scan(
		&edge.ID,
		&edge.InviterID,
		&edge.InviteeHandle,
		&edge.Status,
		&edge.CreatedAt,
		&acceptedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Distinguish an unknown handle from an already-accepted edge.
			var exists bool
			check := `SELECT EXISTS (SELECT 1 FROM invitations WHERE invitee_username = $1)`
			if err := r.db.QueryRowContext(ctx, check, inviteeHandle).Scan(&exists); err != nil {
				return nil, err
			}
			if exists {
				return nil, fmt.Errorf("%w: invitation already accepted", domain.ErrValidation)
			}
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	if acceptedAt.Valid {
		edge.AcceptedAt = &acceptedAt.Time
	}

	return &edge, nil
}
