package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/bbarni2020/Event-Pyramide/internal/core/domain"
)

type AttendeeRepository struct {
	db *sql.DB
}

func NewAttendeeRepository(db *sql.DB) *AttendeeRepository {
	return &AttendeeRepository{db: db}
}

func (r *AttendeeRepository) GetByID(ctx context.Context, attendeeID int64) (*domain.Attendee, error) {
	query := `
	SELECT id, username, COALESCE(full_name, ''), role, is_banned
	FROM users
	WHERE id = $1
	`

	var a domain.Attendee
	err := r.db.QueryRowContext(ctx, query, attendeeID).Scan(
		&a.ID,
		&a.Username,
		&a.FullName,
		&a.Role,
		&a.IsBanned,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	return &a, nil
}
