package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/bbarni2020/Event-Pyramide/internal/core/domain"
)

type IncidentRepository struct {
	db *sql.DB
}

func NewIncidentRepository(db *sql.DB) *IncidentRepository {
	return &IncidentRepository{db: db}
}

func (r *IncidentRepository) GetByID(ctx context.Context, incidentID int64) (*domain.Incident, error) {
	query := `
	SELECT id, reported_by, incident_type, COALESCE(description, ''), people_needed, people_available, status, created_at, resolved_at
	FROM security_incidents
	WHERE id = $1
	`

	var i domain.Incident
	var resolvedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, query, incidentID).Scan(
		&i.ID,
		&i.ReportedBy,
		&i.IncidentType,
		&i.Description,
		&i.PeopleNeeded,
		&i.PeopleAvailable,
		&i.Status,
		&i.CreatedAt,
		&resolvedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	if resolvedAt.Valid {
		i.ResolvedAt = &resolvedAt.Time
	}

	assignQuery := `
	SELECT user_id
	FROM incident_assignments
	WHERE incident_id = $1
	ORDER BY user_id
	`

	rows, err := r.db.QueryContext(ctx, assignQuery, incidentID)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	for rows.Next() {
		var userID int64
		if err := rows.Scan(&userID); err != nil {
			return nil, err
		}
		i.AssignedTo = append(i.AssignedTo, userID)
	}

	return &i, rows.Err()
}

func (r *IncidentRepository) List(ctx context.Context, status domain.IncidentStatus, limit int) ([]domain.Incident, error) {
	query := `
	SELECT id, reported_by, incident_type, COALESCE(description, ''), people_needed, people_available, status, created_at, resolved_at
	FROM security_incidents
	`
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`
	if status != "" {
		query += ` LIMIT $2`
	} else {
		query += ` LIMIT $1`
	}
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var incidents []domain.Incident
	for rows.Next() {
		var i domain.Incident
		var resolvedAt sql.NullTime
		if err := rows.Scan(
			&i.ID,
			&i.ReportedBy,
			&i.IncidentType,
			&i.Description,
			&i.PeopleNeeded,
			&i.PeopleAvailable,
			&i.Status,
			&i.CreatedAt,
			&resolvedAt,
		); err != nil {
			return nil, err
		}
		if resolvedAt.Valid {
			i.ResolvedAt = &resolvedAt.Time
		}
		incidents = append(incidents, i)
	}

	return incidents, rows.Err()
}

func (r *IncidentRepository) Create(ctx context.Context, incident *domain.Incident) error {
	query := `
	INSERT INTO security_incidents (reported_by, incident_type, description, people_needed, people_available, status, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING id
	`

	return r.db.QueryRowContext(ctx, query,
		incident.ReportedBy,
		incident.IncidentType,
		incident.Description,
		incident.PeopleNeeded,
		incident.PeopleAvailable,
		incident.Status,
		incident.CreatedAt,
	).Scan(&incident.ID)
}

func (r *IncidentRepository) UpdateStatus(ctx context.Context, incidentID int64, status domain.IncidentStatus, resolvedAt *time.Time) error {
	query := `
	UPDATE security_incidents
	SET status = $2,
		resolved_at = COALESCE($3, resolved_at)
	WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, incidentID, status, resolvedAt)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (r *IncidentRepository) UpdatePeopleAvailable(ctx context.Context, incidentID int64, available int) error {
	query := `
	UPDATE security_incidents
	SET people_available = $2
	WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, incidentID, available)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// Assign inserts into the join relation; the conflict guard makes repeated
// assignment a no-op.
func (r *IncidentRepository) Assign(ctx context.Context, incidentID, attendeeID int64) error {
	query := `
	INSERT INTO incident_assignments (incident_id, user_id)
	VALUES ($1, $2)
	ON CONFLICT (incident_id, user_id) DO NOTHING
	`

	_, err := r.db.ExecContext(ctx, query, incidentID, attendeeID)
	return err
}

func (r *IncidentRepository) Unassign(ctx context.Context, incidentID, attendeeID int64) error {
	query := `
	DELETE FROM incident_assignments
	WHERE incident_id = $1 AND user_id = $2
	`

	_, err := r.db.ExecContext(ctx, query, incidentID, attendeeID)
	return err
}
