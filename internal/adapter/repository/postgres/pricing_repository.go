package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bbarni2020/Event-Pyramide/internal/core/domain"
)

type PricingConfigRepository struct {
	db *sql.DB
}

func NewPricingConfigRepository(db *sql.DB) *PricingConfigRepository {
	return &PricingConfigRepository{db: db}
}

// Snapshot reads the config row and the discount tiers inside one
// repeatable-read transaction, so a concurrent reconfiguration cannot be
// observed torn between the two reads.
func (r *PricingConfigRepository) Snapshot(ctx context.Context) (*domain.PricingSnapshot, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}

	defer tx.Rollback()

	var snapshot domain.PricingSnapshot

	configQuery := `
	SELECT ticket_price, currency, max_discount_percent, max_invites_per_user
	FROM event_config
	LIMIT 1
	`

	err = tx.QueryRowContext(ctx, configQuery).Scan(
		&snapshot.Config.BasePrice,
		&snapshot.Config.Currency,
		&snapshot.Config.MaxDiscountPercent,
		&snapshot.Config.MaxInvitesPerUser,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("event config: %w", domain.ErrNotFound)
		}
		return nil, err
	}

	tierQuery := `
	SELECT invite_count, discount_percent
	FROM invite_discounts
	ORDER BY invite_count DESC
	`

	rows, err := tx.QueryContext(ctx, tierQuery)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	for rows.Next() {
		var tier domain.DiscountTier
		if err := rows.Scan(&tier.InviteCount, &tier.DiscountPercent); err != nil {
			return nil, err
		}
		snapshot.Tiers = append(snapshot.Tiers, tier)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit snapshot read: %w", err)
	}

	return &snapshot, nil
}

func (r *PricingConfigRepository) PresetOverride(ctx context.Context, attendeeID int64) (*domain.PresetOverride, error) {
	query := `
	SELECT user_id, discount_percent, COALESCE(reason, '')
	FROM preset_discounts
	WHERE user_id = $1
	`

	var o domain.PresetOverride
	err := r.db.QueryRowContext(ctx, query, attendeeID).Scan(&o.AttendeeID, &o.DiscountPercent, &o.Reason)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &o, nil
}
