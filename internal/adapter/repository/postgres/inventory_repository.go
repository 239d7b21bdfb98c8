package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/bbarni2020/Event-Pyramide/internal/core/domain"
)

type InventoryRepository struct {
	db *sql.DB
}

func NewInventoryRepository(db *sql.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

func (r *InventoryRepository) GetItem(ctx context.Context, itemID int64) (*domain.InventoryItem, error) {
	query := `
	SELECT i.id, i.name, i.category, i.price, COALESCE(inv.quantity, 0), i.available
	FROM bar_items i
	LEFT JOIN bar_inventory inv ON inv.item_id = i.id
	WHERE i.id = $1
	`

	var item domain.InventoryItem
	err := r.db.QueryRowContext(ctx, query, itemID).Scan(
		&item.ID,
		&item.Name,
		&item.Category,
		&item.UnitPrice,
		&item.Quantity,
		&item.Available,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	return &item, nil
}

func (r *InventoryRepository) ListItems(ctx context.Context, onlyAvailable bool) ([]domain.InventoryItem, error) {
	query := `
	SELECT i.id, i.name, i.category, i.price, COALESCE(inv.quantity, 0), i.available
	FROM bar_items i
	LEFT JOIN bar_inventory inv ON inv.item_id = i.id
	`
	if onlyAvailable {
		query += ` WHERE i.available = TRUE`
	}
	query += ` ORDER BY i.id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var items []domain.InventoryItem
	for rows.Next() {
		var item domain.InventoryItem
		if err := rows.Scan(
			&item.ID,
			&item.Name,
			&item.Category,
			&item.UnitPrice,
			&item.Quantity,
			&item.Available,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

func (r *InventoryRepository) SetStock(ctx context.Context, itemID int64, quantity int) error {
	query := `
	INSERT INTO bar_inventory (item_id, quantity)
	VALUES ($1, $2)
	ON CONFLICT (item_id) DO UPDATE SET quantity = EXCLUDED.quantity
	`

	_, err := r.db.ExecContext(ctx, query, itemID, quantity)
	return err
}
