package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/bbarni2020/Event-Pyramide/internal/core/domain"
)

const foreignKeyViolation = "23503"

type SaleRepository struct {
	db *sql.DB
}

func NewSaleRepository(db *sql.DB) *SaleRepository {
	return &SaleRepository{db: db}
}

// Create depletes stock and appends the transaction in one database
// transaction. The GREATEST guard floors each decrement at zero: overselling
// truncates stock instead of failing the sale.
func (r *SaleRepository) Create(ctx context.Context, sale *domain.SaleTransaction) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer tx.Rollback()

	// Items without an inventory row yet count as stock 0; the upsert keeps
	// the floor-at-zero decrement working for them too.
	decrement := `
	INSERT INTO bar_inventory (item_id, quantity)
	VALUES ($1, 0)
	ON CONFLICT (item_id)
	DO UPDATE SET quantity = GREATEST(bar_inventory.quantity - $2, 0)
	`

	for itemID, qty := range sale.Lines {
		if _, err := tx.ExecContext(ctx, decrement, itemID, qty); err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolation {
				return fmt.Errorf("item %d: %w", itemID, domain.ErrNotFound)
			}
			return fmt.Errorf("failed to decrement stock for item %d: %w", itemID, err)
		}
	}

	header := `
	INSERT INTO bar_transactions (id, bartender_id, customer_id, total_amount, discount_applied, actual_amount, completed_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = tx.ExecContext(ctx, header,
		sale.ID,
		sale.OperatorID,
		sale.BuyerID,
		sale.GrossAmount,
		sale.DiscountPercent,
		sale.NetAmount,
		sale.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction header: %w", err)
	}

	line := `
	INSERT INTO bar_transaction_items (transaction_id, item_id, quantity)
	VALUES ($1, $2, $3)
	`

	stmt, err := tx.PrepareContext(ctx, line)
	if err != nil {
		return fmt.Errorf("failed to prepare line statement: %w", err)
	}

	defer stmt.Close()

	for itemID, qty := range sale.Lines {
		if _, err := stmt.ExecContext(ctx, sale.ID, itemID, qty); err != nil {
			return fmt.Errorf("failed to insert line for item %d: %w", itemID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *SaleRepository) SumNetByOperator(ctx context.Context, operatorID int64) (float64, error) {
	query := `
	SELECT COALESCE(SUM(actual_amount), 0)
	FROM bar_transactions
	WHERE bartender_id = $1
	`

	var sum float64
	if err := r.db.QueryRowContext(ctx, query, operatorID).Scan(&sum); err != nil {
		return 0, err
	}

	return sum, nil
}

func (r *SaleRepository) ListByOperator(ctx context.Context, operatorID int64) ([]domain.SaleTransaction, error) {
	query := `
	SELECT id, bartender_id, customer_id, total_amount, discount_applied, actual_amount, completed_at
	FROM bar_transactions
	WHERE bartender_id = $1
	ORDER BY completed_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, operatorID)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var sales []domain.SaleTransaction
	var ids []string
	byID := make(map[string]*domain.SaleTransaction)

	for rows.Next() {
		var sale domain.SaleTransaction
		var buyer sql.NullInt64
		if err := rows.Scan(
			&sale.ID,
			&sale.OperatorID,
			&buyer,
			&sale.GrossAmount,
			&sale.DiscountPercent,
			&sale.NetAmount,
			&sale.CompletedAt,
		); err != nil {
			return nil, err
		}
		if buyer.Valid {
			sale.BuyerID = &buyer.Int64
		}
		sale.Lines = make(map[int64]int)
		sales = append(sales, sale)
		ids = append(ids, sale.ID.String())
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range sales {
		byID[sales[i].ID.String()] = &sales[i]
	}

	if len(ids) == 0 {
		return sales, nil
	}

	lineQuery := `
	SELECT transaction_id, item_id, quantity
	FROM bar_transaction_items
	WHERE transaction_id = ANY($1)
	`

	lineRows, err := r.db.QueryContext(ctx, lineQuery, pq.Array(ids))
	if err != nil {
		return nil, err
	}

	defer lineRows.Close()

	for lineRows.Next() {
		var txID string
		var itemID int64
		var qty int
		if err := lineRows.Scan(&txID, &itemID, &qty); err != nil {
			return nil, err
		}
		if sale, ok := byID[txID]; ok {
			sale.Lines[itemID] = qty
		}
	}

	return sales, lineRows.Err()
}
