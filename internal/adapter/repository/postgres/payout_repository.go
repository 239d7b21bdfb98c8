package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/bbarni2020/Event-Pyramide/internal/core/domain"
)

type PayoutRepository struct {
	db *sql.DB
}

func NewPayoutRepository(db *sql.DB) *PayoutRepository {
	return &PayoutRepository{db: db}
}

// Create re-checks the outstanding balance and appends the payout inside a
// serializable transaction, so two concurrent payouts against the same
// shrinking balance cannot both pass the check.
func (r *PayoutRepository) Create(ctx context.Context, payout *domain.PayoutRecord) error {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer tx.Rollback()

	var sales float64
	salesQuery := `
	SELECT COALESCE(SUM(actual_amount), 0)
	FROM bar_transactions
	WHERE bartender_id = $1
	`
	if err := tx.QueryRowContext(ctx, salesQuery, payout.OperatorID).Scan(&sales); err != nil {
		return fmt.Errorf("sum sales: %w", err)
	}

	var payouts float64
	payoutsQuery := `
	SELECT COALESCE(SUM(amount), 0)
	FROM bar_payouts
	WHERE bartender_id = $1
	`
	if err := tx.QueryRowContext(ctx, payoutsQuery, payout.OperatorID).Scan(&payouts); err != nil {
		return fmt.Errorf("sum payouts: %w", err)
	}

	if payout.Amount > sales-payouts+domain.BalanceEpsilon {
		return domain.ErrInsufficientBalance
	}

	insert := `
	INSERT INTO bar_payouts (id, bartender_id, amount, created_at)
	VALUES ($1, $2, $3, $4)
	`
	if _, err := tx.ExecContext(ctx, insert, payout.ID, payout.OperatorID, payout.Amount, payout.CreatedAt); err != nil {
		return fmt.Errorf("insert payout: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit payout: %w", err)
	}

	return nil
}

func (r *PayoutRepository) SumByOperator(ctx context.Context, operatorID int64) (float64, error) {
	query := `
	SELECT COALESCE(SUM(amount), 0)
	FROM bar_payouts
	WHERE bartender_id = $1
	`

	var sum float64
	if err := r.db.QueryRowContext(ctx, query, operatorID).Scan(&sum); err != nil {
		return 0, err
	}

	return sum, nil
}

func (r *PayoutRepository) ListOperators(ctx context.Context) ([]domain.Attendee, error) {
	query := `
	SELECT id, username, COALESCE(full_name, ''), role, is_banned
	FROM users
	WHERE role = 'bartender'
	ORDER BY username
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var operators []domain.Attendee
	for rows.Next() {
		var a domain.Attendee
		if err := rows.Scan(&a.ID, &a.Username, &a.FullName, &a.Role, &a.IsBanned); err != nil {
			return nil, err
		}
		operators = append(operators, a)
	}

	return operators, rows.Err()
}
