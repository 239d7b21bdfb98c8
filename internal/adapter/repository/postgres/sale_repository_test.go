package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bbarni2020/Event-Pyramide/internal/adapter/repository/postgres"
	"github.com/bbarni2020/Event-Pyramide/internal/core/domain"
)

func saleFixture(itemID int64, qty int) *domain.SaleTransaction {
	return &domain.SaleTransaction{
		ID:          uuid.New(),
		OperatorID:  7,
		Lines:       map[int64]int{itemID: qty},
		GrossAmount: 16.00,
		NetAmount:   16.00,
		CompletedAt: time.Now().UTC(),
	}
}

func TestSaleCreate_ItemWithoutInventoryRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sale := saleFixture(1, 8)

	// The decrement upserts, so an item that has never been stocked starts
	// at zero and the sale still goes through.
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO bar_inventory").
		WithArgs(int64(1), 8).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO bar_transactions").
		WithArgs(sale.ID, sale.OperatorID, sale.BuyerID, sale.GrossAmount, sale.DiscountPercent, sale.NetAmount, sale.CompletedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectPrepare("INSERT INTO bar_transaction_items").
		ExpectExec().
		WithArgs(sale.ID, int64(1), 8).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	repo := postgres.NewSaleRepository(db)
	require.NoError(t, repo.Create(context.Background(), sale))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSaleCreate_UnknownItemRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sale := saleFixture(404, 1)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO bar_inventory").
		WithArgs(int64(404), 1).
		WillReturnError(&pq.Error{Code: foreignKeyCode})
	mock.ExpectRollback()

	repo := postgres.NewSaleRepository(db)
	err = repo.Create(context.Background(), sale)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

const foreignKeyCode = pq.ErrorCode("23503")
