package domain

import (
	"time"

	"github.com/google/uuid"
)

// BalanceEpsilon absorbs rounding drift accumulated across floating-point
// sums when gating a payout against the outstanding balance.
const BalanceEpsilon = 1e-6

type InventoryItem struct {
	ID        int64
	Name      string
	Category  string
	UnitPrice float64
	Quantity  int
	Available bool
}

// SaleTransaction is immutable once recorded. Lines maps item id to
// quantity sold.
type SaleTransaction struct {
	ID              uuid.UUID
	OperatorID      int64
	BuyerID         *int64
	Lines           map[int64]int
	GrossAmount     float64
	DiscountPercent float64
	NetAmount       float64
	CompletedAt     time.Time
}

// PayoutRecord is immutable once recorded.
type PayoutRecord struct {
	ID         uuid.UUID
	OperatorID int64
	Amount     float64
	CreatedAt  time.Time
}

// OperatorBalance is derived from the two immutable histories, never stored.
type OperatorBalance struct {
	OperatorID   int64
	Operator     string
	TotalSales   float64
	TotalPayouts float64
	Outstanding  float64
}
