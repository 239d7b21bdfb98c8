package memory

import (
	"context"
	"fmt"

	"github.com/bbarni2020/Event-Pyramide/internal/core/domain"
)

// InventoryRepo implements ports.InventoryRepository.

type InventoryRepo struct{ s *Store }

func (s *Store) Inventory() *InventoryRepo { return &InventoryRepo{s: s} }

func (r *InventoryRepo) GetItem(_ context.Context, itemID int64) (*domain.InventoryItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	item, ok := r.s.items[itemID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *item
	return &cp, nil
}

func (r *InventoryRepo) ListItems(_ context.Context, onlyAvailable bool) ([]domain.InventoryItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	items := make([]domain.InventoryItem, 0, len(r.s.items))
	for _, item := range r.s.items {
		if onlyAvailable && !item.Available {
			continue
		}
		items = append(items, *item)
	}
	return items, nil
}

func (r *InventoryRepo) SetStock(_ context.Context, itemID int64, quantity int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	item, ok := r.s.items[itemID]
	if !ok {
		return domain.ErrNotFound
	}
	item.Quantity = quantity
	return nil
}

// SaleRepo implements ports.SaleRepository.

type SaleRepo struct{ s *Store }

func (s *Store) Sales() *SaleRepo { return &SaleRepo{s: s} }

// Create depletes stock and appends the transaction under one lock, so a
// failed line leaves nothing applied.
func (r *SaleRepo) Create(_ context.Context, sale *domain.SaleTransaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for itemID := range sale.Lines {
		if _, ok := r.s.items[itemID]; !ok {
			return fmt.Errorf("item %d: %w", itemID, domain.ErrNotFound)
		}
	}

	for itemID, qty := range sale.Lines {
		item := r.s.items[itemID]
		item.Quantity -= qty
		if item.Quantity < 0 {
			item.Quantity = 0
		}
	}

	cp := *sale
	cp.Lines = make(map[int64]int, len(sale.Lines))
	for k, v := range sale.Lines {
		cp.Lines[k] = v
	}
	r.s.sales = append(r.s.sales, cp)
	return nil
}

func (r *SaleRepo) SumNetByOperator(_ context.Context, operatorID int64) (float64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.sumNetLocked(operatorID), nil
}

func (r *SaleRepo) ListByOperator(_ context.Context, operatorID int64) ([]domain.SaleTransaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var sales []domain.SaleTransaction
	for _, sale := range r.s.sales {
		if sale.OperatorID == operatorID {
			sales = append(sales, sale)
		}
	}
	return sales, nil
}

func (s *Store) sumNetLocked(operatorID int64) float64 {
	var sum float64
	for _, sale := range s.sales {
		if sale.OperatorID == operatorID {
			sum += sale.NetAmount
		}
	}
	return sum
}

func (s *Store) sumPayoutsLocked(operatorID int64) float64 {
	var sum float64
	for _, p := range s.payouts {
		if p.OperatorID == operatorID {
			sum += p.Amount
		}
	}
	return sum
}

// PayoutRepo implements ports.PayoutRepository.

type PayoutRepo struct{ s *Store }

func (s *Store) Payouts() *PayoutRepo { return &PayoutRepo{s: s} }

// Create holds the operator lock across the balance check and the append,
// so two racing payouts against the same shrinking balance cannot both pass.
func (r *PayoutRepo) Create(_ context.Context, payout *domain.PayoutRecord) error {
	opLock := r.s.operatorLock(payout.OperatorID)
	opLock.Lock()
	defer opLock.Unlock()

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	outstanding := r.s.sumNetLocked(payout.OperatorID) - r.s.sumPayoutsLocked(payout.OperatorID)
	if payout.Amount > outstanding+domain.BalanceEpsilon {
		return domain.ErrInsufficientBalance
	}

	r.s.payouts = append(r.s.payouts, *payout)
	return nil
}

func (r *PayoutRepo) SumByOperator(_ context.Context, operatorID int64) (float64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.sumPayoutsLocked(operatorID), nil
}

func (r *PayoutRepo) ListOperators(_ context.Context) ([]domain.Attendee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var operators []domain.Attendee
	for _, a := range r.s.attendees {
		if a.Role.Capabilities().CanSell {
			operators = append(operators, a)
		}
	}
	return operators, nil
}
