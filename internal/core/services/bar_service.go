package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/bbarni2020/Event-Pyramide/internal/core/domain"
	"github.com/bbarni2020/Event-Pyramide/internal/core/ports"
)

// declaredTolerance bounds how far client-declared totals may sit from the
// server-side recomputation before the sale is rejected.
const declaredTolerance = 0.01

type SaleLine struct {
	ItemID   int64 `json:"item_id"`
	Quantity int   `json:"qty"`
}

type RecordSaleRequest struct {
	OperatorID      int64      `json:"bartender_id"`
	BuyerID         *int64     `json:"customer_id,omitempty"`
	Lines           []SaleLine `json:"items"`
	DiscountPercent float64    `json:"discount_applied"`
	DeclaredGross   float64    `json:"total_amount"`
	DeclaredNet     float64    `json:"actual_amount"`
}

// BarService records point-of-sale transactions and their inventory effect.
// Totals are recomputed from the authoritative item prices; the declared
// amounts from the register are only a consistency check.
type BarService struct {
	logger        *logrus.Logger
	attendeeRepo  ports.AttendeeRepository
	inventoryRepo ports.InventoryRepository
	saleRepo      ports.SaleRepository
}

func NewBarService(
	logger *logrus.Logger,
	attendeeRepo ports.AttendeeRepository,
	inventoryRepo ports.InventoryRepository,
	saleRepo ports.SaleRepository,
) *BarService {
	return &BarService{
		logger:        logger,
		attendeeRepo:  attendeeRepo,
		inventoryRepo: inventoryRepo,
		saleRepo:      saleRepo,
	}
}

// RecordSale validates the request, recomputes gross and net from item
// prices, then appends the transaction and depletes stock as one atomic
// unit. Overselling truncates stock at zero instead of failing the sale.
func (s *BarService) RecordSale(ctx context.Context, req RecordSaleRequest) (*domain.SaleTransaction, error) {
	if len(req.Lines) == 0 {
		return nil, fmt.Errorf("%w: at least one line item is required", domain.ErrValidation)
	}
	if req.DiscountPercent < 0 || req.DiscountPercent > 100 {
		return nil, fmt.Errorf("%w: discount must be between 0 and 100", domain.ErrValidation)
	}

	if _, err := s.attendeeRepo.GetByID(ctx, req.OperatorID); err != nil {
		return nil, fmt.Errorf("get operator: %w", err)
	}

	lines := make(map[int64]int, len(req.Lines))
	var gross float64
	for _, line := range req.Lines {
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity must be positive for item %d", domain.ErrValidation, line.ItemID)
		}
		item, err := s.inventoryRepo.GetItem(ctx, line.ItemID)
		if err != nil {
			return nil, fmt.Errorf("get item %d: %w", line.ItemID, err)
		}
		lines[item.ID] += line.Quantity
		gross += item.UnitPrice * float64(line.Quantity)
	}

	gross = round2(gross)
	net := round2(gross * (1 - req.DiscountPercent/100))

	if math.Abs(req.DeclaredGross-gross) > declaredTolerance {
		return nil, fmt.Errorf("%w: declared gross %.2f does not match computed %.2f", domain.ErrValidation, req.DeclaredGross, gross)
	}
	if math.Abs(req.DeclaredNet-net) > declaredTolerance {
		return nil, fmt.Errorf("%w: declared net %.2f does not match computed %.2f", domain.ErrValidation, req.DeclaredNet, net)
	}

	sale := &domain.SaleTransaction{
		ID:              uuid.New(),
		OperatorID:      req.OperatorID,
		BuyerID:         req.BuyerID,
		Lines:           lines,
		GrossAmount:     gross,
		DiscountPercent: req.DiscountPercent,
		NetAmount:       net,
		CompletedAt:     time.Now().UTC(),
	}

	if err := s.saleRepo.Create(ctx, sale); err != nil {
		return nil, fmt.Errorf("record sale: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"transaction": sale.ID,
		"operator":    sale.OperatorID,
		"net":         sale.NetAmount,
	}).Info("sale recorded")

	return sale, nil
}

func (s *BarService) ListItems(ctx context.Context, onlyAvailable bool) ([]domain.InventoryItem, error) {
	return s.inventoryRepo.ListItems(ctx, onlyAvailable)
}

func (s *BarService) SetStock(ctx context.Context, itemID int64, quantity int) error {
	if quantity < 0 {
		return fmt.Errorf("%w: quantity must not be negative", domain.ErrValidation)
	}
	if _, err := s.inventoryRepo.GetItem(ctx, itemID); err != nil {
		return fmt.Errorf("get item: %w", err)
	}
	return s.inventoryRepo.SetStock(ctx, itemID, quantity)
}

func (s *BarService) OperatorSales(ctx context.Context, operatorID int64) ([]domain.SaleTransaction, error) {
	if _, err := s.attendeeRepo.GetByID(ctx, operatorID); err != nil {
		return nil, fmt.Errorf("get operator: %w", err)
	}
	return s.saleRepo.ListByOperator(ctx, operatorID)
}
