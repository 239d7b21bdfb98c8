package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/bbarni2020/Event-Pyramide/internal/core/domain"
	"github.com/bbarni2020/Event-Pyramide/internal/core/ports"
)

// PayoutService reconciles operators against their sale history. The
// outstanding balance is always recomputed from the two immutable histories;
// nothing here caches a running total.
type PayoutService struct {
	logger       *logrus.Logger
	attendeeRepo ports.AttendeeRepository
	saleRepo     ports.SaleRepository
	payoutRepo   ports.PayoutRepository
}

func NewPayoutService(
	logger *logrus.Logger,
	attendeeRepo ports.AttendeeRepository,
	saleRepo ports.SaleRepository,
	payoutRepo ports.PayoutRepository,
) *PayoutService {
	return &PayoutService{
		logger:       logger,
		attendeeRepo: attendeeRepo,
		saleRepo:     saleRepo,
		payoutRepo:   payoutRepo,
	}
}

func (s *PayoutService) Outstanding(ctx context.Context, operatorID int64) (float64, error) {
	if _, err := s.attendeeRepo.GetByID(ctx, operatorID); err != nil {
		return 0, fmt.Errorf("get operator: %w", err)
	}

	sales, err := s.saleRepo.SumNetByOperator(ctx, operatorID)
	if err != nil {
		return 0, fmt.Errorf("sum sales: %w", err)
	}

	payouts, err := s.payoutRepo.SumByOperator(ctx, operatorID)
	if err != nil {
		return 0, fmt.Errorf("sum payouts: %w", err)
	}

	return sales - payouts, nil
}

// CreatePayout gates the payout against the operator's outstanding balance.
// The balance check and the append happen atomically in the repository,
// serialized per operator, so two racing payouts cannot both drain the same
// balance.
func (s *PayoutService) CreatePayout(ctx context.Context, operatorID int64, amount float64) (*domain.PayoutRecord, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	if _, err := s.attendeeRepo.GetByID(ctx, operatorID); err != nil {
		return nil, fmt.Errorf("get operator: %w", err)
	}

	payout := &domain.PayoutRecord{
		ID:         uuid.New(),
		OperatorID: operatorID,
		Amount:     amount,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.payoutRepo.Create(ctx, payout); err != nil {
		return nil, fmt.Errorf("create payout: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"payout":   payout.ID,
		"operator": operatorID,
		"amount":   amount,
	}).Info("payout recorded")

	return payout, nil
}

// Balances reports every operator's sales, payouts and outstanding balance.
func (s *PayoutService) Balances(ctx context.Context) ([]domain.OperatorBalance, error) {
	operators, err := s.payoutRepo.ListOperators(ctx)
	if err != nil {
		return nil, fmt.Errorf("list operators: %w", err)
	}

	balances := make([]domain.OperatorBalance, 0, len(operators))
	for _, op := range operators {
		sales, err := s.saleRepo.SumNetByOperator(ctx, op.ID)
		if err != nil {
			return nil, fmt.Errorf("sum sales for %d: %w", op.ID, err)
		}
		payouts, err := s.payoutRepo.SumByOperator(ctx, op.ID)
		if err != nil {
			return nil, fmt.Errorf("sum payouts for %d: %w", op.ID, err)
		}
		balances = append(balances, domain.OperatorBalance{
			OperatorID:   op.ID,
			Operator:     op.Username,
			TotalSales:   sales,
			TotalPayouts: payouts,
			Outstanding:  sales - payouts,
		})
	}

	return balances, nil
}
