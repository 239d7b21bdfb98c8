package memory

import (
	"context"

	"github.com/bbarni2020/Event-Pyramide/internal/core/domain"
)

// ConfigRepo implements ports.PricingConfigRepository.

type ConfigRepo struct{ s *Store }

func (s *Store) PricingConfig() *ConfigRepo { return &ConfigRepo{s: s} }

// Snapshot copies the configuration and tiers under the read lock, so a
// concurrent reconfiguration can never be observed torn mid-operation.
func (r *ConfigRepo) Snapshot(_ context.Context) (*domain.PricingSnapshot, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return &domain.PricingSnapshot{
		Config: r.s.config,
		Tiers:  append([]domain.DiscountTier(nil), r.s.tiers...),
	}, nil
}

func (r *ConfigRepo) PresetOverride(_ context.Context, attendeeID int64) (*domain.PresetOverride, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	o, ok := r.s.overrides[attendeeID]
	if !ok {
		return nil, nil
	}
	cp := o
	return &cp, nil
}
