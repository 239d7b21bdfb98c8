package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bbarni2020/Event-Pyramide/internal/core/domain"
	"github.com/bbarni2020/Event-Pyramide/internal/core/services"
)

func TestLinearTicketDiscountPercent(t *testing.T) {
	cfg := domain.EventPricingConfig{
		BasePrice:          100.00,
		MaxDiscountPercent: 50,
		MaxInvitesPerUser:  5,
	}

	assert.Equal(t, 20.0, services.LinearTicketDiscountPercent(cfg, 2))
	assert.Equal(t, 0.0, services.LinearTicketDiscountPercent(cfg, 0))
	assert.Equal(t, 50.0, services.LinearTicketDiscountPercent(cfg, 5))

	// Clamped at the cap once the invite denominator is exceeded.
	assert.Equal(t, 50.0, services.LinearTicketDiscountPercent(cfg, 12))
}

func TestLinearTicketDiscountPercent_DegenerateConfig(t *testing.T) {
	assert.Equal(t, 0.0, services.LinearTicketDiscountPercent(domain.EventPricingConfig{MaxDiscountPercent: 50, MaxInvitesPerUser: 0}, 3))
	assert.Equal(t, 0.0, services.LinearTicketDiscountPercent(domain.EventPricingConfig{MaxDiscountPercent: 0, MaxInvitesPerUser: 5}, 3))
	assert.Equal(t, 0.0, services.LinearTicketDiscountPercent(domain.EventPricingConfig{MaxDiscountPercent: 50, MaxInvitesPerUser: 5}, -1))
}

func TestBarDiscountPercent_TierLookup(t *testing.T) {
	tiers := []domain.DiscountTier{
		{InviteCount: 5, DiscountPercent: 30},
		{InviteCount: 3, DiscountPercent: 20},
		{InviteCount: 1, DiscountPercent: 10},
	}

	assert.Equal(t, 20.0, services.BarDiscountPercent(nil, tiers, 4))
	assert.Equal(t, 30.0, services.BarDiscountPercent(nil, tiers, 5))
	assert.Equal(t, 10.0, services.BarDiscountPercent(nil, tiers, 1))
	assert.Equal(t, 0.0, services.BarDiscountPercent(nil, tiers, 0))
	assert.Equal(t, 0.0, services.BarDiscountPercent(nil, nil, 10))
}

func TestBarDiscountPercent_OverrideReplacesTiers(t *testing.T) {
	tiers := []domain.DiscountTier{
		{InviteCount: 5, DiscountPercent: 30},
	}
	override := &domain.PresetOverride{AttendeeID: 1, DiscountPercent: 15}

	// Ten accepted invites would match the 30% tier, but the override wins.
	assert.Equal(t, 15.0, services.BarDiscountPercent(override, tiers, 10))
}
