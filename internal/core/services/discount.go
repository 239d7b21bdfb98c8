package services

import (
	"math"

	"github.com/bbarni2020/Event-Pyramide/internal/core/domain"
)

// LinearTicketDiscountPercent scales the ticket discount with the number of
// accepted invites, up to the configured cap. The result is a percent in
// [0, MaxDiscountPercent].
func LinearTicketDiscountPercent(cfg domain.EventPricingConfig, acceptedInvites int) float64 {
	if cfg.MaxInvitesPerUser <= 0 || cfg.MaxDiscountPercent <= 0 {
		return 0
	}
	if acceptedInvites <= 0 {
		return 0
	}

	fraction := float64(acceptedInvites) / float64(cfg.MaxInvitesPerUser)
	if fraction > 1.0 {
		fraction = 1.0
	}

	return cfg.MaxDiscountPercent * fraction
}

// BarDiscountPercent resolves the point-of-sale discount. A preset override
// replaces tier lookup entirely; otherwise the first tier (sorted by
// threshold descending) whose threshold is covered by the accepted-invite
// count wins. No tier matched means no discount.
//
// This value is independent of the linear ticket discount; the two are never
// combined.
func BarDiscountPercent(override *domain.PresetOverride, tiers []domain.DiscountTier, acceptedInvites int) float64 {
	if override != nil {
		return override.DiscountPercent
	}

	for _, tier := range tiers {
		if acceptedInvites >= tier.InviteCount {
			return tier.DiscountPercent
		}
	}

	return 0
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
