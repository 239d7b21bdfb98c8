package domain

// EventPricingConfig is read as an immutable snapshot per operation.
type EventPricingConfig struct {
	BasePrice          float64
	Currency           string
	MaxDiscountPercent float64
	MaxInvitesPerUser  int
}

// DiscountTier maps an accepted-invite threshold to a bar discount percent.
type DiscountTier struct {
	InviteCount     int
	DiscountPercent float64
}

// PresetOverride replaces tier lookup entirely for one attendee.
type PresetOverride struct {
	AttendeeID      int64
	DiscountPercent float64
	Reason          string
}

// PricingSnapshot bundles the configuration a single operation prices
// against. Tiers are sorted by InviteCount descending.
type PricingSnapshot struct {
	Config EventPricingConfig
	Tiers  []DiscountTier
}
