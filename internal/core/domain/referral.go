package domain

import "time"

type ReferralStatus string

const (
	ReferralPending  ReferralStatus = "pending"
	ReferralAccepted ReferralStatus = "accepted"
)

// ReferralEdge records one invitation. Each invitee handle may appear at
// most once across all inviters.
type ReferralEdge struct {
	ID            int64
	InviterID     int64
	InviteeHandle string
	Status        ReferralStatus
	CreatedAt     time.Time
	AcceptedAt    *time.Time
}
