package domain

import "time"

// Ticket is the admission state machine: Issued (Verified false) moves to
// Verified exactly once, stamping the verifier and timestamp. The transition
// is terminal. VerifiedAt and VerifiedBy are set if and only if Verified is
// true.
type Ticket struct {
	ID         int64
	OwnerID    int64
	Token      string
	Verified   bool
	VerifiedAt *time.Time
	VerifiedBy *int64
	IssuedAt   time.Time
}

type AdmissionStatus string

const (
	AdmissionVerified        AdmissionStatus = "verified"
	AdmissionAlreadyVerified AdmissionStatus = "already_verified"
	AdmissionInvalid         AdmissionStatus = "invalid"
)

type PaymentStatus string

const (
	PaymentPaid   PaymentStatus = "paid"
	PaymentUnpaid PaymentStatus = "unpaid"
	PaymentStaff  PaymentStatus = "staff"
)

// DisplayColor is what gate and bar screens render: green for staff or paid,
// blue for unpaid ordinary attendees, red for unknown tokens.
func (s PaymentStatus) DisplayColor() string {
	switch s {
	case PaymentPaid, PaymentStaff:
		return "green"
	case PaymentUnpaid:
		return "blue"
	default:
		return "red"
	}
}
