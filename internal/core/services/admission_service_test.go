package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bbarni2020/Event-Pyramide/internal/adapter/repository/memory"
	"github.com/bbarni2020/Event-Pyramide/internal/core/domain"
	"github.com/bbarni2020/Event-Pyramide/internal/core/services"
)

func newAdmissionService(store *memory.Store) *services.AdmissionService {
	return services.NewAdmissionService(testLogger(), store.Tickets(), store.Attendees(), store.Referrals(), store.PricingConfig())
}

func issueTicket(t *testing.T, store *memory.Store, ownerID int64, token string) {
	t.Helper()
	require.NoError(t, store.Tickets().Create(context.Background(), &domain.Ticket{
		OwnerID:  ownerID,
		Token:    token,
		IssuedAt: time.Now().UTC(),
	}))
}

func TestAdmit_UnknownToken(t *testing.T) {
	store := newTestStore()
	svc := newAdmissionService(store)

	resp, err := svc.Admit(context.Background(), services.AdmitRequest{Token: "no-such-token", ScannerID: 1})
	require.NoError(t, err)

	assert.Equal(t, domain.AdmissionInvalid, resp.Status)
	assert.Equal(t, "red", resp.Color)
	assert.Nil(t, resp.VerifiedAt)
}

func TestAdmit_Idempotent(t *testing.T) {
	store := newTestStore()
	store.AddAttendee(domain.Attendee{ID: 1, Username: "alice", Role: domain.RoleOrdinary})
	store.AddAttendee(domain.Attendee{ID: 9, Username: "door", Role: domain.RoleInspector})
	seedAcceptedInvites(t, store, 1, 2)
	issueTicket(t, store, 1, "tok-alice")

	svc := newAdmissionService(store)
	ctx := context.Background()

	first, err := svc.Admit(ctx, services.AdmitRequest{Token: "tok-alice", ScannerID: 9})
	require.NoError(t, err)
	assert.Equal(t, domain.AdmissionVerified, first.Status)
	assert.Equal(t, 80.00, first.Price)
	assert.Equal(t, domain.PaymentUnpaid, first.PaymentStatus)
	require.NotNil(t, first.VerifiedAt)
	require.NotNil(t, first.VerifiedBy)
	assert.Equal(t, int64(9), *first.VerifiedBy)

	second, err := svc.Admit(ctx, services.AdmitRequest{Token: "tok-alice", ScannerID: 12})
	require.NoError(t, err)
	assert.Equal(t, domain.AdmissionAlreadyVerified, second.Status)
	assert.Equal(t, domain.PaymentPaid, second.PaymentStatus)

	// The replay carries the original stamps, not the second scanner's.
	require.NotNil(t, second.VerifiedAt)
	require.NotNil(t, second.VerifiedBy)
	assert.Equal(t, *first.VerifiedAt, *second.VerifiedAt)
	assert.Equal(t, *first.VerifiedBy, *second.VerifiedBy)
}

func TestAdmit_ConcurrentScans(t *testing.T) {
	store := newTestStore()
	store.AddAttendee(domain.Attendee{ID: 1, Username: "alice", Role: domain.RoleOrdinary})
	issueTicket(t, store, 1, "tok-alice")

	svc := newAdmissionService(store)

	const scans = 32
	responses := make([]*services.AdmitResponse, scans)
	errs := make([]error, scans)

	var wg sync.WaitGroup
	for i := 0; i < scans; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			responses[idx], errs[idx] = svc.Admit(context.Background(), services.AdmitRequest{Token: "tok-alice", ScannerID: int64(100 + idx)})
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	verified := 0
	var verifiedAt *time.Time
	var verifiedBy *int64
	for _, resp := range responses {
		switch resp.Status {
		case domain.AdmissionVerified:
			verified++
		case domain.AdmissionAlreadyVerified:
		default:
			t.Fatalf("unexpected status %q", resp.Status)
		}
		require.NotNil(t, resp.VerifiedAt)
		require.NotNil(t, resp.VerifiedBy)
		if verifiedAt == nil {
			verifiedAt = resp.VerifiedAt
			verifiedBy = resp.VerifiedBy
		}
		assert.Equal(t, *verifiedAt, *resp.VerifiedAt)
		assert.Equal(t, *verifiedBy, *resp.VerifiedBy)
	}

	assert.Equal(t, 1, verified, "exactly one scan wins the transition")
}

func TestAdmit_StaffFastPath(t *testing.T) {
	store := newTestStore()
	store.AddAttendee(domain.Attendee{ID: 5, Username: "guard", Role: domain.RoleSecurity})
	issueTicket(t, store, 5, "tok-guard")

	svc := newAdmissionService(store)

	resp, err := svc.Admit(context.Background(), services.AdmitRequest{Token: "tok-guard", ScannerID: 1})
	require.NoError(t, err)

	assert.Equal(t, domain.AdmissionVerified, resp.Status)
	assert.True(t, resp.IsSpecial)
	assert.Equal(t, 0.0, resp.Price)
	assert.Equal(t, domain.PaymentStaff, resp.PaymentStatus)
	assert.Equal(t, "green", resp.Color)
}

func TestAdmit_CarriesBarDiscount(t *testing.T) {
	store := newTestStore()
	store.AddAttendee(domain.Attendee{ID: 1, Username: "alice", Role: domain.RoleOrdinary})
	seedAcceptedInvites(t, store, 1, 4)
	issueTicket(t, store, 1, "tok-alice")

	svc := newAdmissionService(store)

	resp, err := svc.Admit(context.Background(), services.AdmitRequest{Token: "tok-alice", ScannerID: 9})
	require.NoError(t, err)

	assert.Equal(t, 4, resp.AcceptedInvites)
	assert.Equal(t, 20.0, resp.BarDiscountPercent)
}

func TestAdmit_PresetOverrideWinsAtTheBar(t *testing.T) {
	store := newTestStore()
	store.AddAttendee(domain.Attendee{ID: 1, Username: "alice", Role: domain.RoleOrdinary})
	seedAcceptedInvites(t, store, 1, 5)
	store.SetPresetOverride(domain.PresetOverride{AttendeeID: 1, DiscountPercent: 15})
	issueTicket(t, store, 1, "tok-alice")

	svc := newAdmissionService(store)

	resp, err := svc.Admit(context.Background(), services.AdmitRequest{Token: "tok-alice", ScannerID: 9})
	require.NoError(t, err)

	assert.Equal(t, 15.0, resp.BarDiscountPercent)
}

func TestIssueTicket_Idempotent(t *testing.T) {
	store := newTestStore()
	store.AddAttendee(domain.Attendee{ID: 1, Username: "alice", Role: domain.RoleOrdinary})

	svc := newAdmissionService(store)
	ctx := context.Background()

	first, err := svc.IssueTicket(ctx, 1)
	require.NoError(t, err)
	require.NotEmpty(t, first.Token)

	second, err := svc.IssueTicket(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, first.Token, second.Token)
}

func TestConfirmPayment_NeverRestamps(t *testing.T) {
	store := newTestStore()
	store.AddAttendee(domain.Attendee{ID: 1, Username: "alice", Role: domain.RoleOrdinary})
	issueTicket(t, store, 1, "tok-alice")

	svc := newAdmissionService(store)
	ctx := context.Background()

	admitted, err := svc.Admit(ctx, services.AdmitRequest{Token: "tok-alice", ScannerID: 9})
	require.NoError(t, err)
	require.Equal(t, domain.AdmissionVerified, admitted.Status)

	resp, err := svc.ConfirmPayment(ctx, "tok-alice", 42)
	require.NoError(t, err)
	assert.True(t, resp.AlreadyConfirmed)

	ticket, err := store.Tickets().GetByToken(ctx, "tok-alice")
	require.NoError(t, err)
	require.NotNil(t, ticket.VerifiedBy)
	assert.Equal(t, int64(9), *ticket.VerifiedBy, "original verifier survives the payment confirmation")
	assert.Equal(t, *admitted.VerifiedAt, *ticket.VerifiedAt)
}
