package services_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bbarni2020/Event-Pyramide/internal/adapter/repository/memory"
	"github.com/bbarni2020/Event-Pyramide/internal/core/domain"
	"github.com/bbarni2020/Event-Pyramide/internal/core/services"
)

func newInvitationService(store *memory.Store) *services.InvitationService {
	return services.NewInvitationService(store.Attendees(), store.Referrals(), store.PricingConfig())
}

func TestCreateInvitation(t *testing.T) {
	store := newTestStore()
	store.AddAttendee(domain.Attendee{ID: 1, Username: "alice", Role: domain.RoleOrdinary})

	svc := newInvitationService(store)

	edge, err := svc.CreateInvitation(context.Background(), 1, "  Bob  ")
	require.NoError(t, err)
	assert.Equal(t, "bob", edge.InviteeHandle, "handles are normalized")
	assert.Equal(t, domain.ReferralPending, edge.Status)
	assert.NotZero(t, edge.ID)
}

func TestCreateInvitation_LimitForRegularUsers(t *testing.T) {
	store := newTestStore()
	store.AddAttendee(domain.Attendee{ID: 1, Username: "alice", Role: domain.RoleOrdinary})
	store.AddAttendee(domain.Attendee{ID: 2, Username: "boss", Role: domain.RoleAdmin})

	svc := newInvitationService(store)
	ctx := context.Background()

	// Pending invitations count against the limit, not just accepted ones.
	for i := 0; i < 5; i++ {
		_, err := svc.CreateInvitation(ctx, 1, fmt.Sprintf("friend-%d", i))
		require.NoError(t, err)
	}
	_, err := svc.CreateInvitation(ctx, 1, "one-too-many")
	assert.ErrorIs(t, err, domain.ErrValidation)

	// Admins are not capped.
	for i := 0; i < 8; i++ {
		_, err := svc.CreateInvitation(ctx, 2, fmt.Sprintf("vip-%d", i))
		require.NoError(t, err)
	}
}

func TestCreateInvitation_BannedInviter(t *testing.T) {
	store := newTestStore()
	store.AddAttendee(domain.Attendee{ID: 1, Username: "alice", Role: domain.RoleOrdinary, IsBanned: true})

	svc := newInvitationService(store)

	_, err := svc.CreateInvitation(context.Background(), 1, "bob")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreateInvitation_DuplicateInvitee(t *testing.T) {
	store := newTestStore()
	store.AddAttendee(domain.Attendee{ID: 1, Username: "alice", Role: domain.RoleOrdinary})
	store.AddAttendee(domain.Attendee{ID: 2, Username: "carol", Role: domain.RoleOrdinary})

	svc := newInvitationService(store)
	ctx := context.Background()

	_, err := svc.CreateInvitation(ctx, 1, "bob")
	require.NoError(t, err)

	// Same handle, even from a different inviter, is taken.
	_, err = svc.CreateInvitation(ctx, 2, "BOB")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestAcceptInvitation(t *testing.T) {
	store := newTestStore()
	store.AddAttendee(domain.Attendee{ID: 1, Username: "alice", Role: domain.RoleOrdinary})

	svc := newInvitationService(store)
	ctx := context.Background()

	_, err := svc.CreateInvitation(ctx, 1, "bob")
	require.NoError(t, err)

	edge, err := svc.AcceptInvitation(ctx, "Bob")
	require.NoError(t, err)
	assert.Equal(t, domain.ReferralAccepted, edge.Status)
	require.NotNil(t, edge.AcceptedAt)

	accepted, err := store.Referrals().CountAccepted(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, accepted)

	// A second acceptance of the same edge is rejected.
	_, err = svc.AcceptInvitation(ctx, "bob")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.AcceptInvitation(ctx, "nobody")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListInvitations(t *testing.T) {
	store := newTestStore()
	store.AddAttendee(domain.Attendee{ID: 1, Username: "alice", Role: domain.RoleOrdinary})

	svc := newInvitationService(store)
	ctx := context.Background()

	_, err := svc.CreateInvitation(ctx, 1, "bob")
	require.NoError(t, err)
	_, err = svc.CreateInvitation(ctx, 1, "carol")
	require.NoError(t, err)

	edges, err := svc.ListInvitations(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, edges, 2)

	_, err = svc.ListInvitations(ctx, 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
