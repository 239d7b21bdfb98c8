package services_test

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/bbarni2020/Event-Pyramide/internal/adapter/repository/memory"
	"github.com/bbarni2020/Event-Pyramide/internal/core/domain"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// newTestStore seeds a memory store with the standard pricing config used
// across the suite: base 100.00, 50% cap, 5 invites counted.
func newTestStore() *memory.Store {
	store := memory.NewStore()
	store.SetPricing(domain.EventPricingConfig{
		BasePrice:          100.00,
		Currency:           "USD",
		MaxDiscountPercent: 50,
		MaxInvitesPerUser:  5,
	}, []domain.DiscountTier{
		{InviteCount: 1, DiscountPercent: 10},
		{InviteCount: 3, DiscountPercent: 20},
		{InviteCount: 5, DiscountPercent: 30},
	})
	return store
}

// seedAcceptedInvites records n accepted referral edges for the inviter.
func seedAcceptedInvites(t *testing.T, store *memory.Store, inviterID int64, n int) {
	t.Helper()
	now := time.Now().UTC()
	for i := 0; i < n; i++ {
		err := store.Referrals().Create(context.Background(), &domain.ReferralEdge{
			InviterID:     inviterID,
			InviteeHandle: fmt.Sprintf("invitee-%d-%d", inviterID, i),
			Status:        domain.ReferralAccepted,
			CreatedAt:     now,
			AcceptedAt:    &now,
		})
		require.NoError(t, err)
	}
}
