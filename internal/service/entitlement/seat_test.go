package entitlement

import (
	"context"
	"testing"

	"propman-service/internal/domain/billing"
	xerrors "propman-service/internal/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func activeSubscription(current, max int) *billing.Subscription {
	return &billing.Subscription{
		ID:            55,
		OwnerID:       7,
		Status:        billing.SubscriptionStatusActive,
		IncludedUsers: 1,
		MaxUsers:      max,
		CurrentUsers:  current,
	}
}

func TestReserveSeat(t *testing.T) {
	f := newFixture()
	f.subscriptions.activeSub = activeSubscription(1, 3)

	emp, err := f.service.ReserveSeat(context.Background(), 7, &billing.ReserveSeatRequest{
		FullName: "Jane Mokoena",
		Email:    "jane@example.com",
		Role:     "agent",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(55), emp.SubscriptionID)
	assert.Equal(t, "agent", emp.Role)

	// The conditional increment is pinned to the seat count read before the
	// transaction.
	assert.Equal(t, 1, f.subscriptions.reserveCalls)
	assert.Equal(t, 1, f.subscriptions.reserveExpected)

	require.NotNil(t, f.db.tx)
	assert.True(t, f.db.tx.committed)
	assert.False(t, f.db.tx.rolledBack)
}

func TestReserveSeatDefaultsRole(t *testing.T) {
	f := newFixture()
	f.subscriptions.activeSub = activeSubscription(1, 3)

	emp, err := f.service.ReserveSeat(context.Background(), 7, &billing.ReserveSeatRequest{
		FullName: "Jane Mokoena",
		Email:    "jane@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "staff", emp.Role)
}

func TestReserveSeatNoActiveSubscription(t *testing.T) {
	f := newFixture()

	_, err := f.service.ReserveSeat(context.Background(), 7, &billing.ReserveSeatRequest{
		FullName: "Jane Mokoena",
		Email:    "jane@example.com",
	})
	assert.ErrorIs(t, err, xerrors.ErrSubscriptionNotActive)
	assert.Nil(t, f.db.tx)
}

func TestReserveSeatLimitReached(t *testing.T) {
	f := newFixture()
	f.subscriptions.activeSub = activeSubscription(3, 3)

	_, err := f.service.ReserveSeat(context.Background(), 7, &billing.ReserveSeatRequest{
		FullName: "Jane Mokoena",
		Email:    "jane@example.com",
	})
	assert.ErrorIs(t, err, xerrors.ErrSeatLimitReached)

	// Rejected before any transaction is opened.
	assert.Nil(t, f.db.tx)
	assert.Zero(t, f.subscriptions.reserveCalls)
}

func TestReserveSeatConflictRollsBack(t *testing.T) {
	f := newFixture()
	f.subscriptions.activeSub = activeSubscription(1, 3)
	f.subscriptions.reserveErr = xerrors.ErrSeatConflict

	_, err := f.service.ReserveSeat(context.Background(), 7, &billing.ReserveSeatRequest{
		FullName: "Jane Mokoena",
		Email:    "jane@example.com",
	})
	assert.ErrorIs(t, err, xerrors.ErrSeatConflict)

	require.NotNil(t, f.db.tx)
	assert.False(t, f.db.tx.committed)
	assert.True(t, f.db.tx.rolledBack)
}
