package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/ticket-booking/internal/model"
)

func TestRefill(t *testing.T) {
	ctx := context.Background()

	t.Run("adds to the balance and returns the new total", func(t *testing.T) {
		store := newFakeStore()
		store.addUser(1, 500)
		svc := NewAccountService(store)

		balance, err := svc.Refill(ctx, 1, 2500)
		require.NoError(t, err)
		require.Equal(t, int64(3000), balance)
		require.Equal(t, int64(3000), store.users[1].Account.BalanceCents)
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		store := newFakeStore()
		store.addUser(1, 500)
		svc := NewAccountService(store)

		_, err := svc.Refill(ctx, 1, 0)
		require.ErrorIs(t, err, model.ErrInvalidAmount)
		_, err = svc.Refill(ctx, 1, -100)
		require.ErrorIs(t, err, model.ErrInvalidAmount)
		require.Equal(t, int64(500), store.users[1].Account.BalanceCents)
	})

	t.Run("unknown user", func(t *testing.T) {
		svc := NewAccountService(newFakeStore())
		_, err := svc.Refill(ctx, 42, 1000)
		require.ErrorIs(t, err, model.ErrUserNotFound)
	})
}

func TestBalance(t *testing.T) {
	ctx := context.Background()

	store := newFakeStore()
	store.addUser(1, 7300)
	svc := NewAccountService(store)

	balance, err := svc.Balance(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, int64(7300), balance)

	_, err = svc.Balance(ctx, 99)
	require.ErrorIs(t, err, model.ErrUserNotFound)
}
