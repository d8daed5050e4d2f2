package service

import (
	"context"
	"log"

	"github.com/iliyamo/ticket-booking/internal/model"
)

// AccountStore is the persistence surface for ledger refills and
// balance reads.
type AccountStore interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	UserForUpdate(ctx context.Context, userID uint64) (*model.User, error)
	CreditBalance(ctx context.Context, userID uint64, amountCents int64) (int64, error)
}

// AccountService handles refills of the user's prepaid balance.
// Debits happen only inside the booking transaction and are not
// exposed here.
type AccountService struct {
	store AccountStore
}

func NewAccountService(store AccountStore) *AccountService {
	if store == nil {
		panic("nil store passed to NewAccountService")
	}
	return &AccountService{store: store}
}

// Refill adds amountCents to the user's balance and returns the new
// balance.  Fails with model.ErrInvalidAmount for non-positive amounts
// and model.ErrUserNotFound for unknown users.
func (s *AccountService) Refill(ctx context.Context, userID uint64, amountCents int64) (int64, error) {
	if amountCents <= 0 {
		return 0, model.ErrInvalidAmount
	}
	var balance int64
	err := s.store.WithTx(ctx, func(ctx context.Context) error {
		if _, err := s.store.UserForUpdate(ctx, userID); err != nil {
			return err
		}
		var err error
		balance, err = s.store.CreditBalance(ctx, userID, amountCents)
		return err
	})
	if err != nil {
		return 0, err
	}
	log.Printf("account: user %d refilled by %d cents, balance now %d", userID, amountCents, balance)
	return balance, nil
}

// Balance returns the user's current spendable balance.
func (s *AccountService) Balance(ctx context.Context, userID uint64) (int64, error) {
	user, err := s.store.UserForUpdate(ctx, userID)
	if err != nil {
		return 0, err
	}
	return user.Account.BalanceCents, nil
}
