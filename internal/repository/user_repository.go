package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/ticket-booking/internal/model"
	"github.com/iliyamo/ticket-booking/internal/utils"
)

// UserRepo covers the auth-facing slice of the users table: creation at
// registration time and credential lookups.  Booking flows read the
// same rows through BookingRepo, which loads the full aggregate.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a user with a zero-balance ledger and returns its ID.
func (r *UserRepo) Create(ctx context.Context, name, email, password, role string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (name, email, password_hash, role, balance_cents) VALUES (?,?,?,?,0)",
		name, email, hash, role)
	if err != nil {
		if strings.Contains(err.Error(), "Duplicate entry") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail returns the user row needed for a login check.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, name, email, password_hash, role, balance_cents FROM users WHERE email = ? LIMIT 1",
		email).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.Account.BalanceCents)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByID returns the user row by primary key.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, name, email, password_hash, role, balance_cents FROM users WHERE id = ? LIMIT 1",
		id).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.Account.BalanceCents)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
