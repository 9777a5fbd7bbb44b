// Package account holds the customer and administrator records and the
// account directory used to resolve transfer recipients.
package account

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no account matches the given key.
var ErrNotFound = errors.New("account not found")

// Account is a customer of the house bank.
type Account struct {
	ID            string
	Email         string
	Name          string
	AccountNumber string
	Balance       int64 // Balance in cents
}

// Admin reviews pending transfers and hands out verification codes.
type Admin struct {
	ID    string
	Email string
	Name  string
}

type Repository interface {
	GetAccount(ctx context.Context, id string) (*Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*Account, error)
	GetAccountByNumber(ctx context.Context, accountNumber string) (*Account, error)
	ListAccounts(ctx context.Context) ([]*Account, error)
	GetAdminByEmail(ctx context.Context, email string) (*Admin, error)
}
