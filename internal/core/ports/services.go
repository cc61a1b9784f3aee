package ports

import (
	"context"
	"time"

	"account-ledger-service/internal/core/domain"

	"github.com/shopspring/decimal"
)

// HashService handles password hashing.
type HashService interface {
	Hash(password string) (string, error)
	Verify(password string, hash string) (bool, error)
}

// TokenService issues and verifies the stateless session credential.
// The credential is self-contained: no server-side session state exists
// and losing the signing secret invalidates all outstanding tokens.
type TokenService interface {
	Generate(customerID int64) (string, time.Time, error)
	Validate(tokenString string) (int64, error)
}

// AuthService defines authentication business logic.
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) error
	Login(ctx context.Context, email, password string) (string, time.Time, error) // token, expiry, error
}

// RegisterRequest holds validated input for customer registration.
type RegisterRequest struct {
	Name     string
	Email    string
	Password string
	Phone    string
}

// LedgerService defines the balance-affecting operations and reads.
// All operations act on the identity resolved by the session gate;
// mutations are atomic units serialized by the store's row locking.
type LedgerService interface {
	GetBalance(ctx context.Context, customerID int64) (decimal.Decimal, error)
	Deposit(ctx context.Context, customerID int64, amount decimal.Decimal) error
	Withdraw(ctx context.Context, customerID int64, amount decimal.Decimal) error
	Transfer(ctx context.Context, fromCustomerID int64, toPhone string, amount decimal.Decimal) error
	ListTransactions(ctx context.Context, customerID int64) ([]domain.Transaction, error)
}
