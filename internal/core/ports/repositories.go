package ports

import (
	"context"

	"account-ledger-service/internal/core/domain"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// CustomerRepository defines persistence operations for customers.
// Methods accepting pgx.Tx run inside transaction blocks and are used
// for pessimistic locking.
type CustomerRepository interface {
	// Create inserts a new customer. Returns domain.ErrCustomerExists
	// when the email or phone uniqueness constraint is violated.
	Create(ctx context.Context, c *domain.Customer) error
	GetByID(ctx context.Context, id int64) (*domain.Customer, error)
	GetByEmail(ctx context.Context, email string) (*domain.Customer, error)
	GetByPhone(ctx context.Context, phone string) (*domain.Customer, error)
	// GetByIDForUpdate fetches a customer row with FOR UPDATE. Must be
	// called within a transaction.
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*domain.Customer, error)
	// IDByPhone resolves a phone number to a customer id without
	// locking. Returns (0, nil) when no customer matches.
	IDByPhone(ctx context.Context, tx pgx.Tx, phone string) (int64, error)
	// UpdateBalance sets a customer's balance to an absolute value
	// within a transaction. The caller must hold the row lock.
	UpdateBalance(ctx context.Context, tx pgx.Tx, id int64, balance decimal.Decimal) error
	// AddToBalance applies a relative balance increment within a
	// transaction. Safe without a prior locked read: addition has no
	// precondition to falsify.
	AddToBalance(ctx context.Context, tx pgx.Tx, id int64, amount decimal.Decimal) error
}

// TransactionRepository defines persistence for ledger entries.
type TransactionRepository interface {
	Create(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error
	// ListByCustomer returns all entries for a customer, most recent
	// first.
	ListByCustomer(ctx context.Context, customerID int64) ([]domain.Transaction, error)
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
