package postgres

import (
	"context"
	"errors"
	"fmt"

	"account-ledger-service/internal/core/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// PostgreSQL error code for unique constraint violations.
const uniqueViolation = "23505"

// CustomerRepo implements ports.CustomerRepository.
type CustomerRepo struct {
	pool Pool
}

// NewCustomerRepo creates a new CustomerRepo.
func NewCustomerRepo(pool Pool) *CustomerRepo {
	return &CustomerRepo{pool: pool}
}

// Create inserts a new customer with a zero balance. A concurrent
// registration can pass the service-level existence check and still
// collide here, so the uniqueness violation is mapped to
// domain.ErrCustomerExists instead of surfacing as an infra failure.
func (r *CustomerRepo) Create(ctx context.Context, c *domain.Customer) error {
	query := `INSERT INTO customer (name, email, phone, password_hash, balance)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`

	err := r.pool.QueryRow(ctx, query,
		c.Name, c.Email, c.Phone, c.PasswordHash, c.Balance,
	).Scan(&c.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrCustomerExists
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// GetByID fetches a customer by id (without locking).
func (r *CustomerRepo) GetByID(ctx context.Context, id int64) (*domain.Customer, error) {
	query := `SELECT id, name, email, phone, password_hash, balance
		FROM customer WHERE id = $1`

	return scanCustomer(r.pool.QueryRow(ctx, query, id), "get customer by id")
}

// GetByEmail fetches a customer by email (non-locking read).
func (r *CustomerRepo) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	query := `SELECT id, name, email, phone, password_hash, balance
		FROM customer WHERE email = $1`

	return scanCustomer(r.pool.QueryRow(ctx, query, email), "get customer by email")
}

// GetByPhone fetches a customer by phone number (non-locking read).
func (r *CustomerRepo) GetByPhone(ctx context.Context, phone string) (*domain.Customer, error) {
	query := `SELECT id, name, email, phone, password_hash, balance
		FROM customer WHERE phone = $1`

	return scanCustomer(r.pool.QueryRow(ctx, query, phone), "get customer by phone")
}

// GetByIDForUpdate fetches a customer row with pessimistic locking so
// that concurrent withdrawals and transfers against the same balance
// serialize. This MUST be called within a transaction.
func (r *CustomerRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*domain.Customer, error) {
	query := `SELECT id, name, email, phone, password_hash, balance
		FROM customer WHERE id = $1 FOR UPDATE`

	return scanCustomer(tx.QueryRow(ctx, query, id), "get customer for update")
}

// IDByPhone resolves a phone number to a customer id without locking.
func (r *CustomerRepo) IDByPhone(ctx context.Context, tx pgx.Tx, phone string) (int64, error) {
	query := `SELECT id FROM customer WHERE phone = $1`

	var id int64
	err := tx.QueryRow(ctx, query, phone).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("resolve customer id by phone: %w", err)
	}
	return id, nil
}

// UpdateBalance sets a customer's balance within a transaction. The
// caller must already hold the row lock.
func (r *CustomerRepo) UpdateBalance(ctx context.Context, tx pgx.Tx, id int64, balance decimal.Decimal) error {
	query := `UPDATE customer SET balance = $1 WHERE id = $2`

	tag, err := tx.Exec(ctx, query, balance, id)
	if err != nil {
		return fmt.Errorf("update customer balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("customer not found: %d", id)
	}
	return nil
}

// AddToBalance applies a relative increment within a transaction.
func (r *CustomerRepo) AddToBalance(ctx context.Context, tx pgx.Tx, id int64, amount decimal.Decimal) error {
	query := `UPDATE customer SET balance = balance + $1 WHERE id = $2`

	tag, err := tx.Exec(ctx, query, amount, id)
	if err != nil {
		return fmt.Errorf("add to customer balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("customer not found: %d", id)
	}
	return nil
}

func scanCustomer(row pgx.Row, op string) (*domain.Customer, error) {
	c := &domain.Customer{}
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.PasswordHash, &c.Balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}
