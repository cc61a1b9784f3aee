package postgres

import (
	"context"
	"fmt"

	"account-ledger-service/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// TransactionRepo implements ports.TransactionRepository. Ledger
// entries are append-only: there is no update or delete path.
type TransactionRepo struct {
	pool Pool
}

// NewTransactionRepo creates a new TransactionRepo.
func NewTransactionRepo(pool Pool) *TransactionRepo {
	return &TransactionRepo{pool: pool}
}

// Create appends a ledger entry within a database transaction. The
// creation timestamp is server-assigned by the column default so that
// insertion order and timestamp order agree.
func (r *TransactionRepo) Create(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error {
	query := `INSERT INTO transactions (customer_id, type, amount) VALUES ($1, $2, $3)`

	_, err := tx.Exec(ctx, query, t.CustomerID, t.Type, t.Amount)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// ListByCustomer returns all ledger entries for a customer, most
// recent first. The result is not paginated.
func (r *TransactionRepo) ListByCustomer(ctx context.Context, customerID int64) ([]domain.Transaction, error) {
	query := `SELECT id, customer_id, type, amount, created_at
		FROM transactions WHERE customer_id = $1
		ORDER BY created_at DESC, id DESC`

	rows, err := r.pool.Query(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var result []domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		if err := rows.Scan(&t.ID, &t.CustomerID, &t.Type, &t.Amount, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return result, nil
}
