package integration

import (
	"context"
	"sort"
	"sync"
	"time"

	"account-ledger-service/internal/core/domain"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// memCustomerRepo is an in-memory stand-in for the Postgres customer
// store, good enough to drive the full HTTP stack without a database.
// Uniqueness on email and phone is enforced the way the real schema
// does, so duplicate-registration behavior is observable end to end.
type memCustomerRepo struct {
	mu        sync.RWMutex
	nextID    int64
	customers map[int64]*domain.Customer
}

func newMemCustomerRepo() *memCustomerRepo {
	return &memCustomerRepo{nextID: 1, customers: make(map[int64]*domain.Customer)}
}

func (r *memCustomerRepo) Create(_ context.Context, c *domain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.customers {
		if existing.Email == c.Email || existing.Phone == c.Phone {
			return domain.ErrCustomerExists
		}
	}
	c.ID = r.nextID
	r.nextID++
	clone := *c
	r.customers[c.ID] = &clone
	return nil
}

func (r *memCustomerRepo) GetByID(_ context.Context, id int64) (*domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.customers[id]
	if !ok {
		return nil, nil
	}
	clone := *c
	return &clone, nil
}

func (r *memCustomerRepo) GetByEmail(_ context.Context, email string) (*domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.customers {
		if c.Email == email {
			clone := *c
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *memCustomerRepo) GetByPhone(_ context.Context, phone string) (*domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.customers {
		if c.Phone == phone {
			clone := *c
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *memCustomerRepo) GetByIDForUpdate(ctx context.Context, _ pgx.Tx, id int64) (*domain.Customer, error) {
	// Row locking is the transactor's job here; see memTransactor.
	return r.GetByID(ctx, id)
}

func (r *memCustomerRepo) IDByPhone(ctx context.Context, _ pgx.Tx, phone string) (int64, error) {
	c, err := r.GetByPhone(ctx, phone)
	if err != nil || c == nil {
		return 0, err
	}
	return c.ID, nil
}

func (r *memCustomerRepo) UpdateBalance(_ context.Context, _ pgx.Tx, id int64, balance decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.customers[id]
	if !ok {
		return pgx.ErrNoRows
	}
	c.Balance = balance
	return nil
}

func (r *memCustomerRepo) AddToBalance(_ context.Context, _ pgx.Tx, id int64, amount decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.customers[id]
	if !ok {
		return pgx.ErrNoRows
	}
	c.Balance = c.Balance.Add(amount)
	return nil
}

// memTransactionRepo is an append-only in-memory ledger.
type memTransactionRepo struct {
	mu      sync.RWMutex
	nextID  int64
	entries []domain.Transaction
}

func newMemTransactionRepo() *memTransactionRepo {
	return &memTransactionRepo{nextID: 1}
}

func (r *memTransactionRepo) Create(_ context.Context, _ pgx.Tx, t *domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t.ID = r.nextID
	r.nextID++
	t.CreatedAt = time.Now().UTC()
	r.entries = append(r.entries, *t)
	return nil
}

func (r *memTransactionRepo) ListByCustomer(_ context.Context, customerID int64) ([]domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.Transaction
	for _, e := range r.entries {
		if e.CustomerID == customerID {
			result = append(result, e)
		}
	}
	// Most recent first. Entries can share a timestamp, so id breaks
	// the tie the same way the SQL ordering does.
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// memTransactor serializes units of work with a single mutex, standing
// in for the row locks the real store takes. Begin blocks until the
// previous unit commits or rolls back, which is a stricter schedule
// than per-row locking but preserves the observable guarantees the
// concurrency tests check.
type memTransactor struct {
	mu sync.Mutex
}

func (t *memTransactor) Begin(_ context.Context) (pgx.Tx, error) {
	t.mu.Lock()
	return &memTx{release: &t.mu}, nil
}

// memTx satisfies pgx.Tx just enough for code that only ever calls
// Commit and Rollback on it. The embedded nil interface panics on any
// other method, which is what we want: the in-memory repos never touch
// the tx.
type memTx struct {
	pgx.Tx
	release *sync.Mutex
	once    sync.Once
}

func (tx *memTx) Commit(_ context.Context) error {
	tx.once.Do(tx.release.Unlock)
	return nil
}

func (tx *memTx) Rollback(_ context.Context) error {
	tx.once.Do(tx.release.Unlock)
	return nil
}
