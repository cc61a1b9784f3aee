package service

import (
	"context"
	"errors"
	"testing"

	"account-ledger-service/internal/adapter/storage/postgres"
	"account-ledger-service/internal/core/domain"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLedgerService(t *testing.T) (*LedgerServiceImpl, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	svc := NewLedgerService(
		postgres.NewCustomerRepo(mock),
		postgres.NewTransactionRepo(mock),
		postgres.NewTransactor(mock),
		zerolog.Nop(),
	)
	return svc, mock
}

func lockedCustomerRow(id int64, balance string) *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "name", "email", "phone", "password_hash", "balance"}).
		AddRow(id, "Customer", "c@example.com", "0912345678", "$2a$10$hash", decimal.RequireFromString(balance))
}

func TestLedgerService_GetBalance(t *testing.T) {
	svc, mock := newLedgerService(t)

	mock.ExpectQuery("SELECT .+ FROM customer WHERE id").
		WithArgs(int64(1)).
		WillReturnRows(lockedCustomerRow(1, "150.00"))

	balance, err := svc.GetBalance(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "150.00", balance.StringFixed(2))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerService_GetBalance_UnknownCustomer(t *testing.T) {
	svc, mock := newLedgerService(t)

	mock.ExpectQuery("SELECT .+ FROM customer WHERE id").
		WithArgs(int64(99)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "email", "phone", "password_hash", "balance"}))

	_, err := svc.GetBalance(context.Background(), 99)
	assertAppError(t, err, "LDG_001")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerService_Deposit(t *testing.T) {
	svc, mock := newLedgerService(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE customer SET balance = balance").
		WithArgs(pgxmock.AnyArg(), int64(1)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("INSERT INTO transactions").
		WithArgs(int64(1), domain.TransactionTypeDeposit, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	err := svc.Deposit(context.Background(), 1, decimal.RequireFromString("50.00"))
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerService_Deposit_NonPositiveAmount(t *testing.T) {
	svc, mock := newLedgerService(t)

	for _, raw := range []string{"0", "-10.00"} {
		err := svc.Deposit(context.Background(), 1, decimal.RequireFromString(raw))
		assertAppError(t, err, "LDG_002")
	}
	// Rejected before any unit of work starts.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerService_Deposit_EntryFailureRollsBack(t *testing.T) {
	svc, mock := newLedgerService(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE customer SET balance = balance").
		WithArgs(pgxmock.AnyArg(), int64(1)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("INSERT INTO transactions").
		WithArgs(int64(1), domain.TransactionTypeDeposit, pgxmock.AnyArg()).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := svc.Deposit(context.Background(), 1, decimal.RequireFromString("50.00"))
	assertAppError(t, err, "SYS_001")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerService_Withdraw(t *testing.T) {
	svc, mock := newLedgerService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .+ FROM customer WHERE id .+ FOR UPDATE").
		WithArgs(int64(1)).
		WillReturnRows(lockedCustomerRow(1, "150.00"))
	mock.ExpectExec("UPDATE customer SET balance").
		WithArgs(pgxmock.AnyArg(), int64(1)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("INSERT INTO transactions").
		WithArgs(int64(1), domain.TransactionTypeWithdraw, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	err := svc.Withdraw(context.Background(), 1, decimal.RequireFromString("25.00"))
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerService_Withdraw_ExactBalance(t *testing.T) {
	// Withdrawing the full balance is allowed; the invariant is
	// non-negative, not positive.
	svc, mock := newLedgerService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .+ FROM customer WHERE id .+ FOR UPDATE").
		WithArgs(int64(1)).
		WillReturnRows(lockedCustomerRow(1, "150.00"))
	mock.ExpectExec("UPDATE customer SET balance").
		WithArgs(pgxmock.AnyArg(), int64(1)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("INSERT INTO transactions").
		WithArgs(int64(1), domain.TransactionTypeWithdraw, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	err := svc.Withdraw(context.Background(), 1, decimal.RequireFromString("150.00"))
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerService_Withdraw_InsufficientFunds(t *testing.T) {
	svc, mock := newLedgerService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .+ FROM customer WHERE id .+ FOR UPDATE").
		WithArgs(int64(1)).
		WillReturnRows(lockedCustomerRow(1, "150.00"))
	mock.ExpectRollback()

	err := svc.Withdraw(context.Background(), 1, decimal.RequireFromString("200.00"))
	assertAppError(t, err, "LDG_003")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerService_Withdraw_UnknownCustomer(t *testing.T) {
	svc, mock := newLedgerService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .+ FROM customer WHERE id .+ FOR UPDATE").
		WithArgs(int64(99)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "email", "phone", "password_hash", "balance"}))
	mock.ExpectRollback()

	err := svc.Withdraw(context.Background(), 99, decimal.RequireFromString("10.00"))
	assertAppError(t, err, "LDG_001")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerService_Transfer(t *testing.T) {
	svc, mock := newLedgerService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM customer WHERE phone").
		WithArgs("0987654321").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(2)))
	// Sender id 1 < receiver id 2: sender locks first.
	mock.ExpectQuery("SELECT .+ FROM customer WHERE id .+ FOR UPDATE").
		WithArgs(int64(1)).
		WillReturnRows(lockedCustomerRow(1, "150.00"))
	mock.ExpectQuery("SELECT .+ FROM customer WHERE id .+ FOR UPDATE").
		WithArgs(int64(2)).
		WillReturnRows(lockedCustomerRow(2, "0.00"))
	mock.ExpectExec("UPDATE customer SET balance").
		WithArgs(pgxmock.AnyArg(), int64(1)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE customer SET balance").
		WithArgs(pgxmock.AnyArg(), int64(2)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("INSERT INTO transactions").
		WithArgs(int64(1), domain.TransactionTypeTransfer, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO transactions").
		WithArgs(int64(2), domain.TransactionTypeReceived, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	err := svc.Transfer(context.Background(), 1, "0987654321", decimal.RequireFromString("75.00"))
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerService_Transfer_LocksInAscendingIDOrder(t *testing.T) {
	// Receiver id 2 < sender id 5: the receiver row must be locked
	// first. The ordered expectations below fail if the lock order
	// follows sender/receiver role instead of id.
	svc, mock := newLedgerService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM customer WHERE phone").
		WithArgs("0987654321").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(2)))
	mock.ExpectQuery("SELECT .+ FROM customer WHERE id .+ FOR UPDATE").
		WithArgs(int64(2)).
		WillReturnRows(lockedCustomerRow(2, "0.00"))
	mock.ExpectQuery("SELECT .+ FROM customer WHERE id .+ FOR UPDATE").
		WithArgs(int64(5)).
		WillReturnRows(lockedCustomerRow(5, "150.00"))
	mock.ExpectExec("UPDATE customer SET balance").
		WithArgs(pgxmock.AnyArg(), int64(5)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE customer SET balance").
		WithArgs(pgxmock.AnyArg(), int64(2)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("INSERT INTO transactions").
		WithArgs(int64(5), domain.TransactionTypeTransfer, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO transactions").
		WithArgs(int64(2), domain.TransactionTypeReceived, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	err := svc.Transfer(context.Background(), 5, "0987654321", decimal.RequireFromString("75.00"))
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerService_Transfer_InsufficientBeforeUnknownRecipient(t *testing.T) {
	// When the sender lacks funds AND the phone matches nobody, the
	// insufficient-funds failure wins.
	svc, mock := newLedgerService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM customer WHERE phone").
		WithArgs("0000000000").
		WillReturnRows(pgxmock.NewRows([]string{"id"}))
	mock.ExpectQuery("SELECT .+ FROM customer WHERE id .+ FOR UPDATE").
		WithArgs(int64(1)).
		WillReturnRows(lockedCustomerRow(1, "10.00"))
	mock.ExpectRollback()

	err := svc.Transfer(context.Background(), 1, "0000000000", decimal.RequireFromString("75.00"))
	assertAppError(t, err, "LDG_003")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerService_Transfer_UnknownRecipient(t *testing.T) {
	svc, mock := newLedgerService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM customer WHERE phone").
		WithArgs("0000000000").
		WillReturnRows(pgxmock.NewRows([]string{"id"}))
	mock.ExpectQuery("SELECT .+ FROM customer WHERE id .+ FOR UPDATE").
		WithArgs(int64(1)).
		WillReturnRows(lockedCustomerRow(1, "150.00"))
	mock.ExpectRollback()

	err := svc.Transfer(context.Background(), 1, "0000000000", decimal.RequireFromString("75.00"))
	assertAppError(t, err, "LDG_005")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerService_Transfer_InvalidInput(t *testing.T) {
	svc, mock := newLedgerService(t)

	err := svc.Transfer(context.Background(), 1, "", decimal.RequireFromString("10.00"))
	assertAppError(t, err, "LDG_004")

	err = svc.Transfer(context.Background(), 1, "0987654321", decimal.Zero)
	assertAppError(t, err, "LDG_002")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerService_Transfer_MidUnitFailureRollsBack(t *testing.T) {
	// If the RECEIVED entry fails after both balances moved, nothing
	// may persist.
	svc, mock := newLedgerService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM customer WHERE phone").
		WithArgs("0987654321").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(2)))
	mock.ExpectQuery("SELECT .+ FROM customer WHERE id .+ FOR UPDATE").
		WithArgs(int64(1)).
		WillReturnRows(lockedCustomerRow(1, "150.00"))
	mock.ExpectQuery("SELECT .+ FROM customer WHERE id .+ FOR UPDATE").
		WithArgs(int64(2)).
		WillReturnRows(lockedCustomerRow(2, "0.00"))
	mock.ExpectExec("UPDATE customer SET balance").
		WithArgs(pgxmock.AnyArg(), int64(1)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE customer SET balance").
		WithArgs(pgxmock.AnyArg(), int64(2)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("INSERT INTO transactions").
		WithArgs(int64(1), domain.TransactionTypeTransfer, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO transactions").
		WithArgs(int64(2), domain.TransactionTypeReceived, pgxmock.AnyArg()).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err := svc.Transfer(context.Background(), 1, "0987654321", decimal.RequireFromString("75.00"))
	assertAppError(t, err, "SYS_001")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerService_ListTransactions(t *testing.T) {
	svc, mock := newLedgerService(t)

	rows := pgxmock.NewRows([]string{"id", "customer_id", "type", "amount", "created_at"})
	mock.ExpectQuery("SELECT .+ FROM transactions WHERE customer_id").
		WithArgs(int64(1)).
		WillReturnRows(rows)

	entries, err := svc.ListTransactions(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.NoError(t, mock.ExpectationsWereMet())
}
