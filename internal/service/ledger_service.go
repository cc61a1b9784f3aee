package service

import (
	"context"
	"fmt"

	"account-ledger-service/internal/core/domain"
	"account-ledger-service/internal/core/ports"
	"account-ledger-service/pkg/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// LedgerServiceImpl implements ports.LedgerService. Every mutation is
// one atomic unit: the balance update and its ledger entries commit
// together or not at all. Serialization of concurrent mutations against
// the same balance is delegated entirely to row-level FOR UPDATE locks;
// the engine holds no in-process locks and keeps no cross-request state.
type LedgerServiceImpl struct {
	customerRepo ports.CustomerRepository
	txRepo       ports.TransactionRepository
	transactor   ports.DBTransactor
	log          zerolog.Logger
}

// NewLedgerService creates a new LedgerServiceImpl.
func NewLedgerService(
	customerRepo ports.CustomerRepository,
	txRepo ports.TransactionRepository,
	transactor ports.DBTransactor,
	log zerolog.Logger,
) *LedgerServiceImpl {
	return &LedgerServiceImpl{
		customerRepo: customerRepo,
		txRepo:       txRepo,
		transactor:   transactor,
		log:          log,
	}
}

// GetBalance reads the current balance with a plain pooled read. No
// lock is needed: this is display data, not an input to a mutation.
func (s *LedgerServiceImpl) GetBalance(ctx context.Context, customerID int64) (decimal.Decimal, error) {
	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return decimal.Zero, apperror.InternalError(fmt.Errorf("get customer: %w", err))
	}
	if customer == nil {
		return decimal.Zero, apperror.ErrAccountNotFound()
	}
	return customer.Balance, nil
}

// Deposit credits the balance and appends a DEPOSIT entry in one unit.
// No balance read precedes the update: addition cannot violate the
// non-negativity invariant, so a relative increment suffices.
func (s *LedgerServiceImpl) Deposit(ctx context.Context, customerID int64, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return apperror.ErrInvalidAmount()
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := s.customerRepo.AddToBalance(ctx, dbTx, customerID, amount); err != nil {
		return apperror.InternalError(fmt.Errorf("credit balance: %w", err))
	}

	entry := &domain.Transaction{
		CustomerID: customerID,
		Type:       domain.TransactionTypeDeposit,
		Amount:     amount,
	}
	if err := s.txRepo.Create(ctx, dbTx, entry); err != nil {
		return apperror.InternalError(fmt.Errorf("record deposit: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Int64("customer_id", customerID).
		Str("amount", amount.StringFixed(2)).
		Msg("deposit processed")

	return nil
}

// Withdraw debits the balance and appends a WITHDRAW entry in one unit.
// The balance is read under FOR UPDATE: an unlocked read-then-write
// would let two concurrent withdrawals pass the funds check against the
// same stale balance and over-withdraw.
func (s *LedgerServiceImpl) Withdraw(ctx context.Context, customerID int64, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return apperror.ErrInvalidAmount()
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	customer, err := s.customerRepo.GetByIDForUpdate(ctx, dbTx, customerID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("lock customer: %w", err))
	}
	if customer == nil {
		return apperror.ErrAccountNotFound()
	}

	if !customer.HasFunds(amount) {
		return apperror.ErrInsufficientFunds()
	}

	newBalance := customer.Balance.Sub(amount)
	if err := s.customerRepo.UpdateBalance(ctx, dbTx, customerID, newBalance); err != nil {
		return apperror.InternalError(fmt.Errorf("debit balance: %w", err))
	}

	entry := &domain.Transaction{
		CustomerID: customerID,
		Type:       domain.TransactionTypeWithdraw,
		Amount:     amount,
	}
	if err := s.txRepo.Create(ctx, dbTx, entry); err != nil {
		return apperror.InternalError(fmt.Errorf("record withdrawal: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Int64("customer_id", customerID).
		Str("amount", amount.StringFixed(2)).
		Str("balance", newBalance.StringFixed(2)).
		Msg("withdrawal processed")

	return nil
}

// Transfer moves funds to the customer identified by phone number. All
// four effects — both balance updates, the TRANSFER entry and the
// RECEIVED entry — commit as a single unit. Rows are locked in
// ascending-id order regardless of sender/receiver role, so two
// opposite-direction transfers cannot deadlock.
func (s *LedgerServiceImpl) Transfer(ctx context.Context, fromCustomerID int64, toPhone string, amount decimal.Decimal) error {
	if toPhone == "" {
		return apperror.Validation("Invalid input")
	}
	if !amount.IsPositive() {
		return apperror.ErrInvalidAmount()
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	// Resolve the receiver id without locking. The not-found failure is
	// deferred until after the funds check so that insufficient funds
	// takes precedence; the locked re-read below catches a receiver that
	// vanishes in between.
	receiverID, err := s.customerRepo.IDByPhone(ctx, dbTx, toPhone)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("resolve receiver: %w", err))
	}

	sender, receiver, err := s.lockPair(ctx, dbTx, fromCustomerID, receiverID)
	if err != nil {
		return err
	}
	if sender == nil {
		return apperror.ErrAccountNotFound()
	}

	if !sender.HasFunds(amount) {
		return apperror.ErrInsufficientFunds()
	}
	if receiver == nil {
		return apperror.ErrRecipientNotFound()
	}

	senderBalance := sender.Balance.Sub(amount)
	receiverBalance := receiver.Balance.Add(amount)
	if receiver.ID == sender.ID {
		// Self-transfer by own phone: net zero, two ledger entries.
		receiverBalance = senderBalance.Add(amount)
	}

	if err := s.customerRepo.UpdateBalance(ctx, dbTx, sender.ID, senderBalance); err != nil {
		return apperror.InternalError(fmt.Errorf("debit sender: %w", err))
	}
	if err := s.customerRepo.UpdateBalance(ctx, dbTx, receiver.ID, receiverBalance); err != nil {
		return apperror.InternalError(fmt.Errorf("credit receiver: %w", err))
	}

	out := &domain.Transaction{
		CustomerID: sender.ID,
		Type:       domain.TransactionTypeTransfer,
		Amount:     amount,
	}
	if err := s.txRepo.Create(ctx, dbTx, out); err != nil {
		return apperror.InternalError(fmt.Errorf("record transfer: %w", err))
	}

	in := &domain.Transaction{
		CustomerID: receiver.ID,
		Type:       domain.TransactionTypeReceived,
		Amount:     amount,
	}
	if err := s.txRepo.Create(ctx, dbTx, in); err != nil {
		return apperror.InternalError(fmt.Errorf("record receipt: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Int64("from", sender.ID).
		Int64("to", receiver.ID).
		Str("amount", amount.StringFixed(2)).
		Msg("transfer processed")

	return nil
}

// lockPair acquires FOR UPDATE locks on the sender and (when known)
// the receiver in ascending-id order. receiverID 0 means the phone
// lookup found nothing; only the sender is locked then.
func (s *LedgerServiceImpl) lockPair(ctx context.Context, dbTx pgx.Tx, senderID, receiverID int64) (sender, receiver *domain.Customer, err error) {
	lock := func(id int64) (*domain.Customer, error) {
		c, err := s.customerRepo.GetByIDForUpdate(ctx, dbTx, id)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("lock customer %d: %w", id, err))
		}
		return c, nil
	}

	switch {
	case receiverID == 0 || receiverID == senderID:
		sender, err = lock(senderID)
		receiver = nil
		if receiverID == senderID && receiverID != 0 {
			receiver = sender
		}
	case receiverID < senderID:
		receiver, err = lock(receiverID)
		if err == nil {
			sender, err = lock(senderID)
		}
	default:
		sender, err = lock(senderID)
		if err == nil {
			receiver, err = lock(receiverID)
		}
	}
	if err != nil {
		return nil, nil, err
	}
	return sender, receiver, nil
}

// ListTransactions returns the customer's full ledger history, most
// recent first. Reads have no side effects.
func (s *LedgerServiceImpl) ListTransactions(ctx context.Context, customerID int64) ([]domain.Transaction, error) {
	entries, err := s.txRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list transactions: %w", err))
	}
	return entries, nil
}
