package handler

import (
	"time"

	"account-ledger-service/internal/adapter/http/dto"
	"account-ledger-service/internal/adapter/http/middleware"
	"account-ledger-service/internal/core/domain"
	"account-ledger-service/internal/core/ports"
	"account-ledger-service/pkg/apperror"
	"account-ledger-service/pkg/response"

	"github.com/gin-gonic/gin"
)

// BankHandler handles the token-protected ledger endpoints.
type BankHandler struct {
	ledgerSvc ports.LedgerService
}

// NewBankHandler creates a new BankHandler.
func NewBankHandler(ledgerSvc ports.LedgerService) *BankHandler {
	return &BankHandler{ledgerSvc: ledgerSvc}
}

// customerID pulls the identity the session gate resolved.
func customerID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(middleware.CtxCustomerID)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return 0, false
	}
	return v.(int64), true
}

// GetBalance handles GET /api/bank/balance.
func (h *BankHandler) GetBalance(c *gin.Context) {
	id, ok := customerID(c)
	if !ok {
		return
	}

	balance, err := h.ledgerSvc.GetBalance(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.BalanceResponse{Balance: balance.StringFixed(2)})
}

// Deposit handles POST /api/bank/deposit.
func (h *BankHandler) Deposit(c *gin.Context) {
	id, ok := customerID(c)
	if !ok {
		return
	}

	var req dto.AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.ErrInvalidAmount())
		return
	}

	if err := h.ledgerSvc.Deposit(c.Request.Context(), id, req.Amount); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, "Deposit successful")
}

// Withdraw handles POST /api/bank/withdraw.
func (h *BankHandler) Withdraw(c *gin.Context) {
	id, ok := customerID(c)
	if !ok {
		return
	}

	var req dto.AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.ErrInvalidAmount())
		return
	}

	if err := h.ledgerSvc.Withdraw(c.Request.Context(), id, req.Amount); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, "Withdraw successful")
}

// Transfer handles POST /api/bank/transfer.
func (h *BankHandler) Transfer(c *gin.Context) {
	id, ok := customerID(c)
	if !ok {
		return
	}

	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation("Invalid input"))
		return
	}
	dto.SanitizeStruct(&req)

	if err := h.ledgerSvc.Transfer(c.Request.Context(), id, req.Phone, req.Amount); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, "Transfer successful")
}

// ListTransactions handles GET /api/bank/transactions.
func (h *BankHandler) ListTransactions(c *gin.Context) {
	id, ok := customerID(c)
	if !ok {
		return
	}

	entries, err := h.ledgerSvc.ListTransactions(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.TransactionResponse, 0, len(entries))
	for _, e := range entries {
		items = append(items, toTransactionResponse(e))
	}
	response.OK(c, items)
}

func toTransactionResponse(t domain.Transaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		Type:      string(t.Type),
		Amount:    t.Amount.StringFixed(2),
		CreatedAt: t.CreatedAt.UTC().Format(time.RFC3339),
	}
}
