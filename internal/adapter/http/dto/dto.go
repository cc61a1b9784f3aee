package dto

import "github.com/shopspring/decimal"

// RegisterRequest is the request body for customer registration. Field
// names follow the public API contract (cname = customer name).
type RegisterRequest struct {
	Name     string `json:"cname" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,max=100"`
	Password string `json:"password" binding:"required,max=128"`
	Phone    string `json:"phone" binding:"required,phone"`
}

// LoginRequest is the request body for customer login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse is the response body for successful login.
type LoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// AmountRequest is the request body for deposit and withdraw. Amount
// positivity is a business rule checked by the ledger engine, not a
// binding rule.
type AmountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// TransferRequest is the request body for transfer-by-phone.
type TransferRequest struct {
	Phone  string          `json:"phone" binding:"required,phone"`
	Amount decimal.Decimal `json:"amount"`
}

// BalanceResponse is the response for the balance query. The balance is
// a fixed two-decimal string.
type BalanceResponse struct {
	Balance string `json:"balance"`
}

// TransactionResponse is one history item.
type TransactionResponse struct {
	Type      string `json:"type"`
	Amount    string `json:"amount"`
	CreatedAt string `json:"created_at"`
}
