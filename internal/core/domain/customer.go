package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrCustomerExists is returned by the customer repository when an
// insert collides with the email or phone uniqueness constraint.
var ErrCustomerExists = errors.New("customer already exists")

// Customer represents a registered account holder.
type Customer struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	Phone        string          `json:"phone"`
	PasswordHash string          `json:"-"` // Never expose
	Balance      decimal.Decimal `json:"balance"`
}

// HasFunds reports whether the balance covers the given amount.
func (c *Customer) HasFunds(amount decimal.Decimal) bool {
	return c.Balance.GreaterThanOrEqual(amount)
}
