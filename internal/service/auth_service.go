package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"account-ledger-service/internal/core/domain"
	"account-ledger-service/internal/core/ports"
	"account-ledger-service/pkg/apperror"

	"github.com/shopspring/decimal"
)

// AuthServiceImpl implements ports.AuthService.
type AuthServiceImpl struct {
	customerRepo ports.CustomerRepository
	hashSvc      ports.HashService
	tokenSvc     ports.TokenService
}

// NewAuthService creates a new AuthServiceImpl.
func NewAuthService(
	customerRepo ports.CustomerRepository,
	hashSvc ports.HashService,
	tokenSvc ports.TokenService,
) *AuthServiceImpl {
	return &AuthServiceImpl{
		customerRepo: customerRepo,
		hashSvc:      hashSvc,
		tokenSvc:     tokenSvc,
	}
}

// Register creates a new customer account with a zero balance. No
// sensitive data is echoed back to the caller.
func (s *AuthServiceImpl) Register(ctx context.Context, req ports.RegisterRequest) error {
	if req.Name == "" || req.Email == "" || req.Password == "" || req.Phone == "" {
		return apperror.ErrAllFieldsRequired()
	}

	// Pre-insert uniqueness check for a friendly error. The insert
	// below still maps the constraint violation, so a concurrent
	// registration slipping past this check cannot surface a 500.
	existing, err := s.customerRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("check email: %w", err))
	}
	if existing == nil {
		existing, err = s.customerRepo.GetByPhone(ctx, req.Phone)
		if err != nil {
			return apperror.InternalError(fmt.Errorf("check phone: %w", err))
		}
	}
	if existing != nil {
		return apperror.ErrCustomerExists()
	}

	passwordHash, err := s.hashSvc.Hash(req.Password)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("hash password: %w", err))
	}

	customer := &domain.Customer{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: passwordHash,
		Balance:      decimal.Zero,
	}

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		if errors.Is(err, domain.ErrCustomerExists) {
			return apperror.ErrCustomerExists()
		}
		return apperror.InternalError(fmt.Errorf("create customer: %w", err))
	}

	return nil
}

// Login validates credentials and issues the stateless session token.
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (string, time.Time, error) {
	if email == "" || password == "" {
		return "", time.Time{}, apperror.ErrAllFieldsRequired()
	}

	customer, err := s.customerRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("find customer: %w", err))
	}
	if customer == nil {
		return "", time.Time{}, apperror.ErrUserNotFound()
	}

	valid, err := s.hashSvc.Verify(password, customer.PasswordHash)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("verify password: %w", err))
	}
	if !valid {
		return "", time.Time{}, apperror.ErrWrongPassword()
	}

	token, expiry, err := s.tokenSvc.Generate(customer.ID)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("generate token: %w", err))
	}

	return token, expiry, nil
}
