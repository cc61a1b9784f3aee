package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Authentication (AUTH) ----

func ErrAllFieldsRequired() *AppError {
	return New("AUTH_001", "ALL_FIELDS_REQUIRED", http.StatusBadRequest)
}

func ErrCustomerExists() *AppError {
	return New("AUTH_002", "USER_ALREADY_EXISTS", http.StatusBadRequest)
}

func ErrUserNotFound() *AppError {
	return New("AUTH_003", "USER_NOT_FOUND", http.StatusBadRequest)
}

func ErrWrongPassword() *AppError {
	return New("AUTH_004", "WRONG_PASSWORD", http.StatusBadRequest)
}

func ErrInvalidToken() *AppError {
	return New("AUTH_005", "Invalid or expired token", http.StatusUnauthorized)
}

// ---- Ledger Business Logic (LDG) ----

func ErrAccountNotFound() *AppError {
	return New("LDG_001", "User not found", http.StatusNotFound)
}

func ErrInvalidAmount() *AppError {
	return New("LDG_002", "Invalid amount", http.StatusBadRequest)
}

func ErrInsufficientFunds() *AppError {
	return New("LDG_003", "Insufficient balance", http.StatusBadRequest)
}

func ErrRecipientNotFound() *AppError {
	return New("LDG_005", "Receiver not found", http.StatusBadRequest)
}

// Validation returns an LDG_004 malformed-input error.
func Validation(message string) *AppError {
	return New("LDG_004", message, http.StatusBadRequest)
}

// ---- System & Infrastructure (SYS) ----

// InternalError wraps an unexpected store/infra failure. The cause is
// logged server-side and never surfaced to the client.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}
