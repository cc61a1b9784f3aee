package apperror

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	e := New("LDG_003", "Insufficient balance", http.StatusBadRequest)
	assert.Equal(t, "[LDG_003] Insufficient balance", e.Error())

	wrapped := Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, errors.New("conn refused"))
	assert.Contains(t, wrapped.Error(), "SYS_001")
	assert.Contains(t, wrapped.Error(), "conn refused")
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("dial tcp: timeout")
	e := InternalError(cause)
	assert.ErrorIs(t, e, cause)
}

func TestErrorCatalog(t *testing.T) {
	cases := []struct {
		err    *AppError
		code   string
		status int
	}{
		{ErrAllFieldsRequired(), "AUTH_001", http.StatusBadRequest},
		{ErrCustomerExists(), "AUTH_002", http.StatusBadRequest},
		{ErrUserNotFound(), "AUTH_003", http.StatusBadRequest},
		{ErrWrongPassword(), "AUTH_004", http.StatusBadRequest},
		{ErrInvalidToken(), "AUTH_005", http.StatusUnauthorized},
		{ErrAccountNotFound(), "LDG_001", http.StatusNotFound},
		{ErrInvalidAmount(), "LDG_002", http.StatusBadRequest},
		{ErrInsufficientFunds(), "LDG_003", http.StatusBadRequest},
		{Validation("Invalid input"), "LDG_004", http.StatusBadRequest},
		{ErrRecipientNotFound(), "LDG_005", http.StatusBadRequest},
		{InternalError(errors.New("x")), "SYS_001", http.StatusInternalServerError},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.code, tc.err.Code)
		assert.Equal(t, tc.status, tc.err.HTTPStatus)
	}
}
