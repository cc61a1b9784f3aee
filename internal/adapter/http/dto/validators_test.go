package dto

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func phoneValidator(t *testing.T) *validator.Validate {
	t.Helper()
	v, ok := binding.Validator.Engine().(*validator.Validate)
	require.True(t, ok)
	return v
}

func TestValidatePhone(t *testing.T) {
	v := phoneValidator(t)

	valid := []string{"0912345678", "+84912345678", "1234567", "123456789012345"}
	for _, p := range valid {
		assert.NoError(t, v.Var(p, "phone"), p)
	}

	invalid := []string{"", "123456", "1234567890123456", "09-1234-5678", "+84 912345678", "abcdefgh", "++123456789"}
	for _, p := range invalid {
		assert.Error(t, v.Var(p, "phone"), p)
	}
}

func TestSanitizeStruct(t *testing.T) {
	req := RegisterRequest{
		Name:     "  Alice <script>alert(1)</script>  ",
		Email:    " alice@example.com ",
		Password: "plain",
		Phone:    "0912345678",
	}
	SanitizeStruct(&req)

	assert.Equal(t, "Alice &lt;script&gt;alert(1)&lt;/script&gt;", req.Name)
	assert.Equal(t, "alice@example.com", req.Email)
	assert.Equal(t, "plain", req.Password)
}

func TestSanitizeStruct_NonPointerIsNoop(t *testing.T) {
	req := RegisterRequest{Name: "  Alice  "}
	SanitizeStruct(req)
	assert.Equal(t, "  Alice  ", req.Name)
}
