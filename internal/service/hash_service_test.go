package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBcryptHashService_RoundTrip(t *testing.T) {
	svc := NewBcryptHashService()

	hash, err := svc.Hash("s3cret-password")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$2a$"))
	assert.NotContains(t, hash, "s3cret-password")

	ok, err := svc.Verify("s3cret-password", hash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestBcryptHashService_WrongPassword(t *testing.T) {
	svc := NewBcryptHashService()

	hash, err := svc.Hash("correct")
	require.NoError(t, err)

	ok, err := svc.Verify("incorrect", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBcryptHashService_MalformedHash(t *testing.T) {
	svc := NewBcryptHashService()

	_, err := svc.Verify("anything", "not-a-bcrypt-hash")
	assert.Error(t, err)
}

func TestBcryptHashService_HashesAreSalted(t *testing.T) {
	svc := NewBcryptHashService()

	h1, err := svc.Hash("same-input")
	require.NoError(t, err)
	h2, err := svc.Hash("same-input")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}
