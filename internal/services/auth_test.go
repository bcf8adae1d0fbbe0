package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_LoginAndValidate(t *testing.T) {
	s := NewAuthService("admin", "hunter2", "test-secret")

	token, err := s.Login("admin", "hunter2")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	username, err := s.ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", username)
}

func TestAuthService_RejectsBadCredentials(t *testing.T) {
	s := NewAuthService("admin", "hunter2", "test-secret")

	_, err := s.Login("admin", "wrong")
	assert.Error(t, err)

	_, err = s.Login("root", "hunter2")
	assert.Error(t, err)
}

func TestAuthService_RejectsForeignToken(t *testing.T) {
	other := NewAuthService("admin", "hunter2", "other-secret")
	token, err := other.Login("admin", "hunter2")
	require.NoError(t, err)

	s := NewAuthService("admin", "hunter2", "test-secret")
	_, err = s.ValidateJWT(token)
	assert.Error(t, err)

	_, err = s.ValidateJWT("not-a-token")
	assert.Error(t, err)
}

func TestAuthService_GeneratesPasswordWhenUnset(t *testing.T) {
	s := NewAuthService("admin", "", "test-secret")

	// the generated password is random but must be usable
	assert.Len(t, s.password, passwordLength)
	_, err := s.Login("admin", s.password)
	assert.NoError(t, err)
}
