package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caixa/internal/core/id"
)

func TestJWT_RoundTrip(t *testing.T) {
	svc := NewJWTService(DefaultJWTConfig("test-secret"))
	userID := id.New().String()

	token, expiresAt, err := svc.GenerateAccessToken(userID, "ana@example.com", RoleCashier)
	require.NoError(t, err)
	assert.True(t, expiresAt.After(time.Now()))

	user, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, user.UserID)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.Equal(t, RoleCashier, user.Role)
	assert.False(t, user.IsAdmin)
}

func TestJWT_AdminClaim(t *testing.T) {
	svc := NewJWTService(DefaultJWTConfig("test-secret"))

	token, _, err := svc.GenerateAccessToken(id.New().String(), "boss@example.com", RoleAdmin)
	require.NoError(t, err)

	user, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.True(t, user.IsAdmin)
}

func TestJWT_RejectsWrongSecret(t *testing.T) {
	issuer := NewJWTService(DefaultJWTConfig("secret-a"))
	verifier := NewJWTService(DefaultJWTConfig("secret-b"))

	token, _, err := issuer.GenerateAccessToken(id.New().String(), "ana@example.com", RoleCashier)
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

func TestUser_Lockout(t *testing.T) {
	user := NewUser("ana@example.com", "hash", RoleCashier)

	for i := 0; i < 4; i++ {
		user.RecordFailedLogin(5, 15*time.Minute)
		assert.False(t, user.IsLocked())
	}

	user.RecordFailedLogin(5, 15*time.Minute)
	assert.True(t, user.IsLocked())
	assert.Error(t, user.CanLogin())

	user.RecordSuccessfulLogin()
	assert.False(t, user.IsLocked())
	assert.NoError(t, user.CanLogin())
}
