package auth

import (
	"testing"
	"time"

	"storefront/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTConfig(secret string, ttl time.Duration) *config.Config {
	cfg := &config.Config{Auth: &config.AuthConfig{TokenTTL: ttl}}
	cfg.SecretKey.Access = secret

	return cfg
}

func TestJWTService_IssueAndValidateToken(t *testing.T) {
	jwtService, err := NewJWTService(newTestJWTConfig("test_access_secret_key_very_long_for_testing", time.Hour))
	require.NoError(t, err)

	userID := uuid.New()
	token, err := jwtService.IssueToken(userID, "admin")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := jwtService.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestJWTService_InvalidToken(t *testing.T) {
	jwtService, err := NewJWTService(newTestJWTConfig("test_access_secret_key_very_long_for_testing", 0))
	require.NoError(t, err)

	// Test invalid token - using clearly non-JWT format
	claims, err := jwtService.ValidateToken("clearly-not-a-jwt-token-format")
	assert.Error(t, err)
	assert.Nil(t, claims)
	assert.Contains(t, err.Error(), "failed to parse token")
}

func TestJWTService_RejectsTokenSignedWithOtherSecret(t *testing.T) {
	issuer, err := NewJWTService(newTestJWTConfig("issuer-secret", time.Hour))
	require.NoError(t, err)
	verifier, err := NewJWTService(newTestJWTConfig("verifier-secret", time.Hour))
	require.NoError(t, err)

	token, err := issuer.IssueToken(uuid.New(), "customer")
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTService_RejectsExpiredToken(t *testing.T) {
	svc, err := NewJWTService(newTestJWTConfig("secret", time.Minute))
	require.NoError(t, err)

	issued := svc.(*jwtService)
	issued.now = func() time.Time { return time.Now().Add(-2 * time.Minute) }
	token, err := issued.IssueToken(uuid.New(), "customer")
	require.NoError(t, err)

	issued.now = time.Now
	_, err = issued.ValidateToken(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestJWTService_RejectsNonUUIDSubject(t *testing.T) {
	svc, err := NewJWTService(newTestJWTConfig("secret", time.Hour))
	require.NoError(t, err)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "not-a-uuid",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = svc.ValidateToken(signed)
	assert.Error(t, err)
}

func TestJWTService_RejectsUnsignedToken(t *testing.T) {
	svc, err := NewJWTService(newTestJWTConfig("secret", time.Hour))
	require.NoError(t, err)

	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": uuid.NewString(),
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.ValidateToken(signed)
	assert.Error(t, err)
}

func TestJWTService_EmptySecret(t *testing.T) {
	jwtService, err := NewJWTService(newTestJWTConfig("", time.Hour))
	assert.Error(t, err)
	assert.Nil(t, jwtService)
	assert.Contains(t, err.Error(), "jwt secret must be provided")
}

func TestJWTService_DefaultTTL(t *testing.T) {
	jwtService, err := NewJWTService(newTestJWTConfig("secret", 0))
	require.NoError(t, err)

	assert.Equal(t, 30*24*time.Hour, jwtService.TokenTTL())
}
