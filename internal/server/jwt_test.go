package server

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/kickinn/kickinn-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-secret-key-for-jwt-signing-minimum-32-bytes"

func setupTestJWTService(_ *testing.T, expirationHours int) *JWTService {
	return NewJWTService(&config.JWTConfig{
		Secret:          testJWTSecret,
		ExpirationHours: expirationHours,
	})
}

func signClaims(t *testing.T, method jwt.SigningMethod, key any, claims jwt.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	service := setupTestJWTService(t, 24)
	userID := uuid.New()

	token, err := service.GenerateToken(userID)
	require.NoError(t, err)
	assert.Len(t, strings.Split(token, "."), 3)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.GetUserID())
	assert.Equal(t, userID.String(), claims.Subject)
	assert.Equal(t, tokenIssuer, claims.Issuer)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestJWTService_GenerateToken_NilUser(t *testing.T) {
	service := setupTestJWTService(t, 24)
	_, err := service.GenerateToken(uuid.Nil)
	assert.Error(t, err)
}

func TestJWTService_ValidateToken_UserIDFallback(t *testing.T) {
	service := setupTestJWTService(t, 24)
	userID := uuid.New()

	token := signClaims(t, jwt.SigningMethodHS256, []byte(testJWTSecret), &Claims{
		UserID: userID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.GetUserID())
}

func TestJWTService_ValidateToken_SubjectWins(t *testing.T) {
	service := setupTestJWTService(t, 24)
	subject := uuid.New()

	token := signClaims(t, jwt.SigningMethodHS256, []byte(testJWTSecret), &Claims{
		UserID:           uuid.New().String(),
		RegisteredClaims: jwt.RegisteredClaims{Subject: subject.String()},
	})

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, subject, claims.GetUserID())
}

func TestJWTService_ValidateToken_Rejects(t *testing.T) {
	service := setupTestJWTService(t, 24)
	userID := uuid.New()
	valid := jwt.RegisteredClaims{Subject: userID.String(), ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}

	tests := []struct {
		name    string
		token   string
		wantErr string
	}{
		{"empty", "", "token string is empty"},
		{"garbage", "not.a.jwt", "malformed token"},
		{"wrong secret", signClaims(t, jwt.SigningMethodHS256, []byte("another-secret-entirely-0123"), &Claims{RegisteredClaims: valid}), "invalid token signature"},
		{"expired", signClaims(t, jwt.SigningMethodHS256, []byte(testJWTSecret), &Claims{RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		}}), "token expired"},
		{"hs512", signClaims(t, jwt.SigningMethodHS512, []byte(testJWTSecret), &Claims{RegisteredClaims: valid}), "invalid token signature"},
		{"none alg", signClaims(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, &Claims{RegisteredClaims: valid}), "invalid token signature"},
		{"no subject", signClaims(t, jwt.SigningMethodHS256, []byte(testJWTSecret), &Claims{}), "token has no subject"},
		{"non-uuid subject", signClaims(t, jwt.SigningMethodHS256, []byte(testJWTSecret), &Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "alice"}}), "invalid user id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := service.ValidateToken(tt.token)
			require.Error(t, err)
			assert.Nil(t, claims)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestJWTService_AsTokenValidator(t *testing.T) {
	service := setupTestJWTService(t, 1)
	userID := uuid.New()
	token, err := service.GenerateToken(userID)
	require.NoError(t, err)

	got, err := service.AsTokenValidator().ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, got.GetUserID())

	_, err = service.AsTokenValidator().ValidateToken("bad")
	assert.Error(t, err)
}
