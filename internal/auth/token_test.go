package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret"

func mintToken(t *testing.T, method jwt.SigningMethod, secret string, claims Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestParseTokenValid(t *testing.T) {
	verifier := NewTokenVerifier(testSecret)
	token := mintToken(t, jwt.SigningMethodHS256, testSecret, Claims{
		UserID:         "user-1",
		OrganizationID: "org-1",
		Role:           RoleTechnician,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	claims, err := verifier.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "org-1", claims.OrganizationID)
	assert.Equal(t, RoleTechnician, claims.Role)
}

func TestParseTokenWrongSecret(t *testing.T) {
	verifier := NewTokenVerifier(testSecret)
	token := mintToken(t, jwt.SigningMethodHS256, "some-other-secret", Claims{
		UserID:         "user-1",
		OrganizationID: "org-1",
	})

	_, err := verifier.ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenWrongMethod(t *testing.T) {
	verifier := NewTokenVerifier(testSecret)
	token := mintToken(t, jwt.SigningMethodHS384, testSecret, Claims{
		UserID:         "user-1",
		OrganizationID: "org-1",
	})

	_, err := verifier.ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenExpired(t *testing.T) {
	verifier := NewTokenVerifier(testSecret)
	token := mintToken(t, jwt.SigningMethodHS256, testSecret, Claims{
		UserID:         "user-1",
		OrganizationID: "org-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})

	_, err := verifier.ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenMissingTenancy(t *testing.T) {
	verifier := NewTokenVerifier(testSecret)

	token := mintToken(t, jwt.SigningMethodHS256, testSecret, Claims{UserID: "user-1"})
	_, err := verifier.ParseToken(token)
	assert.Error(t, err)

	token = mintToken(t, jwt.SigningMethodHS256, testSecret, Claims{OrganizationID: "org-1"})
	_, err = verifier.ParseToken(token)
	assert.Error(t, err)
}
