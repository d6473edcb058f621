package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gobinath946/project-weaver-sub001/internal/models"
)

func testUser() *models.User {
	return &models.User{
		ID:        7,
		CompanyID: 3,
		Email:     "user@example.com",
	}
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken(testUser(), "secret", time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(token, "secret")
	require.NoError(t, err)
	require.EqualValues(t, 7, claims.UserID)
	require.EqualValues(t, 3, claims.CompanyID)
	require.Equal(t, "user@example.com", claims.Email)
	require.Equal(t, "project-weaver", claims.Issuer)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, err := GenerateToken(testUser(), "secret", time.Hour)
	require.NoError(t, err)

	_, err = ParseToken(token, "other-secret")
	require.Error(t, err)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	token, err := GenerateToken(testUser(), "secret", -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(token, "secret")
	require.Error(t, err)
}

func TestParseRejectsUnsignedToken(t *testing.T) {
	// alg=none tokens must never validate.
	unsigned := "eyJhbGciOiJub25lIiwidHlwIjoiSldUIn0.eyJ1c2VyX2lkIjo3fQ."
	_, err := ParseToken(unsigned, "secret")
	require.Error(t, err)
}
