package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facegate/facegate/app/models"
)

func TestGenerateAndVerify(t *testing.T) {
	tok, err := Generate("test-secret", 42, models.ROLE_ADMIN)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	claims, err := Verify("test-secret", tok)
	require.NoError(t, err)
	assert.EqualValues(t, 42, claims.UserID)
	assert.Equal(t, models.ROLE_ADMIN, claims.Role)
	assert.True(t, claims.ExpiresAt.After(claims.IssuedAt.Time))
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	tok, err := Generate("test-secret", 1, models.ROLE_USER)
	require.NoError(t, err)

	_, err = Verify("other-secret", tok)
	assert.Error(t, err)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"not a jwt", "hello"},
		{"truncated", "eyJhbGciOiJIUzI1NiJ9"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Verify("test-secret", tc.token)
			assert.Error(t, err)
		})
	}
}

func TestGenerateRequiresSecret(t *testing.T) {
	_, err := Generate("", 1, models.ROLE_USER)
	assert.Error(t, err)

	_, err = Verify("", "whatever")
	assert.Error(t, err)
}
