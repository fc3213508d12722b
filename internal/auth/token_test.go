package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := Generate("user-42", RoleAdmin, time.Hour)
	require.NoError(t, err)

	claims, err := Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "user-42", claims.UserID)
	assert.Equal(t, RoleAdmin, claims.Role)
}

func TestValidateRejectsGarbage(t *testing.T) {
	_, err := Validate("not-a-token")
	assert.Error(t, err)
}

func TestValidateRejectsExpired(t *testing.T) {
	token, err := Generate("user-42", RoleAdmin, -time.Hour)
	require.NoError(t, err)

	_, err = Validate(token)
	assert.Error(t, err)
}
