package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRoundTrip(t *testing.T) {
	m := NewSessionManager("secret", 30*time.Minute)

	token, err := m.Generate()
	require.NoError(t, err)

	claims, err := m.Validate(token)
	require.NoError(t, err)
	assert.True(t, claims.Operator)
	assert.Equal(t, "operator", claims.Subject)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	issued, err := NewSessionManager("secret-a", 30*time.Minute).Generate()
	require.NoError(t, err)

	_, err = NewSessionManager("secret-b", 30*time.Minute).Validate(issued)
	assert.Error(t, err)
}

func TestValidateRejectsExpired(t *testing.T) {
	m := NewSessionManager("secret", -time.Minute)

	token, err := m.Generate()
	require.NoError(t, err)

	_, err = m.Validate(token)
	assert.Error(t, err)
}

func TestValidateRejectsGarbage(t *testing.T) {
	m := NewSessionManager("secret", 30*time.Minute)
	_, err := m.Validate("not-a-token")
	assert.Error(t, err)
}

func TestRenewIssuesValidToken(t *testing.T) {
	m := NewSessionManager("secret", 30*time.Minute)

	token, err := m.Generate()
	require.NoError(t, err)
	claims, err := m.Validate(token)
	require.NoError(t, err)

	renewed, err := m.Renew(claims)
	require.NoError(t, err)

	_, err = m.Validate(renewed)
	assert.NoError(t, err)
}

func TestRenewRejectsNilClaims(t *testing.T) {
	m := NewSessionManager("secret", 30*time.Minute)
	_, err := m.Renew(nil)
	assert.Error(t, err)
}
