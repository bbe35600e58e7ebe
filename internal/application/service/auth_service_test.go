package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/corrispettivi/registro-api/pkg/apperror"
	"github.com/corrispettivi/registro-api/pkg/utils"
)

func newAuth(t *testing.T, password string, settings *fakeSettingsRepo) *AuthService {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	sessions := utils.NewSessionManager("test-secret", 30*time.Minute)
	return NewAuthService(settings, sessions, string(hash), zap.NewNop())
}

func TestLoginSuccess(t *testing.T) {
	settings := &fakeSettingsRepo{}
	svc := newAuth(t, "segreto", settings)

	result, err := svc.Login(context.Background(), "segreto")
	require.NoError(t, err)

	assert.NotEmpty(t, result.Token)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), result.ExpiresAt, 5*time.Second)
	assert.False(t, settings.sessionStart.IsZero())

	sessions := utils.NewSessionManager("test-secret", 30*time.Minute)
	claims, err := sessions.Validate(result.Token)
	require.NoError(t, err)
	assert.True(t, claims.Operator)
}

func TestLoginWrongPassword(t *testing.T) {
	settings := &fakeSettingsRepo{}
	svc := newAuth(t, "segreto", settings)

	_, err := svc.Login(context.Background(), "sbagliata")
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)
	assert.True(t, settings.sessionStart.IsZero())
}

func TestLogoutClearsSession(t *testing.T) {
	settings := &fakeSettingsRepo{}
	svc := newAuth(t, "segreto", settings)

	_, err := svc.Login(context.Background(), "segreto")
	require.NoError(t, err)
	require.False(t, settings.sessionStart.IsZero())

	require.NoError(t, svc.Logout(context.Background()))
	assert.True(t, settings.sessionStart.IsZero())
}
