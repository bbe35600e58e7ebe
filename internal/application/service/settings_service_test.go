package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/corrispettivi/registro-api/internal/domain/entity"
	"github.com/corrispettivi/registro-api/pkg/apperror"
)

func newSettings(repo *fakeSettingsRepo, submitter *fakeSubmitter) *SettingsService {
	return NewSettingsService(repo, submitter, zap.NewNop())
}

func TestSettingsUpdateAndGet(t *testing.T) {
	repo := &fakeSettingsRepo{}
	svc := newSettings(repo, &fakeSubmitter{})

	view, err := svc.Update(context.Background(), UpdateSettingsInput{
		Token:       "tok-123",
		Environment: "production",
		Merchant:    entity.Merchant{PartitaIVA: "01234567890", RagioneSociale: "Bar Roma"},
	})
	require.NoError(t, err)

	assert.Equal(t, "tok-123", view.Token)
	assert.Equal(t, "production", view.Environment)
	assert.True(t, view.Configured)

	got, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, view, got)
}

func TestSettingsUpdateNormalizesEnvironment(t *testing.T) {
	repo := &fakeSettingsRepo{}
	svc := newSettings(repo, &fakeSubmitter{})

	view, err := svc.Update(context.Background(), UpdateSettingsInput{
		Token:       "tok",
		Environment: "staging",
		Merchant:    entity.Merchant{PartitaIVA: "01234567890"},
	})
	require.NoError(t, err)

	// Unknown environments fall back to the sandbox.
	assert.Equal(t, "sandbox", view.Environment)
}

func TestSettingsNotConfiguredWithoutFiscalID(t *testing.T) {
	repo := &fakeSettingsRepo{}
	svc := newSettings(repo, &fakeSubmitter{})

	view, err := svc.Update(context.Background(), UpdateSettingsInput{Token: "tok"})
	require.NoError(t, err)
	assert.False(t, view.Configured)
}

func TestTestConnection(t *testing.T) {
	submitter := &fakeSubmitter{checkResult: okResult(`{"configurations":[]}`)}
	svc := newSettings(configuredSettings(), submitter)

	assert.NoError(t, svc.TestConnection(context.Background()))
}

func TestTestConnectionRequiresToken(t *testing.T) {
	svc := newSettings(&fakeSettingsRepo{}, &fakeSubmitter{})
	err := svc.TestConnection(context.Background())
	assert.ErrorIs(t, err, apperror.ErrNotConfigured)
}

func TestTestConnectionRemoteRejection(t *testing.T) {
	submitter := &fakeSubmitter{checkResult: failResult(401, `{"message":"invalid token"}`)}
	svc := newSettings(configuredSettings(), submitter)

	err := svc.TestConnection(context.Background())
	require.Error(t, err)
	appErr := apperror.GetAppError(err)
	assert.Equal(t, 502, appErr.Code)
	assert.Contains(t, appErr.Message, "invalid token")
}
