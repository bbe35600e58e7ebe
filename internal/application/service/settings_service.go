package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/corrispettivi/registro-api/internal/domain/entity"
	"github.com/corrispettivi/registro-api/internal/domain/repository"
	"github.com/corrispettivi/registro-api/internal/infrastructure/upstream"
	"github.com/corrispettivi/registro-api/pkg/apperror"
)

// SettingsService manages the merchant configuration and upstream credentials.
type SettingsService struct {
	settingsRepo repository.SettingsRepository
	submitter    SubmissionClient
	logger       *zap.Logger
}

// NewSettingsService creates a new settings service
func NewSettingsService(
	settingsRepo repository.SettingsRepository,
	submitter SubmissionClient,
	logger *zap.Logger,
) *SettingsService {
	return &SettingsService{
		settingsRepo: settingsRepo,
		submitter:    submitter,
		logger:       logger,
	}
}

// SettingsView is the configuration as exposed over the API.
type SettingsView struct {
	Token       string          `json:"token"`
	Environment string          `json:"environment"`
	Merchant    entity.Merchant `json:"merchant"`
	Configured  bool            `json:"configured"`
}

// Get returns the stored configuration.
func (s *SettingsService) Get(ctx context.Context) (*SettingsView, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	return &SettingsView{
		Token:       settings.Token,
		Environment: settings.Environment,
		Merchant:    settings.Merchant,
		Configured:  settings.Configured(),
	}, nil
}

// UpdateSettingsInput is the save-configuration request.
type UpdateSettingsInput struct {
	Token       string
	Environment string
	Merchant    entity.Merchant
}

// Update stores the configuration.
func (s *SettingsService) Update(ctx context.Context, input UpdateSettingsInput) (*SettingsView, error) {
	settings := repository.Settings{
		Token:       input.Token,
		Environment: string(upstream.ParseEnvironment(input.Environment)),
		Merchant:    input.Merchant,
	}
	if err := s.settingsRepo.Save(ctx, settings); err != nil {
		return nil, err
	}
	s.logger.Info("Configuration saved", zap.String("environment", settings.Environment))
	return s.Get(ctx)
}

// TestConnection verifies the stored token against the upstream
// configurations resource.
func (s *SettingsService) TestConnection(ctx context.Context) error {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return err
	}
	if settings.Token == "" {
		return apperror.ErrNotConfigured
	}

	result, err := s.submitter.CheckConfiguration(ctx, upstream.ParseEnvironment(settings.Environment), settings.Token)
	if err != nil {
		return apperror.NewRemoteError(err.Error())
	}
	if !result.OK {
		return apperror.NewRemoteError(result.ErrorMessage())
	}
	return nil
}
