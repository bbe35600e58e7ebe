package service

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/corrispettivi/registro-api/internal/domain/repository"
	"github.com/corrispettivi/registro-api/pkg/apperror"
	"github.com/corrispettivi/registro-api/pkg/utils"
)

// AuthService gates the register behind a single operator credential. The
// session token lifetime is the inactivity timeout; the middleware renews it
// on every authenticated request.
type AuthService struct {
	settingsRepo repository.SettingsRepository
	sessions     *utils.SessionManager
	passwordHash string
	logger       *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	settingsRepo repository.SettingsRepository,
	sessions *utils.SessionManager,
	passwordHash string,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		settingsRepo: settingsRepo,
		sessions:     sessions,
		passwordHash: passwordHash,
		logger:       logger,
	}
}

// LoginResult carries the issued session token and its expiry.
type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Login verifies the operator password and starts a session.
func (s *AuthService) Login(ctx context.Context, password string) (*LoginResult, error) {
	if err := bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(password)); err != nil {
		s.logger.Warn("Failed login attempt")
		return nil, apperror.ErrInvalidCredentials
	}

	token, err := s.sessions.Generate()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.settingsRepo.SetSessionStart(ctx, now); err != nil {
		return nil, err
	}

	s.logger.Info("Operator logged in")
	return &LoginResult{Token: token, ExpiresAt: now.Add(s.sessions.TTL())}, nil
}

// Logout ends the current session.
func (s *AuthService) Logout(ctx context.Context) error {
	return s.settingsRepo.ClearSession(ctx)
}
