package repository

import (
	"context"
	"time"

	"github.com/corrispettivi/registro-api/internal/domain/entity"
)

// Settings bundles the persisted upstream credentials and merchant identity.
type Settings struct {
	Token       string          `json:"token"`
	Environment string          `json:"environment"`
	Merchant    entity.Merchant `json:"merchant"`
}

// Configured reports whether receipts can be issued: a token plus at least
// one fiscal identifier.
func (s Settings) Configured() bool {
	return s.Token != "" && s.Merchant.HasFiscalID()
}

// SettingsRepository persists the merchant configuration, upstream
// credentials and session bookkeeping.
type SettingsRepository interface {
	Get(ctx context.Context) (Settings, error)
	Save(ctx context.Context, settings Settings) error

	// SessionStart records when the operator last logged in.
	SessionStart(ctx context.Context) (time.Time, error)
	SetSessionStart(ctx context.Context, t time.Time) error
	ClearSession(ctx context.Context) error
}
