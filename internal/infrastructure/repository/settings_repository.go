package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/corrispettivi/registro-api/internal/domain/entity"
	domainRepo "github.com/corrispettivi/registro-api/internal/domain/repository"
	"github.com/corrispettivi/registro-api/internal/infrastructure/database"
)

const (
	keyToken        = "api_token"
	keyEnvironment  = "api_ambiente"
	keyMerchant     = "configurazione"
	keySessionStart = "session_start"
)

const defaultEnvironment = "sandbox"

type settingsRepository struct {
	store *database.Store
}

// NewSettingsRepository creates a settings repository over the key/value store
func NewSettingsRepository(store *database.Store) domainRepo.SettingsRepository {
	return &settingsRepository{store: store}
}

func (r *settingsRepository) Get(ctx context.Context) (domainRepo.Settings, error) {
	settings := domainRepo.Settings{Environment: defaultEnvironment}

	if token, ok, err := r.store.Get(ctx, keyToken); err != nil {
		return settings, err
	} else if ok {
		settings.Token = token
	}

	if env, ok, err := r.store.Get(ctx, keyEnvironment); err != nil {
		return settings, err
	} else if ok && env != "" {
		settings.Environment = env
	}

	raw, ok, err := r.store.Get(ctx, keyMerchant)
	if err != nil {
		return settings, err
	}
	if ok {
		var merchant entity.Merchant
		if err := json.Unmarshal([]byte(raw), &merchant); err != nil {
			return settings, fmt.Errorf("corrupt merchant configuration: %w", err)
		}
		settings.Merchant = merchant
	}

	return settings, nil
}

func (r *settingsRepository) Save(ctx context.Context, settings domainRepo.Settings) error {
	if err := r.store.Put(ctx, keyToken, settings.Token); err != nil {
		return err
	}
	env := settings.Environment
	if env == "" {
		env = defaultEnvironment
	}
	if err := r.store.Put(ctx, keyEnvironment, env); err != nil {
		return err
	}
	raw, err := json.Marshal(settings.Merchant)
	if err != nil {
		return fmt.Errorf("failed to encode merchant configuration: %w", err)
	}
	return r.store.Put(ctx, keyMerchant, string(raw))
}

func (r *settingsRepository) SessionStart(ctx context.Context) (time.Time, error) {
	raw, ok, err := r.store.Get(ctx, keySessionStart)
	if err != nil || !ok {
		return time.Time{}, err
	}
	millis, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("corrupt session timestamp: %w", err)
	}
	return time.UnixMilli(millis), nil
}

func (r *settingsRepository) SetSessionStart(ctx context.Context, t time.Time) error {
	return r.store.Put(ctx, keySessionStart, strconv.FormatInt(t.UnixMilli(), 10))
}

func (r *settingsRepository) ClearSession(ctx context.Context) error {
	return r.store.Delete(ctx, keySessionStart)
}
