package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/datatypes"

	"github.com/quizmentor/quizmentor/internal/cache"
	"github.com/quizmentor/quizmentor/internal/models"
	pgrepo "github.com/quizmentor/quizmentor/internal/repositories/postgres"
	"github.com/quizmentor/quizmentor/internal/utils"
)

const settingsCacheTTL = time.Minute

type SettingsService interface {
	Get(ctx context.Context, key string) (*models.Setting, error)
	List(ctx context.Context) ([]models.Setting, error)
	Put(ctx context.Context, key string, value json.RawMessage) (*models.Setting, error)
	Delete(ctx context.Context, key string) error
}

type settingsService struct {
	settings pgrepo.SettingRepository
	cache    cache.Cache
}

func NewSettingsService(settings pgrepo.SettingRepository, c cache.Cache) SettingsService {
	return &settingsService{settings: settings, cache: c}
}

func (s *settingsService) Get(ctx context.Context, key string) (*models.Setting, error) {
	const op = "SettingsService.Get"

	if key == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "key is required", nil)
	}

	cacheKey := settingCacheKey(key)
	if s.cache != nil {
		var cached models.Setting
		if hit, err := s.cache.GetJSON(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	row, err := s.settings.Get(ctx, key)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "setting not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get setting", err)
	}

	if s.cache != nil {
		_ = s.cache.SetJSON(ctx, cacheKey, row, settingsCacheTTL)
	}
	return row, nil
}

func (s *settingsService) List(ctx context.Context) ([]models.Setting, error) {
	const op = "SettingsService.List"

	rows, err := s.settings.List(ctx)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list settings", err)
	}
	return rows, nil
}

func (s *settingsService) Put(ctx context.Context, key string, value json.RawMessage) (*models.Setting, error) {
	const op = "SettingsService.Put"

	if key == "" || len(value) == 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "key and value are required", nil)
	}

	row := &models.Setting{
		Key:       key,
		Value:     datatypes.JSON(value),
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.settings.Upsert(ctx, row); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to save setting", err)
	}
	if s.cache != nil {
		_ = s.cache.Del(ctx, settingCacheKey(key))
	}
	return row, nil
}

func (s *settingsService) Delete(ctx context.Context, key string) error {
	const op = "SettingsService.Delete"

	if key == "" {
		return utils.E(utils.CodeInvalidArgument, op, "key is required", nil)
	}
	if err := s.settings.Delete(ctx, key); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, "setting not found", err)
		}
		return utils.E(utils.CodeInternal, op, "failed to delete setting", err)
	}
	if s.cache != nil {
		_ = s.cache.Del(ctx, settingCacheKey(key))
	}
	return nil
}

func settingCacheKey(key string) string {
	return "setting:" + key
}
