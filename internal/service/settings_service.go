package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/moodlog/internal/cache"
	"github.com/moodlog/internal/model"
)

// SettingsService 负责按用户读写 UserSettings，存储与本地缓存共用同一套键值接口。
// 所有持久化失败只记录日志，不向调用方抛出。
type SettingsService struct {
	cache cache.Cache
}

// NewSettingsService 构造 SettingsService
func NewSettingsService(c cache.Cache) *SettingsService {
	return &SettingsService{cache: c}
}

// storedSections 用于识别旧版本数据中缺失的配置段
type storedSections struct {
	Thresholds *json.RawMessage `json:"thresholds"`
	Scoring    *json.RawMessage `json:"scoring"`
}

// Load 读取用户设置；不存在或无法解析时创建默认值并尝试持久化。
func (s *SettingsService) Load(ctx context.Context, userID string) model.UserSettings {
	key := cache.UserSettingsKey(userID)

	raw, found, err := s.cache.Get(ctx, key)
	if err != nil {
		log.Printf("[settings] read %s failed, using defaults: %v", key, err)
		return model.DefaultUserSettings(uuid.NewString(), userID)
	}

	var (
		settings model.UserSettings
		sections storedSections
	)
	if found {
		if err := json.Unmarshal([]byte(raw), &settings); err != nil {
			log.Printf("[settings] decode %s failed, resetting: %v", key, err)
			found = false
		} else {
			_ = json.Unmarshal([]byte(raw), &sections)
		}
	}
	if !found {
		settings = model.DefaultUserSettings(uuid.NewString(), userID)
		s.Save(ctx, settings)
		return settings
	}

	migrated := false
	if sections.Scoring == nil {
		settings.Scoring = model.DefaultScoringSettings()
		migrated = true
	}
	if sections.Thresholds == nil {
		settings.Thresholds = model.DefaultThresholds()
		migrated = true
	}
	if strings.TrimSpace(settings.ID) == "" {
		settings.ID = uuid.NewString()
		migrated = true
	}
	if settings.UserID == "" {
		settings.UserID = userID
		migrated = true
	}
	if err := settings.Validate(); err != nil {
		log.Printf("[settings] stored %s invalid, restoring defaults: %v", key, err)
		settings.Thresholds = model.DefaultThresholds()
		settings.Scoring = model.DefaultScoringSettings()
		migrated = true
	}
	if migrated {
		log.Printf("[settings] migrated %s", key)
		s.Save(ctx, settings)
	}
	return settings
}

// Save 持久化设置，失败时记录日志并返回 false。
func (s *SettingsService) Save(ctx context.Context, settings model.UserSettings) bool {
	key := cache.UserSettingsKey(settings.UserID)
	if err := cache.SetJSON(ctx, s.cache, key, settings); err != nil {
		log.Printf("[settings] write %s failed: %v", key, err)
		return false
	}
	return true
}

// Clear 删除用户设置
func (s *SettingsService) Clear(ctx context.Context, userID string) error {
	if err := s.cache.Remove(ctx, cache.UserSettingsKey(userID)); err != nil {
		return fmt.Errorf("clear settings: %w", err)
	}
	return nil
}
