package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/moodlog/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCache 将缓存写入 sqlite 的 cache_entries 表，服务端默认使用。
type GormCache struct {
	db *gorm.DB
}

// NewGormCache 构造 GormCache，表结构由 db.Migrate 负责创建。
func NewGormCache(gdb *gorm.DB) *GormCache {
	return &GormCache{db: gdb}
}

func (c *GormCache) Get(ctx context.Context, key string) (string, bool, error) {
	var entry db.CacheEntry
	if err := c.db.WithContext(ctx).Where("key = ?", key).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get cache entry %s: %w", key, err)
	}
	return entry.Value, true, nil
}

func (c *GormCache) Set(ctx context.Context, key, value string) error {
	entry := db.CacheEntry{Key: key, Value: value}
	if err := c.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"value":      value,
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		}),
	}).Create(&entry).Error; err != nil {
		return fmt.Errorf("upsert cache entry %s: %w", key, err)
	}
	return nil
}

// Remove 物理删除，避免软删除行占住唯一索引。
func (c *GormCache) Remove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := c.db.WithContext(ctx).Unscoped().Where("key IN ?", keys).Delete(&db.CacheEntry{}).Error; err != nil {
		return fmt.Errorf("remove cache entries: %w", err)
	}
	return nil
}
