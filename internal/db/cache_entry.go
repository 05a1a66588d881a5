package db

import "gorm.io/gorm"

// CacheEntry 是本地缓存的键值行，Value 保存序列化后的 JSON 字符串。
type CacheEntry struct {
	gorm.Model
	Key   string `gorm:"size:191;uniqueIndex;not null"`
	Value string `gorm:"type:text"`
}

// TableName 自定义表名以保持命名一致。
func (CacheEntry) TableName() string {
	return "cache_entries"
}
