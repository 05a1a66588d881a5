package db

import (
	"time"

	"gorm.io/datatypes"
)

// JournalEntry 定义日记模型，标签与模板字段以 JSON 列保存
type JournalEntry struct {
	ID        string         `gorm:"primaryKey;size:36"`
	UserID    string         `gorm:"size:64;not null;index:idx_journal_entries_user_created,priority:1"`
	Type      string         `gorm:"size:16;not null;index"`
	Title     string         `gorm:"size:255"`
	Content   string         `gorm:"type:text"`
	Mood      int            `gorm:"not null"`
	Tags      datatypes.JSON `gorm:"type:json"`
	AudioURI  *string        `gorm:"size:512"`
	Meta      datatypes.JSON `gorm:"type:json"`
	Date      string         `gorm:"size:10;index"`
	CreatedAt time.Time      `gorm:"not null;index:idx_journal_entries_user_created,priority:2"`
	UpdatedAt time.Time
}

// TableName 自定义表名以保持命名一致。
func (JournalEntry) TableName() string {
	return "journal_entries"
}
