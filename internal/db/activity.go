package db

import "time"

// ActivitySession 记录一次呼吸/冥想/运动练习
type ActivitySession struct {
	ID         string `gorm:"primaryKey;size:36"`
	UserID     string `gorm:"size:64;not null;index:idx_activity_sessions_user_created,priority:1"`
	Type       string `gorm:"size:16;not null"`
	Duration   int    `gorm:"not null"`
	Completed  bool   `gorm:"not null;default:false"`
	PostMood   *int
	PostStress *int
	Date       string    `gorm:"size:10;index"`
	CreatedAt  time.Time `gorm:"not null;index:idx_activity_sessions_user_created,priority:2"`
}

// TableName 自定义表名以保持命名一致。
func (ActivitySession) TableName() string {
	return "activity_sessions"
}
