package db

import "time"

// CheckIn 是远端权威存储中的一条打卡记录，创建后不再修改
type CheckIn struct {
	ID        string    `gorm:"primaryKey;size:36"`
	UserID    string    `gorm:"size:64;not null;index:idx_check_ins_user_created,priority:1"`
	Slot      string    `gorm:"size:16;not null"`
	Mood      int       `gorm:"not null"`
	Stress    int       `gorm:"not null"`
	Energy    int       `gorm:"not null"`
	Note      *string   `gorm:"type:text"`
	CreatedAt time.Time `gorm:"not null;index:idx_check_ins_user_created,priority:2"`
}

// TableName 自定义表名以保持命名一致。
func (CheckIn) TableName() string {
	return "check_ins"
}
