package db

import "time"

// Profile 用户资料，每个用户至多一条
type Profile struct {
	UserID     string `gorm:"primaryKey;size:64"`
	FullName   string `gorm:"size:100;not null"`
	Age        int    `gorm:"not null"`
	Gender     string `gorm:"size:32"`
	Occupation string `gorm:"size:100"`
	Timezone   string `gorm:"size:64"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TableName 自定义表名以保持命名一致。
func (Profile) TableName() string {
	return "user_profiles"
}
