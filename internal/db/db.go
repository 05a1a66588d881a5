package db

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// DB 是一个全局的数据库连接实例
var DB *gorm.DB

// Init 初始化数据库连接并执行自动迁移。
// databasePath 为空时将回退到默认值 moodlog.db。
func Init(databasePath string) error {
	path := strings.TrimSpace(databasePath)
	if path == "" {
		path = "moodlog.db"
	}

	if err := ensureParentDir(path); err != nil {
		return err
	}

	conn, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return err
	}
	if err := Migrate(conn); err != nil {
		return err
	}

	DB = conn
	return nil
}

// Migrate 为核心模型创建或更新表结构，测试中的内存库也通过它建表。
func Migrate(conn *gorm.DB) error {
	if conn == nil {
		return errors.New("database not initialized")
	}
	return conn.AutoMigrate(
		&User{},
		&CheckIn{},
		&JournalEntry{},
		&ActivitySession{},
		&Profile{},
		&CacheEntry{},
	)
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}

	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return errors.New("database path parent is not a directory")
		}
		return nil
	}

	if os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o755)
	}

	return err
}
