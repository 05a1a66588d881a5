package db

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ErrInvalidCredentials 表示用户名不存在或密码不匹配
var ErrInvalidCredentials = errors.New("invalid credentials")

// User 定义了用户模型
type User struct {
	gorm.Model
	Username string `gorm:"unique;not null"`
	Password string `gorm:"not null"`
}

// EnsureUser 存在性检查：若提供的用户名与密码均非空且不存在对应账号，则创建一个 bcrypt 哈希的用户。
func EnsureUser(username, password string) error {
	if DB == nil {
		return errors.New("database not initialized")
	}
	_, err := EnsureUserIn(DB, username, password)
	return err
}

// EnsureUserIn 与 EnsureUser 相同，但使用指定连接并返回对应账号；用户名或密码为空时返回 nil。
func EnsureUserIn(conn *gorm.DB, username, password string) (*User, error) {
	trimmedUser := strings.TrimSpace(username)
	trimmedPassword := strings.TrimSpace(password)
	if trimmedUser == "" || trimmedPassword == "" {
		return nil, nil
	}

	var existing User
	if err := conn.Where("username = ?", trimmedUser).First(&existing).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(trimmedPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}

		created := User{Username: trimmedUser, Password: string(hashed)}
		if err := conn.Create(&created).Error; err != nil {
			return nil, err
		}
		return &created, nil
	}

	return &existing, nil
}

// Authenticate 校验用户名与密码，失败统一返回 ErrInvalidCredentials
func Authenticate(conn *gorm.DB, username, password string) (*User, error) {
	var user User
	if err := conn.Where("username = ?", strings.TrimSpace(username)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}
