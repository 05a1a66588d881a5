package model

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Gender 取值与客户端下拉框一致
type Gender string

const (
	GenderMale           Gender = "Male"
	GenderFemale         Gender = "Female"
	GenderOther          Gender = "Other"
	GenderPreferNotToSay Gender = "Prefer not to say"
)

var genders = []Gender{GenderMale, GenderFemale, GenderOther, GenderPreferNotToSay}

const (
	MinProfileAge = 13
	MaxProfileAge = 120
)

// Profile 是用户的基本资料，Timezone 决定该用户"哪天"的边界
type Profile struct {
	UserID     string    `json:"userId"`
	FullName   string    `json:"fullName"`
	Age        int       `json:"age"`
	Gender     Gender    `json:"gender"`
	Occupation string    `json:"occupation,omitempty"`
	Timezone   string    `json:"timezone"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Location 解析资料中的时区，未设置时返回 nil
func (p Profile) Location() (*time.Location, error) {
	if strings.TrimSpace(p.Timezone) == "" {
		return nil, nil
	}
	return time.LoadLocation(p.Timezone)
}

// ProfileInput 定义创建或修改资料时提交的字段
type ProfileInput struct {
	FullName   string `json:"fullName"`
	Age        int    `json:"age"`
	Gender     Gender `json:"gender,omitempty"`
	Occupation string `json:"occupation,omitempty"`
	Timezone   string `json:"timezone,omitempty"`
}

// Normalize 去除首尾空白并为未填写的性别补默认值
func (in ProfileInput) Normalize() ProfileInput {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Occupation = strings.TrimSpace(in.Occupation)
	in.Timezone = strings.TrimSpace(in.Timezone)
	in.Gender = Gender(strings.TrimSpace(string(in.Gender)))
	if in.Gender == "" {
		in.Gender = GenderPreferNotToSay
	}
	return in
}

// Validate 校验姓名长度、年龄范围、性别和时区
func (in ProfileInput) Validate() error {
	in = in.Normalize()
	if n := utf8.RuneCountInString(in.FullName); n < 2 || n > 100 {
		return fmt.Errorf("%w: fullName must be 2-100 characters", ErrInvalidValue)
	}
	if in.Age < MinProfileAge || in.Age > MaxProfileAge {
		return fmt.Errorf("%w: age must be between %d and %d, got %d", ErrInvalidValue, MinProfileAge, MaxProfileAge, in.Age)
	}
	known := false
	for _, g := range genders {
		if in.Gender == g {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("%w: unsupported gender %q", ErrInvalidValue, in.Gender)
	}
	if utf8.RuneCountInString(in.Occupation) > 100 {
		return fmt.Errorf("%w: occupation must be at most 100 characters", ErrInvalidValue)
	}
	if in.Timezone != "" {
		if _, err := time.LoadLocation(in.Timezone); err != nil {
			return fmt.Errorf("%w: unknown timezone %q", ErrInvalidValue, in.Timezone)
		}
	}
	return nil
}
