package model

import (
	"fmt"
	"strings"
	"time"
)

// ActivityType 表示练习类型
type ActivityType string

const (
	ActivityBreathing  ActivityType = "breathing"
	ActivityMeditation ActivityType = "meditation"
	ActivityExercise   ActivityType = "exercise"
)

// ActivityTypes 列出全部练习类型
var ActivityTypes = []ActivityType{ActivityBreathing, ActivityMeditation, ActivityExercise}

// ParseActivityType 校验并返回练习类型
func ParseActivityType(raw string) (ActivityType, error) {
	candidate := ActivityType(strings.ToLower(strings.TrimSpace(raw)))
	for _, t := range ActivityTypes {
		if candidate == t {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: unsupported activity type %q", ErrInvalidValue, raw)
}

// ActivitySession 是一次呼吸/冥想/运动练习，Duration 以秒计。
// 提前结束的练习 Completed 为 false，此时通常没有练习后的自评。
type ActivitySession struct {
	ID         string       `json:"id"`
	UserID     string       `json:"userId,omitempty"`
	Type       ActivityType `json:"type"`
	Duration   int          `json:"duration"`
	Completed  bool         `json:"completed"`
	PostMood   *int         `json:"postMood,omitempty"`
	PostStress *int         `json:"postStress,omitempty"`
	Timestamp  time.Time    `json:"timestamp"`
	Date       string       `json:"date"`
}

// ActivityInput 定义新建练习记录的字段
type ActivityInput struct {
	Type       ActivityType `json:"type"`
	Duration   int          `json:"duration"`
	Completed  bool         `json:"completed"`
	PostMood   *int         `json:"postMood,omitempty"`
	PostStress *int         `json:"postStress,omitempty"`
}

// Validate 校验类型、时长以及可选的练习后自评
func (in ActivityInput) Validate() error {
	if _, err := ParseActivityType(string(in.Type)); err != nil {
		return err
	}
	if in.Duration < 0 {
		return fmt.Errorf("%w: duration must not be negative", ErrInvalidValue)
	}
	if in.PostMood != nil {
		if err := ValidateAxis("postMood", *in.PostMood); err != nil {
			return err
		}
	}
	if in.PostStress != nil {
		if err := ValidateAxis("postStress", *in.PostStress); err != nil {
			return err
		}
	}
	return nil
}

// Validate 拒绝来自缓存或远端的脏数据
func (a ActivitySession) Validate() error {
	if strings.TrimSpace(a.ID) == "" {
		return fmt.Errorf("%w: activity session id is required", ErrInvalidValue)
	}
	if a.Timestamp.IsZero() {
		return fmt.Errorf("%w: activity session %s has no timestamp", ErrInvalidValue, a.ID)
	}
	return ActivityInput{Type: a.Type, Duration: a.Duration, PostMood: a.PostMood, PostStress: a.PostStress}.Validate()
}
