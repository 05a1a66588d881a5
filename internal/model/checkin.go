package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidValue 在记录字段超出允许范围时返回，调用方需在进入评分流程前拦截。
var ErrInvalidValue = errors.New("invalid value")

const (
	// MinAxisValue / MaxAxisValue 限定 mood/stress/energy 的闭区间。
	MinAxisValue = 1
	MaxAxisValue = 5
)

// Slot 表示一天中的打卡时段
type Slot string

const (
	SlotMorning   Slot = "morning"
	SlotAfternoon Slot = "afternoon"
	SlotEvening   Slot = "evening"
	SlotNight     Slot = "night"
)

// Slots 按一天内的先后顺序列出全部时段
var Slots = []Slot{SlotMorning, SlotAfternoon, SlotEvening, SlotNight}

// SlotsPerDay 是完成度乘数的分母
const SlotsPerDay = 4

// ParseSlot 校验并返回时段
func ParseSlot(raw string) (Slot, error) {
	candidate := Slot(strings.ToLower(strings.TrimSpace(raw)))
	for _, slot := range Slots {
		if candidate == slot {
			return slot, nil
		}
	}
	return "", fmt.Errorf("%w: unsupported slot %q", ErrInvalidValue, raw)
}

// CheckIn 是一次时段打卡，创建后不可修改
type CheckIn struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId,omitempty"`
	Slot      Slot      `json:"slot"`
	Mood      int       `json:"mood"`
	Stress    int       `json:"stress"`
	Energy    int       `json:"energy"`
	Note      string    `json:"note,omitempty"`
	Timestamp time.Time `json:"timestampISO"`
}

// CheckInInput 定义新建打卡时可提交的字段
type CheckInInput struct {
	Slot   Slot   `json:"slot"`
	Mood   int    `json:"mood"`
	Stress int    `json:"stress"`
	Energy int    `json:"energy"`
	Note   string `json:"note,omitempty"`
}

// Validate 校验时段与三个维度的取值
func (in CheckInInput) Validate() error {
	if _, err := ParseSlot(string(in.Slot)); err != nil {
		return err
	}
	if err := ValidateAxis("mood", in.Mood); err != nil {
		return err
	}
	if err := ValidateAxis("stress", in.Stress); err != nil {
		return err
	}
	return ValidateAxis("energy", in.Energy)
}

// Validate 校验已存在的打卡记录，用于拒绝来自缓存或远端的脏数据
func (c CheckIn) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return fmt.Errorf("%w: check-in id is required", ErrInvalidValue)
	}
	if c.Timestamp.IsZero() {
		return fmt.Errorf("%w: check-in %s has no timestamp", ErrInvalidValue, c.ID)
	}
	return CheckInInput{Slot: c.Slot, Mood: c.Mood, Stress: c.Stress, Energy: c.Energy}.Validate()
}

// ValidateAxis 确认单个维度落在 1..5 区间内
func ValidateAxis(name string, value int) error {
	if value < MinAxisValue || value > MaxAxisValue {
		return fmt.Errorf("%w: %s must be between %d and %d, got %d", ErrInvalidValue, name, MinAxisValue, MaxAxisValue, value)
	}
	return nil
}
