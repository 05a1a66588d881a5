package model

import (
	"fmt"
	"time"
)

// ScoringWeights 控制三个维度在单次打卡得分中的占比
type ScoringWeights struct {
	MoodWeight   float64 `json:"moodWeight"`
	EnergyWeight float64 `json:"energyWeight"`
	StressWeight float64 `json:"stressWeight"`
}

// EmptyDayPolicy 决定无记录的日期如何计入区间平均
type EmptyDayPolicy string

const (
	EmptyDayIncludeAsZero      EmptyDayPolicy = "includeAsZero"
	EmptyDayExcludeFromAverage EmptyDayPolicy = "excludeFromAverage"
)

// ScoringSettings 汇总评分相关的用户配置
type ScoringSettings struct {
	Weights                 ScoringWeights `json:"weights"`
	UseCompletionMultiplier bool           `json:"useCompletionMultiplier"`
	ExcludeEmptyDays        bool           `json:"excludeEmptyDays"`
}

// EmptyDayPolicy 将布尔开关映射为空白日策略
func (s ScoringSettings) EmptyDayPolicy() EmptyDayPolicy {
	if s.ExcludeEmptyDays {
		return EmptyDayExcludeFromAverage
	}
	return EmptyDayIncludeAsZero
}

// Thresholds 是"艰难日"判定与提示触发的阈值
type Thresholds struct {
	MoodLowCutoff      float64 `json:"moodLowCutoff"`
	StressHighCutoff   float64 `json:"stressHighCutoff"`
	EnergyLowCutoff    float64 `json:"energyLowCutoff"`
	MinSlotsPerDay     int     `json:"minSlotsPerDay"`
	StreakDaysRequired int     `json:"streakDaysRequired"`
}

// Validate 拒绝负数的计数阈值
func (t Thresholds) Validate() error {
	if t.MinSlotsPerDay < 0 {
		return fmt.Errorf("%w: minSlotsPerDay must not be negative", ErrInvalidValue)
	}
	if t.StreakDaysRequired < 1 {
		return fmt.Errorf("%w: streakDaysRequired must be at least 1", ErrInvalidValue)
	}
	return nil
}

// UserSettings 每个用户一份，以 JSON 形式保存在键值存储中
type UserSettings struct {
	ID                       string          `json:"id"`
	UserID                   string          `json:"userId,omitempty"`
	NotifMorning             string          `json:"notifMorning,omitempty"`
	NotifAfternoon           string          `json:"notifAfternoon,omitempty"`
	NotifEvening             string          `json:"notifEvening,omitempty"`
	NotifNight               string          `json:"notifNight,omitempty"`
	Thresholds               Thresholds      `json:"thresholds"`
	Scoring                  ScoringSettings `json:"scoring"`
	LastHeavyCardShownAt     *time.Time      `json:"lastHeavyCardShownAt,omitempty"`
	LastHeavyCardDismissedAt *time.Time      `json:"lastHeavyCardDismissedAt,omitempty"`
}

// Validate 校验权重非负且阈值合法
func (s UserSettings) Validate() error {
	w := s.Scoring.Weights
	if w.MoodWeight < 0 || w.EnergyWeight < 0 || w.StressWeight < 0 {
		return fmt.Errorf("%w: scoring weights must not be negative", ErrInvalidValue)
	}
	return s.Thresholds.Validate()
}

// DefaultScoringWeights 返回文档约定的默认权重 0.50/0.30/0.20
func DefaultScoringWeights() ScoringWeights {
	return ScoringWeights{MoodWeight: 0.50, EnergyWeight: 0.30, StressWeight: 0.20}
}

// DefaultScoringSettings 默认启用完成度乘数，空白日按 0 分计入
func DefaultScoringSettings() ScoringSettings {
	return ScoringSettings{
		Weights:                 DefaultScoringWeights(),
		UseCompletionMultiplier: true,
		ExcludeEmptyDays:        false,
	}
}

// DefaultThresholds 返回默认的艰难日阈值
func DefaultThresholds() Thresholds {
	return Thresholds{
		MoodLowCutoff:      2.5,
		StressHighCutoff:   3.5,
		EnergyLowCutoff:    2.5,
		MinSlotsPerDay:     2,
		StreakDaysRequired: 3,
	}
}

// DefaultUserSettings 构造首次使用时的默认设置
func DefaultUserSettings(id, userID string) UserSettings {
	return UserSettings{
		ID:             id,
		UserID:         userID,
		NotifMorning:   "07:30",
		NotifAfternoon: "12:30",
		NotifEvening:   "18:30",
		NotifNight:     "21:30",
		Thresholds:     DefaultThresholds(),
		Scoring:        DefaultScoringSettings(),
	}
}
