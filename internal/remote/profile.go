package remote

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/moodlog/internal/db"
	"github.com/moodlog/internal/model"
	"github.com/moodlog/internal/scoring"
)

// GetProfile 返回用户资料，不存在时返回 ErrNotFound
func (s *DBStore) GetProfile(ctx context.Context, userID string) (model.Profile, error) {
	if err := requireUser(userID); err != nil {
		return model.Profile{}, err
	}
	var row db.Profile
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Profile{}, ErrNotFound
		}
		return model.Profile{}, fmt.Errorf("%w: load profile: %w", ErrUnavailable, err)
	}
	return profileRowToModel(row), nil
}

// SaveProfile 创建或覆盖用户资料。未提交时区时沿用已有值，首次创建则使用服务端默认时区。
func (s *DBStore) SaveProfile(ctx context.Context, userID string, in model.ProfileInput) (model.Profile, error) {
	if err := requireUser(userID); err != nil {
		return model.Profile{}, err
	}
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return model.Profile{}, err
	}

	var row db.Profile
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ?", userID).First(&row).Error
		exists := err == nil
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: load profile: %w", ErrUnavailable, err)
		}

		row.UserID = userID
		row.FullName = in.FullName
		row.Age = in.Age
		row.Gender = string(in.Gender)
		row.Occupation = in.Occupation
		if in.Timezone != "" {
			row.Timezone = in.Timezone
		} else if row.Timezone == "" {
			row.Timezone = s.calendar.Location().String()
		}

		now := s.now().UTC()
		row.UpdatedAt = now
		if !exists {
			row.CreatedAt = now
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("%w: create profile: %w", ErrUnavailable, err)
			}
			return nil
		}
		if err := tx.Save(&row).Error; err != nil {
			return fmt.Errorf("%w: save profile: %w", ErrUnavailable, err)
		}
		return nil
	})
	if err != nil {
		return model.Profile{}, err
	}
	return profileRowToModel(row), nil
}

// CalendarFor 返回用户资料时区下的日历；没有资料或时区无效时退回服务端默认日历。
func (s *DBStore) CalendarFor(ctx context.Context, userID string) scoring.Calendar {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrUnauthorized) {
			log.Printf("[profile] load timezone for %s failed: %v", userID, err)
		}
		return s.calendar
	}
	loc, err := profile.Location()
	if err != nil {
		log.Printf("[profile] user %s has unknown timezone %q: %v", userID, profile.Timezone, err)
		return s.calendar
	}
	if loc == nil {
		return s.calendar
	}
	return scoring.NewCalendar(loc)
}

func profileRowToModel(row db.Profile) model.Profile {
	return model.Profile{
		UserID:     row.UserID,
		FullName:   row.FullName,
		Age:        row.Age,
		Gender:     model.Gender(row.Gender),
		Occupation: row.Occupation,
		Timezone:   row.Timezone,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}
}
