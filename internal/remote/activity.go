package remote

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/moodlog/internal/db"
	"github.com/moodlog/internal/model"
)

// ActivityRecord is the wire shape of an activity session.
type ActivityRecord struct {
	ID         string  `json:"id"`
	UserID     *string `json:"user_id"`
	Type       string  `json:"type"`
	Duration   int     `json:"duration"`
	Completed  bool    `json:"completed"`
	PostMood   *int    `json:"post_mood"`
	PostStress *int    `json:"post_stress"`
	Date       string  `json:"date"`
	CreatedAt  string  `json:"created_at"`
}

// ToModel converts and validates a wire record.
func (r ActivityRecord) ToModel() (model.ActivitySession, error) {
	createdAt, err := parseTimestamp(r.CreatedAt)
	if err != nil {
		return model.ActivitySession{}, fmt.Errorf("activity session %s: %w", r.ID, err)
	}
	activityType, err := model.ParseActivityType(r.Type)
	if err != nil {
		return model.ActivitySession{}, err
	}

	session := model.ActivitySession{
		ID:         r.ID,
		UserID:     deref(r.UserID),
		Type:       activityType,
		Duration:   r.Duration,
		Completed:  r.Completed,
		PostMood:   r.PostMood,
		PostStress: r.PostStress,
		Timestamp:  createdAt,
		Date:       r.Date,
	}
	if err := session.Validate(); err != nil {
		return model.ActivitySession{}, err
	}
	return session, nil
}

// NewActivityRecord is the inverse of ActivityRecord.ToModel.
func NewActivityRecord(a model.ActivitySession) ActivityRecord {
	return ActivityRecord{
		ID:         a.ID,
		UserID:     optional(a.UserID),
		Type:       string(a.Type),
		Duration:   a.Duration,
		Completed:  a.Completed,
		PostMood:   a.PostMood,
		PostStress: a.PostStress,
		Date:       a.Date,
		CreatedAt:  formatTimestamp(a.Timestamp),
	}
}

// FetchActivitySessions 按创建时间升序返回练习记录
func (s *DBStore) FetchActivitySessions(ctx context.Context, userID string) ([]ActivityRecord, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	var rows []db.ActivitySession
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at asc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: list activity sessions: %w", ErrUnavailable, err)
	}

	records := make([]ActivityRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, activityRowToRecord(row))
	}
	return records, nil
}

func (s *DBStore) CreateActivitySession(ctx context.Context, userID string, in model.ActivityInput) (ActivityRecord, error) {
	if err := requireUser(userID); err != nil {
		return ActivityRecord{}, err
	}
	activityType, err := model.ParseActivityType(string(in.Type))
	if err != nil {
		return ActivityRecord{}, err
	}
	in.Type = activityType
	if err := in.Validate(); err != nil {
		return ActivityRecord{}, err
	}

	now := s.now()
	row := db.ActivitySession{
		ID:         uuid.NewString(),
		UserID:     userID,
		Type:       string(in.Type),
		Duration:   in.Duration,
		Completed:  in.Completed,
		PostMood:   in.PostMood,
		PostStress: in.PostStress,
		Date:       s.CalendarFor(ctx, userID).DayKey(now),
		CreatedAt:  now.UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return ActivityRecord{}, fmt.Errorf("%w: create activity session: %w", ErrUnavailable, err)
	}
	return activityRowToRecord(row), nil
}

func activityRowToRecord(row db.ActivitySession) ActivityRecord {
	userID := row.UserID
	return ActivityRecord{
		ID:         row.ID,
		UserID:     &userID,
		Type:       row.Type,
		Duration:   row.Duration,
		Completed:  row.Completed,
		PostMood:   row.PostMood,
		PostStress: row.PostStress,
		Date:       row.Date,
		CreatedAt:  formatTimestamp(row.CreatedAt),
	}
}

func (c *HTTPClient) FetchActivitySessions(ctx context.Context, userID string) ([]ActivityRecord, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	var resp struct {
		Sessions []ActivityRecord `json:"sessions"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/activities", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Sessions, nil
}

func (c *HTTPClient) CreateActivitySession(ctx context.Context, userID string, in model.ActivityInput) (ActivityRecord, error) {
	if err := requireUser(userID); err != nil {
		return ActivityRecord{}, err
	}
	var resp struct {
		Session ActivityRecord `json:"session"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/activities", in, &resp); err != nil {
		return ActivityRecord{}, err
	}
	return resp.Session, nil
}
