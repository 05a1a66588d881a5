package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/moodlog/internal/db"
	"github.com/moodlog/internal/model"
	"github.com/moodlog/internal/scoring"
)

// DBStore 是服务端的权威存储，直接读写 sqlite。
type DBStore struct {
	db       *gorm.DB
	calendar scoring.Calendar
	now      func() time.Time
}

// NewDBStore 构造 DBStore
func NewDBStore(gdb *gorm.DB, calendar scoring.Calendar) *DBStore {
	return &DBStore{db: gdb, calendar: calendar, now: time.Now}
}

// SetClock 替换时间来源，主要面向测试场景。
func (s *DBStore) SetClock(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	s.now = now
}

// JournalQuery 描述日记列表的筛选与分页
type JournalQuery struct {
	Type   string
	Limit  int
	Offset int
}

func (s *DBStore) FetchCheckIns(ctx context.Context, userID string) ([]CheckInRecord, error) {
	return s.ListCheckIns(ctx, userID, "", "")
}

// ListCheckIns 按创建时间升序返回打卡，start/end 为可选的闭区间日期。
func (s *DBStore) ListCheckIns(ctx context.Context, userID, start, end string) ([]CheckInRecord, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	calendar := s.CalendarFor(ctx, userID)
	query := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if strings.TrimSpace(start) != "" {
		from, err := calendar.ParseDay(start)
		if err != nil {
			return nil, err
		}
		query = query.Where("created_at >= ?", from.UTC())
	}
	if strings.TrimSpace(end) != "" {
		to, err := calendar.ParseDay(end)
		if err != nil {
			return nil, err
		}
		query = query.Where("created_at < ?", to.AddDate(0, 0, 1).UTC())
	}

	var rows []db.CheckIn
	if err := query.Order("created_at asc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: list check-ins: %w", ErrUnavailable, err)
	}

	records := make([]CheckInRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, checkInRowToRecord(row))
	}
	return records, nil
}

func (s *DBStore) CreateCheckIn(ctx context.Context, userID string, in model.CheckInInput) (CheckInRecord, error) {
	if err := requireUser(userID); err != nil {
		return CheckInRecord{}, err
	}
	slot, err := model.ParseSlot(string(in.Slot))
	if err != nil {
		return CheckInRecord{}, err
	}
	in.Slot = slot
	if err := in.Validate(); err != nil {
		return CheckInRecord{}, err
	}

	row := db.CheckIn{
		ID:        uuid.NewString(),
		UserID:    userID,
		Slot:      string(in.Slot),
		Mood:      in.Mood,
		Stress:    in.Stress,
		Energy:    in.Energy,
		Note:      optional(strings.TrimSpace(in.Note)),
		CreatedAt: s.now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return CheckInRecord{}, fmt.Errorf("%w: create check-in: %w", ErrUnavailable, err)
	}
	return checkInRowToRecord(row), nil
}

func (s *DBStore) FetchJournalEntries(ctx context.Context, userID string) ([]JournalRecord, error) {
	return s.ListJournalEntries(ctx, userID, JournalQuery{})
}

// ListJournalEntries 按时间倒序返回日记，Type 为空或 all 时不过滤。
func (s *DBStore) ListJournalEntries(ctx context.Context, userID string, q JournalQuery) ([]JournalRecord, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	query := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if typ := strings.TrimSpace(q.Type); typ != "" && !strings.EqualFold(typ, "all") {
		parsed, err := model.ParseJournalType(typ)
		if err != nil {
			return nil, err
		}
		query = query.Where("type = ?", string(parsed))
	}
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}
	if q.Offset > 0 {
		query = query.Offset(q.Offset)
	}

	var rows []db.JournalEntry
	if err := query.Order("created_at desc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: list journal entries: %w", ErrUnavailable, err)
	}

	records := make([]JournalRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, journalRowToRecord(row))
	}
	return records, nil
}

// CountJournalEntries 按类型统计日记数量，未出现的类型计 0。
func (s *DBStore) CountJournalEntries(ctx context.Context, userID string) (map[model.JournalType]int, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	var rows []struct {
		Type  string
		Count int
	}
	if err := s.db.WithContext(ctx).Model(&db.JournalEntry{}).
		Select("type, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group("type").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: count journal entries: %w", ErrUnavailable, err)
	}

	counts := make(map[model.JournalType]int, len(model.JournalTypes))
	for _, t := range model.JournalTypes {
		counts[t] = 0
	}
	for _, row := range rows {
		counts[model.JournalType(row.Type)] = row.Count
	}
	return counts, nil
}

func (s *DBStore) CreateJournalEntry(ctx context.Context, userID string, in model.JournalInput) (JournalRecord, error) {
	if err := requireUser(userID); err != nil {
		return JournalRecord{}, err
	}
	entryType, err := model.ParseJournalType(string(in.Type))
	if err != nil {
		return JournalRecord{}, err
	}
	if err := in.Validate(); err != nil {
		return JournalRecord{}, err
	}

	tags, err := encodeJSON(normalizeTags(in.Tags))
	if err != nil {
		return JournalRecord{}, err
	}
	meta, err := encodeMeta(in.Meta)
	if err != nil {
		return JournalRecord{}, err
	}

	now := s.now()
	row := db.JournalEntry{
		ID:        uuid.NewString(),
		UserID:    userID,
		Type:      string(entryType),
		Title:     strings.TrimSpace(in.Title),
		Content:   in.Content,
		Mood:      in.Mood,
		Tags:      tags,
		AudioURI:  optional(strings.TrimSpace(in.AudioURI)),
		Meta:      meta,
		Date:      s.CalendarFor(ctx, userID).DayKey(now),
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return JournalRecord{}, fmt.Errorf("%w: create journal entry: %w", ErrUnavailable, err)
	}
	return journalRowToRecord(row), nil
}

// UpdateJournalEntry 仅允许在创建后 24 小时内修改
func (s *DBStore) UpdateJournalEntry(ctx context.Context, userID, id string, patch model.JournalPatch) (JournalRecord, error) {
	if err := requireUser(userID); err != nil {
		return JournalRecord{}, err
	}
	if err := patch.Validate(); err != nil {
		return JournalRecord{}, err
	}

	var row db.JournalEntry
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("%w: load journal entry: %w", ErrUnavailable, err)
		}

		now := s.now()
		if now.Sub(row.CreatedAt) >= model.JournalEditWindow {
			return ErrLocked
		}

		if patch.Title != nil {
			row.Title = strings.TrimSpace(*patch.Title)
		}
		if patch.Content != nil {
			row.Content = *patch.Content
		}
		if patch.Mood != nil {
			row.Mood = *patch.Mood
		}
		if patch.Tags != nil {
			tags, err := encodeJSON(normalizeTags(*patch.Tags))
			if err != nil {
				return err
			}
			row.Tags = tags
		}
		if patch.Meta != nil {
			meta, err := encodeMeta(patch.Meta)
			if err != nil {
				return err
			}
			row.Meta = meta
		}
		row.UpdatedAt = now.UTC()

		if err := tx.Save(&row).Error; err != nil {
			return fmt.Errorf("%w: save journal entry: %w", ErrUnavailable, err)
		}
		return nil
	})
	if err != nil {
		return JournalRecord{}, err
	}
	return journalRowToRecord(row), nil
}

func (s *DBStore) DeleteJournalEntry(ctx context.Context, userID, id string) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	result := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&db.JournalEntry{})
	if result.Error != nil {
		return fmt.Errorf("%w: delete journal entry: %w", ErrUnavailable, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteUserData 清空用户的打卡、日记与练习记录，资料保留
func (s *DBStore) DeleteUserData(ctx context.Context, userID string) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&db.CheckIn{}).Error; err != nil {
			return fmt.Errorf("%w: delete check-ins: %w", ErrUnavailable, err)
		}
		if err := tx.Where("user_id = ?", userID).Delete(&db.JournalEntry{}).Error; err != nil {
			return fmt.Errorf("%w: delete journal entries: %w", ErrUnavailable, err)
		}
		if err := tx.Where("user_id = ?", userID).Delete(&db.ActivitySession{}).Error; err != nil {
			return fmt.Errorf("%w: delete activity sessions: %w", ErrUnavailable, err)
		}
		return nil
	})
}

func checkInRowToRecord(row db.CheckIn) CheckInRecord {
	userID := row.UserID
	return CheckInRecord{
		ID:        row.ID,
		UserID:    &userID,
		Slot:      row.Slot,
		Mood:      row.Mood,
		Stress:    row.Stress,
		Energy:    row.Energy,
		Note:      row.Note,
		CreatedAt: formatTimestamp(row.CreatedAt),
	}
}

func journalRowToRecord(row db.JournalEntry) JournalRecord {
	userID := row.UserID
	record := JournalRecord{
		ID:        row.ID,
		UserID:    &userID,
		Type:      row.Type,
		Title:     row.Title,
		Content:   row.Content,
		Mood:      row.Mood,
		Tags:      []string{},
		AudioURI:  row.AudioURI,
		Date:      row.Date,
		CreatedAt: formatTimestamp(row.CreatedAt),
	}
	if len(row.Tags) > 0 {
		var tags []string
		if err := json.Unmarshal(row.Tags, &tags); err != nil {
			log.Printf("[sync] journal entry %s has unreadable tags: %v", row.ID, err)
		} else if tags != nil {
			record.Tags = tags
		}
	}
	if len(row.Meta) > 0 && string(row.Meta) != "null" {
		var meta model.JournalMeta
		if err := json.Unmarshal(row.Meta, &meta); err != nil {
			log.Printf("[sync] journal entry %s has unreadable meta: %v", row.ID, err)
		} else {
			record.Meta = &meta
		}
	}
	return record
}

func normalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	normalized := make([]string, 0, len(tags))
	for _, tag := range tags {
		trimmed := strings.TrimSpace(tag)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		normalized = append(normalized, trimmed)
	}
	return normalized
}

func encodeMeta(meta *model.JournalMeta) (datatypes.JSON, error) {
	if meta == nil {
		return nil, nil
	}
	return encodeJSON(meta)
}

func encodeJSON(v any) (datatypes.JSON, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode json column: %w", err)
	}
	return datatypes.JSON(raw), nil
}
