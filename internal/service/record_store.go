package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/moodlog/internal/cache"
	"github.com/moodlog/internal/metrics"
	"github.com/moodlog/internal/model"
	"github.com/moodlog/internal/remote"
	"github.com/moodlog/internal/scoring"
)

// StoreStatus 是记录集合的加载状态
type StoreStatus string

const (
	StatusUninitialized StoreStatus = "uninitialized"
	StatusLoading       StoreStatus = "loading"
	StatusReady         StoreStatus = "ready"
)

// StoreState 是某一时刻的状态快照，修改它不会影响 RecordStore
type StoreState struct {
	Status         StoreStatus             `json:"status"`
	CheckIns       []model.CheckIn         `json:"checkIns"`
	JournalEntries []model.JournalEntry    `json:"journalEntries"`
	Activities     []model.ActivitySession `json:"activitySessions"`
	Settings       model.UserSettings      `json:"settings"`
	Synced         bool                    `json:"synced"`
	LastSyncedAt   *time.Time              `json:"lastSyncedAt,omitempty"`
}

// Listener 在状态变化后收到新的快照
type Listener func(StoreState)

// StoreOption 配置 RecordStore
type StoreOption func(*RecordStore)

// WithClock 替换时间来源，主要面向测试场景。
func WithClock(now func() time.Time) StoreOption {
	return func(s *RecordStore) {
		if now != nil {
			s.now = now
		}
	}
}

// WithCalendar 设置“今天”与按日聚合所用的时区
func WithCalendar(cal scoring.Calendar) StoreOption {
	return func(s *RecordStore) { s.calendar = cal }
}

// WithMetrics 启用同步与写入计数
func WithMetrics(m *metrics.Metrics) StoreOption {
	return func(s *RecordStore) { s.metrics = m }
}

// RecordStore 持有单个用户会话的打卡、日记与设置。
// 读取遵循“先缓存、后远端覆盖”，写入遵循“远端确认后再落本地”。
type RecordStore struct {
	userID   string
	remote   remote.Store
	cache    cache.Cache
	settings *SettingsService
	calendar scoring.Calendar
	now      func() time.Time
	metrics  *metrics.Metrics

	mu        sync.RWMutex
	state     StoreState
	listeners map[int]Listener
	nextID    int
}

// NewRecordStore 构造一个未初始化的 RecordStore，调用 Load 后才有数据。
func NewRecordStore(userID string, rs remote.Store, c cache.Cache, opts ...StoreOption) *RecordStore {
	s := &RecordStore{
		userID:    strings.TrimSpace(userID),
		remote:    rs,
		cache:     c,
		settings:  NewSettingsService(c),
		calendar:  scoring.NewCalendar(nil),
		now:       time.Now,
		listeners: make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.state = StoreState{
		Status:         StatusUninitialized,
		CheckIns:       []model.CheckIn{},
		JournalEntries: []model.JournalEntry{},
		Activities:     []model.ActivitySession{},
		Settings:       model.DefaultUserSettings("", s.userID),
	}
	return s
}

// UserID 返回会话所属用户
func (s *RecordStore) UserID() string {
	return s.userID
}

// Load 先用本地缓存填充状态（临时 ready），再向远端拉取；远端成功则整体覆盖并回写缓存。
// 远端不可用只记录日志并保留缓存数据；未登录直接返回错误。
func (s *RecordStore) Load(ctx context.Context) error {
	if s.userID == "" {
		return fmt.Errorf("load records: %w", remote.ErrUnauthorized)
	}

	s.update(func(st *StoreState) { st.Status = StatusLoading })

	settings := s.settings.Load(ctx, s.userID)
	cachedCheckIns := s.readCachedCheckIns(ctx)
	cachedEntries := s.readCachedJournal(ctx)
	cachedActivities := s.readCachedActivities(ctx)
	s.update(func(st *StoreState) {
		st.Status = StatusReady
		st.Settings = settings
		st.CheckIns = cachedCheckIns
		st.JournalEntries = cachedEntries
		st.Activities = cachedActivities
		st.Synced = false
	})

	checkInsOK, err := s.syncCheckIns(ctx)
	if err != nil {
		return err
	}
	journalOK, err := s.syncJournal(ctx)
	if err != nil {
		return err
	}
	activitiesOK, err := s.syncActivities(ctx)
	if err != nil {
		return err
	}

	if checkInsOK && journalOK && activitiesOK {
		now := s.now()
		s.update(func(st *StoreState) {
			st.Synced = true
			st.LastSyncedAt = &now
		})
	}
	return nil
}

func (s *RecordStore) syncCheckIns(ctx context.Context) (bool, error) {
	records, err := s.remote.FetchCheckIns(ctx, s.userID)
	if err != nil {
		if errors.Is(err, remote.ErrUnauthorized) {
			return false, fmt.Errorf("load check-ins: %w", err)
		}
		log.Printf("[sync] fetch check-ins for %s failed, keeping cached data: %v", s.userID, err)
		s.metrics.SyncFailed("checkIns", err)
		return false, nil
	}

	checkIns := make([]model.CheckIn, 0, len(records))
	for _, record := range records {
		converted, err := record.ToModel()
		if err != nil {
			log.Printf("[sync] dropping invalid check-in %s: %v", record.ID, err)
			continue
		}
		checkIns = append(checkIns, converted)
	}
	sortCheckIns(checkIns)

	snapshot := s.update(func(st *StoreState) { st.CheckIns = checkIns })
	s.writeCache(ctx, cache.CheckInsKey(s.userID), snapshot.CheckIns)
	return true, nil
}

func (s *RecordStore) syncJournal(ctx context.Context) (bool, error) {
	records, err := s.remote.FetchJournalEntries(ctx, s.userID)
	if err != nil {
		if errors.Is(err, remote.ErrUnauthorized) {
			return false, fmt.Errorf("load journal entries: %w", err)
		}
		log.Printf("[sync] fetch journal entries for %s failed, keeping cached data: %v", s.userID, err)
		s.metrics.SyncFailed("journalEntries", err)
		return false, nil
	}

	entries := make([]model.JournalEntry, 0, len(records))
	for _, record := range records {
		converted, err := record.ToModel()
		if err != nil {
			log.Printf("[sync] dropping invalid journal entry %s: %v", record.ID, err)
			continue
		}
		entries = append(entries, converted)
	}
	sortJournal(entries)

	snapshot := s.update(func(st *StoreState) { st.JournalEntries = entries })
	s.writeCache(ctx, cache.JournalEntriesKey(s.userID), snapshot.JournalEntries)
	return true, nil
}

func (s *RecordStore) syncActivities(ctx context.Context) (bool, error) {
	records, err := s.remote.FetchActivitySessions(ctx, s.userID)
	if err != nil {
		if errors.Is(err, remote.ErrUnauthorized) {
			return false, fmt.Errorf("load activity sessions: %w", err)
		}
		log.Printf("[sync] fetch activity sessions for %s failed, keeping cached data: %v", s.userID, err)
		s.metrics.SyncFailed("activitySessions", err)
		return false, nil
	}

	sessions := make([]model.ActivitySession, 0, len(records))
	for _, record := range records {
		converted, err := record.ToModel()
		if err != nil {
			log.Printf("[sync] dropping invalid activity session %s: %v", record.ID, err)
			continue
		}
		sessions = append(sessions, converted)
	}
	sortActivities(sessions)

	snapshot := s.update(func(st *StoreState) { st.Activities = sessions })
	s.writeCache(ctx, cache.ActivitySessionsKey(s.userID), snapshot.Activities)
	return true, nil
}

// AddCheckIn 先写远端，成功后才并入本地集合并回写缓存；失败时本地状态不变。
func (s *RecordStore) AddCheckIn(ctx context.Context, in model.CheckInInput) (model.CheckIn, error) {
	slot, err := model.ParseSlot(string(in.Slot))
	if err != nil {
		return model.CheckIn{}, err
	}
	in.Slot = slot
	if err := in.Validate(); err != nil {
		return model.CheckIn{}, err
	}
	if s.userID == "" {
		return model.CheckIn{}, fmt.Errorf("add check-in: %w", remote.ErrUnauthorized)
	}

	record, err := s.remote.CreateCheckIn(ctx, s.userID, in)
	s.metrics.WriteCompleted("checkIn", err)
	if err != nil {
		return model.CheckIn{}, fmt.Errorf("add check-in: %w", err)
	}
	created, err := record.ToModel()
	if err != nil {
		return model.CheckIn{}, fmt.Errorf("add check-in: %w", err)
	}

	snapshot := s.update(func(st *StoreState) {
		st.CheckIns = append(st.CheckIns, created)
		sortCheckIns(st.CheckIns)
	})
	s.writeCache(ctx, cache.CheckInsKey(s.userID), snapshot.CheckIns)
	return created, nil
}

// AddJournalEntry 与 AddCheckIn 相同，远端确认后再落本地。
func (s *RecordStore) AddJournalEntry(ctx context.Context, in model.JournalInput) (model.JournalEntry, error) {
	entryType, err := model.ParseJournalType(string(in.Type))
	if err != nil {
		return model.JournalEntry{}, err
	}
	in.Type = entryType
	if err := in.Validate(); err != nil {
		return model.JournalEntry{}, err
	}
	if s.userID == "" {
		return model.JournalEntry{}, fmt.Errorf("add journal entry: %w", remote.ErrUnauthorized)
	}

	record, err := s.remote.CreateJournalEntry(ctx, s.userID, in)
	s.metrics.WriteCompleted("journalEntry", err)
	if err != nil {
		return model.JournalEntry{}, fmt.Errorf("add journal entry: %w", err)
	}
	created, err := record.ToModel()
	if err != nil {
		return model.JournalEntry{}, fmt.Errorf("add journal entry: %w", err)
	}

	snapshot := s.update(func(st *StoreState) {
		st.JournalEntries = append(st.JournalEntries, created)
		sortJournal(st.JournalEntries)
	})
	s.writeCache(ctx, cache.JournalEntriesKey(s.userID), snapshot.JournalEntries)
	return created, nil
}

// AddActivitySession 记录一次练习，同样在远端确认后落本地。
func (s *RecordStore) AddActivitySession(ctx context.Context, in model.ActivityInput) (model.ActivitySession, error) {
	activityType, err := model.ParseActivityType(string(in.Type))
	if err != nil {
		return model.ActivitySession{}, err
	}
	in.Type = activityType
	if err := in.Validate(); err != nil {
		return model.ActivitySession{}, err
	}
	if s.userID == "" {
		return model.ActivitySession{}, fmt.Errorf("add activity session: %w", remote.ErrUnauthorized)
	}

	record, err := s.remote.CreateActivitySession(ctx, s.userID, in)
	s.metrics.WriteCompleted("activitySession", err)
	if err != nil {
		return model.ActivitySession{}, fmt.Errorf("add activity session: %w", err)
	}
	created, err := record.ToModel()
	if err != nil {
		return model.ActivitySession{}, fmt.Errorf("add activity session: %w", err)
	}

	snapshot := s.update(func(st *StoreState) {
		st.Activities = append(st.Activities, created)
		sortActivities(st.Activities)
	})
	s.writeCache(ctx, cache.ActivitySessionsKey(s.userID), snapshot.Activities)
	return created, nil
}

// ActivitySessions 按类型筛选练习记录，raw 为空或 all 时返回全部，时间升序
func (s *RecordStore) ActivitySessions(raw string) ([]model.ActivitySession, error) {
	var filter model.ActivityType
	if raw = strings.TrimSpace(raw); raw != "" && !strings.EqualFold(raw, "all") {
		parsed, err := model.ParseActivityType(raw)
		if err != nil {
			return nil, err
		}
		filter = parsed
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	matched := make([]model.ActivitySession, 0, len(s.state.Activities))
	for _, session := range s.state.Activities {
		if filter == "" || session.Type == filter {
			matched = append(matched, cloneActivity(session))
		}
	}
	return matched, nil
}

// UpdateJournalEntry 仅允许修改 24 小时内的日记，远端确认后替换本地副本。
func (s *RecordStore) UpdateJournalEntry(ctx context.Context, id string, patch model.JournalPatch) (model.JournalEntry, error) {
	if err := patch.Validate(); err != nil {
		return model.JournalEntry{}, err
	}
	if s.userID == "" {
		return model.JournalEntry{}, fmt.Errorf("update journal entry: %w", remote.ErrUnauthorized)
	}
	if existing, ok := s.JournalEntry(id); ok && !existing.CanEdit(s.now()) {
		return model.JournalEntry{}, fmt.Errorf("update journal entry %s: %w", id, remote.ErrLocked)
	}

	record, err := s.remote.UpdateJournalEntry(ctx, s.userID, id, patch)
	s.metrics.WriteCompleted("journalEntry", err)
	if err != nil {
		return model.JournalEntry{}, fmt.Errorf("update journal entry %s: %w", id, err)
	}
	updated, err := record.ToModel()
	if err != nil {
		return model.JournalEntry{}, fmt.Errorf("update journal entry %s: %w", id, err)
	}

	snapshot := s.update(func(st *StoreState) {
		idx := slices.IndexFunc(st.JournalEntries, func(e model.JournalEntry) bool { return e.ID == id })
		if idx >= 0 {
			st.JournalEntries[idx] = updated
		} else {
			st.JournalEntries = append(st.JournalEntries, updated)
		}
		sortJournal(st.JournalEntries)
	})
	s.writeCache(ctx, cache.JournalEntriesKey(s.userID), snapshot.JournalEntries)
	return updated, nil
}

// DeleteJournalEntry 远端删除成功后移除本地副本
func (s *RecordStore) DeleteJournalEntry(ctx context.Context, id string) error {
	if s.userID == "" {
		return fmt.Errorf("delete journal entry: %w", remote.ErrUnauthorized)
	}

	err := s.remote.DeleteJournalEntry(ctx, s.userID, id)
	s.metrics.WriteCompleted("journalEntry", err)
	if err != nil {
		return fmt.Errorf("delete journal entry %s: %w", id, err)
	}

	snapshot := s.update(func(st *StoreState) {
		st.JournalEntries = slices.DeleteFunc(st.JournalEntries, func(e model.JournalEntry) bool { return e.ID == id })
	})
	s.writeCache(ctx, cache.JournalEntriesKey(s.userID), snapshot.JournalEntries)
	return nil
}

// GetState 返回当前状态的深拷贝
func (s *RecordStore) GetState() StoreState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Subscribe 注册监听器，返回的函数用于取消订阅。
func (s *RecordStore) Subscribe(listener Listener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = listener
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// GetDailyAggregates 按给定日期逐日聚合
func (s *RecordStore) GetDailyAggregates(dates []string) ([]scoring.DailyAggregate, error) {
	checkIns, settings := s.scoringInputs()
	return s.calendar.DailyAggregates(checkIns, dates, settings.Scoring)
}

// GetWellbeingScoreForPeriod 计算截至今天的周/月/年得分
func (s *RecordStore) GetWellbeingScoreForPeriod(period scoring.Period) (int, error) {
	checkIns, settings := s.scoringInputs()
	return s.calendar.WellbeingScore(checkIns, period, s.now(), settings.Scoring)
}

// GetStreak 返回截至今天连续打满四个时段的天数
func (s *RecordStore) GetStreak() int {
	checkIns, _ := s.scoringInputs()
	return s.calendar.CompletionStreak(checkIns, s.now())
}

// GetToughStreak 返回最近 7 天末尾连续艰难日的天数
func (s *RecordStore) GetToughStreak() int {
	checkIns, settings := s.scoringInputs()
	return s.calendar.ToughStreak(checkIns, s.now(), settings)
}

// GetDailyScore 返回今天的得分
func (s *RecordStore) GetDailyScore() int {
	agg := s.TodayAggregate()
	return agg.Score
}

// TodayAggregate 返回今天的完整聚合
func (s *RecordStore) TodayAggregate() scoring.DailyAggregate {
	checkIns, settings := s.scoringInputs()
	agg, _ := s.calendar.DailyAggregate(checkIns, s.calendar.Today(s.now()), settings.Scoring)
	return agg
}

// ShouldShowHeavyCard 判断是否需要展示关怀提示
func (s *RecordStore) ShouldShowHeavyCard() bool {
	checkIns, settings := s.scoringInputs()
	return s.calendar.ShouldShowHeavyCard(checkIns, settings, s.now())
}

// MarkHeavyCardShown 记录提示已展示，开始 7 天冷却
func (s *RecordStore) MarkHeavyCardShown(ctx context.Context) model.UserSettings {
	now := s.now()
	s.metrics.HeavyCard("shown")
	return s.persistSettings(ctx, func(settings *model.UserSettings) {
		settings.LastHeavyCardShownAt = &now
	})
}

// MarkHeavyCardDismissed 记录提示被关闭，开始 7 天冷却
func (s *RecordStore) MarkHeavyCardDismissed(ctx context.Context) model.UserSettings {
	now := s.now()
	s.metrics.HeavyCard("dismissed")
	return s.persistSettings(ctx, func(settings *model.UserSettings) {
		settings.LastHeavyCardDismissedAt = &now
	})
}

// UpdateSettings 对设置做部分修改，校验失败时保持原值。
func (s *RecordStore) UpdateSettings(ctx context.Context, mutate func(*model.UserSettings)) (model.UserSettings, error) {
	var invalid error
	snapshot := s.update(func(st *StoreState) {
		candidate := st.Settings
		mutate(&candidate)
		candidate.ID = st.Settings.ID
		candidate.UserID = s.userID
		if invalid = candidate.Validate(); invalid == nil {
			st.Settings = candidate
		}
	})
	if invalid != nil {
		return model.UserSettings{}, invalid
	}
	s.settings.Save(ctx, snapshot.Settings)
	return snapshot.Settings, nil
}

func (s *RecordStore) persistSettings(ctx context.Context, mutate func(*model.UserSettings)) model.UserSettings {
	snapshot := s.update(func(st *StoreState) { mutate(&st.Settings) })
	s.settings.Save(ctx, snapshot.Settings)
	return snapshot.Settings
}

// TodayCheckIns 返回今天的打卡，按时间升序
func (s *RecordStore) TodayCheckIns() []model.CheckIn {
	today := s.calendar.Today(s.now())
	checkIns, _ := s.scoringInputs()
	var matched []model.CheckIn
	for _, record := range checkIns {
		if s.calendar.DayKey(record.Timestamp) == today {
			matched = append(matched, record)
		}
	}
	return matched
}

// CheckInBySlot 返回今天该时段最近的一次打卡
func (s *RecordStore) CheckInBySlot(slot model.Slot) (model.CheckIn, bool) {
	today := s.TodayCheckIns()
	for i := len(today) - 1; i >= 0; i-- {
		if today[i].Slot == slot {
			return today[i], true
		}
	}
	return model.CheckIn{}, false
}

// CheckInsBetween 返回闭区间内的打卡
func (s *RecordStore) CheckInsBetween(start, end string) ([]model.CheckIn, error) {
	checkIns, _ := s.scoringInputs()
	return s.calendar.CheckInsBetween(checkIns, start, end)
}

// JournalEntriesByType 按类型筛选日记，all 返回全部
func (s *RecordStore) JournalEntriesByType(raw string) ([]model.JournalEntry, error) {
	entries := s.GetState().JournalEntries
	if strings.TrimSpace(raw) == "" || strings.EqualFold(strings.TrimSpace(raw), "all") {
		return entries, nil
	}
	entryType, err := model.ParseJournalType(raw)
	if err != nil {
		return nil, err
	}
	return slices.DeleteFunc(entries, func(e model.JournalEntry) bool { return e.Type != entryType }), nil
}

// JournalEntry 按 ID 查找日记
func (s *RecordStore) JournalEntry(id string) (model.JournalEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, entry := range s.state.JournalEntries {
		if entry.ID == id {
			return cloneJournalEntry(entry), true
		}
	}
	return model.JournalEntry{}, false
}

// JournalEntryCounts 统计各类型日记数量
func (s *RecordStore) JournalEntryCounts() map[model.JournalType]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[model.JournalType]int, len(model.JournalTypes))
	for _, t := range model.JournalTypes {
		counts[t] = 0
	}
	for _, entry := range s.state.JournalEntries {
		counts[entry.Type]++
	}
	return counts
}

// CanEditEntry 判断日记是否仍可编辑
func (s *RecordStore) CanEditEntry(entry model.JournalEntry) bool {
	return entry.CanEdit(s.now())
}

// ClearAllData 清空本地集合、设置与缓存，远端数据不受影响。
func (s *RecordStore) ClearAllData(ctx context.Context) error {
	s.update(func(st *StoreState) {
		st.CheckIns = []model.CheckIn{}
		st.JournalEntries = []model.JournalEntry{}
		st.Activities = []model.ActivitySession{}
		st.Settings = model.DefaultUserSettings("", s.userID)
		st.Synced = false
		st.LastSyncedAt = nil
	})
	if err := s.cache.Remove(ctx, cache.UserKeys(s.userID)...); err != nil {
		log.Printf("[cache] clear keys for %s failed: %v", s.userID, err)
		return fmt.Errorf("clear local data: %w", err)
	}
	return nil
}

func (s *RecordStore) scoringInputs() ([]model.CheckIn, model.UserSettings) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.state.CheckIns), s.state.Settings
}

// update 在写锁内修改状态，解锁后通知监听器，并返回修改后的快照。
func (s *RecordStore) update(mutate func(*StoreState)) StoreState {
	s.mu.Lock()
	mutate(&s.state)
	snapshot := s.snapshotLocked()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(snapshot)
	}
	return snapshot
}

func (s *RecordStore) snapshotLocked() StoreState {
	snapshot := s.state
	snapshot.CheckIns = slices.Clone(s.state.CheckIns)
	snapshot.JournalEntries = make([]model.JournalEntry, 0, len(s.state.JournalEntries))
	for _, entry := range s.state.JournalEntries {
		snapshot.JournalEntries = append(snapshot.JournalEntries, cloneJournalEntry(entry))
	}
	snapshot.Activities = make([]model.ActivitySession, 0, len(s.state.Activities))
	for _, session := range s.state.Activities {
		snapshot.Activities = append(snapshot.Activities, cloneActivity(session))
	}
	if s.state.LastSyncedAt != nil {
		at := *s.state.LastSyncedAt
		snapshot.LastSyncedAt = &at
	}
	return snapshot
}

func (s *RecordStore) readCachedCheckIns(ctx context.Context) []model.CheckIn {
	var cached []model.CheckIn
	key := cache.CheckInsKey(s.userID)
	if _, err := cache.GetJSON(ctx, s.cache, key, &cached); err != nil {
		log.Printf("[cache] read %s failed: %v", key, err)
		return []model.CheckIn{}
	}
	valid := make([]model.CheckIn, 0, len(cached))
	for _, record := range cached {
		if err := record.Validate(); err != nil {
			log.Printf("[cache] dropping invalid check-in from %s: %v", key, err)
			continue
		}
		valid = append(valid, record)
	}
	sortCheckIns(valid)
	return valid
}

func (s *RecordStore) readCachedJournal(ctx context.Context) []model.JournalEntry {
	var cached []model.JournalEntry
	key := cache.JournalEntriesKey(s.userID)
	if _, err := cache.GetJSON(ctx, s.cache, key, &cached); err != nil {
		log.Printf("[cache] read %s failed: %v", key, err)
		return []model.JournalEntry{}
	}
	if cached == nil {
		cached = []model.JournalEntry{}
	}
	sortJournal(cached)
	return cached
}

func (s *RecordStore) readCachedActivities(ctx context.Context) []model.ActivitySession {
	var cached []model.ActivitySession
	key := cache.ActivitySessionsKey(s.userID)
	if _, err := cache.GetJSON(ctx, s.cache, key, &cached); err != nil {
		log.Printf("[cache] read %s failed: %v", key, err)
		return []model.ActivitySession{}
	}
	valid := make([]model.ActivitySession, 0, len(cached))
	for _, session := range cached {
		if err := session.Validate(); err != nil {
			log.Printf("[cache] dropping invalid activity session from %s: %v", key, err)
			continue
		}
		valid = append(valid, session)
	}
	sortActivities(valid)
	return valid
}

func (s *RecordStore) writeCache(ctx context.Context, key string, value any) {
	if err := cache.SetJSON(ctx, s.cache, key, value); err != nil {
		log.Printf("[cache] write %s failed: %v", key, err)
	}
}

func sortCheckIns(records []model.CheckIn) {
	slices.SortStableFunc(records, func(a, b model.CheckIn) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
}

// sortJournal 按时间倒序
func sortJournal(entries []model.JournalEntry) {
	slices.SortStableFunc(entries, func(a, b model.JournalEntry) int {
		if c := b.Timestamp.Compare(a.Timestamp); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

func cloneJournalEntry(entry model.JournalEntry) model.JournalEntry {
	entry.Tags = slices.Clone(entry.Tags)
	if entry.Meta != nil {
		meta := *entry.Meta
		entry.Meta = &meta
	}
	return entry
}

func sortActivities(sessions []model.ActivitySession) {
	slices.SortStableFunc(sessions, func(a, b model.ActivitySession) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
}

func cloneActivity(session model.ActivitySession) model.ActivitySession {
	if session.PostMood != nil {
		v := *session.PostMood
		session.PostMood = &v
	}
	if session.PostStress != nil {
		v := *session.PostStress
		session.PostStress = &v
	}
	return session
}
