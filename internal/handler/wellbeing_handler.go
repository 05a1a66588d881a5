package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/moodlog/internal/model"
	"github.com/moodlog/internal/scoring"
	"github.com/moodlog/internal/service"
)

// recordStore 取出当前用户的会话记录集合，首次访问会触发加载
func (a *API) recordStore(c *gin.Context) (*service.RecordStore, bool) {
	store, err := a.sessions.Get(c.Request.Context(), currentUserID(c))
	if err != nil {
		handleRecordError(c, err, "加载记录失败")
		return nil, false
	}
	return store, true
}

// SyncRecords 重新从远端拉取并覆盖本地集合
func (a *API) SyncRecords(c *gin.Context) {
	store, ok := a.recordStore(c)
	if !ok {
		return
	}
	if err := store.Load(c.Request.Context()); err != nil {
		handleRecordError(c, err, "同步失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": store.GetState()})
}

// GetState 返回完整状态快照
func (a *API) GetState(c *gin.Context) {
	store, ok := a.recordStore(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": store.GetState()})
}

// GetDailyAggregates 按 dates 参数逐日聚合
func (a *API) GetDailyAggregates(c *gin.Context) {
	dates := splitQueryList(c.QueryArray("dates"))
	if len(dates) == 0 {
		respondError(c, http.StatusBadRequest, "dates 参数不能为空")
		return
	}

	store, ok := a.recordStore(c)
	if !ok {
		return
	}
	aggregates, err := store.GetDailyAggregates(dates)
	if err != nil {
		handleRecordError(c, err, "聚合失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"aggregates": aggregates})
}

// GetWellbeingScore 返回 Week / Month / Year 区间得分，默认 Week
func (a *API) GetWellbeingScore(c *gin.Context) {
	period, err := scoring.ParsePeriod(c.DefaultQuery("period", string(scoring.PeriodWeek)))
	if err != nil {
		handleRecordError(c, err, "无效的区间")
		return
	}

	store, ok := a.recordStore(c)
	if !ok {
		return
	}
	score, err := store.GetWellbeingScoreForPeriod(period)
	if err != nil {
		handleRecordError(c, err, "计算得分失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"period": period, "score": score})
}

// GetDailyScore 返回今天的得分与聚合
func (a *API) GetDailyScore(c *gin.Context) {
	store, ok := a.recordStore(c)
	if !ok {
		return
	}
	agg := store.TodayAggregate()
	c.JSON(http.StatusOK, gin.H{"score": agg.Score, "aggregate": agg})
}

// GetStreak 返回连续打满天数与艰难日连续天数
func (a *API) GetStreak(c *gin.Context) {
	store, ok := a.recordStore(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"streak":      store.GetStreak(),
		"toughStreak": store.GetToughStreak(),
	})
}

// GetToday 返回今天的打卡及各时段完成情况
func (a *API) GetToday(c *gin.Context) {
	store, ok := a.recordStore(c)
	if !ok {
		return
	}

	slots := make(map[model.Slot]bool, len(model.Slots))
	for _, slot := range model.Slots {
		_, done := store.CheckInBySlot(slot)
		slots[slot] = done
	}

	checkIns := store.TodayCheckIns()
	if checkIns == nil {
		checkIns = []model.CheckIn{}
	}
	c.JSON(http.StatusOK, gin.H{
		"checkins":  checkIns,
		"slots":     slots,
		"aggregate": store.TodayAggregate(),
	})
}

// AddCheckIn 经远端确认后写入本地集合
func (a *API) AddCheckIn(c *gin.Context) {
	var req model.CheckInInput
	if !bindJSON(c, &req, "无效的打卡数据") {
		return
	}

	store, ok := a.recordStore(c)
	if !ok {
		return
	}
	record, err := store.AddCheckIn(c.Request.Context(), req)
	if err != nil {
		handleRecordError(c, err, "创建打卡失败")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"checkin": record})
}

// ListSessionJournal 按类型列出会话中的日记及各类型数量
func (a *API) ListSessionJournal(c *gin.Context) {
	store, ok := a.recordStore(c)
	if !ok {
		return
	}
	entries, err := store.JournalEntriesByType(c.Query("type"))
	if err != nil {
		handleRecordError(c, err, "获取日记失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries, "counts": store.JournalEntryCounts()})
}

// AddJournalEntry 经远端确认后写入本地集合
func (a *API) AddJournalEntry(c *gin.Context) {
	var req model.JournalInput
	if !bindJSON(c, &req, "无效的日记数据") {
		return
	}

	store, ok := a.recordStore(c)
	if !ok {
		return
	}
	entry, err := store.AddJournalEntry(c.Request.Context(), req)
	if err != nil {
		handleRecordError(c, err, "创建日记失败")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"entry": entry})
}

// EditJournalEntry 更新会话中的日记
func (a *API) EditJournalEntry(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req model.JournalPatch
	if !bindJSON(c, &req, "无效的日记数据") {
		return
	}

	store, ok := a.recordStore(c)
	if !ok {
		return
	}
	entry, err := store.UpdateJournalEntry(c.Request.Context(), id, req)
	if err != nil {
		handleRecordError(c, err, "更新日记失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"entry": entry})
}

// RemoveJournalEntry 删除会话中的日记
func (a *API) RemoveJournalEntry(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	store, ok := a.recordStore(c)
	if !ok {
		return
	}
	if err := store.DeleteJournalEntry(c.Request.Context(), id); err != nil {
		handleRecordError(c, err, "删除日记失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": localize(c, "日记已删除")})
}

// GetHeavyCard 判断是否展示关怀提示
func (a *API) GetHeavyCard(c *gin.Context) {
	store, ok := a.recordStore(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"show":        store.ShouldShowHeavyCard(),
		"toughStreak": store.GetToughStreak(),
	})
}

// MarkHeavyCardShown 记录提示已展示
func (a *API) MarkHeavyCardShown(c *gin.Context) {
	store, ok := a.recordStore(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": store.MarkHeavyCardShown(c.Request.Context())})
}

// MarkHeavyCardDismissed 记录提示被关闭
func (a *API) MarkHeavyCardDismissed(c *gin.Context) {
	store, ok := a.recordStore(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": store.MarkHeavyCardDismissed(c.Request.Context())})
}

// ClearLocalData 清空会话缓存，远端数据保留
func (a *API) ClearLocalData(c *gin.Context) {
	store, ok := a.recordStore(c)
	if !ok {
		return
	}
	if err := store.ClearAllData(c.Request.Context()); err != nil {
		handleRecordError(c, err, "清除本地数据失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": localize(c, "本地数据已清除")})
}
