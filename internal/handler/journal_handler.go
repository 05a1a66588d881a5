package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/moodlog/internal/model"
	"github.com/moodlog/internal/remote"
)

// ListJournalEntries 按时间倒序返回日记，支持 type、limit、offset；render=1 时附带渲染后的 HTML
func (a *API) ListJournalEntries(c *gin.Context) {
	query := remote.JournalQuery{Type: c.Query("type")}
	var err error
	if query.Limit, err = parseIntQuery(c, "limit"); err != nil {
		respondError(c, http.StatusBadRequest, "无效的 limit 参数")
		return
	}
	if query.Offset, err = parseIntQuery(c, "offset"); err != nil {
		respondError(c, http.StatusBadRequest, "无效的 offset 参数")
		return
	}

	records, err := a.records.ListJournalEntries(c.Request.Context(), currentUserID(c), query)
	if err != nil {
		handleRecordError(c, err, "获取日记失败")
		return
	}

	response := gin.H{"entries": records}
	if wantsRendered(c) {
		rendered := make(map[string]string, len(records))
		for _, record := range records {
			entry, err := record.ToModel()
			if err != nil {
				continue
			}
			html, err := a.renderer.Render(entry)
			if err != nil {
				c.Error(err)
				continue
			}
			rendered[record.ID] = html
		}
		response["html"] = rendered
	}
	c.JSON(http.StatusOK, response)
}

// JournalCounts 返回各类型日记数量
func (a *API) JournalCounts(c *gin.Context) {
	counts, err := a.records.CountJournalEntries(c.Request.Context(), currentUserID(c))
	if err != nil {
		handleRecordError(c, err, "统计日记失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"counts": counts})
}

// CreateJournalEntry 新建日记
func (a *API) CreateJournalEntry(c *gin.Context) {
	var req model.JournalInput
	if !bindJSON(c, &req, "无效的日记数据") {
		return
	}

	record, err := a.records.CreateJournalEntry(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		handleRecordError(c, err, "创建日记失败")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"entry": record})
}

// UpdateJournalEntry 局部更新日记，超过 24 小时返回 409
func (a *API) UpdateJournalEntry(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req model.JournalPatch
	if !bindJSON(c, &req, "无效的日记数据") {
		return
	}

	record, err := a.records.UpdateJournalEntry(c.Request.Context(), currentUserID(c), id, req)
	if err != nil {
		handleRecordError(c, err, "更新日记失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"entry": record})
}

// DeleteJournalEntry 删除日记
func (a *API) DeleteJournalEntry(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := a.records.DeleteJournalEntry(c.Request.Context(), currentUserID(c), id); err != nil {
		handleRecordError(c, err, "删除日记失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": localize(c, "日记已删除")})
}

func parseIntQuery(c *gin.Context, key string) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0, strconv.ErrSyntax
	}
	return value, nil
}

func wantsRendered(c *gin.Context) bool {
	switch strings.ToLower(strings.TrimSpace(c.Query("render"))) {
	case "1", "true", "yes":
		return true
	}
	return false
}
