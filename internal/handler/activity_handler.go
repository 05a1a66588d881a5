package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/moodlog/internal/model"
)

// ListActivitySessions 返回当前用户的练习记录
func (a *API) ListActivitySessions(c *gin.Context) {
	records, err := a.records.FetchActivitySessions(c.Request.Context(), currentUserID(c))
	if err != nil {
		handleRecordError(c, err, "获取练习记录失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": records})
}

// CreateActivitySession 新建一次练习记录
func (a *API) CreateActivitySession(c *gin.Context) {
	var req model.ActivityInput
	if !bindJSON(c, &req, "无效的练习数据") {
		return
	}

	record, err := a.records.CreateActivitySession(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		handleRecordError(c, err, "创建练习记录失败")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"session": record})
}

// ListSessionActivities 按类型列出会话中的练习记录
func (a *API) ListSessionActivities(c *gin.Context) {
	store, ok := a.recordStore(c)
	if !ok {
		return
	}
	sessions, err := store.ActivitySessions(c.Query("type"))
	if err != nil {
		handleRecordError(c, err, "获取练习记录失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

// AddActivitySession 经远端确认后写入本地集合
func (a *API) AddActivitySession(c *gin.Context) {
	var req model.ActivityInput
	if !bindJSON(c, &req, "无效的练习数据") {
		return
	}

	store, ok := a.recordStore(c)
	if !ok {
		return
	}
	session, err := store.AddActivitySession(c.Request.Context(), req)
	if err != nil {
		handleRecordError(c, err, "创建练习记录失败")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"session": session})
}
