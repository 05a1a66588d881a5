package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/moodlog/internal/model"
	"github.com/moodlog/internal/remote"
)

// GetProfile 返回用户资料，尚未创建时 profile 为 null
func (a *API) GetProfile(c *gin.Context) {
	profile, err := a.records.GetProfile(c.Request.Context(), currentUserID(c))
	if errors.Is(err, remote.ErrNotFound) {
		c.JSON(http.StatusOK, gin.H{"profile": nil})
		return
	}
	if err != nil {
		handleRecordError(c, err, "获取资料失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

// SaveProfile 创建或更新资料；时区可能变化，丢弃会话让下次访问按新时区重建
func (a *API) SaveProfile(c *gin.Context) {
	var req model.ProfileInput
	if !bindJSON(c, &req, "无效的资料数据") {
		return
	}

	userID := currentUserID(c)
	profile, err := a.records.SaveProfile(c.Request.Context(), userID, req)
	if err != nil {
		handleRecordError(c, err, "保存资料失败")
		return
	}
	a.sessions.Drop(userID)
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}
