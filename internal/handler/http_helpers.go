package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/moodlog/internal/model"
	"github.com/moodlog/internal/remote"
	"github.com/moodlog/internal/scoring"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": localize(c, message)})
}

func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, message)
		return false
	}
	return true
}

func parseIDParam(c *gin.Context, key string) (string, bool) {
	id := strings.TrimSpace(c.Param(key))
	if id == "" {
		respondError(c, http.StatusBadRequest, "无效的记录ID")
		return "", false
	}
	return id, true
}

// splitQueryList 同时支持 ?dates=a,b 与 ?dates=a&dates=b
func splitQueryList(values []string) []string {
	items := make([]string, 0, len(values))
	for _, raw := range values {
		for _, part := range strings.Split(raw, ",") {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			items = append(items, trimmed)
		}
	}
	return items
}

// handleRecordError 将存储层错误映射为 HTTP 状态码
func handleRecordError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, remote.ErrUnauthorized):
		respondError(c, http.StatusUnauthorized, "未登录")
	case errors.Is(err, remote.ErrNotFound):
		respondError(c, http.StatusNotFound, "记录不存在")
	case errors.Is(err, remote.ErrLocked):
		respondError(c, http.StatusConflict, "日记已超过可编辑时间")
	case errors.Is(err, model.ErrInvalidValue),
		errors.Is(err, scoring.ErrInvalidDate),
		errors.Is(err, scoring.ErrInvalidPeriod):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, remote.ErrUnavailable):
		c.Error(err)
		respondError(c, http.StatusServiceUnavailable, fallback)
	default:
		c.Error(err)
		respondError(c, http.StatusInternalServerError, fallback)
	}
}
