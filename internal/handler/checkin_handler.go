package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/moodlog/internal/model"
)

// ListCheckIns 返回当前用户的打卡，支持 start_date / end_date 过滤
func (a *API) ListCheckIns(c *gin.Context) {
	records, err := a.records.ListCheckIns(c.Request.Context(), currentUserID(c),
		c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		handleRecordError(c, err, "获取打卡记录失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"checkins": records})
}

// CreateCheckIn 新建一次打卡
func (a *API) CreateCheckIn(c *gin.Context) {
	var req model.CheckInInput
	if !bindJSON(c, &req, "无效的打卡数据") {
		return
	}

	record, err := a.records.CreateCheckIn(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		handleRecordError(c, err, "创建打卡失败")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"checkin": record})
}
