package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/moodlog/internal/model"
)

// settingsRequest 是设置中允许客户端修改的部分
type settingsRequest struct {
	NotifMorning   string                `json:"notifMorning"`
	NotifAfternoon string                `json:"notifAfternoon"`
	NotifEvening   string                `json:"notifEvening"`
	NotifNight     string                `json:"notifNight"`
	Thresholds     model.Thresholds      `json:"thresholds"`
	Scoring        model.ScoringSettings `json:"scoring"`
}

func settingsRequestFrom(s model.UserSettings) settingsRequest {
	return settingsRequest{
		NotifMorning:   s.NotifMorning,
		NotifAfternoon: s.NotifAfternoon,
		NotifEvening:   s.NotifEvening,
		NotifNight:     s.NotifNight,
		Thresholds:     s.Thresholds,
		Scoring:        s.Scoring,
	}
}

func (r settingsRequest) applyTo(s *model.UserSettings) {
	s.NotifMorning = r.NotifMorning
	s.NotifAfternoon = r.NotifAfternoon
	s.NotifEvening = r.NotifEvening
	s.NotifNight = r.NotifNight
	s.Thresholds = r.Thresholds
	s.Scoring = r.Scoring
}

// GetSettings 返回当前用户设置
func (a *API) GetSettings(c *gin.Context) {
	store, ok := a.recordStore(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": store.GetState().Settings})
}

// UpdateSettings 局部更新设置：请求体叠加在当前设置上解码，未出现的字段（包括嵌套字段）保持不变。
// 非法取值时保持原设置。
func (a *API) UpdateSettings(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的设置数据")
		return
	}
	var check settingsRequest
	if err := binding.JSON.BindBody(body, &check); err != nil {
		respondError(c, http.StatusBadRequest, "无效的设置数据")
		return
	}

	store, ok := a.recordStore(c)
	if !ok {
		return
	}
	var decodeErr error
	settings, err := store.UpdateSettings(c.Request.Context(), func(current *model.UserSettings) {
		req := settingsRequestFrom(*current)
		if decodeErr = binding.JSON.BindBody(body, &req); decodeErr != nil {
			return
		}
		req.applyTo(current)
	})
	if decodeErr != nil {
		respondError(c, http.StatusBadRequest, "无效的设置数据")
		return
	}
	if err != nil {
		handleRecordError(c, err, "保存设置失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}
