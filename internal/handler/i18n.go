package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/moodlog/internal/locale"
)

const localeContextKey = "__request_locale"

var messages = locale.NewCatalog(map[string]string{
	"未登录":           "not signed in",
	"用户名和密码不能为空":    "username and password are required",
	"用户名或密码错误":      "invalid username or password",
	"登录失败":          "login failed",
	"会话保存失败":        "failed to save session",
	"已退出登录":         "signed out",
	"记录不存在":         "record not found",
	"无效的记录ID":       "invalid record id",
	"日记已超过可编辑时间":    "journal entry can no longer be edited",
	"无效的打卡数据":       "invalid check-in payload",
	"无效的日记数据":       "invalid journal payload",
	"无效的设置数据":       "invalid settings payload",
	"无效的 limit 参数":  "invalid limit parameter",
	"无效的 offset 参数": "invalid offset parameter",
	"无效的区间":         "invalid period",
	"dates 参数不能为空":  "dates parameter is required",
	"获取打卡记录失败":      "failed to list check-ins",
	"创建打卡失败":        "failed to create check-in",
	"获取日记失败":        "failed to list journal entries",
	"统计日记失败":        "failed to count journal entries",
	"创建日记失败":        "failed to create journal entry",
	"更新日记失败":        "failed to update journal entry",
	"删除日记失败":        "failed to delete journal entry",
	"日记已删除":         "journal entry deleted",
	"加载记录失败":        "failed to load records",
	"同步失败":          "sync failed",
	"聚合失败":          "failed to aggregate",
	"计算得分失败":        "failed to compute score",
	"保存设置失败":        "failed to save settings",
	"清除本地数据失败":      "failed to clear local data",
	"本地数据已清除":       "local data cleared",
	"无效的练习数据":       "invalid activity payload",
	"获取练习记录失败":      "failed to list activity sessions",
	"创建练习记录失败":      "failed to create activity session",
	"无效的资料数据":       "invalid profile payload",
	"获取资料失败":        "failed to load profile",
	"保存资料失败":        "failed to save profile",
})

// LocaleMiddleware 根据 ?lang= 或 Accept-Language 选择响应文案语言
func LocaleMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := locale.Resolve(c.Query("lang"), c.GetHeader("Accept-Language"))
		c.Set(localeContextKey, lang)
		c.Header("Content-Language", locale.ContentLanguage(lang))
		c.Next()
	}
}

func localize(c *gin.Context, text string) string {
	lang := c.GetString(localeContextKey)
	if lang == "" {
		lang = locale.Resolve(c.Query("lang"), c.GetHeader("Accept-Language"))
	}
	return messages.Translate(lang, text)
}
