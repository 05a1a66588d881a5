package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/moodlog/internal/db"
)

const (
	sessionUserKey     = "user_id"
	sessionUsernameKey = "username"
	contextUserKey     = "__user_id"
)

type loginRequest struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// Login 校验账号密码并建立会话，同时接受 JSON 与表单提交
func (a *API) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, http.StatusBadRequest, "用户名和密码不能为空")
		return
	}

	user, err := db.Authenticate(a.db, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, db.ErrInvalidCredentials) {
			respondError(c, http.StatusUnauthorized, "用户名或密码错误")
			return
		}
		c.Error(err)
		respondError(c, http.StatusInternalServerError, "登录失败")
		return
	}

	userID := strconv.FormatUint(uint64(user.ID), 10)
	session := sessions.Default(c)
	session.Set(sessionUserKey, userID)
	session.Set(sessionUsernameKey, user.Username)
	if err := session.Save(); err != nil {
		respondError(c, http.StatusInternalServerError, "会话保存失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user_id": userID, "username": user.Username})
}

// Logout 清除会话并丢弃内存中的记录集合
func (a *API) Logout(c *gin.Context) {
	session := sessions.Default(c)
	if userID, ok := session.Get(sessionUserKey).(string); ok && a.sessions != nil {
		a.sessions.Drop(userID)
	}
	session.Clear()
	if err := session.Save(); err != nil {
		respondError(c, http.StatusInternalServerError, "会话保存失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": localize(c, "已退出登录")})
}

// AuthRequired 要求请求携带已登录的会话
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID := sessionUserID(session.Get(sessionUserKey))
		if userID == "" {
			respondError(c, http.StatusUnauthorized, "未登录")
			c.Abort()
			return
		}
		c.Set(contextUserKey, userID)
		c.Next()
	}
}

func sessionUserID(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func currentUserID(c *gin.Context) string {
	return c.GetString(contextUserKey)
}
