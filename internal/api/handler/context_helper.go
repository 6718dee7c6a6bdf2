package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/handrailjsp/Scheduling/internal/api/middleware"
	"github.com/handrailjsp/Scheduling/pkg/response"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id（管理员用户名）。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	s := c.GetString(middleware.CtxUserID)
	if s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// MustGetToken 提取当前凭证的 jti 与过期时间，用于登出
func MustGetToken(c *gin.Context) (string, time.Time, bool) {
	jti := c.GetString(middleware.CtxTokenJTI)
	if jti == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", time.Time{}, false
	}
	exp, _ := c.Get(middleware.CtxTokenExp)
	t, _ := exp.(time.Time)
	return jti, t, true
}

// MustParseID 解析正整数路径参数，失败时写入 400
func MustParseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, 10001, name+" 参数无效")
		return 0, false
	}
	return id, true
}
