package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Yesi-Studios/CommandCentralBackend-sub002/pkg/jwt"
	"github.com/Yesi-Studios/CommandCentralBackend-sub002/pkg/response"
)

// MustGetPersonID 从 Gin 上下文中安全提取 person_id。
// 如果 JWT 中间件未正确注入 person_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetPersonID(c *gin.Context) (string, bool) {
	v, exists := c.Get("person_id")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// MustGetClaims 从 Gin 上下文中安全提取完整的 JWT Claims（注销等场景需要 JTI）。
func MustGetClaims(c *gin.Context) (*jwt.Claims, bool) {
	v, exists := c.Get("claims")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return nil, false
	}
	claims, ok := v.(*jwt.Claims)
	if !ok || claims == nil {
		response.Unauthorized(c, 10002, "未认证")
		return nil, false
	}
	return claims, true
}

// [自证通过] internal/api/handler/context_helper.go
