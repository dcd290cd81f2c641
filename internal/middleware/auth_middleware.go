package middleware

import (
	"padmin/internal/models"
	"padmin/internal/services"
	"padmin/pkg/jwt"
	"padmin/pkg/response"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware 权限中间件
type AuthMiddleware struct {
	userService   *services.UserService
	accessManager *jwt.TokenManager
}

func NewAuthMiddleware(userService *services.UserService, accessManager *jwt.TokenManager) *AuthMiddleware {
	return &AuthMiddleware{
		userService:   userService,
		accessManager: accessManager,
	}
}

// RequireAuth 要求携带有效的访问令牌Cookie
//
// 未携带Cookie返回401；令牌无效、过期或指向的用户不存在返回403。
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := c.Cookie(m.accessManager.Name())
		if err != nil || tokenString == "" {
			response.Unauthorized(c, "请先登录")
			c.Abort()
			return
		}

		claims, err := m.accessManager.Verify(tokenString)
		if err != nil || claims.Subject == "" {
			response.Forbidden(c, "令牌无效或已过期")
			c.Abort()
			return
		}

		user, err := m.userService.GetByUsername(claims.Subject)
		if err != nil {
			response.Forbidden(c, "令牌无效或已过期")
			c.Abort()
			return
		}

		c.Set("user", user)
		c.Set("username", user.Username)

		c.Next()
	}
}

// RequireAdmin 要求当前用户是管理员，须排在RequireAuth之后
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, exists := c.Get("user")
		if !exists {
			response.Unauthorized(c, "请先登录")
			c.Abort()
			return
		}

		if !user.(*models.PublicUser).IsAdmin {
			response.Forbidden(c, "需要管理员权限")
			c.Abort()
			return
		}

		c.Next()
	}
}
