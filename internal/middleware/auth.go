package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/aidocs/backend/internal/model"
	"github.com/gin-gonic/gin"
	"k8s.io/klog/v2"
)

const currentUserKey = "current_user"

// Authenticator 根据访问令牌解析用户
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.User, error)
}

// BearerAuth 校验 Authorization: Bearer <token>，通过后将用户写入上下文
func BearerAuth(authenticator Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			c.Header("WWW-Authenticate", "Bearer")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		user, err := authenticator.Authenticate(c.Request.Context(), strings.TrimSpace(token))
		if err != nil {
			klog.V(6).Infof("[Auth] 令牌校验失败: requestID=%s, err=%v", RequestID(c), err)
			c.Header("WWW-Authenticate", "Bearer")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Could not validate credentials"})
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// CurrentUser 获取已认证用户，未经过 BearerAuth 时返回 nil
func CurrentUser(c *gin.Context) *model.User {
	value, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	user, _ := value.(*model.User)
	return user
}
