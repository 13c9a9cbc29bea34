package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/aidocs/backend/internal/middleware"
	"github.com/aidocs/backend/internal/service"
	"github.com/gin-gonic/gin"
	"k8s.io/klog/v2"
)

// writeError 将服务层错误映射为 HTTP 状态码
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrProjectNotFound), errors.Is(err, service.ErrSectionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		klog.Errorf("请求处理失败: method=%s, path=%s, requestID=%s, error=%v",
			c.Request.Method, c.FullPath(), middleware.RequestID(c), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}
