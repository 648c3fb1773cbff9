package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/storycanvas/backend/internal/ordering"
	"github.com/storycanvas/backend/internal/service"
)

// CallerHeader 上游会话层注入的调用方身份，这里视作不透明且已验证
const CallerHeader = "X-User-ID"

func callerID(c *gin.Context) (string, bool) {
	id := c.GetHeader(CallerHeader)
	if id == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing caller identity"})
		return "", false
	}
	return id, true
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}

// respondError 把服务层错误翻译为标准状态码：
// 不存在 404、无权限 403、版本冲突 409（附带当前版本）、非法换序等 400
func respondError(c *gin.Context, err error) {
	var conflict *service.VersionConflictError
	switch {
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{
			"error":           conflict.Error(),
			"current_version": conflict.CurrentVersion,
		})
	case errors.Is(err, service.ErrStorybookNotFound),
		errors.Is(err, service.ErrPageNotFound),
		errors.Is(err, service.ErrFrameNotFound),
		errors.Is(err, service.ErrChapterNotFound),
		errors.Is(err, service.ErrBlockNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, ordering.ErrInvalidReorder),
		errors.Is(err, service.ErrInvalidNodeType),
		errors.Is(err, service.ErrInvalidSizePreset),
		errors.Is(err, service.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
