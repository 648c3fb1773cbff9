package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/storycanvas/backend/internal/service"
)

type FrameHandler struct {
	service *service.FrameService
}

// NewFrameHandler 创建节点处理器
func NewFrameHandler(service *service.FrameService) *FrameHandler {
	return &FrameHandler{service: service}
}

// Create 在页面上创建节点，:id 为页面 ID
func (h *FrameHandler) Create(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	pageID, ok := parseID(c)
	if !ok {
		return
	}

	var req service.CreateFrameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.PageID = pageID

	frame, err := h.service.Create(c.Request.Context(), caller, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, frame)
}

// ListByPage 获取页面上的节点（z 序升序），:id 为页面 ID
func (h *FrameHandler) ListByPage(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	pageID, ok := parseID(c)
	if !ok {
		return
	}

	frames, err := h.service.ListByPage(c.Request.Context(), caller, pageID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, frames)
}

// ListByStorybook 获取故事书全部节点，:id 为故事书 ID，供导出方拉平画布
func (h *FrameHandler) ListByStorybook(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	storybookID, ok := parseID(c)
	if !ok {
		return
	}

	frames, err := h.service.ListByStorybook(c.Request.Context(), caller, storybookID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, frames)
}

// Update 更新节点，expected_version 提供时做乐观并发检查
func (h *FrameHandler) Update(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req service.UpdateFrameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	frame, err := h.service.Update(c.Request.Context(), caller, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, frame)
}

// Delete 删除节点
func (h *FrameHandler) Delete(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.Remove(c.Request.Context(), caller, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "frame deleted"})
}

// Duplicate 复制节点到同页顶层
func (h *FrameHandler) Duplicate(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	clone, err := h.service.Duplicate(c.Request.Context(), caller, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, clone)
}
