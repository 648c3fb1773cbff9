package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/storycanvas/backend/internal/service"
)

type StorybookHandler struct {
	service *service.StorybookService
	canvas  *service.CanvasService
}

// NewStorybookHandler 创建故事书处理器
func NewStorybookHandler(service *service.StorybookService, canvas *service.CanvasService) *StorybookHandler {
	return &StorybookHandler{service: service, canvas: canvas}
}

// Create 创建故事书
func (h *StorybookHandler) Create(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}

	var req service.CreateStorybookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sb, err := h.service.Create(c.Request.Context(), caller, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sb)
}

// List 获取调用方名下的故事书
func (h *StorybookHandler) List(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}

	sbs, err := h.service.ListByOwner(c.Request.Context(), caller)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sbs)
}

// Get 获取故事书详情
func (h *StorybookHandler) Get(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	sb, err := h.service.Get(c.Request.Context(), caller, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sb)
}

// Update 更新故事书
func (h *StorybookHandler) Update(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req service.UpdateStorybookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sb, err := h.service.Update(c.Request.Context(), caller, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sb)
}

// Delete 删除故事书及其全部子记录
func (h *StorybookHandler) Delete(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), caller, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "storybook deleted"})
}

// EnsureCanvas 幂等引导默认画布
func (h *StorybookHandler) EnsureCanvas(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	pages, err := h.canvas.EnsureDefaultCanvas(c.Request.Context(), caller, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pages)
}
