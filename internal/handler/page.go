package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/storycanvas/backend/internal/service"
)

type PageHandler struct {
	service *service.PageService
}

// NewPageHandler 创建页面处理器
func NewPageHandler(service *service.PageService) *PageHandler {
	return &PageHandler{service: service}
}

// Create 在故事书末尾追加页面，:id 为故事书 ID
func (h *PageHandler) Create(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	storybookID, ok := parseID(c)
	if !ok {
		return
	}

	var req service.CreatePageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.StorybookID = storybookID

	page, err := h.service.Create(c.Request.Context(), caller, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, page)
}

// List 获取故事书的页面列表，:id 为故事书 ID
func (h *PageHandler) List(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	storybookID, ok := parseID(c)
	if !ok {
		return
	}

	pages, err := h.service.List(c.Request.Context(), caller, storybookID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pages)
}

// Update 更新页面
func (h *PageHandler) Update(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req service.UpdatePageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	page, err := h.service.Update(c.Request.Context(), caller, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// Delete 删除页面
func (h *PageHandler) Delete(c *gin.Context) {
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
	c.JSON(http.StatusOK, gin.H{"message": "page deleted"})
}

// Reorder 页面整体换序，:id 为故事书 ID
func (h *PageHandler) Reorder(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	storybookID, ok := parseID(c)
	if !ok {
		return
	}

	var req service.ReorderPagesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pages, err := h.service.Reorder(c.Request.Context(), caller, storybookID, req.OrderedIDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pages)
}

// Duplicate 复制页面
func (h *PageHandler) Duplicate(c *gin.Context) {
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
