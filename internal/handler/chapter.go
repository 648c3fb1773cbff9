package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/storycanvas/backend/internal/service"
)

type ChapterHandler struct {
	service *service.ChapterService
}

// NewChapterHandler 创建章节处理器
func NewChapterHandler(service *service.ChapterService) *ChapterHandler {
	return &ChapterHandler{service: service}
}

// Create 在故事书末尾追加章节，:id 为故事书 ID
func (h *ChapterHandler) Create(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	storybookID, ok := parseID(c)
	if !ok {
		return
	}

	var req service.CreateChapterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.StorybookID = storybookID

	chapter, err := h.service.Create(c.Request.Context(), caller, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, chapter)
}

// List 获取故事书的章节列表，:id 为故事书 ID
func (h *ChapterHandler) List(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	storybookID, ok := parseID(c)
	if !ok {
		return
	}

	chapters, err := h.service.List(c.Request.Context(), caller, storybookID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, chapters)
}

// Update 更新章节
func (h *ChapterHandler) Update(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req service.UpdateChapterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	chapter, err := h.service.Update(c.Request.Context(), caller, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, chapter)
}

// Delete 删除章节及其内容块
func (h *ChapterHandler) Delete(c *gin.Context) {
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
	c.JSON(http.StatusOK, gin.H{"message": "chapter deleted"})
}

// Reorder 章节整体换序，:id 为故事书 ID
func (h *ChapterHandler) Reorder(c *gin.Context) {
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

	chapters, err := h.service.Reorder(c.Request.Context(), caller, storybookID, req.OrderedIDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, chapters)
}

// Duplicate 复制章节
func (h *ChapterHandler) Duplicate(c *gin.Context) {
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
