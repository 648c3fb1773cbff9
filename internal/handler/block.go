package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/storycanvas/backend/internal/service"
)

type BlockHandler struct {
	service *service.BlockService
}

// NewBlockHandler 创建内容块处理器
func NewBlockHandler(service *service.BlockService) *BlockHandler {
	return &BlockHandler{service: service}
}

// Create 在章节内创建内容块，:id 为章节 ID
func (h *BlockHandler) Create(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	chapterID, ok := parseID(c)
	if !ok {
		return
	}

	var req service.CreateBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.ChapterID = chapterID

	block, err := h.service.Create(c.Request.Context(), caller, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, block)
}

// List 获取章节的内容块列表，:id 为章节 ID
func (h *BlockHandler) List(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	chapterID, ok := parseID(c)
	if !ok {
		return
	}

	blocks, err := h.service.ListByChapter(c.Request.Context(), caller, chapterID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, blocks)
}

// Update 更新内容块
func (h *BlockHandler) Update(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req service.UpdateBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	block, err := h.service.Update(c.Request.Context(), caller, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, block)
}

// Delete 删除内容块
func (h *BlockHandler) Delete(c *gin.Context) {
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
	c.JSON(http.StatusOK, gin.H{"message": "block deleted"})
}
