package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/storycanvas/backend/internal/eventbus"
	"github.com/storycanvas/backend/internal/model"
	"github.com/storycanvas/backend/internal/repository"
)

// CreateBlockRequest 创建内容块请求。内容缺省时按类型合成默认内容
type CreateBlockRequest struct {
	ChapterID  uint               `json:"-"` // 从 URL 参数获取
	Type       model.NodeType     `json:"type" binding:"required"`
	OrderIndex *int               `json:"order_index"`
	Style      *model.Style       `json:"style"`
	Content    *model.NodeContent `json:"content"`
}

// UpdateBlockRequest 更新内容块请求。没有版本比较，最后写入者胜出
type UpdateBlockRequest struct {
	IsLocked *bool              `json:"is_locked"`
	Style    *model.Style       `json:"style"`
	Content  *model.NodeContent `json:"content"`
}

// BlockService 内容块服务，排序模式与画布节点一致（1 起始），
// 但不做版本并发控制
type BlockService struct {
	gate     *AccessGate
	chapters repository.ChapterRepository
	blocks   repository.BlockRepository
	bus      *eventbus.CanvasEventBus
}

// NewBlockService 创建服务实例
func NewBlockService(gate *AccessGate, chapters repository.ChapterRepository, blocks repository.BlockRepository, bus *eventbus.CanvasEventBus) *BlockService {
	return &BlockService{gate: gate, chapters: chapters, blocks: blocks, bus: bus}
}

// Create 创建内容块。指定 order_index 时插入让位，否则追加到末尾
func (s *BlockService) Create(ctx context.Context, callerID string, req CreateBlockRequest) (*model.Block, error) {
	if !model.ValidNodeType(req.Type) {
		return nil, ErrInvalidNodeType
	}

	chapter, err := s.chapters.Get(req.ChapterID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrChapterNotFound
		}
		return nil, fmt.Errorf("failed to get chapter: %w", err)
	}
	sb, err := s.gate.Authorize(ctx, callerID, chapter.StorybookID, CapabilityOwner)
	if err != nil {
		return nil, err
	}

	block := &model.Block{
		ChapterID:   chapter.ID,
		StorybookID: chapter.StorybookID,
		OwnerID:     sb.OwnerID,
		Type:        req.Type,
	}
	if req.Style != nil {
		block.Style = *req.Style
	}
	if req.Content != nil && !req.Content.IsZero() {
		block.Content = *req.Content
	} else {
		block.Content = model.DefaultContent(req.Type)
	}

	if err := s.blocks.Create(block, req.OrderIndex); err != nil {
		return nil, fmt.Errorf("failed to create block: %w", err)
	}
	s.publish(ctx, eventbus.CanvasStorybookTouched, eventbus.CanvasEvent{StorybookID: chapter.StorybookID})
	return block, nil
}

// Update 部分更新内容块
func (s *BlockService) Update(ctx context.Context, callerID string, blockID uint, req UpdateBlockRequest) (*model.Block, error) {
	block, err := s.load(blockID)
	if err != nil {
		return nil, err
	}
	if _, err := s.gate.Authorize(ctx, callerID, block.StorybookID, CapabilityOwner); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if req.IsLocked != nil {
		updates["is_locked"] = *req.IsLocked
	}
	if req.Style != nil {
		updates["style"] = *req.Style
	}
	if req.Content != nil {
		updates["content"] = *req.Content
	}

	if err := s.blocks.Update(block, updates); err != nil {
		return nil, fmt.Errorf("failed to update block: %w", err)
	}
	s.publish(ctx, eventbus.CanvasStorybookTouched, eventbus.CanvasEvent{StorybookID: block.StorybookID})
	return s.load(blockID)
}

// Remove 删除内容块并把剩余同级压实回 1..n
func (s *BlockService) Remove(ctx context.Context, callerID string, blockID uint) error {
	block, err := s.load(blockID)
	if err != nil {
		return err
	}
	if _, err := s.gate.Authorize(ctx, callerID, block.StorybookID, CapabilityOwner); err != nil {
		return err
	}

	if err := s.blocks.DeleteAndCompact(block); err != nil {
		return fmt.Errorf("failed to delete block: %w", err)
	}
	s.publish(ctx, eventbus.CanvasStorybookTouched, eventbus.CanvasEvent{StorybookID: block.StorybookID})
	return nil
}

// ListByChapter 按 orderIndex 升序返回章节的全部内容块
func (s *BlockService) ListByChapter(ctx context.Context, callerID string, chapterID uint) ([]model.Block, error) {
	chapter, err := s.chapters.Get(chapterID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrChapterNotFound
		}
		return nil, fmt.Errorf("failed to get chapter: %w", err)
	}
	if _, err := s.gate.Authorize(ctx, callerID, chapter.StorybookID, CapabilityViewer); err != nil {
		return nil, err
	}
	return s.blocks.ListByChapter(chapterID)
}

func (s *BlockService) load(blockID uint) (*model.Block, error) {
	block, err := s.blocks.Get(blockID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBlockNotFound
		}
		return nil, fmt.Errorf("failed to get block: %w", err)
	}
	return block, nil
}

func (s *BlockService) publish(ctx context.Context, eventType eventbus.CanvasEventType, event eventbus.CanvasEvent) {
	publishCanvasEvent(ctx, s.bus, eventType, event)
}
