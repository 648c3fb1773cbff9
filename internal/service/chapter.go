package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/storycanvas/backend/internal/eventbus"
	"github.com/storycanvas/backend/internal/model"
	"github.com/storycanvas/backend/internal/repository"
	"k8s.io/klog/v2"
)

// CreateChapterRequest 创建章节请求
type CreateChapterRequest struct {
	StorybookID uint   `json:"-"` // 从 URL 参数获取
	Title       string `json:"title" binding:"required,min=1,max=255"`
}

// UpdateChapterRequest 更新章节请求，字段均可选
type UpdateChapterRequest struct {
	Title    *string `json:"title"`
	IsHidden *bool   `json:"is_hidden"`
	IsLocked *bool   `json:"is_locked"`
}

// ChapterService 章节服务，排序模式与页面一致（0 起始，连续无空洞）
type ChapterService struct {
	gate     *AccessGate
	chapters repository.ChapterRepository
	bus      *eventbus.CanvasEventBus
}

// NewChapterService 创建服务实例
func NewChapterService(gate *AccessGate, chapters repository.ChapterRepository, bus *eventbus.CanvasEventBus) *ChapterService {
	return &ChapterService{gate: gate, chapters: chapters, bus: bus}
}

// Create 在章节列表末尾追加新章节
func (s *ChapterService) Create(ctx context.Context, callerID string, req CreateChapterRequest) (*model.Chapter, error) {
	sb, err := s.gate.Authorize(ctx, callerID, req.StorybookID, CapabilityOwner)
	if err != nil {
		return nil, err
	}

	chapter := &model.Chapter{
		StorybookID: sb.ID,
		OwnerID:     sb.OwnerID,
		Title:       req.Title,
	}
	if err := s.chapters.Append(chapter); err != nil {
		return nil, fmt.Errorf("failed to create chapter: %w", err)
	}
	klog.V(6).Infof("创建章节 %d (storybook=%d, order=%d)", chapter.ID, sb.ID, chapter.OrderIndex)
	s.publish(ctx, eventbus.CanvasStorybookTouched, eventbus.CanvasEvent{StorybookID: sb.ID})
	return chapter, nil
}

// Update 部分更新章节
func (s *ChapterService) Update(ctx context.Context, callerID string, chapterID uint, req UpdateChapterRequest) (*model.Chapter, error) {
	chapter, err := s.load(chapterID)
	if err != nil {
		return nil, err
	}
	if _, err := s.gate.Authorize(ctx, callerID, chapter.StorybookID, CapabilityOwner); err != nil {
		return nil, err
	}

	if req.Title != nil {
		chapter.Title = *req.Title
	}
	if req.IsHidden != nil {
		chapter.IsHidden = *req.IsHidden
	}
	if req.IsLocked != nil {
		chapter.IsLocked = *req.IsLocked
	}

	if err := s.chapters.Save(chapter); err != nil {
		return nil, fmt.Errorf("failed to update chapter: %w", err)
	}
	s.publish(ctx, eventbus.CanvasStorybookTouched, eventbus.CanvasEvent{StorybookID: chapter.StorybookID})
	return chapter, nil
}

// Remove 删除章节，先级联删除内容块，再压实剩余章节索引
func (s *ChapterService) Remove(ctx context.Context, callerID string, chapterID uint) error {
	chapter, err := s.load(chapterID)
	if err != nil {
		return err
	}
	if _, err := s.gate.Authorize(ctx, callerID, chapter.StorybookID, CapabilityOwner); err != nil {
		return err
	}

	if err := s.chapters.DeleteAndCompact(chapter); err != nil {
		return fmt.Errorf("failed to delete chapter: %w", err)
	}
	s.publish(ctx, eventbus.CanvasStorybookTouched, eventbus.CanvasEvent{StorybookID: chapter.StorybookID})
	return nil
}

// Reorder 整体换序，orderedIDs 必须恰好是当前章节集合的一个排列
func (s *ChapterService) Reorder(ctx context.Context, callerID string, storybookID uint, orderedIDs []uint) ([]model.Chapter, error) {
	if _, err := s.gate.Authorize(ctx, callerID, storybookID, CapabilityOwner); err != nil {
		return nil, err
	}

	if err := s.chapters.Reorder(storybookID, orderedIDs); err != nil {
		return nil, err
	}
	s.publish(ctx, eventbus.CanvasStorybookTouched, eventbus.CanvasEvent{StorybookID: storybookID})
	return s.chapters.ListByStorybook(storybookID)
}

// Duplicate 复制章节：副本紧随原章节之后，内容块按原顺序克隆
func (s *ChapterService) Duplicate(ctx context.Context, callerID string, chapterID uint) (*model.Chapter, error) {
	chapter, err := s.load(chapterID)
	if err != nil {
		return nil, err
	}
	if _, err := s.gate.Authorize(ctx, callerID, chapter.StorybookID, CapabilityOwner); err != nil {
		return nil, err
	}

	clone, err := s.chapters.Duplicate(chapter)
	if err != nil {
		return nil, fmt.Errorf("failed to duplicate chapter: %w", err)
	}
	klog.V(6).Infof("复制章节 %d -> %d (storybook=%d)", chapterID, clone.ID, chapter.StorybookID)
	s.publish(ctx, eventbus.CanvasStorybookTouched, eventbus.CanvasEvent{StorybookID: chapter.StorybookID})
	return clone, nil
}

// List 按 orderIndex 升序返回故事书的全部章节
func (s *ChapterService) List(ctx context.Context, callerID string, storybookID uint) ([]model.Chapter, error) {
	if _, err := s.gate.Authorize(ctx, callerID, storybookID, CapabilityViewer); err != nil {
		return nil, err
	}
	chapters, err := s.chapters.ListByStorybook(storybookID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chapters: %w", err)
	}
	return chapters, nil
}

func (s *ChapterService) load(chapterID uint) (*model.Chapter, error) {
	chapter, err := s.chapters.Get(chapterID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrChapterNotFound
		}
		return nil, fmt.Errorf("failed to get chapter: %w", err)
	}
	return chapter, nil
}

func (s *ChapterService) publish(ctx context.Context, eventType eventbus.CanvasEventType, event eventbus.CanvasEvent) {
	publishCanvasEvent(ctx, s.bus, eventType, event)
}
