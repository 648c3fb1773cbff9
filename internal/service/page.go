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

// SettingLayoutEnabled 故事书设置项：画布编辑已启用（首个页面创建时置位）
const SettingLayoutEnabled = "layoutEnabled"

// CreatePageRequest 创建页面请求
type CreatePageRequest struct {
	StorybookID uint             `json:"-"` // 从 URL 参数获取
	SizePreset  model.SizePreset `json:"size_preset"`
	Background  string           `json:"background"`
}

// UpdatePageRequest 更新页面请求，字段均可选
type UpdatePageRequest struct {
	SizePreset *model.SizePreset `json:"size_preset"`
	Background *string           `json:"background"`
	Margins    *model.Margins    `json:"margins"`
	Grid       *model.Grid       `json:"grid"`
	IsHidden   *bool             `json:"is_hidden"`
	IsLocked   *bool             `json:"is_locked"`
}

// ReorderPagesRequest 页面整体换序请求
type ReorderPagesRequest struct {
	OrderedIDs []uint `json:"ordered_ids" binding:"required"`
}

// PageService 页面服务
type PageService struct {
	gate       *AccessGate
	storybooks repository.StorybookRepository
	pages      repository.PageRepository
	bus        *eventbus.CanvasEventBus
}

// NewPageService 创建服务实例
func NewPageService(gate *AccessGate, storybooks repository.StorybookRepository, pages repository.PageRepository, bus *eventbus.CanvasEventBus) *PageService {
	return &PageService{gate: gate, storybooks: storybooks, pages: pages, bus: bus}
}

// Create 在页面列表末尾追加新页面，并确保故事书的画布编辑标记已置位
func (s *PageService) Create(ctx context.Context, callerID string, req CreatePageRequest) (*model.Page, error) {
	sb, err := s.gate.Authorize(ctx, callerID, req.StorybookID, CapabilityOwner)
	if err != nil {
		return nil, err
	}

	preset := req.SizePreset
	if preset == "" {
		preset = model.SizePortrait
	}
	width, height, ok := model.PresetSize(preset)
	if !ok {
		return nil, ErrInvalidSizePreset
	}

	page := &model.Page{
		StorybookID: sb.ID,
		OwnerID:     sb.OwnerID,
		SizePreset:  preset,
		Width:       width,
		Height:      height,
		Margins:     model.DefaultMargins(),
		Grid:        model.DefaultGrid(),
		Background:  req.Background,
	}
	if err := s.pages.Append(page); err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	if enabled, _ := sb.Settings[SettingLayoutEnabled].(bool); !enabled {
		if sb.Settings == nil {
			sb.Settings = model.JSONMap{}
		}
		sb.Settings[SettingLayoutEnabled] = true
		if err := s.storybooks.Save(sb); err != nil {
			return nil, fmt.Errorf("failed to flag layout enabled: %w", err)
		}
	}

	klog.V(6).Infof("创建页面 %d (storybook=%d, order=%d)", page.ID, sb.ID, page.OrderIndex)
	s.publish(ctx, eventbus.CanvasPageCreated, eventbus.CanvasEvent{StorybookID: sb.ID, PageID: page.ID})
	return page, nil
}

// Update 部分更新页面；修改尺寸预设时按查找表重算宽高
func (s *PageService) Update(ctx context.Context, callerID string, pageID uint, req UpdatePageRequest) (*model.Page, error) {
	page, err := s.load(pageID)
	if err != nil {
		return nil, err
	}
	if _, err := s.gate.Authorize(ctx, callerID, page.StorybookID, CapabilityOwner); err != nil {
		return nil, err
	}

	if req.SizePreset != nil {
		width, height, ok := model.PresetSize(*req.SizePreset)
		if !ok {
			return nil, ErrInvalidSizePreset
		}
		page.SizePreset = *req.SizePreset
		page.Width = width
		page.Height = height
	}
	if req.Background != nil {
		page.Background = *req.Background
	}
	if req.Margins != nil {
		page.Margins = *req.Margins
	}
	if req.Grid != nil {
		page.Grid = *req.Grid
	}
	if req.IsHidden != nil {
		page.IsHidden = *req.IsHidden
	}
	if req.IsLocked != nil {
		page.IsLocked = *req.IsLocked
	}

	if err := s.pages.Save(page); err != nil {
		return nil, fmt.Errorf("failed to update page: %w", err)
	}
	s.publish(ctx, eventbus.CanvasStorybookTouched, eventbus.CanvasEvent{StorybookID: page.StorybookID, PageID: page.ID})
	return page, nil
}

// Remove 删除页面，先级联删除页面上的全部节点，再压实剩余页面索引
func (s *PageService) Remove(ctx context.Context, callerID string, pageID uint) error {
	page, err := s.load(pageID)
	if err != nil {
		return err
	}
	if _, err := s.gate.Authorize(ctx, callerID, page.StorybookID, CapabilityOwner); err != nil {
		return err
	}

	if err := s.pages.DeleteAndCompact(page); err != nil {
		return fmt.Errorf("failed to delete page: %w", err)
	}
	klog.V(6).Infof("删除页面 %d (storybook=%d)", pageID, page.StorybookID)
	s.publish(ctx, eventbus.CanvasPageDeleted, eventbus.CanvasEvent{StorybookID: page.StorybookID, PageID: pageID})
	return nil
}

// Reorder 整体换序，orderedIDs 必须恰好是当前页面集合的一个排列
func (s *PageService) Reorder(ctx context.Context, callerID string, storybookID uint, orderedIDs []uint) ([]model.Page, error) {
	if _, err := s.gate.Authorize(ctx, callerID, storybookID, CapabilityOwner); err != nil {
		return nil, err
	}

	if err := s.pages.Reorder(storybookID, orderedIDs); err != nil {
		return nil, err
	}
	s.publish(ctx, eventbus.CanvasStorybookTouched, eventbus.CanvasEvent{StorybookID: storybookID})
	return s.pages.ListByStorybook(storybookID)
}

// Duplicate 复制页面：副本紧随原页面之后，节点克隆保持相对 z 序，
// 版本全部重置为 1，编辑历史彼此独立
func (s *PageService) Duplicate(ctx context.Context, callerID string, pageID uint) (*model.Page, error) {
	page, err := s.load(pageID)
	if err != nil {
		return nil, err
	}
	if _, err := s.gate.Authorize(ctx, callerID, page.StorybookID, CapabilityOwner); err != nil {
		return nil, err
	}

	clone, err := s.pages.Duplicate(page)
	if err != nil {
		return nil, fmt.Errorf("failed to duplicate page: %w", err)
	}
	klog.V(6).Infof("复制页面 %d -> %d (storybook=%d)", pageID, clone.ID, page.StorybookID)
	s.publish(ctx, eventbus.CanvasPageDuplicated, eventbus.CanvasEvent{StorybookID: page.StorybookID, PageID: clone.ID})
	return clone, nil
}

// List 按 orderIndex 升序返回故事书的全部页面
func (s *PageService) List(ctx context.Context, callerID string, storybookID uint) ([]model.Page, error) {
	if _, err := s.gate.Authorize(ctx, callerID, storybookID, CapabilityViewer); err != nil {
		return nil, err
	}
	pages, err := s.pages.ListByStorybook(storybookID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pages: %w", err)
	}
	return pages, nil
}

func (s *PageService) load(pageID uint) (*model.Page, error) {
	page, err := s.pages.Get(pageID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPageNotFound
		}
		return nil, fmt.Errorf("failed to get page: %w", err)
	}
	return page, nil
}

func (s *PageService) publish(ctx context.Context, eventType eventbus.CanvasEventType, event eventbus.CanvasEvent) {
	publishCanvasEvent(ctx, s.bus, eventType, event)
}
