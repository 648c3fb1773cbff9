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

// CreateFrameRequest 创建节点请求。几何字段缺省时按类型查默认值，
// 内容缺省时按类型合成默认内容
type CreateFrameRequest struct {
	PageID  uint               `json:"-"` // 从 URL 参数获取
	Type    model.NodeType     `json:"type" binding:"required"`
	X       *float64           `json:"x"`
	Y       *float64           `json:"y"`
	W       *float64           `json:"w"`
	H       *float64           `json:"h"`
	ZIndex  *int               `json:"z_index"`
	Style   *model.Style       `json:"style"`
	Content *model.NodeContent `json:"content"`
	Crop    *model.Crop        `json:"crop"`
}

// UpdateFrameRequest 更新节点请求。ExpectedVersion 提供时做版本比较交换，
// 不一致则整体拒绝；不提供时最后写入者胜出
type UpdateFrameRequest struct {
	X               *float64           `json:"x"`
	Y               *float64           `json:"y"`
	W               *float64           `json:"w"`
	H               *float64           `json:"h"`
	IsLocked        *bool              `json:"is_locked"`
	Style           *model.Style       `json:"style"`
	Content         *model.NodeContent `json:"content"`
	Crop            *model.Crop        `json:"crop"`
	ExpectedVersion *int               `json:"expected_version"`
}

// FrameService 画布节点服务
type FrameService struct {
	gate   *AccessGate
	pages  repository.PageRepository
	frames repository.FrameRepository
	bus    *eventbus.CanvasEventBus
}

// NewFrameService 创建服务实例
func NewFrameService(gate *AccessGate, pages repository.PageRepository, frames repository.FrameRepository, bus *eventbus.CanvasEventBus) *FrameService {
	return &FrameService{gate: gate, pages: pages, frames: frames, bus: bus}
}

// Create 创建节点。指定 z_index 时插入让位，否则追加到顶层；新节点版本为 1
func (s *FrameService) Create(ctx context.Context, callerID string, req CreateFrameRequest) (*model.Frame, error) {
	if !model.ValidNodeType(req.Type) {
		return nil, ErrInvalidNodeType
	}

	page, err := s.pages.Get(req.PageID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPageNotFound
		}
		return nil, fmt.Errorf("failed to get page: %w", err)
	}
	sb, err := s.gate.Authorize(ctx, callerID, page.StorybookID, CapabilityOwner)
	if err != nil {
		return nil, err
	}

	defaultW, defaultH := model.DefaultSize(req.Type)
	frame := &model.Frame{
		PageID:      page.ID,
		StorybookID: page.StorybookID,
		OwnerID:     sb.OwnerID,
		Type:        req.Type,
		W:           defaultW,
		H:           defaultH,
		Version:     1,
	}
	if req.X != nil {
		frame.X = *req.X
	}
	if req.Y != nil {
		frame.Y = *req.Y
	}
	if req.W != nil {
		frame.W = clampSize(*req.W)
	}
	if req.H != nil {
		frame.H = clampSize(*req.H)
	}
	if req.Style != nil {
		frame.Style = *req.Style
	}
	if req.Content != nil && !req.Content.IsZero() {
		frame.Content = *req.Content
	} else {
		frame.Content = model.DefaultContent(req.Type)
	}
	frame.Crop = req.Crop

	if err := s.frames.Create(frame, req.ZIndex); err != nil {
		return nil, fmt.Errorf("failed to create frame: %w", err)
	}
	klog.V(6).Infof("创建节点 %d (page=%d, type=%s, z=%d)", frame.ID, page.ID, frame.Type, frame.ZIndex)
	s.publish(ctx, eventbus.CanvasFrameCreated, eventbus.CanvasEvent{StorybookID: page.StorybookID, PageID: page.ID, FrameID: frame.ID})
	return frame, nil
}

// Update 部分更新节点。版本比较失败时不落任何写入，
// 返回携带当前版本号的冲突错误；成功则版本严格 +1
func (s *FrameService) Update(ctx context.Context, callerID string, frameID uint, req UpdateFrameRequest) (*model.Frame, error) {
	frame, err := s.load(frameID)
	if err != nil {
		return nil, err
	}
	if _, err := s.gate.Authorize(ctx, callerID, frame.StorybookID, CapabilityOwner); err != nil {
		return nil, err
	}
	if req.ExpectedVersion != nil && *req.ExpectedVersion != frame.Version {
		return nil, &VersionConflictError{CurrentVersion: frame.Version}
	}

	updates := map[string]any{}
	if req.X != nil {
		updates["x"] = *req.X
	}
	if req.Y != nil {
		updates["y"] = *req.Y
	}
	if req.W != nil {
		updates["w"] = clampSize(*req.W)
	}
	if req.H != nil {
		updates["h"] = clampSize(*req.H)
	}
	if req.IsLocked != nil {
		updates["is_locked"] = *req.IsLocked
	}
	if req.Style != nil {
		updates["style"] = *req.Style
	}
	if req.Content != nil {
		updates["content"] = *req.Content
	}
	if req.Crop != nil {
		updates["crop"] = *req.Crop
	}

	if err := s.frames.UpdateCAS(frame.ID, frame.StorybookID, req.ExpectedVersion, updates); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			// 比较交换输掉：重读当前版本返回给调用方
			current, readErr := s.load(frameID)
			if readErr != nil {
				return nil, readErr
			}
			return nil, &VersionConflictError{CurrentVersion: current.Version}
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrFrameNotFound
		}
		return nil, fmt.Errorf("failed to update frame: %w", err)
	}

	updated, err := s.load(frameID)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, eventbus.CanvasFrameUpdated, eventbus.CanvasEvent{StorybookID: frame.StorybookID, PageID: frame.PageID, FrameID: frame.ID})
	return updated, nil
}

// Remove 删除节点并把剩余同级压实回 1..n
func (s *FrameService) Remove(ctx context.Context, callerID string, frameID uint) error {
	frame, err := s.load(frameID)
	if err != nil {
		return err
	}
	if _, err := s.gate.Authorize(ctx, callerID, frame.StorybookID, CapabilityOwner); err != nil {
		return err
	}

	if err := s.frames.DeleteAndCompact(frame); err != nil {
		return fmt.Errorf("failed to delete frame: %w", err)
	}
	klog.V(6).Infof("删除节点 %d (page=%d)", frameID, frame.PageID)
	s.publish(ctx, eventbus.CanvasFrameDeleted, eventbus.CanvasEvent{StorybookID: frame.StorybookID, PageID: frame.PageID, FrameID: frameID})
	return nil
}

// Duplicate 复制单个节点到同页顶层，版本重置为 1
func (s *FrameService) Duplicate(ctx context.Context, callerID string, frameID uint) (*model.Frame, error) {
	frame, err := s.load(frameID)
	if err != nil {
		return nil, err
	}
	if _, err := s.gate.Authorize(ctx, callerID, frame.StorybookID, CapabilityOwner); err != nil {
		return nil, err
	}

	clone, err := s.frames.Duplicate(frame)
	if err != nil {
		return nil, fmt.Errorf("failed to duplicate frame: %w", err)
	}
	s.publish(ctx, eventbus.CanvasFrameCreated, eventbus.CanvasEvent{StorybookID: frame.StorybookID, PageID: frame.PageID, FrameID: clone.ID})
	return clone, nil
}

// ListByPage 按 z_index 升序返回页面上的全部节点
func (s *FrameService) ListByPage(ctx context.Context, callerID string, pageID uint) ([]model.Frame, error) {
	page, err := s.pages.Get(pageID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPageNotFound
		}
		return nil, fmt.Errorf("failed to get page: %w", err)
	}
	if _, err := s.gate.Authorize(ctx, callerID, page.StorybookID, CapabilityViewer); err != nil {
		return nil, err
	}
	return s.frames.ListByPage(pageID)
}

// ListByStorybook 返回故事书全部节点，供导出方拉平画布
func (s *FrameService) ListByStorybook(ctx context.Context, callerID string, storybookID uint) ([]model.Frame, error) {
	if _, err := s.gate.Authorize(ctx, callerID, storybookID, CapabilityViewer); err != nil {
		return nil, err
	}
	return s.frames.ListByStorybook(storybookID)
}

func (s *FrameService) load(frameID uint) (*model.Frame, error) {
	frame, err := s.frames.Get(frameID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrFrameNotFound
		}
		return nil, fmt.Errorf("failed to get frame: %w", err)
	}
	return frame, nil
}

func (s *FrameService) publish(ctx context.Context, eventType eventbus.CanvasEventType, event eventbus.CanvasEvent) {
	publishCanvasEvent(ctx, s.bus, eventType, event)
}

func clampSize(v float64) float64 {
	if v < model.MinFrameSize {
		return model.MinFrameSize
	}
	return v
}
