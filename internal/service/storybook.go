package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/storycanvas/backend/internal/eventbus"
	"github.com/storycanvas/backend/internal/model"
	"github.com/storycanvas/backend/internal/repository"
	"k8s.io/klog/v2"
)

// CreateStorybookRequest 创建故事书请求
type CreateStorybookRequest struct {
	Title    string        `json:"title" binding:"required,min=1,max=255"`
	Settings model.JSONMap `json:"settings"`
}

// UpdateStorybookRequest 更新故事书请求，字段均可选
type UpdateStorybookRequest struct {
	Title    *string       `json:"title"`
	Status   *string       `json:"status"`
	Settings model.JSONMap `json:"settings"`
}

// StorybookService 故事书服务
type StorybookService struct {
	gate       *AccessGate
	storybooks repository.StorybookRepository
	bus        *eventbus.CanvasEventBus
}

// NewStorybookService 创建服务实例
func NewStorybookService(gate *AccessGate, storybooks repository.StorybookRepository, bus *eventbus.CanvasEventBus) *StorybookService {
	return &StorybookService{gate: gate, storybooks: storybooks, bus: bus}
}

// Create 创建故事书，所有者即调用方
func (s *StorybookService) Create(ctx context.Context, callerID string, req CreateStorybookRequest) (*model.Storybook, error) {
	settings := req.Settings
	if settings == nil {
		settings = model.JSONMap{}
	}
	sb := &model.Storybook{
		UUID:     uuid.New().String(),
		OwnerID:  callerID,
		Title:    req.Title,
		Status:   model.StatusDraft,
		Settings: settings,
	}
	if err := s.storybooks.Create(sb); err != nil {
		return nil, fmt.Errorf("failed to create storybook: %w", err)
	}
	klog.V(6).Infof("创建故事书 %d (owner=%s)", sb.ID, callerID)
	return sb, nil
}

// Get 获取故事书详情
func (s *StorybookService) Get(ctx context.Context, callerID string, id uint) (*model.Storybook, error) {
	return s.gate.Authorize(ctx, callerID, id, CapabilityViewer)
}

// ListByOwner 获取调用方名下的故事书
func (s *StorybookService) ListByOwner(ctx context.Context, callerID string) ([]model.Storybook, error) {
	sbs, err := s.storybooks.ListByOwner(callerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list storybooks: %w", err)
	}
	return sbs, nil
}

// Update 部分更新标题、状态、设置
func (s *StorybookService) Update(ctx context.Context, callerID string, id uint, req UpdateStorybookRequest) (*model.Storybook, error) {
	sb, err := s.gate.Authorize(ctx, callerID, id, CapabilityOwner)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		sb.Title = *req.Title
	}
	if req.Status != nil {
		switch *req.Status {
		case model.StatusDraft, model.StatusActive, model.StatusArchived, model.StatusDeleted:
			sb.Status = *req.Status
		default:
			return nil, ErrInvalidStatus
		}
	}
	if req.Settings != nil {
		if sb.Settings == nil {
			sb.Settings = model.JSONMap{}
		}
		for k, v := range req.Settings {
			sb.Settings[k] = v
		}
	}

	if err := s.storybooks.Save(sb); err != nil {
		return nil, fmt.Errorf("failed to update storybook: %w", err)
	}
	s.publish(ctx, eventbus.CanvasStorybookTouched, eventbus.CanvasEvent{StorybookID: sb.ID})
	return sb, nil
}

// Delete 删除故事书并级联删除全部页面、节点、章节、内容块
func (s *StorybookService) Delete(ctx context.Context, callerID string, id uint) error {
	if _, err := s.gate.Authorize(ctx, callerID, id, CapabilityOwner); err != nil {
		return err
	}
	if err := s.storybooks.Delete(id); err != nil {
		return fmt.Errorf("failed to delete storybook: %w", err)
	}
	klog.V(6).Infof("删除故事书 %d 及其全部子记录", id)
	return nil
}

func (s *StorybookService) publish(ctx context.Context, eventType eventbus.CanvasEventType, event eventbus.CanvasEvent) {
	publishCanvasEvent(ctx, s.bus, eventType, event)
}

// publishCanvasEvent 事件广播失败只记日志，不影响主流程
func publishCanvasEvent(ctx context.Context, bus *eventbus.CanvasEventBus, eventType eventbus.CanvasEventType, event eventbus.CanvasEvent) {
	if bus == nil {
		return
	}
	event.Type = eventType
	if err := bus.Publish(ctx, eventType, event); err != nil {
		klog.V(6).Infof("广播画布事件 %s 失败: %v", eventType, err)
	}
}
