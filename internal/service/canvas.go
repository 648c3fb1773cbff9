package service

import (
	"context"
	"fmt"

	"github.com/storycanvas/backend/internal/model"
	"github.com/storycanvas/backend/internal/repository"
	"k8s.io/klog/v2"
)

// CanvasService 负责新故事书的画布引导：合成首个页面及起始节点
type CanvasService struct {
	gate     *AccessGate
	pages    repository.PageRepository
	pageSvc  *PageService
	frameSvc *FrameService
}

// NewCanvasService 创建服务实例
func NewCanvasService(gate *AccessGate, pages repository.PageRepository, pageSvc *PageService, frameSvc *FrameService) *CanvasService {
	return &CanvasService{gate: gate, pages: pages, pageSvc: pageSvc, frameSvc: frameSvc}
}

// EnsureDefaultCanvas 幂等引导：已有页面时原样返回且不发生任何写入；
// 否则创建一个标准书页和三个起始节点（衬线标题、图片占位、正文文本）。
// 每本新故事书首次打开都会收敛到这个初始状态
func (s *CanvasService) EnsureDefaultCanvas(ctx context.Context, callerID string, storybookID uint) ([]model.Page, error) {
	sb, err := s.gate.Authorize(ctx, callerID, storybookID, CapabilityOwner)
	if err != nil {
		return nil, err
	}

	existing, err := s.pages.ListByStorybook(storybookID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pages: %w", err)
	}
	if len(existing) > 0 {
		return existing, nil
	}

	page, err := s.pageSvc.Create(ctx, callerID, CreatePageRequest{
		StorybookID: storybookID,
		SizePreset:  model.SizePortrait,
	})
	if err != nil {
		return nil, err
	}

	// 标题：衬线大字号，以故事书标题为初始文案
	if _, err := s.frameSvc.Create(ctx, callerID, CreateFrameRequest{
		PageID: page.ID,
		Type:   model.NodeText,
		X:      floatPtr(48),
		Y:      floatPtr(128),
		W:      floatPtr(1440),
		H:      floatPtr(256),
		Style: &model.Style{
			FontFamily: "Georgia",
			FontSize:   96,
			FontWeight: "bold",
			Color:      "#1f2933",
			Align:      "center",
		},
		Content: &model.NodeContent{Text: &model.TextContent{Text: sb.Title, Align: "center"}},
	}); err != nil {
		return nil, err
	}

	// 左下：图片占位
	if _, err := s.frameSvc.Create(ctx, callerID, CreateFrameRequest{
		PageID: page.ID,
		Type:   model.NodeImage,
		X:      floatPtr(48),
		Y:      floatPtr(480),
		W:      floatPtr(696),
		H:      floatPtr(1040),
	}); err != nil {
		return nil, err
	}

	// 右下：无衬线正文
	if _, err := s.frameSvc.Create(ctx, callerID, CreateFrameRequest{
		PageID: page.ID,
		Type:   model.NodeText,
		X:      floatPtr(792),
		Y:      floatPtr(480),
		W:      floatPtr(696),
		H:      floatPtr(1040),
		Style: &model.Style{
			FontFamily: "Inter",
			FontSize:   32,
			Color:      "#323f4b",
			Align:      "left",
		},
	}); err != nil {
		return nil, err
	}

	klog.V(6).Infof("引导故事书 %d 的默认画布，页面 %d", storybookID, page.ID)
	return s.pages.ListByStorybook(storybookID)
}

func floatPtr(v float64) *float64 {
	return &v
}
