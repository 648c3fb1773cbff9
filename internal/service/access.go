package service

import (
	"context"
	"errors"

	"github.com/storycanvas/backend/internal/model"
	"github.com/storycanvas/backend/internal/repository"
)

// Capability 访问能力，VIEWER 只读，OWNER 可写
type Capability string

const (
	CapabilityViewer Capability = "VIEWER"
	CapabilityOwner  Capability = "OWNER"
)

// AccessGate 每个写读操作的统一授权入口：
// 解析目标故事书并校验调用方持有所需能力，校验失败时不发生任何写入
type AccessGate struct {
	storybooks repository.StorybookRepository
}

// NewAccessGate 创建授权入口
func NewAccessGate(storybooks repository.StorybookRepository) *AccessGate {
	return &AccessGate{storybooks: storybooks}
}

// Authorize 纯检查，无副作用。目前 VIEWER 与 OWNER 一样要求调用方
// 即故事书所有者：还没有共享模型，但保留双能力接口，
// 以后放开 VIEWER 时不需要改动任何调用点
func (g *AccessGate) Authorize(ctx context.Context, callerID string, storybookID uint, required Capability) (*model.Storybook, error) {
	sb, err := g.storybooks.Get(storybookID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrStorybookNotFound
		}
		return nil, err
	}

	switch required {
	case CapabilityOwner, CapabilityViewer:
		if sb.OwnerID != callerID {
			return nil, ErrForbidden
		}
	default:
		return nil, ErrForbidden
	}
	return sb, nil
}
