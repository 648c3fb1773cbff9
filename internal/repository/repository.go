package repository

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/storycanvas/backend/internal/model"
	"github.com/storycanvas/backend/internal/ordering"
	"gorm.io/gorm"
)

// ErrNotFound 记录不存在错误
var ErrNotFound = errors.New("record not found")

// ErrVersionConflict 节点版本比较失败（乐观并发控制）
var ErrVersionConflict = errors.New("frame version conflict")

type StorybookRepository interface {
	Create(sb *model.Storybook) error
	Get(id uint) (*model.Storybook, error)
	ListByOwner(ownerID string) ([]model.Storybook, error)
	Save(sb *model.Storybook) error
	Touch(id uint) error
	Delete(id uint) error
}

type PageRepository interface {
	Get(id uint) (*model.Page, error)
	ListByStorybook(storybookID uint) ([]model.Page, error)
	Append(page *model.Page) error
	Save(page *model.Page) error
	DeleteAndCompact(page *model.Page) error
	Reorder(storybookID uint, orderedIDs []uint) error
	Duplicate(src *model.Page) (*model.Page, error)
}

type FrameRepository interface {
	Get(id uint) (*model.Frame, error)
	ListByPage(pageID uint) ([]model.Frame, error)
	ListByStorybook(storybookID uint) ([]model.Frame, error)
	Create(frame *model.Frame, requestedZ *int) error
	UpdateCAS(frameID, storybookID uint, expectedVersion *int, updates map[string]any) error
	DeleteAndCompact(frame *model.Frame) error
	Duplicate(src *model.Frame) (*model.Frame, error)
}

type ChapterRepository interface {
	Get(id uint) (*model.Chapter, error)
	ListByStorybook(storybookID uint) ([]model.Chapter, error)
	Append(chapter *model.Chapter) error
	Save(chapter *model.Chapter) error
	DeleteAndCompact(chapter *model.Chapter) error
	Reorder(storybookID uint, orderedIDs []uint) error
	Duplicate(src *model.Chapter) (*model.Chapter, error)
}

type BlockRepository interface {
	Get(id uint) (*model.Block, error)
	ListByChapter(chapterID uint) ([]model.Block, error)
	Create(block *model.Block, requestedIndex *int) error
	Update(block *model.Block, updates map[string]any) error
	DeleteAndCompact(block *model.Block) error
}

// touchStorybook 在同一事务内推进故事书的 updated_at，
// 供外部消费方做“文档已变更”探测，取值本身不承载约束
func touchStorybook(tx *gorm.DB, storybookID uint) error {
	return tx.Model(&model.Storybook{}).
		Where("id = ?", storybookID).
		Update("updated_at", time.Now()).Error
}

// applyMoves 将排序算法产出的写入集落库，field 为索引列名
func applyMoves(tx *gorm.DB, modelValue any, field string, moves []ordering.Move) error {
	for _, m := range moves {
		if err := tx.Model(modelValue).
			Where("id = ?", m.ID).
			Update(field, m.Index).Error; err != nil {
			return err
		}
	}
	return nil
}

// encodeJSONColumns map 方式的 Updates 不走 serializer，
// JSON 列在落库前手工编码
func encodeJSONColumns(updates map[string]any, cols ...string) error {
	for _, col := range cols {
		v, ok := updates[col]
		if !ok {
			continue
		}
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		updates[col] = string(b)
	}
	return nil
}

func wrapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
