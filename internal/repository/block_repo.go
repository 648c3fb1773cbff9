package repository

import (
	"github.com/storycanvas/backend/internal/model"
	"github.com/storycanvas/backend/internal/ordering"
	"gorm.io/gorm"
)

type blockRepository struct {
	db *gorm.DB
}

// NewBlockRepository 创建 Repository 实例
func NewBlockRepository(db *gorm.DB) BlockRepository {
	return &blockRepository{db: db}
}

func (r *blockRepository) Get(id uint) (*model.Block, error) {
	var block model.Block
	if err := r.db.First(&block, id).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &block, nil
}

func (r *blockRepository) ListByChapter(chapterID uint) ([]model.Block, error) {
	var blocks []model.Block
	err := r.db.Where("chapter_id = ?", chapterID).
		Order("order_index ASC").
		Find(&blocks).Error
	return blocks, err
}

// Create 指定 requestedIndex 时为其让位插入，否则以 max+1 追加
func (r *blockRepository) Create(block *model.Block, requestedIndex *int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if requestedIndex == nil {
			var maxIndex int
			if err := tx.Model(&model.Block{}).
				Where("chapter_id = ?", block.ChapterID).
				Select("COALESCE(MAX(order_index), 0)").
				Scan(&maxIndex).Error; err != nil {
				return err
			}
			block.OrderIndex = maxIndex + 1
		} else {
			siblings, err := blockSiblings(tx, block.ChapterID)
			if err != nil {
				return err
			}
			idx, moves := ordering.InsertAt(siblings, *requestedIndex, 1)
			if err := applyMoves(tx, &model.Block{}, "order_index", moves); err != nil {
				return err
			}
			block.OrderIndex = idx
		}
		if err := tx.Create(block).Error; err != nil {
			return err
		}
		return touchStorybook(tx, block.StorybookID)
	})
}

// Update 无版本比较，最后写入者胜出
func (r *blockRepository) Update(block *model.Block, updates map[string]any) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := encodeJSONColumns(updates, "style", "content"); err != nil {
			return err
		}
		if err := tx.Model(&model.Block{}).
			Where("id = ?", block.ID).
			Updates(updates).Error; err != nil {
			return err
		}
		return touchStorybook(tx, block.StorybookID)
	})
}

// DeleteAndCompact 删除后剩余同级压实回 1..n
func (r *blockRepository) DeleteAndCompact(block *model.Block) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.Block{}, block.ID).Error; err != nil {
			return err
		}
		siblings, err := blockSiblings(tx, block.ChapterID)
		if err != nil {
			return err
		}
		if err := applyMoves(tx, &model.Block{}, "order_index", ordering.Compact(siblings, 1)); err != nil {
			return err
		}
		return touchStorybook(tx, block.StorybookID)
	})
}

func blockSiblings(tx *gorm.DB, chapterID uint) ([]ordering.Sibling, error) {
	var blocks []model.Block
	if err := tx.Select("id", "order_index").
		Where("chapter_id = ?", chapterID).
		Find(&blocks).Error; err != nil {
		return nil, err
	}
	siblings := make([]ordering.Sibling, len(blocks))
	for i, b := range blocks {
		siblings[i] = ordering.Sibling{ID: b.ID, Index: b.OrderIndex}
	}
	return siblings, nil
}
