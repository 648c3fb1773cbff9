package repository

import (
	"time"

	"github.com/storycanvas/backend/internal/model"
	"github.com/storycanvas/backend/internal/ordering"
	"gorm.io/gorm"
)

type chapterRepository struct {
	db *gorm.DB
}

// NewChapterRepository 创建 Repository 实例
func NewChapterRepository(db *gorm.DB) ChapterRepository {
	return &chapterRepository{db: db}
}

func (r *chapterRepository) Get(id uint) (*model.Chapter, error) {
	var chapter model.Chapter
	if err := r.db.First(&chapter, id).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &chapter, nil
}

func (r *chapterRepository) ListByStorybook(storybookID uint) ([]model.Chapter, error) {
	var chapters []model.Chapter
	err := r.db.Where("storybook_id = ?", storybookID).
		Order("order_index ASC").
		Find(&chapters).Error
	return chapters, err
}

// Append 追加到章节列表末尾
func (r *chapterRepository) Append(chapter *model.Chapter) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Chapter{}).
			Where("storybook_id = ?", chapter.StorybookID).
			Count(&count).Error; err != nil {
			return err
		}
		chapter.OrderIndex = int(count)
		if err := tx.Create(chapter).Error; err != nil {
			return err
		}
		return touchStorybook(tx, chapter.StorybookID)
	})
}

func (r *chapterRepository) Save(chapter *model.Chapter) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(chapter).Error; err != nil {
			return err
		}
		return touchStorybook(tx, chapter.StorybookID)
	})
}

// DeleteAndCompact 先删除内容块再删除章节，剩余章节压实回 0..n-1
func (r *chapterRepository) DeleteAndCompact(chapter *model.Chapter) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("chapter_id = ?", chapter.ID).Delete(&model.Block{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.Chapter{}, chapter.ID).Error; err != nil {
			return err
		}
		siblings, err := chapterSiblings(tx, chapter.StorybookID)
		if err != nil {
			return err
		}
		if err := applyMoves(tx, &model.Chapter{}, "order_index", ordering.Compact(siblings, 0)); err != nil {
			return err
		}
		return touchStorybook(tx, chapter.StorybookID)
	})
}

func (r *chapterRepository) Reorder(storybookID uint, orderedIDs []uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		siblings, err := chapterSiblings(tx, storybookID)
		if err != nil {
			return err
		}
		moves, err := ordering.Permute(siblings, orderedIDs, 0)
		if err != nil {
			return err
		}
		if err := applyMoves(tx, &model.Chapter{}, "order_index", moves); err != nil {
			return err
		}
		return touchStorybook(tx, storybookID)
	})
}

// Duplicate 在源章节之后插入副本并克隆其全部内容块
func (r *chapterRepository) Duplicate(src *model.Chapter) (*model.Chapter, error) {
	clone := *src
	clone.ID = 0
	clone.Blocks = nil
	clone.CreatedAt = time.Time{}
	clone.UpdatedAt = time.Time{}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		siblings, err := chapterSiblings(tx, src.StorybookID)
		if err != nil {
			return err
		}
		idx, moves := ordering.InsertAt(siblings, src.OrderIndex+1, 0)
		if err := applyMoves(tx, &model.Chapter{}, "order_index", moves); err != nil {
			return err
		}
		clone.OrderIndex = idx
		if err := tx.Create(&clone).Error; err != nil {
			return err
		}

		var blocks []model.Block
		if err := tx.Where("chapter_id = ?", src.ID).
			Order("order_index ASC").
			Find(&blocks).Error; err != nil {
			return err
		}
		for i := range blocks {
			b := blocks[i]
			b.ID = 0
			b.ChapterID = clone.ID
			b.CreatedAt = time.Time{}
			b.UpdatedAt = time.Time{}
			if err := tx.Create(&b).Error; err != nil {
				return err
			}
			clone.Blocks = append(clone.Blocks, b)
		}
		return touchStorybook(tx, src.StorybookID)
	})
	if err != nil {
		return nil, err
	}
	return &clone, nil
}

func chapterSiblings(tx *gorm.DB, storybookID uint) ([]ordering.Sibling, error) {
	var chapters []model.Chapter
	if err := tx.Select("id", "order_index").
		Where("storybook_id = ?", storybookID).
		Find(&chapters).Error; err != nil {
		return nil, err
	}
	siblings := make([]ordering.Sibling, len(chapters))
	for i, c := range chapters {
		siblings[i] = ordering.Sibling{ID: c.ID, Index: c.OrderIndex}
	}
	return siblings, nil
}
