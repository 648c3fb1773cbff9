package repository

import (
	"time"

	"github.com/storycanvas/backend/internal/model"
	"github.com/storycanvas/backend/internal/ordering"
	"gorm.io/gorm"
)

type pageRepository struct {
	db *gorm.DB
}

// NewPageRepository 创建 Repository 实例
func NewPageRepository(db *gorm.DB) PageRepository {
	return &pageRepository{db: db}
}

func (r *pageRepository) Get(id uint) (*model.Page, error) {
	var page model.Page
	if err := r.db.First(&page, id).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &page, nil
}

func (r *pageRepository) ListByStorybook(storybookID uint) ([]model.Page, error) {
	var pages []model.Page
	err := r.db.Where("storybook_id = ?", storybookID).
		Order("order_index ASC").
		Find(&pages).Error
	return pages, err
}

// Append 追加到页面列表末尾，不触发整体重排
func (r *pageRepository) Append(page *model.Page) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Page{}).
			Where("storybook_id = ?", page.StorybookID).
			Count(&count).Error; err != nil {
			return err
		}
		page.OrderIndex = int(count)
		if err := tx.Create(page).Error; err != nil {
			return err
		}
		return touchStorybook(tx, page.StorybookID)
	})
}

func (r *pageRepository) Save(page *model.Page) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(page).Error; err != nil {
			return err
		}
		return touchStorybook(tx, page.StorybookID)
	})
}

// DeleteAndCompact 先级联删除子节点，再删除页面本身，
// 最后把剩余同级页面压实回 0..n-1
func (r *pageRepository) DeleteAndCompact(page *model.Page) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("page_id = ?", page.ID).Delete(&model.Frame{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.Page{}, page.ID).Error; err != nil {
			return err
		}
		siblings, err := pageSiblings(tx, page.StorybookID)
		if err != nil {
			return err
		}
		if err := applyMoves(tx, &model.Page{}, "order_index", ordering.Compact(siblings, 0)); err != nil {
			return err
		}
		return touchStorybook(tx, page.StorybookID)
	})
}

// Reorder 整体换序，orderedIDs 必须恰好是当前页面集合的一个排列
func (r *pageRepository) Reorder(storybookID uint, orderedIDs []uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		siblings, err := pageSiblings(tx, storybookID)
		if err != nil {
			return err
		}
		moves, err := ordering.Permute(siblings, orderedIDs, 0)
		if err != nil {
			return err
		}
		if err := applyMoves(tx, &model.Page{}, "order_index", moves); err != nil {
			return err
		}
		return touchStorybook(tx, storybookID)
	})
}

// Duplicate 在源页面之后插入一份完整副本：后续页面整体让位 +1，
// 副本复制除 ID/时间戳外的全部字段，子节点按原 z 序克隆且版本重置为 1
func (r *pageRepository) Duplicate(src *model.Page) (*model.Page, error) {
	clone := *src
	clone.ID = 0
	clone.Frames = nil
	clone.CreatedAt = time.Time{}
	clone.UpdatedAt = time.Time{}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		siblings, err := pageSiblings(tx, src.StorybookID)
		if err != nil {
			return err
		}
		idx, moves := ordering.InsertAt(siblings, src.OrderIndex+1, 0)
		if err := applyMoves(tx, &model.Page{}, "order_index", moves); err != nil {
			return err
		}
		clone.OrderIndex = idx
		if err := tx.Create(&clone).Error; err != nil {
			return err
		}

		var frames []model.Frame
		if err := tx.Where("page_id = ?", src.ID).
			Order("z_index ASC").
			Find(&frames).Error; err != nil {
			return err
		}
		for i := range frames {
			f := frames[i]
			f.ID = 0
			f.PageID = clone.ID
			f.Version = 1
			f.CreatedAt = time.Time{}
			f.UpdatedAt = time.Time{}
			if err := tx.Create(&f).Error; err != nil {
				return err
			}
			clone.Frames = append(clone.Frames, f)
		}
		return touchStorybook(tx, src.StorybookID)
	})
	if err != nil {
		return nil, err
	}
	return &clone, nil
}

func pageSiblings(tx *gorm.DB, storybookID uint) ([]ordering.Sibling, error) {
	var pages []model.Page
	if err := tx.Select("id", "order_index").
		Where("storybook_id = ?", storybookID).
		Find(&pages).Error; err != nil {
		return nil, err
	}
	siblings := make([]ordering.Sibling, len(pages))
	for i, p := range pages {
		siblings[i] = ordering.Sibling{ID: p.ID, Index: p.OrderIndex}
	}
	return siblings, nil
}
