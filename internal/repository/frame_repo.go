package repository

import (
	"time"

	"github.com/storycanvas/backend/internal/model"
	"github.com/storycanvas/backend/internal/ordering"
	"gorm.io/gorm"
)

type frameRepository struct {
	db *gorm.DB
}

// NewFrameRepository 创建 Repository 实例
func NewFrameRepository(db *gorm.DB) FrameRepository {
	return &frameRepository{db: db}
}

func (r *frameRepository) Get(id uint) (*model.Frame, error) {
	var frame model.Frame
	if err := r.db.First(&frame, id).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &frame, nil
}

func (r *frameRepository) ListByPage(pageID uint) ([]model.Frame, error) {
	var frames []model.Frame
	err := r.db.Where("page_id = ?", pageID).
		Order("z_index ASC").
		Find(&frames).Error
	return frames, err
}

func (r *frameRepository) ListByStorybook(storybookID uint) ([]model.Frame, error) {
	var frames []model.Frame
	err := r.db.Where("storybook_id = ?", storybookID).
		Order("page_id ASC, z_index ASC").
		Find(&frames).Error
	return frames, err
}

// Create 指定 requestedZ 时为其让位插入，否则以 max+1 追加（追加不重排）
func (r *frameRepository) Create(frame *model.Frame, requestedZ *int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if requestedZ == nil {
			var maxZ int
			if err := tx.Model(&model.Frame{}).
				Where("page_id = ?", frame.PageID).
				Select("COALESCE(MAX(z_index), 0)").
				Scan(&maxZ).Error; err != nil {
				return err
			}
			frame.ZIndex = maxZ + 1
		} else {
			siblings, err := frameSiblings(tx, frame.PageID)
			if err != nil {
				return err
			}
			idx, moves := ordering.InsertAt(siblings, *requestedZ, 1)
			if err := applyMoves(tx, &model.Frame{}, "z_index", moves); err != nil {
				return err
			}
			frame.ZIndex = idx
		}
		if err := tx.Create(frame).Error; err != nil {
			return err
		}
		return touchStorybook(tx, frame.StorybookID)
	})
}

// UpdateCAS 乐观并发更新。调用方提供 expectedVersion 时按版本比较交换，
// 比较失败不落任何写入并返回 ErrVersionConflict；未提供时最后写入者胜出，
// 两条路径都将 version 严格 +1
func (r *frameRepository) UpdateCAS(frameID, storybookID uint, expectedVersion *int, updates map[string]any) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := encodeJSONColumns(updates, "style", "content", "crop"); err != nil {
			return err
		}
		updates["version"] = gorm.Expr("version + 1")
		query := tx.Model(&model.Frame{}).Where("id = ?", frameID)
		if expectedVersion != nil {
			query = query.Where("version = ?", *expectedVersion)
		}
		result := query.Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			if expectedVersion != nil {
				return ErrVersionConflict
			}
			return ErrNotFound
		}
		return touchStorybook(tx, storybookID)
	})
}

// DeleteAndCompact 删除节点后把剩余同级压实回 1..n（与创建时的编号基数一致）
func (r *frameRepository) DeleteAndCompact(frame *model.Frame) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.Frame{}, frame.ID).Error; err != nil {
			return err
		}
		siblings, err := frameSiblings(tx, frame.PageID)
		if err != nil {
			return err
		}
		if err := applyMoves(tx, &model.Frame{}, "z_index", ordering.Compact(siblings, 1)); err != nil {
			return err
		}
		return touchStorybook(tx, frame.StorybookID)
	})
}

// Duplicate 在同一页面顶层追加一份副本，版本重置为 1
func (r *frameRepository) Duplicate(src *model.Frame) (*model.Frame, error) {
	clone := *src
	clone.ID = 0
	clone.Version = 1
	clone.CreatedAt = time.Time{}
	clone.UpdatedAt = time.Time{}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var maxZ int
		if err := tx.Model(&model.Frame{}).
			Where("page_id = ?", src.PageID).
			Select("COALESCE(MAX(z_index), 0)").
			Scan(&maxZ).Error; err != nil {
			return err
		}
		clone.ZIndex = maxZ + 1
		if err := tx.Create(&clone).Error; err != nil {
			return err
		}
		return touchStorybook(tx, src.StorybookID)
	})
	if err != nil {
		return nil, err
	}
	return &clone, nil
}

func frameSiblings(tx *gorm.DB, pageID uint) ([]ordering.Sibling, error) {
	var frames []model.Frame
	if err := tx.Select("id", "z_index").
		Where("page_id = ?", pageID).
		Find(&frames).Error; err != nil {
		return nil, err
	}
	siblings := make([]ordering.Sibling, len(frames))
	for i, f := range frames {
		siblings[i] = ordering.Sibling{ID: f.ID, Index: f.ZIndex}
	}
	return siblings, nil
}
