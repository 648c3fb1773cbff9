package repository

import (
	"github.com/storycanvas/backend/internal/model"
	"gorm.io/gorm"
)

type storybookRepository struct {
	db *gorm.DB
}

// NewStorybookRepository 创建 Repository 实例
func NewStorybookRepository(db *gorm.DB) StorybookRepository {
	return &storybookRepository{db: db}
}

func (r *storybookRepository) Create(sb *model.Storybook) error {
	return r.db.Create(sb).Error
}

func (r *storybookRepository) Get(id uint) (*model.Storybook, error) {
	var sb model.Storybook
	if err := r.db.First(&sb, id).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &sb, nil
}

func (r *storybookRepository) ListByOwner(ownerID string) ([]model.Storybook, error) {
	var sbs []model.Storybook
	err := r.db.Where("owner_id = ? AND status <> ?", ownerID, model.StatusDeleted).
		Order("updated_at DESC").
		Find(&sbs).Error
	return sbs, err
}

func (r *storybookRepository) Save(sb *model.Storybook) error {
	return r.db.Save(sb).Error
}

// Touch 推进 updated_at，供导出等下游按时间戳探测变更
func (r *storybookRepository) Touch(id uint) error {
	return touchStorybook(r.db, id)
}

// Delete 级联删除：先子后父，整体在一个事务内完成
func (r *storybookRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("storybook_id = ?", id).Delete(&model.Frame{}).Error; err != nil {
			return err
		}
		if err := tx.Where("storybook_id = ?", id).Delete(&model.Page{}).Error; err != nil {
			return err
		}
		if err := tx.Where("storybook_id = ?", id).Delete(&model.Block{}).Error; err != nil {
			return err
		}
		if err := tx.Where("storybook_id = ?", id).Delete(&model.Chapter{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Storybook{}, id).Error
	})
}
