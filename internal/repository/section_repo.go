package repository

import (
	"context"

	"github.com/aidocs/backend/internal/model"
	"gorm.io/gorm"
)

type sectionRepository struct {
	db *gorm.DB
}

// NewSectionRepository 创建章节数据仓库
func NewSectionRepository(db *gorm.DB) SectionRepository {
	return &sectionRepository{db: db}
}

func (r *sectionRepository) ListByProject(ctx context.Context, projectID uint) ([]model.Section, error) {
	var sections []model.Section
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("order_index").
		Find(&sections).Error
	return sections, err
}

func (r *sectionRepository) Get(ctx context.Context, id uint) (*model.Section, error) {
	var section model.Section
	if err := r.db.WithContext(ctx).First(&section, id).Error; err != nil {
		return nil, translate(err)
	}
	return &section, nil
}

func (r *sectionRepository) UpdateContent(ctx context.Context, id uint, content string) error {
	result := r.db.WithContext(ctx).
		Model(&model.Section{}).
		Where("id = ?", id).
		Update("content", content)
	return affected(result)
}

func (r *sectionRepository) UpdateFeedback(ctx context.Context, id uint, feedback, userNotes *string) error {
	updates := map[string]interface{}{}
	if feedback != nil {
		updates["feedback"] = *feedback
	}
	if userNotes != nil {
		updates["user_notes"] = *userNotes
	}
	if len(updates) == 0 {
		return nil
	}
	result := r.db.WithContext(ctx).
		Model(&model.Section{}).
		Where("id = ?", id).
		Updates(updates)
	return affected(result)
}

// affected 未命中任何行时返回 ErrNotFound
func affected(result *gorm.DB) error {
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
