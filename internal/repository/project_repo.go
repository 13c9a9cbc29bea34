package repository

import (
	"context"

	"github.com/aidocs/backend/internal/model"
	"gorm.io/gorm"
)

type projectRepository struct {
	db *gorm.DB
}

// NewProjectRepository 创建项目数据仓库
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) CreateWithSections(ctx context.Context, project *model.Project) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Sections").Create(project).Error; err != nil {
			return err
		}
		if len(project.Sections) == 0 {
			return nil
		}
		for i := range project.Sections {
			project.Sections[i].ProjectID = project.ID
		}
		return tx.Create(&project.Sections).Error
	})
}

func (r *projectRepository) ListByOwner(ctx context.Context, ownerID uint) ([]model.Project, error) {
	var projects []model.Project
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at desc, id desc").
		Find(&projects).Error
	return projects, err
}

func (r *projectRepository) Get(ctx context.Context, id uint) (*model.Project, error) {
	var project model.Project
	if err := r.db.WithContext(ctx).First(&project, id).Error; err != nil {
		return nil, translate(err)
	}
	return &project, nil
}

func (r *projectRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&model.Section{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&model.Project{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
