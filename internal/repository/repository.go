package repository

import (
	"context"
	"errors"

	"github.com/aidocs/backend/internal/model"
	"gorm.io/gorm"
)

// ErrNotFound 记录不存在错误
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists 唯一约束冲突
var ErrAlreadyExists = errors.New("record already exists")

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByUsername(ctx context.Context, username string) (*model.User, error)
}

type ProjectRepository interface {
	// CreateWithSections 在同一事务中写入项目及其全部章节
	CreateWithSections(ctx context.Context, project *model.Project) error
	ListByOwner(ctx context.Context, ownerID uint) ([]model.Project, error)
	Get(ctx context.Context, id uint) (*model.Project, error)
	// Delete 先删除章节再删除项目
	Delete(ctx context.Context, id uint) error
}

type SectionRepository interface {
	ListByProject(ctx context.Context, projectID uint) ([]model.Section, error)
	Get(ctx context.Context, id uint) (*model.Section, error)
	UpdateContent(ctx context.Context, id uint, content string) error
	// UpdateFeedback 仅更新非 nil 字段
	UpdateFeedback(ctx context.Context, id uint, feedback, userNotes *string) error
}

// translate 将 gorm 错误映射为仓储层错误
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrAlreadyExists
	default:
		return err
	}
}
