package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/aidocs/backend/internal/eventbus"
	"github.com/aidocs/backend/internal/model"
	"github.com/aidocs/backend/internal/repository"
	"k8s.io/klog/v2"
)

// SectionService 章节精修与反馈
type SectionService struct {
	projectRepo repository.ProjectRepository
	sectionRepo repository.SectionRepository
	generator   ContentGenerator
	eventBus    *eventbus.SectionEventBus
}

func NewSectionService(projectRepo repository.ProjectRepository, sectionRepo repository.SectionRepository, generator ContentGenerator, eventBus *eventbus.SectionEventBus) *SectionService {
	return &SectionService{
		projectRepo: projectRepo,
		sectionRepo: sectionRepo,
		generator:   generator,
		eventBus:    eventBus,
	}
}

type RefineRequest struct {
	Instruction string `json:"instruction"`
}

// FeedbackRequest nil 字段表示不修改
type FeedbackRequest struct {
	Feedback  *string `json:"feedback"`
	UserNotes *string `json:"user_notes"`
}

// RefineSection 按指令精修章节内容并覆盖保存，返回新内容
func (s *SectionService) RefineSection(ctx context.Context, owner *model.User, sectionID uint, req RefineRequest) (string, error) {
	section, err := s.ownedSection(ctx, owner, sectionID)
	if err != nil {
		return "", err
	}

	refined := s.generator.Refine(ctx, section.Content, req.Instruction)
	if err := s.sectionRepo.UpdateContent(ctx, section.ID, refined); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrSectionNotFound
		}
		return "", fmt.Errorf("update section content: %w", err)
	}

	klog.V(6).Infof("[SectionService] 章节精修完成: id=%d, contentLength=%d", section.ID, len(refined))
	s.publish(ctx, eventbus.SectionEvent{
		Type:      eventbus.SectionEventRefined,
		ProjectID: section.ProjectID,
		SectionID: section.ID,
	})
	return refined, nil
}

// UpdateFeedback 部分更新反馈与备注
func (s *SectionService) UpdateFeedback(ctx context.Context, owner *model.User, sectionID uint, req FeedbackRequest) error {
	if req.Feedback != nil && *req.Feedback != model.FeedbackLike && *req.Feedback != model.FeedbackDislike {
		return fmt.Errorf("%w: feedback must be %q or %q", ErrInvalidInput, model.FeedbackLike, model.FeedbackDislike)
	}

	section, err := s.ownedSection(ctx, owner, sectionID)
	if err != nil {
		return err
	}
	if err := s.sectionRepo.UpdateFeedback(ctx, section.ID, req.Feedback, req.UserNotes); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrSectionNotFound
		}
		return fmt.Errorf("update section feedback: %w", err)
	}

	if req.Feedback != nil {
		s.publish(ctx, eventbus.SectionEvent{
			Type:      eventbus.SectionEventFeedbackSet,
			ProjectID: section.ProjectID,
			SectionID: section.ID,
			Feedback:  *req.Feedback,
		})
	}
	return nil
}

// ownedSection 校验 章节 -> 项目 -> 所有者 链路，任一环节不匹配返回 ErrSectionNotFound
func (s *SectionService) ownedSection(ctx context.Context, owner *model.User, sectionID uint) (*model.Section, error) {
	section, err := s.sectionRepo.Get(ctx, sectionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSectionNotFound
		}
		return nil, fmt.Errorf("get section: %w", err)
	}

	project, err := s.projectRepo.Get(ctx, section.ProjectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSectionNotFound
		}
		return nil, fmt.Errorf("get project: %w", err)
	}
	if owner == nil || project.OwnerID != owner.ID {
		return nil, ErrSectionNotFound
	}
	return section, nil
}

func (s *SectionService) publish(ctx context.Context, event eventbus.SectionEvent) {
	if err := s.eventBus.Publish(ctx, event.Type, event); err != nil {
		klog.Warningf("[SectionService] 事件处理失败: type=%s, sectionID=%d, error=%v", event.Type, event.SectionID, err)
	}
}
