package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/aidocs/backend/config"
	"github.com/aidocs/backend/internal/eventbus"
	"github.com/aidocs/backend/internal/model"
	"github.com/aidocs/backend/internal/pkg/export"
	"github.com/aidocs/backend/internal/repository"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"
)

// ProjectService 大纲生成、项目创建与导出
type ProjectService struct {
	projectRepo repository.ProjectRepository
	sectionRepo repository.SectionRepository
	generator   ContentGenerator
	eventBus    *eventbus.ProjectEventBus
	concurrency int
}

func NewProjectService(cfg *config.Config, projectRepo repository.ProjectRepository, sectionRepo repository.SectionRepository, generator ContentGenerator, eventBus *eventbus.ProjectEventBus) *ProjectService {
	concurrency := cfg.LLM.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	return &ProjectService{
		projectRepo: projectRepo,
		sectionRepo: sectionRepo,
		generator:   generator,
		eventBus:    eventBus,
		concurrency: concurrency,
	}
}

type OutlineRequest struct {
	Topic   string        `json:"topic"`
	DocType model.DocType `json:"doc_type"`
}

type CreateProjectRequest struct {
	Title   string        `json:"title"`
	Topic   string        `json:"topic"`
	DocType model.DocType `json:"doc_type"`
	Outline []string      `json:"outline"`
}

// ExportResult 导出的文件内容
type ExportResult struct {
	Data      []byte
	Filename  string
	MediaType string
}

// RequestOutline 生成大纲草稿，不落库
func (s *ProjectService) RequestOutline(ctx context.Context, req OutlineRequest) ([]string, error) {
	if !req.DocType.Valid() {
		return nil, fmt.Errorf("%w: unsupported doc_type %q", ErrInvalidInput, req.DocType)
	}
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		return nil, fmt.Errorf("%w: topic is required", ErrInvalidInput)
	}
	return s.generator.GenerateOutline(ctx, topic, req.DocType), nil
}

// CreateProject 为大纲中的每个标题生成正文，并一次性提交项目及全部章节
func (s *ProjectService) CreateProject(ctx context.Context, owner *model.User, req CreateProjectRequest) (*model.Project, error) {
	title := strings.TrimSpace(req.Title)
	topic := strings.TrimSpace(req.Topic)
	if title == "" || topic == "" {
		return nil, fmt.Errorf("%w: title and topic are required", ErrInvalidInput)
	}
	if !req.DocType.Valid() {
		return nil, fmt.Errorf("%w: unsupported doc_type %q", ErrInvalidInput, req.DocType)
	}
	outline := cleanOutline(req.Outline)
	if len(outline) == 0 {
		return nil, fmt.Errorf("%w: outline must contain at least one title", ErrInvalidInput)
	}

	klog.V(6).Infof("[ProjectService] 开始创建项目: owner=%d, docType=%s, sections=%d, concurrency=%d",
		owner.ID, req.DocType, len(outline), s.concurrency)

	sections := make([]model.Section, len(outline))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, sectionTitle := range outline {
		i, sectionTitle := i, sectionTitle
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			sections[i] = model.Section{
				Title:      sectionTitle,
				Content:    s.generator.GenerateSectionBody(gctx, topic, sectionTitle, req.DocType),
				OrderIndex: i,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("generate sections: %w", err)
	}

	project := &model.Project{
		Title:    title,
		Topic:    topic,
		DocType:  req.DocType,
		OwnerID:  owner.ID,
		Sections: sections,
	}
	if err := s.projectRepo.CreateWithSections(ctx, project); err != nil {
		klog.Errorf("[ProjectService] 保存项目失败: owner=%d, error=%v", owner.ID, err)
		return nil, fmt.Errorf("save project: %w", err)
	}

	klog.V(6).Infof("[ProjectService] 项目创建完成: id=%d, sections=%d", project.ID, len(sections))
	s.publish(ctx, eventbus.ProjectEventCreated, project, len(sections))
	return project, nil
}

// ListProjects 列出调用者拥有的项目，最新的在前
func (s *ProjectService) ListProjects(ctx context.Context, owner *model.User) ([]model.Project, error) {
	return s.projectRepo.ListByOwner(ctx, owner.ID)
}

// GetProject 获取调用者拥有的项目
func (s *ProjectService) GetProject(ctx context.Context, owner *model.User, id uint) (*model.Project, error) {
	return s.ownedProject(ctx, owner, id)
}

// GetSections 按 order_index 返回项目章节
func (s *ProjectService) GetSections(ctx context.Context, owner *model.User, projectID uint) ([]model.Section, error) {
	if _, err := s.ownedProject(ctx, owner, projectID); err != nil {
		return nil, err
	}
	return s.sectionRepo.ListByProject(ctx, projectID)
}

// DeleteProject 删除项目及其全部章节
func (s *ProjectService) DeleteProject(ctx context.Context, owner *model.User, id uint) error {
	project, err := s.ownedProject(ctx, owner, id)
	if err != nil {
		return err
	}
	if err := s.projectRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("delete project: %w", err)
	}

	klog.V(6).Infof("[ProjectService] 项目已删除: id=%d", id)
	s.publish(ctx, eventbus.ProjectEventDeleted, project, 0)
	return nil
}

// ExportProject 按项目文档类型渲染导出文件
func (s *ProjectService) ExportProject(ctx context.Context, owner *model.User, id uint) (*ExportResult, error) {
	project, err := s.ownedProject(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	sections, err := s.sectionRepo.ListByProject(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}

	exporter, err := export.ForDocType(project.DocType)
	if err != nil {
		return nil, err
	}
	data, err := exporter.Export(project, sections)
	if err != nil {
		klog.Errorf("[ProjectService] 导出失败: id=%d, docType=%s, error=%v", id, project.DocType, err)
		return nil, fmt.Errorf("export project: %w", err)
	}

	klog.V(6).Infof("[ProjectService] 导出完成: id=%d, size=%d", id, len(data))
	s.publish(ctx, eventbus.ProjectEventExported, project, len(sections))
	return &ExportResult{
		Data:      data,
		Filename:  exportFilename(project.Title, exporter.Extension()),
		MediaType: exporter.MediaType(),
	}, nil
}

// ownedProject 项目不存在或不属于调用者时统一返回 ErrProjectNotFound
func (s *ProjectService) ownedProject(ctx context.Context, owner *model.User, id uint) (*model.Project, error) {
	project, err := s.projectRepo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("get project: %w", err)
	}
	if owner == nil || project.OwnerID != owner.ID {
		return nil, ErrProjectNotFound
	}
	return project, nil
}

func (s *ProjectService) publish(ctx context.Context, eventType eventbus.ProjectEventType, project *model.Project, sectionCount int) {
	err := s.eventBus.Publish(ctx, eventType, eventbus.ProjectEvent{
		Type:         eventType,
		ProjectID:    project.ID,
		OwnerID:      project.OwnerID,
		DocType:      project.DocType,
		SectionCount: sectionCount,
	})
	if err != nil {
		klog.Warningf("[ProjectService] 事件处理失败: type=%s, projectID=%d, error=%v", eventType, project.ID, err)
	}
}

// cleanOutline 去除首尾空白并丢弃空标题
func cleanOutline(outline []string) []string {
	cleaned := make([]string, 0, len(outline))
	for _, title := range outline {
		if title = strings.TrimSpace(title); title != "" {
			cleaned = append(cleaned, title)
		}
	}
	return cleaned
}

// exportFilename 生成 {title}.{ext}，替换路径分隔符和控制字符
func exportFilename(title, ext string) string {
	name := strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || unicode.IsControl(r) {
			return '_'
		}
		return r
	}, strings.TrimSpace(title))
	if name == "" {
		name = "document"
	}
	return name + "." + ext
}
