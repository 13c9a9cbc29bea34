package subscriber

import (
	"context"

	"github.com/aidocs/backend/internal/eventbus"
	"github.com/aidocs/backend/internal/model"
	"k8s.io/klog/v2"
)

// ActivitySubscriber 记录项目与章节的变更事件
type ActivitySubscriber struct{}

func NewActivitySubscriber() *ActivitySubscriber {
	return &ActivitySubscriber{}
}

func (s *ActivitySubscriber) Register(projectBus *eventbus.ProjectEventBus, sectionBus *eventbus.SectionEventBus) {
	if projectBus != nil {
		projectBus.Subscribe(eventbus.ProjectEventCreated, s.handleProjectEvent)
		projectBus.Subscribe(eventbus.ProjectEventDeleted, s.handleProjectEvent)
		projectBus.Subscribe(eventbus.ProjectEventExported, s.handleProjectEvent)
	}
	if sectionBus != nil {
		sectionBus.Subscribe(eventbus.SectionEventRefined, s.handleSectionRefined)
		sectionBus.Subscribe(eventbus.SectionEventFeedbackSet, s.handleSectionFeedback)
	}
}

func (s *ActivitySubscriber) handleProjectEvent(ctx context.Context, event eventbus.ProjectEvent) error {
	klog.V(6).Infof("项目事件处理成功: type=%s, projectID=%d, ownerID=%d, docType=%s, sections=%d",
		event.Type, event.ProjectID, event.OwnerID, event.DocType, event.SectionCount)
	return nil
}

// handleSectionRefined 处理章节精修事件
func (s *ActivitySubscriber) handleSectionRefined(ctx context.Context, event eventbus.SectionEvent) error {
	klog.V(6).Infof("章节精修事件处理成功: projectID=%d, sectionID=%d", event.ProjectID, event.SectionID)
	return nil
}

func (s *ActivitySubscriber) handleSectionFeedback(ctx context.Context, event eventbus.SectionEvent) error {
	if event.Feedback == model.FeedbackDislike {
		klog.Infof("章节收到差评: projectID=%d, sectionID=%d", event.ProjectID, event.SectionID)
		return nil
	}
	klog.V(6).Infof("章节反馈事件处理成功: projectID=%d, sectionID=%d, feedback=%s", event.ProjectID, event.SectionID, event.Feedback)
	return nil
}
