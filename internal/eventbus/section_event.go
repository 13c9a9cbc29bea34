package eventbus

type SectionEventType string

const (
	SectionEventRefined     SectionEventType = "Refined"
	SectionEventFeedbackSet SectionEventType = "FeedbackSet"
)

type SectionEvent struct {
	Type      SectionEventType
	ProjectID uint
	SectionID uint
	Feedback  string // 仅反馈事件
}

type SectionEventHandler = Handler[SectionEvent]
type SectionEventBus = Bus[SectionEventType, SectionEvent]

func NewSectionEventBus() *SectionEventBus {
	return NewBus[SectionEventType, SectionEvent]()
}
