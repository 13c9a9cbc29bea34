package eventbus

import "github.com/aidocs/backend/internal/model"

type ProjectEventType string

const (
	ProjectEventCreated  ProjectEventType = "Created"
	ProjectEventDeleted  ProjectEventType = "Deleted"
	ProjectEventExported ProjectEventType = "Exported"
)

type ProjectEvent struct {
	Type         ProjectEventType
	ProjectID    uint
	OwnerID      uint
	DocType      model.DocType
	SectionCount int
}

type ProjectEventHandler = Handler[ProjectEvent]
type ProjectEventBus = Bus[ProjectEventType, ProjectEvent]

func NewProjectEventBus() *ProjectEventBus {
	return NewBus[ProjectEventType, ProjectEvent]()
}
