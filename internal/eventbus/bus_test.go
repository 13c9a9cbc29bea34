package eventbus

import (
	"context"
	"errors"
	"testing"
)

func TestBusPublishBroadcast(t *testing.T) {
	bus := NewProjectEventBus()
	calledA := false
	calledB := false

	bus.Subscribe(ProjectEventCreated, func(ctx context.Context, event ProjectEvent) error {
		calledA = true
		return nil
	})
	bus.Subscribe(ProjectEventCreated, func(ctx context.Context, event ProjectEvent) error {
		calledB = event.ProjectID == 7
		return nil
	})

	if err := bus.Publish(context.Background(), ProjectEventCreated, ProjectEvent{Type: ProjectEventCreated, ProjectID: 7}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !calledA || !calledB {
		t.Fatalf("expected handlers to be called")
	}
}

func TestBusOnlyMatchingType(t *testing.T) {
	bus := NewSectionEventBus()
	called := false
	bus.Subscribe(SectionEventRefined, func(ctx context.Context, event SectionEvent) error {
		called = true
		return nil
	})

	if err := bus.Publish(context.Background(), SectionEventFeedbackSet, SectionEvent{Type: SectionEventFeedbackSet}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if called {
		t.Fatalf("handler for another event type should not be called")
	}
}

func TestBusUnsubscribe(t *testing.T) {
	bus := NewProjectEventBus()
	called := false
	unsubscribe := bus.Subscribe(ProjectEventDeleted, func(ctx context.Context, event ProjectEvent) error {
		called = true
		return nil
	})
	unsubscribe()

	if err := bus.Publish(context.Background(), ProjectEventDeleted, ProjectEvent{Type: ProjectEventDeleted}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if called {
		t.Fatalf("expected handler to be unsubscribed")
	}
}

func TestBusPublishJoinErrors(t *testing.T) {
	bus := NewProjectEventBus()
	errA := errors.New("err-a")
	bus.Subscribe(ProjectEventExported, func(ctx context.Context, event ProjectEvent) error {
		return errA
	})
	bus.Subscribe(ProjectEventExported, func(ctx context.Context, event ProjectEvent) error {
		return errors.New("err-b")
	})

	err := bus.Publish(context.Background(), ProjectEventExported, ProjectEvent{Type: ProjectEventExported})
	if !errors.Is(err, errA) {
		t.Fatalf("expected joined error, got %v", err)
	}
}

func TestNilBusPublish(t *testing.T) {
	var bus *ProjectEventBus
	if err := bus.Publish(context.Background(), ProjectEventCreated, ProjectEvent{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
