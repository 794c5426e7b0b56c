package events

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestInMemoryDispatcher_PublishRunsAllHandlers(t *testing.T) {
	d := NewInMemoryDispatcher()
	boom := errors.New("boom")

	var calls []string
	d.Subscribe(EventFetchFailed, func(_ context.Context, e Event) error {
		calls = append(calls, "first:"+e.CycleID)
		return boom
	})
	d.Subscribe(EventFetchFailed, func(_ context.Context, e Event) error {
		calls = append(calls, "second:"+e.CycleID)
		return nil
	})
	d.Subscribe(EventSummaryRefreshed, func(context.Context, Event) error {
		t.Fatal("unrelated handler called")
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventFetchFailed, CycleID: "c1"})
	if !errors.Is(err, boom) {
		t.Fatalf("Publish() = %v, want boom in chain", err)
	}
	if len(calls) != 2 || calls[0] != "first:c1" || calls[1] != "second:c1" {
		t.Fatalf("calls = %v", calls)
	}
}

func TestInMemoryDispatcher_NoListeners(t *testing.T) {
	if err := NewInMemoryDispatcher().Publish(context.Background(), Event{Type: EventBatchRejected}); err != nil {
		t.Fatalf("Publish() = %v", err)
	}
}

func TestInMemoryDispatcher_StampsMissingID(t *testing.T) {
	d := NewInMemoryDispatcher()
	var seen []string
	d.Subscribe(EventFetchFailed, func(_ context.Context, e Event) error {
		seen = append(seen, e.ID)
		return nil
	})

	_ = d.Publish(context.Background(), Event{Type: EventFetchFailed})
	_ = d.Publish(context.Background(), Event{Type: EventFetchFailed, ID: "fixed"})

	if len(seen) != 2 || seen[0] == "" || seen[1] != "fixed" {
		t.Fatalf("ids = %v", seen)
	}
}

func TestInMemoryDispatcher_RecoversPanics(t *testing.T) {
	d := NewInMemoryDispatcher()
	ran := false
	d.Subscribe(EventBatchRejected, func(context.Context, Event) error { panic("bad handler") })
	d.Subscribe(EventBatchRejected, func(context.Context, Event) error {
		ran = true
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventBatchRejected})
	if err == nil || !strings.Contains(err.Error(), "bad handler") {
		t.Fatalf("Publish() = %v", err)
	}
	if !ran {
		t.Fatal("second handler skipped after panic")
	}
}

func TestInMemoryDispatcher_Unsubscribe(t *testing.T) {
	d := NewInMemoryDispatcher()
	var calls int
	first := d.Subscribe(EventSummaryRefreshed, func(context.Context, Event) error {
		calls += 10
		return nil
	})
	d.Subscribe(EventSummaryRefreshed, func(context.Context, Event) error {
		calls++
		return nil
	})

	first()
	first()
	_ = d.Publish(context.Background(), Event{Type: EventSummaryRefreshed})

	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}
