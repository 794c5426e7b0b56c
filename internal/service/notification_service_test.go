package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/department-summary/internal/config"
	"github.com/spec-kit/department-summary/internal/events"
)

func TestNotificationService_PostsWebhook(t *testing.T) {
	received := make(chan events.Event, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var e events.Event
		if err := json.Unmarshal(body, &e); err != nil {
			t.Errorf("decode webhook body: %v", err)
		}
		received <- e
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	dispatcher := events.NewInMemoryDispatcher()
	NewNotificationService(dispatcher, zap.NewNop(), config.NotificationConfig{
		WebhookURL: srv.URL,
		Timeout:    2 * time.Second,
	}).RegisterHandlers()

	err := dispatcher.Publish(context.Background(), events.Event{
		ID:      "e1",
		Type:    events.EventFetchFailed,
		CycleID: "c1",
		Payload: events.FetchFailedPayload{Error: "timeout"},
	})
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}

	select {
	case e := <-received:
		if e.Type != events.EventFetchFailed || e.CycleID != "c1" {
			t.Fatalf("webhook got %+v", e)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("webhook not called")
	}
}

func TestNotificationService_WebhookFailureSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	dispatcher := events.NewInMemoryDispatcher()
	NewNotificationService(dispatcher, zap.NewNop(), config.NotificationConfig{WebhookURL: srv.URL}).RegisterHandlers()

	if err := dispatcher.Publish(context.Background(), events.Event{Type: events.EventSummaryRefreshed}); err == nil {
		t.Fatal("expected webhook error")
	}
}

func TestNotificationService_NoWebhookConfigured(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	NewNotificationService(dispatcher, zap.NewNop(), config.NotificationConfig{}).RegisterHandlers()

	if err := dispatcher.Publish(context.Background(), events.Event{Type: events.EventBatchRejected}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
}
