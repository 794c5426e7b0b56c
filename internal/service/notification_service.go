package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/department-summary/internal/config"
	"github.com/spec-kit/department-summary/internal/events"
)

// NotificationService reports cycle events to the log and an optional webhook.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventSummaryRefreshed, n.handleSummaryRefreshed)
	n.dispatcher.Subscribe(events.EventFetchFailed, n.handleFetchFailed)
	n.dispatcher.Subscribe(events.EventBatchRejected, n.handleBatchRejected)
}

func (n *NotificationService) handleSummaryRefreshed(ctx context.Context, event events.Event) error {
	n.logger.Info("SummaryRefreshed", zap.String("cycle_id", event.CycleID), zap.Any("payload", event.Payload))
	return n.sendWebhook(ctx, event)
}

func (n *NotificationService) handleFetchFailed(ctx context.Context, event events.Event) error {
	n.logger.Warn("FetchFailed", zap.String("cycle_id", event.CycleID), zap.Any("payload", event.Payload))
	return n.sendWebhook(ctx, event)
}

func (n *NotificationService) handleBatchRejected(ctx context.Context, event events.Event) error {
	n.logger.Warn("BatchRejected", zap.String("cycle_id", event.CycleID), zap.Any("payload", event.Payload))
	return n.sendWebhook(ctx, event)
}

func (n *NotificationService) sendWebhook(ctx context.Context, event events.Event) error {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	agent := fiber.Post(n.cfg.WebhookURL).JSON(event)
	if n.cfg.Timeout > 0 {
		agent.Timeout(n.cfg.Timeout)
	}
	code, _, errs := agent.Bytes()
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("webhook %s: %w", event.Type, err)
	}
	if code < 200 || code > 299 {
		return fmt.Errorf("webhook %s: status %d", event.Type, code)
	}

	n.logger.Debug("webhook delivered",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("cycle_id", event.CycleID),
		zap.String("event_type", string(event.Type)))
	return nil
}
