package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/identity-gateway/internal/config"
	"github.com/spec-kit/identity-gateway/internal/events"
)

// NotificationService handles emitting notifications for identity events.
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
	n.dispatcher.Subscribe(events.EventIdentityRegistered, n.handleIdentityRegistered)
	n.dispatcher.Subscribe(events.EventIdentityReauthenticated, n.handleIdentityReauthenticated)
}

func (n *NotificationService) handleIdentityRegistered(ctx context.Context, event events.Event) error {
	n.logger.Info("IdentityRegistered", zap.String("identity_id", event.IdentityID))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleIdentityReauthenticated(ctx context.Context, event events.Event) error {
	n.logger.Info("IdentityReauthenticated", zap.String("identity_id", event.IdentityID))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("identity_id", event.IdentityID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("identity_id", event.IdentityID),
		zap.String("event_type", string(event.Type)))
}
