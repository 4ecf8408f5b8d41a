package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/repairdesk-service/internal/config"
	"github.com/spec-kit/repairdesk-service/internal/domain"
	"github.com/spec-kit/repairdesk-service/internal/events"
)

// NotificationService reacts to lifecycle events. Delivery transports (email,
// webhook) are stubbed behind config; the engine only decides when to notify.
type NotificationService struct {
	cfg        config.NotificationConfig
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewNotificationService constructs the service.
func NewNotificationService(cfg config.NotificationConfig, dispatcher events.Dispatcher, logger *zap.Logger) *NotificationService {
	return &NotificationService{cfg: cfg, dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes notification handlers on the dispatcher.
func (s *NotificationService) RegisterHandlers() {
	if s.dispatcher == nil {
		return
	}
	s.dispatcher.Subscribe(events.EventTicketStatusChanged, s.onStatusChanged)
}

func (s *NotificationService) onStatusChanged(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketStatusChangedPayload)
	if !ok {
		return nil
	}
	if payload.NewStatus != domain.TicketStatusReadyForPickup {
		return nil
	}
	s.logger.Info("ticket ready for pickup, notifying customer",
		zap.String("ticket_id", event.TicketID),
		zap.String("organization_id", event.OrganizationID),
		zap.String("email_from", s.cfg.EmailFrom),
		zap.String("webhook_url", s.cfg.WebhookURL),
	)
	return nil
}
