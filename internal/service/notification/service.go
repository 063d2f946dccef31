// internal/service/notification/service.go
package notification

import (
	"context"

	"propman-service/internal/domain/notification"
	"propman-service/internal/repository/postgres"
	"propman-service/internal/ws"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service is the production notification dispatcher: it persists each event
// and pushes it to the recipient's live websocket connections. It satisfies
// settlement.Notifier.
type Service struct {
	repo   *postgres.NotificationRepository
	hub    *ws.Hub
	logger *zap.Logger
}

func NewService(repo *postgres.NotificationRepository, hub *ws.Hub, logger *zap.Logger) *Service {
	return &Service{repo: repo, hub: hub, logger: logger}
}

// Notify stores the event and broadcasts it. The broadcast itself cannot
// fail the call; only persistence errors propagate, and callers treat even
// those as best effort.
func (s *Service) Notify(ctx context.Context, event notification.Event) error {
	n := &notification.Notification{
		RecipientID: event.RecipientID,
		EventID:     uuid.New(),
		EventType:   event.Type,
		Title:       event.Title,
		Body:        event.Body,
	}

	if err := s.repo.Create(ctx, n); err != nil {
		return err
	}

	s.hub.SendToUser(n.RecipientID, n)
	return nil
}

// List retrieves the recipient's most recent notifications.
func (s *Service) List(ctx context.Context, recipientID int64, limit int) ([]notification.Notification, error) {
	return s.repo.ListByRecipient(ctx, recipientID, limit)
}

// MarkRead marks one of the recipient's notifications as read.
func (s *Service) MarkRead(ctx context.Context, recipientID, id int64) error {
	return s.repo.MarkRead(ctx, recipientID, id)
}

// UnreadCount returns the recipient's unread notification count.
func (s *Service) UnreadCount(ctx context.Context, recipientID int64) (int64, error) {
	return s.repo.UnreadCount(ctx, recipientID)
}
