package services

import (
	"errors"

	"github.com/nestboard/backend/internal/models"
	"github.com/nestboard/backend/internal/repositories"
	"github.com/nestboard/backend/pkg/apperr"
	"gorm.io/gorm"
)

// NotificationService handles the read side of notifications. Creation
// happens inside CommentService as part of reply fan-out.
type NotificationService struct {
	notifications repositories.NotificationRepository
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(notifications repositories.NotificationRepository) *NotificationService {
	return &NotificationService{notifications: notifications}
}

// List returns the recipient's notifications newest-first, with the
// triggering user and referenced comment attached.
func (s *NotificationService) List(recipientID uint) ([]models.NotificationWithDetails, error) {
	notifications, err := s.notifications.GetByRecipientID(recipientID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	details := make([]models.NotificationWithDetails, len(notifications))
	for i, n := range notifications {
		details[i] = models.NotificationWithDetails{
			Notification: n,
			Actor:        n.Actor.ToPublic(),
			Comment:      n.Comment,
		}
	}
	return details, nil
}

// UnreadCount returns how many unread notifications the recipient has.
func (s *NotificationService) UnreadCount(recipientID uint) (int64, error) {
	count, err := s.notifications.GetUnreadCount(recipientID)
	if err != nil {
		return 0, apperr.Internal(err)
	}
	return count, nil
}

// MarkRead marks one notification read after verifying the requester is its
// recipient. Marking an already-read notification again is a harmless no-op.
func (s *NotificationService) MarkRead(id, requesterID uint) error {
	notification, err := s.notifications.GetNotificationByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.New(apperr.CodeNotFound, "Notification not found")
		}
		return apperr.Internal(err)
	}
	if notification.RecipientID != requesterID {
		return apperr.New(apperr.CodeForbidden, "Not authorized")
	}
	if err := s.notifications.MarkAsRead(id); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// MarkAllRead marks every unread notification for the requester. The update
// is scoped to the caller, so no per-row ownership check is needed.
func (s *NotificationService) MarkAllRead(requesterID uint) error {
	if err := s.notifications.MarkAllAsRead(requesterID); err != nil {
		return apperr.Internal(err)
	}
	return nil
}
