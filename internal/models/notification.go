package models

import "time"

type NotificationType string

const (
	NotificationTypeReply   NotificationType = "reply"
	NotificationTypeMention NotificationType = "mention"
)

// Notification represents a reply alert for a user. RecipientID and ActorID
// are never the same user; self-replies are suppressed at creation.
type Notification struct {
	ID          uint             `json:"id" gorm:"primaryKey"`
	RecipientID uint             `json:"recipient_id" gorm:"not null;index"`
	ActorID     uint             `json:"actor_id" gorm:"not null;index"`
	Actor       User             `json:"-" gorm:"foreignKey:ActorID"`
	CommentID   uint             `json:"comment_id" gorm:"not null"`
	Comment     Comment          `json:"-" gorm:"foreignKey:CommentID"`
	Type        NotificationType `json:"type" gorm:"size:20;not null"`
	IsRead      bool             `json:"is_read" gorm:"default:false;index"`
	CreatedAt   time.Time        `json:"created_at" gorm:"index"`
}

// NotificationWithDetails includes the triggering user and the referenced
// comment for the notification panel.
type NotificationWithDetails struct {
	Notification
	Actor   PublicUser `json:"actor"`
	Comment Comment    `json:"comment"`
}
