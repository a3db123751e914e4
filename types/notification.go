package types

import "time"

// NotificationType identifies what kind of event produced a notification.
type NotificationType string

// Supported notification types.
const (
	NotificationLike    NotificationType = "like"
	NotificationComment NotificationType = "comment"
	NotificationFollow  NotificationType = "follow"
	NotificationMention NotificationType = "mention"
)

// Notification is an in-app message delivered to a user as a side
// effect of another user's like, comment, follow, or mention. No
// notification is ever produced for a user's own action.
type Notification struct {
	// ID is the unique identifier of the notification.
	ID int `json:"id" db:"id"`

	// UserID identifies the recipient.
	UserID int `json:"userId" db:"user_id"`

	// Type is the kind of event that produced the notification.
	Type NotificationType `json:"type" db:"type"`

	// Title is a short human-readable headline.
	Title string `json:"title" db:"title"`

	// Message is the notification body.
	Message string `json:"message" db:"message"`

	// RelatedID optionally references the post the event happened on.
	// It may dangle after the post is deleted; readers resolve it lazily.
	RelatedID *int `json:"relatedId,omitempty" db:"related_id"`

	// IsRead reports whether the recipient has seen the notification.
	IsRead bool `json:"isRead" db:"is_read"`

	// CreatedAt is the timestamp when the notification was created.
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
