package services

import (
	"context"

	"github.com/coffeelog/apiserver/types"
)

const notificationListLimit = 50

// NotificationCreator is the write-side dependency used by the post,
// comment, and follow services to record engagement side effects.
type NotificationCreator interface {
	Create(ctx context.Context, n types.Notification) (types.Notification, error)
}

// NotificationRepository defines persistence operations for notifications.
type NotificationRepository interface {
	NotificationCreator
	Get(ctx context.Context, id int) (types.Notification, error)
	ListByUser(ctx context.Context, userID int, unreadOnly bool, limit int) ([]types.Notification, error)
	MarkRead(ctx context.Context, id int) error
	MarkAllRead(ctx context.Context, userID int) error
}

// NotificationService encapsulates notification use-cases.
type NotificationService struct {
	repo NotificationRepository
}

func NewNotificationService(repo NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

func (s *NotificationService) List(ctx context.Context, userID int, unreadOnly bool) ([]types.Notification, error) {
	return s.repo.ListByUser(ctx, userID, unreadOnly, notificationListLimit)
}

// MarkRead marks one notification read. Existence is checked before
// ownership: a missing id is ErrNotFound, someone else's is ErrForbidden.
func (s *NotificationService) MarkRead(ctx context.Context, id, callerID int) error {
	n, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if n.UserID != callerID {
		return ErrForbidden
	}
	return s.repo.MarkRead(ctx, id)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, callerID int) error {
	return s.repo.MarkAllRead(ctx, callerID)
}

func notifyLike(ctx context.Context, notifications NotificationCreator, recipientID, postID int) error {
	related := postID
	_, err := notifications.Create(ctx, types.Notification{
		UserID:    recipientID,
		Type:      types.NotificationLike,
		Title:     "New like",
		Message:   "Your post received a like",
		RelatedID: &related,
	})
	return err
}

func notifyComment(ctx context.Context, notifications NotificationCreator, recipientID, postID int) error {
	related := postID
	_, err := notifications.Create(ctx, types.Notification{
		UserID:    recipientID,
		Type:      types.NotificationComment,
		Title:     "New comment",
		Message:   "Your post received a comment",
		RelatedID: &related,
	})
	return err
}

func notifyMention(ctx context.Context, notifications NotificationCreator, recipientID, postID int) error {
	related := postID
	_, err := notifications.Create(ctx, types.Notification{
		UserID:    recipientID,
		Type:      types.NotificationMention,
		Title:     "New mention",
		Message:   "You were mentioned in a post",
		RelatedID: &related,
	})
	return err
}

func notifyFollow(ctx context.Context, notifications NotificationCreator, recipientID int) error {
	_, err := notifications.Create(ctx, types.Notification{
		UserID:  recipientID,
		Type:    types.NotificationFollow,
		Title:   "New follower",
		Message: "Someone started following you",
	})
	return err
}
