package services

import (
	"context"
	"errors"

	"github.com/coffeelog/apiserver/internal/store"
	"github.com/coffeelog/apiserver/types"
)

// FollowRepository defines persistence operations for follow rows.
type FollowRepository interface {
	Exists(ctx context.Context, followerID, followingID int) (bool, error)
	Create(ctx context.Context, followerID, followingID int) error
	Delete(ctx context.Context, followerID, followingID int) error
	CountFollowers(ctx context.Context, userID int) (int, error)
	CountFollowing(ctx context.Context, userID int) (int, error)
}

// UserGetter is the read-side user dependency of the follow service.
type UserGetter interface {
	GetByID(ctx context.Context, id int) (types.User, error)
}

// PostCounter is the read-side post dependency used for profile stats.
type PostCounter interface {
	CountByUser(ctx context.Context, userID int) (int, error)
}

// FollowService encapsulates follow use-cases and profile stats.
type FollowService struct {
	follows       FollowRepository
	users         UserGetter
	posts         PostCounter
	notifications NotificationCreator
}

func NewFollowService(follows FollowRepository, users UserGetter, posts PostCounter, notifications NotificationCreator) *FollowService {
	return &FollowService{
		follows:       follows,
		users:         users,
		posts:         posts,
		notifications: notifications,
	}
}

// Toggle flips the follower's follow on the followee and returns the
// new state. Self-follows are rejected. On the transition to following,
// the followee receives a notification; unfollowing never notifies.
func (s *FollowService) Toggle(ctx context.Context, followerID, followingID int) (bool, error) {
	if followerID == followingID {
		return false, ErrSelfFollow
	}
	if _, err := s.users.GetByID(ctx, followingID); err != nil {
		return false, err
	}

	following, err := s.follows.Exists(ctx, followerID, followingID)
	if err != nil {
		return false, err
	}
	if following {
		if err := s.follows.Delete(ctx, followerID, followingID); err != nil && !errors.Is(err, store.ErrNotFound) {
			return false, err
		}
		return false, nil
	}

	if err := s.follows.Create(ctx, followerID, followingID); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return true, nil
		}
		return false, err
	}

	if err := notifyFollow(ctx, s.notifications, followingID); err != nil {
		return true, err
	}
	return true, nil
}

// IsFollowing reports whether viewer follows target.
func (s *FollowService) IsFollowing(ctx context.Context, viewerID, targetID int) (bool, error) {
	return s.follows.Exists(ctx, viewerID, targetID)
}

// Stats returns the public counters for a profile page.
func (s *FollowService) Stats(ctx context.Context, userID int) (types.UserStats, error) {
	postsCount, err := s.posts.CountByUser(ctx, userID)
	if err != nil {
		return types.UserStats{}, err
	}
	followers, err := s.follows.CountFollowers(ctx, userID)
	if err != nil {
		return types.UserStats{}, err
	}
	following, err := s.follows.CountFollowing(ctx, userID)
	if err != nil {
		return types.UserStats{}, err
	}
	return types.UserStats{
		PostsCount:     postsCount,
		FollowersCount: followers,
		FollowingCount: following,
	}, nil
}
