package services

import (
	"context"
	"errors"
	"strconv"

	"github.com/coffeelog/apiserver/internal/store"
	"github.com/coffeelog/apiserver/types"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// PostRepository defines persistence operations for posts.
type PostRepository interface {
	Get(ctx context.Context, id int) (types.Post, error)
	GetForViewer(ctx context.Context, id, viewerID int) (types.Post, error)
	ListPublic(ctx context.Context, viewerID, cursor, limit int) ([]types.Post, error)
	ListByUser(ctx context.Context, userID, viewerID, cursor, limit int) ([]types.Post, error)
	Create(ctx context.Context, post types.Post) (types.Post, error)
	Update(ctx context.Context, post types.Post) (types.Post, error)
	Delete(ctx context.Context, id int) error
	CountByUser(ctx context.Context, userID int) (int, error)
}

// LikeRepository defines persistence operations for like rows.
type LikeRepository interface {
	Exists(ctx context.Context, postID, userID int) (bool, error)
	Create(ctx context.Context, postID, userID int) error
	Delete(ctx context.Context, postID, userID int) error
}

// MentionResolver resolves @mention names to accounts. Unknown names
// are simply not notifiable and are skipped.
type MentionResolver interface {
	GetByName(ctx context.Context, name string) (types.User, error)
}

// PostPage is one page of a cursor-paginated post listing.
type PostPage struct {
	Posts      []types.Post `json:"posts"`
	HasMore    bool         `json:"hasMore"`
	NextCursor string       `json:"nextCursor,omitempty"`
}

// PostService encapsulates post and like use-cases.
type PostService struct {
	posts         PostRepository
	likes         LikeRepository
	users         MentionResolver
	notifications NotificationCreator
}

func NewPostService(posts PostRepository, likes LikeRepository, users MentionResolver, notifications NotificationCreator) *PostService {
	return &PostService{
		posts:         posts,
		likes:         likes,
		users:         users,
		notifications: notifications,
	}
}

// CreatePostParams carries the fields of a new post.
type CreatePostParams struct {
	Content  string
	ImageURL string
	Hashtags []string
	IsPublic bool
}

// Create stores a new post. The final hashtag set is the deduplicated
// union of tags extracted from the content and the supplied tags.
func (s *PostService) Create(ctx context.Context, userID int, params CreatePostParams) (types.Post, error) {
	post, err := s.posts.Create(ctx, types.Post{
		UserID:   userID,
		Content:  params.Content,
		ImageURL: params.ImageURL,
		Hashtags: MergeHashtags(params.Content, params.Hashtags),
		IsPublic: params.IsPublic,
	})
	if err != nil {
		return types.Post{}, err
	}
	if err := s.notifyMentions(ctx, post); err != nil {
		return types.Post{}, err
	}
	return s.posts.GetForViewer(ctx, post.ID, userID)
}

// notifyMentions notifies every existing user @mentioned in the post's
// content, once each, never the author.
func (s *PostService) notifyMentions(ctx context.Context, post types.Post) error {
	seen := make(map[int]struct{})
	for _, name := range ExtractMentions(post.Content) {
		user, err := s.users.GetByName(ctx, name)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			return err
		}
		if user.ID == post.UserID {
			continue
		}
		if _, ok := seen[user.ID]; ok {
			continue
		}
		seen[user.ID] = struct{}{}
		if err := notifyMention(ctx, s.notifications, user.ID, post.ID); err != nil {
			return err
		}
	}
	return nil
}

// Feed returns one page of public posts, newest first. The cursor is
// the id of the last post on the previous page; the next page starts
// strictly below it. One extra row is fetched to compute hasMore
// without a second query.
func (s *PostService) Feed(ctx context.Context, viewerID, limit, cursor int) (PostPage, error) {
	limit = clampLimit(limit)
	posts, err := s.posts.ListPublic(ctx, viewerID, cursor, limit+1)
	if err != nil {
		return PostPage{}, err
	}
	return buildPostPage(posts, limit), nil
}

// UserPosts returns one page of a single author's public posts with the
// same pagination contract as Feed.
func (s *PostService) UserPosts(ctx context.Context, targetUserID, viewerID, limit, cursor int) (PostPage, error) {
	limit = clampLimit(limit)
	posts, err := s.posts.ListByUser(ctx, targetUserID, viewerID, cursor, limit+1)
	if err != nil {
		return PostPage{}, err
	}
	return buildPostPage(posts, limit), nil
}

func (s *PostService) Get(ctx context.Context, id, viewerID int) (types.Post, error) {
	return s.posts.GetForViewer(ctx, id, viewerID)
}

// UpdatePostParams carries a partial patch; nil fields are unchanged.
type UpdatePostParams struct {
	Content  *string
	ImageURL *string
	Hashtags []string
	IsPublic *bool
}

// Update patches a post. Existence is checked first (store.ErrNotFound),
// then ownership (ErrForbidden). A content change re-runs hashtag
// extraction against the new content.
func (s *PostService) Update(ctx context.Context, id, callerID int, params UpdatePostParams) (types.Post, error) {
	post, err := s.posts.Get(ctx, id)
	if err != nil {
		return types.Post{}, err
	}
	if post.UserID != callerID {
		return types.Post{}, ErrForbidden
	}

	if params.Content != nil {
		post.Content = *params.Content
		post.Hashtags = MergeHashtags(post.Content, params.Hashtags)
	} else if params.Hashtags != nil {
		post.Hashtags = MergeHashtags(post.Content, params.Hashtags)
	}
	if params.ImageURL != nil {
		post.ImageURL = *params.ImageURL
	}
	if params.IsPublic != nil {
		post.IsPublic = *params.IsPublic
	}

	if _, err := s.posts.Update(ctx, post); err != nil {
		return types.Post{}, err
	}
	return s.posts.GetForViewer(ctx, id, callerID)
}

// Delete removes a post. Existence before ownership, as with Update.
func (s *PostService) Delete(ctx context.Context, id, callerID int) error {
	post, err := s.posts.Get(ctx, id)
	if err != nil {
		return err
	}
	if post.UserID != callerID {
		return ErrForbidden
	}
	return s.posts.Delete(ctx, id)
}

// ToggleLike flips the caller's like on a post and returns the new
// state. On the transition to liked, the post's author receives a
// notification unless the liker is the author. Unliking never notifies.
func (s *PostService) ToggleLike(ctx context.Context, postID, callerID int) (bool, error) {
	post, err := s.posts.Get(ctx, postID)
	if err != nil {
		return false, err
	}

	liked, err := s.likes.Exists(ctx, postID, callerID)
	if err != nil {
		return false, err
	}
	if liked {
		if err := s.likes.Delete(ctx, postID, callerID); err != nil && !errors.Is(err, store.ErrNotFound) {
			return false, err
		}
		return false, nil
	}

	if err := s.likes.Create(ctx, postID, callerID); err != nil {
		// A concurrent toggle won the insert; the row exists, so the
		// state is liked and the winner owns the notification.
		if errors.Is(err, store.ErrConflict) {
			return true, nil
		}
		return false, err
	}

	if post.UserID != callerID {
		if err := notifyLike(ctx, s.notifications, post.UserID, postID); err != nil {
			return true, err
		}
	}
	return true, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultPageLimit
	}
	if limit > maxPageLimit {
		return maxPageLimit
	}
	return limit
}

func buildPostPage(posts []types.Post, limit int) PostPage {
	page := PostPage{HasMore: len(posts) > limit}
	if page.HasMore {
		posts = posts[:limit]
	}
	page.Posts = posts
	if page.HasMore && len(posts) > 0 {
		page.NextCursor = strconv.Itoa(posts[len(posts)-1].ID)
	}
	return page
}
