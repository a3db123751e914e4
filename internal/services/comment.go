package services

import (
	"context"
	"strconv"

	"github.com/coffeelog/apiserver/types"
)

// CommentRepository defines persistence operations for comments.
type CommentRepository interface {
	Get(ctx context.Context, id int) (types.Comment, error)
	ListByPost(ctx context.Context, postID, cursor, limit int) ([]types.Comment, error)
	Create(ctx context.Context, comment types.Comment) (types.Comment, error)
	Update(ctx context.Context, comment types.Comment) (types.Comment, error)
	Delete(ctx context.Context, id int) error
}

// PostGetter is the read-side post dependency of the comment service.
type PostGetter interface {
	Get(ctx context.Context, id int) (types.Post, error)
}

// CommentPage is one page of a cursor-paginated comment listing.
type CommentPage struct {
	Comments   []types.Comment `json:"comments"`
	HasMore    bool            `json:"hasMore"`
	NextCursor string          `json:"nextCursor,omitempty"`
}

// CommentService encapsulates comment use-cases.
type CommentService struct {
	comments      CommentRepository
	posts         PostGetter
	notifications NotificationCreator
}

func NewCommentService(comments CommentRepository, posts PostGetter, notifications NotificationCreator) *CommentService {
	return &CommentService{
		comments:      comments,
		posts:         posts,
		notifications: notifications,
	}
}

// List returns one page of a post's comments, newest first, with the
// same cursor contract as the feed. The parent post must exist.
func (s *CommentService) List(ctx context.Context, postID, limit, cursor int) (CommentPage, error) {
	if _, err := s.posts.Get(ctx, postID); err != nil {
		return CommentPage{}, err
	}

	limit = clampLimit(limit)
	comments, err := s.comments.ListByPost(ctx, postID, cursor, limit+1)
	if err != nil {
		return CommentPage{}, err
	}

	page := CommentPage{HasMore: len(comments) > limit}
	if page.HasMore {
		comments = comments[:limit]
	}
	page.Comments = comments
	if page.HasMore && len(comments) > 0 {
		page.NextCursor = strconv.Itoa(comments[len(comments)-1].ID)
	}
	return page, nil
}

// Create adds a comment to an existing post. The post's author receives
// a notification unless they are the commenter. The parent is only
// validated at creation time.
func (s *CommentService) Create(ctx context.Context, postID, callerID int, content string) (types.Comment, error) {
	post, err := s.posts.Get(ctx, postID)
	if err != nil {
		return types.Comment{}, err
	}

	comment, err := s.comments.Create(ctx, types.Comment{
		PostID:  postID,
		UserID:  callerID,
		Content: content,
	})
	if err != nil {
		return types.Comment{}, err
	}

	if post.UserID != callerID {
		if err := notifyComment(ctx, s.notifications, post.UserID, postID); err != nil {
			return types.Comment{}, err
		}
	}
	return s.comments.Get(ctx, comment.ID)
}

// Update edits a comment. Existence first, ownership second.
func (s *CommentService) Update(ctx context.Context, id, callerID int, content string) (types.Comment, error) {
	comment, err := s.comments.Get(ctx, id)
	if err != nil {
		return types.Comment{}, err
	}
	if comment.UserID != callerID {
		return types.Comment{}, ErrForbidden
	}

	comment.Content = content
	if _, err := s.comments.Update(ctx, comment); err != nil {
		return types.Comment{}, err
	}
	return s.comments.Get(ctx, id)
}

// Delete removes a comment. Existence first, ownership second.
func (s *CommentService) Delete(ctx context.Context, id, callerID int) error {
	comment, err := s.comments.Get(ctx, id)
	if err != nil {
		return err
	}
	if comment.UserID != callerID {
		return ErrForbidden
	}
	return s.comments.Delete(ctx, id)
}
