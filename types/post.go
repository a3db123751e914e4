package types

import "time"

// Post represents a short social post in the feed.
type Post struct {
	// ID is the unique identifier of the post.
	ID int `json:"id" db:"id"`

	// UserID identifies the user who created the post. Only that user
	// may update or delete it.
	UserID int `json:"userId" db:"user_id"`

	// Author is a summary of the post's creator, joined in for display.
	Author UserSummary `json:"author"`

	// Content is the post body, limited to 280 characters.
	Content string `json:"content" db:"content"`

	// ImageURL is an optional image attached to the post.
	ImageURL string `json:"imageUrl,omitempty" db:"image_url"`

	// Hashtags is the deduplicated union of tags extracted from the
	// content and tags supplied explicitly at creation time.
	Hashtags []string `json:"hashtags" db:"hashtags"`

	// IsPublic controls whether the post appears in other users' feeds.
	IsPublic bool `json:"isPublic" db:"is_public"`

	// LikeCount and CommentCount are derived counters, never stored.
	LikeCount    int `json:"likeCount"`
	CommentCount int `json:"commentCount"`

	// IsLiked reports whether the viewing user has liked this post.
	// The underlying like rows are never serialized to clients.
	IsLiked bool `json:"isLiked"`

	// CreatedAt is the timestamp when the post was created.
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the post.
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Comment represents a comment on a post.
type Comment struct {
	// ID is the unique identifier of the comment.
	ID int `json:"id" db:"id"`

	// PostID identifies the post this comment belongs to.
	PostID int `json:"postId" db:"post_id"`

	// UserID identifies the comment's author. Only that user may
	// update or delete it.
	UserID int `json:"userId" db:"user_id"`

	// Author is a summary of the comment's author, joined in for display.
	Author UserSummary `json:"author"`

	// Content is the comment body, limited to 500 characters.
	Content string `json:"content" db:"content"`

	// CreatedAt is the timestamp when the comment was created.
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the comment.
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Like marks that a user liked a post. At most one row exists per
// (post, user) pair; presence of the row is the "liked" state.
type Like struct {
	ID        int       `json:"id" db:"id"`
	PostID    int       `json:"postId" db:"post_id"`
	UserID    int       `json:"userId" db:"user_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Follow marks that one user follows another. At most one row exists
// per (follower, following) pair; self-follows are rejected upstream.
type Follow struct {
	ID          int       `json:"id" db:"id"`
	FollowerID  int       `json:"followerId" db:"follower_id"`
	FollowingID int       `json:"followingId" db:"following_id"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}
