package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/coffeelog/apiserver/types"
)

// PostRepository handles persistence for posts.
type PostRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) *PostRepository {
	return &PostRepository{db: db}
}

const postColumns = `
	p.id, p.user_id, u.name, p.content, p.image_url, p.hashtags, p.is_public,
	p.created_at, p.updated_at,
	(SELECT COUNT(1) FROM likes l WHERE l.post_id = p.id) AS like_count,
	(SELECT COUNT(1) FROM comments c WHERE c.post_id = p.id) AS comment_count,
	EXISTS (SELECT 1 FROM likes l WHERE l.post_id = p.id AND l.user_id = $1) AS is_liked`

// Get returns the bare post row without viewer-dependent fields. It is
// used for existence and ownership checks before mutations.
func (r *PostRepository) Get(ctx context.Context, id int) (types.Post, error) {
	const query = `
		SELECT id, user_id, content, image_url, hashtags, is_public, created_at, updated_at
		FROM posts
		WHERE id = $1`
	var post types.Post
	var hashtagsJSON []byte
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&post.ID,
		&post.UserID,
		&post.Content,
		&post.ImageURL,
		&hashtagsJSON,
		&post.IsPublic,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Post{}, ErrNotFound
		}
		return types.Post{}, err
	}
	_ = json.Unmarshal(hashtagsJSON, &post.Hashtags)
	return post, nil
}

// GetForViewer returns one post with counts and the viewer's like state.
func (r *PostRepository) GetForViewer(ctx context.Context, id, viewerID int) (types.Post, error) {
	query := `
		SELECT` + postColumns + `
		FROM posts p
		JOIN users u ON u.id = p.user_id
		WHERE p.id = $2`
	post, err := r.scanPost(r.db.QueryRowContext(ctx, query, viewerID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Post{}, ErrNotFound
		}
		return types.Post{}, err
	}
	return post, nil
}

// ListPublic returns up to limit public posts newest-first. A non-zero
// cursor bounds the page strictly below that post id.
func (r *PostRepository) ListPublic(ctx context.Context, viewerID, cursor, limit int) ([]types.Post, error) {
	query := `
		SELECT` + postColumns + `
		FROM posts p
		JOIN users u ON u.id = p.user_id
		WHERE p.is_public
		  AND ($2 = 0 OR p.id < $2)
		ORDER BY p.id DESC
		LIMIT $3`
	return r.listPosts(ctx, query, viewerID, cursor, limit)
}

// ListByUser returns up to limit public posts by one author, with the
// same cursor contract as ListPublic.
func (r *PostRepository) ListByUser(ctx context.Context, userID, viewerID, cursor, limit int) ([]types.Post, error) {
	query := `
		SELECT` + postColumns + `
		FROM posts p
		JOIN users u ON u.id = p.user_id
		WHERE p.is_public
		  AND p.user_id = $4
		  AND ($2 = 0 OR p.id < $2)
		ORDER BY p.id DESC
		LIMIT $3`
	return r.listPosts(ctx, query, viewerID, cursor, limit, userID)
}

func (r *PostRepository) listPosts(ctx context.Context, query string, viewerID, cursor, limit int, extra ...any) ([]types.Post, error) {
	args := append([]any{viewerID, cursor, limit}, extra...)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := make([]types.Post, 0, limit)
	for rows.Next() {
		post, err := r.scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return posts, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PostRepository) scanPost(row rowScanner) (types.Post, error) {
	var post types.Post
	var hashtagsJSON []byte
	if err := row.Scan(
		&post.ID,
		&post.UserID,
		&post.Author.Name,
		&post.Content,
		&post.ImageURL,
		&hashtagsJSON,
		&post.IsPublic,
		&post.CreatedAt,
		&post.UpdatedAt,
		&post.LikeCount,
		&post.CommentCount,
		&post.IsLiked,
	); err != nil {
		return types.Post{}, err
	}
	post.Author.ID = post.UserID
	_ = json.Unmarshal(hashtagsJSON, &post.Hashtags)
	if post.Hashtags == nil {
		post.Hashtags = []string{}
	}
	return post, nil
}

func (r *PostRepository) Create(ctx context.Context, post types.Post) (types.Post, error) {
	now := time.Now()
	post.CreatedAt = now
	post.UpdatedAt = now

	hashtagsJSON, err := json.Marshal(post.Hashtags)
	if err != nil {
		return types.Post{}, err
	}

	const query = `
		INSERT INTO posts (user_id, content, image_url, hashtags, is_public, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		post.UserID,
		post.Content,
		post.ImageURL,
		hashtagsJSON,
		post.IsPublic,
		post.CreatedAt,
		post.UpdatedAt,
	).Scan(&post.ID); err != nil {
		return types.Post{}, err
	}
	return post, nil
}

func (r *PostRepository) Update(ctx context.Context, post types.Post) (types.Post, error) {
	post.UpdatedAt = time.Now()

	hashtagsJSON, err := json.Marshal(post.Hashtags)
	if err != nil {
		return types.Post{}, err
	}

	const query = `
		UPDATE posts
		SET content = $1,
			image_url = $2,
			hashtags = $3,
			is_public = $4,
			updated_at = $5
		WHERE id = $6`
	result, err := r.db.ExecContext(
		ctx,
		query,
		post.Content,
		post.ImageURL,
		hashtagsJSON,
		post.IsPublic,
		post.UpdatedAt,
		post.ID,
	)
	if err != nil {
		return types.Post{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Post{}, err
	}
	if affected == 0 {
		return types.Post{}, ErrNotFound
	}
	return post, nil
}

func (r *PostRepository) Delete(ctx context.Context, id int) error {
	const query = `DELETE FROM posts WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountByUser returns the number of posts created by one user.
func (r *PostRepository) CountByUser(ctx context.Context, userID int) (int, error) {
	const query = `SELECT COUNT(1) FROM posts WHERE user_id = $1`
	var count int
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
