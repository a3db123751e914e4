package store

import (
	"context"
	"database/sql"
	"time"
)

// LikeRepository handles persistence for like rows. A like is keyed by
// (post_id, user_id) with a unique constraint, so concurrent toggles on
// the same pair resolve at the store level.
type LikeRepository struct {
	db *sql.DB
}

func NewLikeRepository(db *sql.DB) *LikeRepository {
	return &LikeRepository{db: db}
}

func (r *LikeRepository) Exists(ctx context.Context, postID, userID int) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM likes WHERE post_id = $1 AND user_id = $2)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, postID, userID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *LikeRepository) Create(ctx context.Context, postID, userID int) error {
	const query = `
		INSERT INTO likes (post_id, user_id, created_at)
		VALUES ($1, $2, $3)`
	if _, err := r.db.ExecContext(ctx, query, postID, userID, time.Now()); err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return err
	}
	return nil
}

func (r *LikeRepository) Delete(ctx context.Context, postID, userID int) error {
	const query = `DELETE FROM likes WHERE post_id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, postID, userID)
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
