// internal/store/likes.go
//
// Like/unlike transaction manager. Each operation runs the existence
// check, the like-row mutation, and the counter delta inside one
// transaction, so posts.likes_count always equals the number of
// user_likes rows for the post. The counter moves by a relative delta
// (likes_count = likes_count + 1), never a read-modify-write of a value
// seen earlier, so concurrent likers cannot lose increments. Double-likes
// under race are caught by the UNIQUE(user_id, post_id) constraint.

package store

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
)

// LikePost records that userID likes postID. A missing post is
// ErrNotFound; an existing like is ErrConflict (repeating a like is an
// error, not a no-op). Insert and counter increment commit together or
// not at all.
func (s *Store) LikePost(ctx context.Context, userID, postID int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin like")
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM posts WHERE id=?`, postID).Scan(&exists)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return errors.Wrap(err, "check post")
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO user_likes (user_id, post_id) VALUES (?,?)`, userID, postID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return errors.Wrap(err, "insert like")
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE posts SET likes_count = likes_count + 1 WHERE id=?`, postID)
	if err != nil {
		return errors.Wrap(err, "increment likes_count")
	}

	return errors.Wrap(tx.Commit(), "commit like")
}

// UnlikePost is the symmetric operation: a missing like row is
// ErrNotFound; delete and counter decrement commit together or not at all.
func (s *Store) UnlikePost(ctx context.Context, userID, postID int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin unlike")
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`DELETE FROM user_likes WHERE user_id=? AND post_id=?`, userID, postID)
	if err != nil {
		return errors.Wrap(err, "delete like")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "unlike rows affected")
	}
	if n == 0 {
		return ErrNotFound
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE posts SET likes_count = likes_count - 1 WHERE id=?`, postID)
	if err != nil {
		return errors.Wrap(err, "decrement likes_count")
	}

	return errors.Wrap(tx.Commit(), "commit unlike")
}
