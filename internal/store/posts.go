package store

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
)

const postWithAuthorSelect = `
	SELECT
		p.id,
		p.user_id,
		p.content,
		p.created_at,
		p.likes_count,
		u.username,
		COALESCE(u.title,''),
		CASE WHEN ul.user_id IS NOT NULL THEN 1 ELSE 0 END
	FROM posts p
	JOIN users u ON p.user_id = u.id
	LEFT JOIN user_likes ul ON ul.post_id = p.id AND ul.user_id = ?`

// CreatePost inserts a post owned by userID and returns it joined with its
// author. The owner must come from the resolved identity, never the body.
func (s *Store) CreatePost(ctx context.Context, userID int64, content string) (*PostWithAuthor, error) {
	now := s.now()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO posts (user_id, content, created_at) VALUES (?,?,?)`,
		userID, content, now)
	if err != nil {
		return nil, errors.Wrap(err, "insert post")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, errors.Wrap(err, "post insert id")
	}
	return s.GetPost(ctx, id, userID)
}

// GetPost loads one post with author data. viewerID sets the IsLiked flag;
// pass 0 for an anonymous viewer.
func (s *Store) GetPost(ctx context.Context, id, viewerID int64) (*PostWithAuthor, error) {
	row := s.db.QueryRowContext(ctx, postWithAuthorSelect+` WHERE p.id = ?`, viewerID, id)
	var p PostWithAuthor
	var created string
	var liked int
	err := row.Scan(&p.ID, &p.UserID, &p.Content, &created, &p.LikesCount,
		&p.AuthorUsername, &p.AuthorTitle, &liked)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "scan post")
	}
	p.CreatedAt = parseTime(created)
	p.IsLiked = liked == 1
	return &p, nil
}

// ListPosts returns posts newest first with limit/offset pagination.
func (s *Store) ListPosts(ctx context.Context, viewerID int64, limit, offset int) ([]PostWithAuthor, error) {
	rows, err := s.db.QueryContext(ctx,
		postWithAuthorSelect+` ORDER BY p.created_at DESC, p.id DESC LIMIT ? OFFSET ?`,
		viewerID, limit, offset)
	if err != nil {
		return nil, errors.Wrap(err, "list posts")
	}
	defer rows.Close()

	out := []PostWithAuthor{}
	for rows.Next() {
		var p PostWithAuthor
		var created string
		var liked int
		if err := rows.Scan(&p.ID, &p.UserID, &p.Content, &created, &p.LikesCount,
			&p.AuthorUsername, &p.AuthorTitle, &liked); err != nil {
			return nil, errors.Wrap(err, "scan post")
		}
		p.CreatedAt = parseTime(created)
		p.IsLiked = liked == 1
		out = append(out, p)
	}
	return out, errors.Wrap(rows.Err(), "list posts rows")
}

// DeletePostOwnedBy removes a post only while ownerID still owns it,
// keeping the ownership check and the delete inside one transaction. A
// missing post is ErrNotFound; a post owned by another account is
// ErrNotOwner.
func (s *Store) DeletePostOwnedBy(ctx context.Context, id, ownerID int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin delete post")
	}
	defer func() { _ = tx.Rollback() }()

	var owner int64
	err = tx.QueryRowContext(ctx, `SELECT user_id FROM posts WHERE id=?`, id).Scan(&owner)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return errors.Wrap(err, "post owner")
	}
	if owner != ownerID {
		return ErrNotOwner
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM posts WHERE id=?`, id); err != nil {
		return errors.Wrap(err, "delete post")
	}
	return errors.Wrap(tx.Commit(), "commit delete post")
}

// DeletePost removes a post; its like rows cascade with it.
func (s *Store) DeletePost(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id=?`, id)
	if err != nil {
		return errors.Wrap(err, "delete post")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "delete post rows affected")
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
