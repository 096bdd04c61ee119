package store

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
)

// NewUser carries the fields needed to create an account. PasswordHash is
// already hashed; plaintext never crosses this boundary.
type NewUser struct {
	Username     string
	Email        string
	PasswordHash string
	Title        string
	IsAdmin      bool
}

// UserUpdate carries optional account mutations; nil fields are untouched.
type UserUpdate struct {
	Username     *string
	Email        *string
	PasswordHash *string
	Title        *string
	IsAdmin      *bool
}

// CreateUser inserts a new account. A duplicate username (case-insensitive)
// is ErrConflict.
func (s *Store) CreateUser(ctx context.Context, nu NewUser) (*User, error) {
	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM users WHERE lower(username)=lower(?)`, nu.Username).Scan(&exists)
	if err == nil {
		return nil, ErrConflict
	}
	if err != sql.ErrNoRows {
		return nil, errors.Wrap(err, "check username")
	}

	now := s.now()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (username, email, password_hash, title, is_admin, created_at)
		 VALUES (?,?,?,?,?,?)`,
		nu.Username, nu.Email, nu.PasswordHash, nu.Title, nu.IsAdmin, now)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, errors.Wrap(err, "insert user")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, errors.Wrap(err, "user insert id")
	}
	return &User{
		ID:           id,
		Username:     nu.Username,
		Email:        nu.Email,
		PasswordHash: nu.PasswordHash,
		Title:        nu.Title,
		IsAdmin:      nu.IsAdmin,
		CreatedAt:    parseTime(now),
	}, nil
}

// GetUser loads an account by id.
func (s *Store) GetUser(ctx context.Context, id int64) (*User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, COALESCE(title,''), is_admin, created_at
		 FROM users WHERE id=?`, id)
	return scanUser(row)
}

// GetUserByUsername loads an account by username, case-insensitive.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, COALESCE(title,''), is_admin, created_at
		 FROM users WHERE lower(username)=lower(?)`, username)
	return scanUser(row)
}

// ListUsers returns accounts ordered by id with limit/offset pagination.
func (s *Store) ListUsers(ctx context.Context, limit, offset int) ([]User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, username, email, password_hash, COALESCE(title,''), is_admin, created_at
		 FROM users ORDER BY id LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, errors.Wrap(err, "list users")
	}
	defer rows.Close()

	out := []User{}
	for rows.Next() {
		var u User
		var created string
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash,
			&u.Title, &u.IsAdmin, &created); err != nil {
			return nil, errors.Wrap(err, "scan user")
		}
		u.CreatedAt = parseTime(created)
		out = append(out, u)
	}
	return out, errors.Wrap(rows.Err(), "list users rows")
}

// UpdateUser applies the non-nil fields of upd inside one transaction.
// Missing account is ErrNotFound; a username collision is ErrConflict.
func (s *Store) UpdateUser(ctx context.Context, id int64, upd UserUpdate) (*User, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "begin update user")
	}
	defer func() { _ = tx.Rollback() }()

	row := tx.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, COALESCE(title,''), is_admin, created_at
		 FROM users WHERE id=?`, id)
	u, err := scanUser(row)
	if err != nil {
		return nil, err
	}

	if upd.Username != nil {
		u.Username = *upd.Username
	}
	if upd.Email != nil {
		u.Email = *upd.Email
	}
	if upd.PasswordHash != nil {
		u.PasswordHash = *upd.PasswordHash
	}
	if upd.Title != nil {
		u.Title = *upd.Title
	}
	if upd.IsAdmin != nil {
		u.IsAdmin = *upd.IsAdmin
	}

	// Renames respect the same case-insensitive uniqueness as create.
	if upd.Username != nil {
		var exists int
		err := tx.QueryRowContext(ctx,
			`SELECT 1 FROM users WHERE lower(username)=lower(?) AND id<>?`,
			u.Username, u.ID).Scan(&exists)
		if err == nil {
			return nil, ErrConflict
		}
		if err != sql.ErrNoRows {
			return nil, errors.Wrap(err, "check username")
		}
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE users SET username=?, email=?, password_hash=?, title=?, is_admin=? WHERE id=?`,
		u.Username, u.Email, u.PasswordHash, u.Title, u.IsAdmin, u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, errors.Wrap(err, "update user")
	}
	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "commit update user")
	}
	return u, nil
}

// DeleteUser removes an account; posts and likes cascade. The counters of
// posts the account had liked are decremented in the same transaction so
// likes_count stays equal to the surviving like rows.
func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin delete user")
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`UPDATE posts SET likes_count = likes_count - 1
		 WHERE id IN (SELECT post_id FROM user_likes WHERE user_id=?)`, id)
	if err != nil {
		return errors.Wrap(err, "drop like counters")
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id=?`, id)
	if err != nil {
		return errors.Wrap(err, "delete user")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "delete user rows affected")
	}
	if n == 0 {
		return ErrNotFound
	}
	return errors.Wrap(tx.Commit(), "commit delete user")
}

func scanUser(row *sql.Row) (*User, error) {
	var u User
	var created string
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash,
		&u.Title, &u.IsAdmin, &created); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "scan user")
	}
	u.CreatedAt = parseTime(created)
	return &u, nil
}
