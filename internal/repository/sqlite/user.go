package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/snippetbin/internal/apperror"
	"github.com/sakif/snippetbin/internal/model"
	"github.com/sakif/snippetbin/internal/repository"
)

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

// githubIDValue maps the model's 0-means-none convention to SQL NULL, so the
// partial unique index on github_id only applies to linked accounts.
func githubIDValue(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: id != 0}
}

// isUniqueViolation detects SQLite's unique-constraint error. The driver
// doesn't export a typed error for it, so we match the message — the text
// "UNIQUE constraint failed" is stable across SQLite versions.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// CreateUser inserts a new password-based account.
// Returns apperror.Conflict when the username is already taken.
func (db *DB) CreateUser(ctx context.Context, user *model.User) error {
	now := time.Now().UTC()
	user.ID = xid.New().String()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (id, username, email, password_hash, github_id, avatar_url, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		githubIDValue(user.GitHubID),
		user.AvatarURL,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("user", fmt.Sprintf("username %s is taken", user.Username))
		}
		return fmt.Errorf("sqlite: inserting user %s: %w", user.Username, err)
	}

	return nil
}

// UpsertGitHubUser inserts or updates an account keyed by its GitHub ID.
//
// First login → INSERT. Subsequent logins → UPDATE the profile fields
// (username, email, avatar can all change on GitHub) while KEEPING the
// existing internal ID, so the user's snippets stay attached.
func (db *DB) UpsertGitHubUser(ctx context.Context, user *model.User) error {
	if user.GitHubID == 0 {
		return fmt.Errorf("sqlite: upserting user: github id is required")
	}

	var existingID string
	err := db.conn.QueryRowContext(ctx,
		`SELECT id FROM users WHERE github_id = ?`, user.GitHubID,
	).Scan(&existingID)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("sqlite: looking up user by github_id %d: %w", user.GitHubID, err)
	}

	if existingID != "" {
		user.ID = existingID
		user.UpdatedAt = time.Now().UTC()
		_, err = db.conn.ExecContext(ctx,
			`UPDATE users SET username = ?, email = ?, avatar_url = ?, updated_at = ?
			 WHERE id = ?`,
			user.Username,
			user.Email,
			user.AvatarURL,
			user.UpdatedAt,
			user.ID,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return apperror.Conflict("user", fmt.Sprintf("username %s is taken", user.Username))
			}
			return fmt.Errorf("sqlite: updating user %s: %w", user.ID, err)
		}
		return nil
	}

	if err := db.CreateUser(ctx, user); err != nil {
		return fmt.Errorf("sqlite: upserting github user %d: %w", user.GitHubID, err)
	}
	return nil
}

// GetUserByID retrieves a user and the ids of the snippets they own.
func (db *DB) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	user, err := db.getUser(ctx, `WHERE id = ?`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("sqlite: getting user %s: %w", id, err)
	}

	if err := db.fillSnippetIDs(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetUserByUsername retrieves a user by username (used by password login).
func (db *DB) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	user, err := db.getUser(ctx, `WHERE username = ?`, username)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", username)
		}
		return nil, fmt.Errorf("sqlite: getting user %s: %w", username, err)
	}

	if err := db.fillSnippetIDs(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// getUser runs the shared SELECT with the given WHERE clause.
func (db *DB) getUser(ctx context.Context, where string, arg any) (*model.User, error) {
	var (
		u        model.User
		githubID sql.NullInt64
	)

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, github_id, avatar_url, created_at, updated_at
		 FROM users `+where,
		arg,
	).Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&githubID,
		&u.AvatarURL,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	u.GitHubID = githubID.Int64
	u.SnippetIDs = []string{}
	return &u, nil
}

// fillSnippetIDs loads the ids of the snippets a user owns, oldest first.
func (db *DB) fillSnippetIDs(ctx context.Context, user *model.User) error {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id FROM snippets WHERE owner_id = ? ORDER BY created_at ASC, id ASC`,
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: listing snippets for user %s: %w", user.ID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("sqlite: scanning snippet id: %w", err)
		}
		user.SnippetIDs = append(user.SnippetIDs, id)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("sqlite: iterating snippet ids: %w", err)
	}
	return nil
}

// ListUsers returns every user with their owned snippet ids.
//
// Two queries total (users, then all snippet ids grouped in Go) instead of
// one query per user — the N+1 pattern bites even at small scale.
func (db *DB) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, username, email, password_hash, github_id, avatar_url, created_at, updated_at
		 FROM users ORDER BY created_at ASC, id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	index := make(map[string]int)
	for rows.Next() {
		var (
			u        model.User
			githubID sql.NullInt64
		)
		if err := rows.Scan(
			&u.ID, &u.Username, &u.Email, &u.PasswordHash, &githubID,
			&u.AvatarURL, &u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning user row: %w", err)
		}
		u.GitHubID = githubID.Int64
		u.SnippetIDs = []string{}
		index[u.ID] = len(users)
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating users: %w", err)
	}

	snippetRows, err := db.conn.QueryContext(ctx,
		`SELECT id, owner_id FROM snippets ORDER BY created_at ASC, id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing snippet owners: %w", err)
	}
	defer snippetRows.Close()

	for snippetRows.Next() {
		var id, ownerID string
		if err := snippetRows.Scan(&id, &ownerID); err != nil {
			return nil, fmt.Errorf("sqlite: scanning snippet owner: %w", err)
		}
		if i, ok := index[ownerID]; ok {
			users[i].SnippetIDs = append(users[i].SnippetIDs, id)
		}
	}
	if err := snippetRows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating snippet owners: %w", err)
	}

	if users == nil {
		users = []model.User{}
	}
	return users, nil
}

// DeleteUser removes an account. The ON DELETE CASCADE on snippets.owner_id
// deletes every snippet the user owns in the same statement.
func (db *DB) DeleteUser(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM users WHERE id = ?`,
		id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting user %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("user", id)
	}

	return nil
}
