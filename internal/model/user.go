// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account.
//
// Two ways to get an account:
//   - Username/password registration (PasswordHash is set)
//   - GitHub OAuth login (GitHubID is set; PasswordHash stays empty)
//
// Either way we generate our own internal string ID (xid) so primary keys
// aren't tied to a third-party's numbering scheme.
//
// WHY GitHubID int64 WITH 0 AS "NONE"?
// GitHub user IDs are positive integers, so 0 is a safe sentinel for
// "this account has no linked GitHub identity". Using int64 avoids overflow
// for large GitHub account numbers. The UNIQUE constraint on github_id in
// the DB ensures one GitHub account maps to exactly one app account.
//
// WHY `json:"-"` ON PasswordHash?
// The dash tells encoding/json to NEVER include this field in output.
// A bcrypt hash isn't a password, but there's no reason to hand it to
// clients either.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"` // may be empty (GitHub users can hide theirs)
	PasswordHash string    `json:"-"`
	GitHubID     int64     `json:"-"` // 0 when the account has no GitHub link
	AvatarURL    string    `json:"avatarUrl"`
	SnippetIDs   []string  `json:"snippets"` // ids of snippets this user owns, filled on read
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
