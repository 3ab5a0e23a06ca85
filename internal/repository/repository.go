// Package repository defines the storage interfaces the service layer
// depends on. Concrete implementations live in subpackages (sqlite).
//
// The service layer only ever sees these interfaces — swapping SQLite for
// Postgres means writing a new subpackage and changing one line in the
// composition root.
package repository

import (
	"context"

	"github.com/sakif/snippetbin/internal/model"
)

// ListOptions controls pagination for list queries.
type ListOptions struct {
	Limit  int
	Offset int
}

// SnippetRepository persists snippets. Implementations must return
// apperror.NotFound when an id doesn't exist, and must store the snippet's
// Highlighted field together with the rest of the record in a single write —
// a reader must never observe a record whose rendering doesn't match its
// source fields.
type SnippetRepository interface {
	Create(ctx context.Context, snippet *model.Snippet) error
	GetByID(ctx context.Context, id string) (*model.Snippet, error)
	List(ctx context.Context, opts ListOptions) ([]model.Snippet, error)
	Update(ctx context.Context, snippet *model.Snippet) error
	Delete(ctx context.Context, id string) error
}

// UserRepository persists user accounts.
//
// DeleteUser removes the account AND all snippets it owns (the schema
// enforces the cascade, implementations don't re-implement it).
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	UpsertGitHubUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	DeleteUser(ctx context.Context, id string) error
}
