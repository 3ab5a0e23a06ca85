// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (Business layer) → validates, enforces rules, renders
//	Repository (Data layer)  → reads/writes the database
//
// The service receives repository INTERFACES, not concrete types, so tests
// swap in a mock repository and the sqlite package is never imported here.
//
// THE ONE RULE THAT MATTERS IN THIS PACKAGE:
// A snippet's Highlighted field is derived from (code, language, style,
// linenos, title) and must NEVER go stale. Both write paths — Create and
// Update — therefore render BEFORE persisting, and hand the repository a
// fully-formed record to write atomically. There is no persist-then-render,
// no async re-render, no way to write source fields without the rendering.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/snippetbin/internal/apperror"
	"github.com/sakif/snippetbin/internal/highlight"
	"github.com/sakif/snippetbin/internal/model"
	"github.com/sakif/snippetbin/internal/repository"
)

// Validation constants — named, not magic numbers.
const (
	MaxTitleLength   = 100
	MaxCodeLength    = 100000 // ~100KB of code
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// SnippetService handles business logic for code snippets.
type SnippetService struct {
	repo   repository.SnippetRepository
	logger *slog.Logger
}

// NewSnippetService creates a SnippetService. The caller decides which
// repository implementation to inject (sqlite in production, a mock in tests).
func NewSnippetService(repo repository.SnippetRepository, logger *slog.Logger) *SnippetService {
	return &SnippetService{
		repo:   repo,
		logger: logger,
	}
}

// SnippetInput carries the caller-settable fields for a create.
// ID, timestamps, owner, and the rendering are never caller-settable.
type SnippetInput struct {
	Title    string
	Code     string
	Linenos  bool
	Language string
	Style    string
}

// SnippetPatch carries a PARTIAL update: nil means "leave this field alone".
//
// WHY POINTERS?
// For strings we could abuse "" as "no change", but Linenos is a bool —
// false is a perfectly valid value to set. Pointers make "absent" and
// "zero" distinguishable for every field, uniformly.
//
// Note what's absent: no Owner, no ID, no CreatedAt. Those fields are
// immutable and the type system simply offers no way to patch them.
type SnippetPatch struct {
	Title    *string
	Code     *string
	Linenos  *bool
	Language *string
	Style    *string
}

// Create validates, renders, and saves a new snippet owned by ownerID.
//
// Validation rules:
//   - code is required
//   - language defaults to "python", style to "friendly"; both must exist
//     in their registries — unknown values are rejected BEFORE any write
//   - ownerID is required (the handler takes it from the authenticated
//     session, never from the request body)
func (s *SnippetService) Create(ctx context.Context, ownerID string, in SnippetInput) (*model.Snippet, error) {
	if ownerID == "" {
		return nil, apperror.ValidationFailed("owner", "snippet owner is required")
	}

	title := strings.TrimSpace(in.Title)
	if len(title) > MaxTitleLength {
		return nil, apperror.ValidationFailed("title",
			fmt.Sprintf("title must be %d characters or less", MaxTitleLength))
	}

	if in.Code == "" {
		return nil, apperror.ValidationFailed("code", "code is required")
	}
	if len(in.Code) > MaxCodeLength {
		return nil, apperror.ValidationFailed("code",
			fmt.Sprintf("code must be %d characters or less", MaxCodeLength))
	}

	language := in.Language
	if language == "" {
		language = model.DefaultLanguage
	}
	if !highlight.IsLanguage(language) {
		return nil, apperror.ValidationFailed("language",
			fmt.Sprintf("unsupported language %q", language))
	}

	style := in.Style
	if style == "" {
		style = model.DefaultStyle
	}
	if !highlight.IsStyle(style) {
		return nil, apperror.ValidationFailed("style",
			fmt.Sprintf("unsupported style %q", style))
	}

	// Render FIRST. If rendering fails nothing is persisted, and if it
	// succeeds the repository writes source + rendering in one statement.
	rendered, err := highlight.Render(in.Code, language, style, title, in.Linenos)
	if err != nil {
		return nil, fmt.Errorf("rendering snippet: %w", err)
	}

	snippet := &model.Snippet{
		Title:       title,
		Code:        in.Code,
		Linenos:     in.Linenos,
		Language:    language,
		Style:       style,
		Highlighted: rendered,
		OwnerID:     ownerID,
	}

	if err := s.repo.Create(ctx, snippet); err != nil {
		s.logger.Error("failed to create snippet",
			slog.String("owner", ownerID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating snippet: %w", err)
	}

	s.logger.Info("snippet created",
		slog.String("id", snippet.ID),
		slog.String("owner", ownerID),
		slog.String("language", language),
	)

	return snippet, nil
}

// GetByID retrieves a snippet. Reads are public — no requester needed.
func (s *SnippetService) GetByID(ctx context.Context, id string) (*model.Snippet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "snippet ID is required")
	}

	return s.repo.GetByID(ctx, id)
}

// List retrieves snippets in ascending creation order, with pagination
// clamped to a sane range.
func (s *SnippetService) List(ctx context.Context, limit, offset int) ([]model.Snippet, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	snippets, err := s.repo.List(ctx, repository.ListOptions{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		s.logger.Error("failed to list snippets", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing snippets: %w", err)
	}

	return snippets, nil
}

// Update applies a partial patch to an existing snippet and re-renders.
//
// FLOW: fetch → authorize → patch → validate → render → persist.
// The re-render is UNCONDITIONAL — even a patch that only flips Linenos
// rebuilds the whole document, because partial invalidation is a bug
// factory and rendering is cheap at snippet sizes.
//
// requesterID is the authenticated caller; only the owner passes the
// CanModify gate. On any failure the stored record is untouched.
func (s *SnippetService) Update(ctx context.Context, requesterID, id string, patch SnippetPatch) (*model.Snippet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "snippet ID is required")
	}

	snippet, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !CanModify(requesterID, snippet) {
		return nil, apperror.Forbidden("only the owner may modify a snippet")
	}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if len(title) > MaxTitleLength {
			return nil, apperror.ValidationFailed("title",
				fmt.Sprintf("title must be %d characters or less", MaxTitleLength))
		}
		snippet.Title = title
	}
	if patch.Code != nil {
		if *patch.Code == "" {
			return nil, apperror.ValidationFailed("code", "code is required")
		}
		if len(*patch.Code) > MaxCodeLength {
			return nil, apperror.ValidationFailed("code",
				fmt.Sprintf("code must be %d characters or less", MaxCodeLength))
		}
		snippet.Code = *patch.Code
	}
	if patch.Linenos != nil {
		snippet.Linenos = *patch.Linenos
	}
	if patch.Language != nil {
		if !highlight.IsLanguage(*patch.Language) {
			return nil, apperror.ValidationFailed("language",
				fmt.Sprintf("unsupported language %q", *patch.Language))
		}
		snippet.Language = *patch.Language
	}
	if patch.Style != nil {
		if !highlight.IsStyle(*patch.Style) {
			return nil, apperror.ValidationFailed("style",
				fmt.Sprintf("unsupported style %q", *patch.Style))
		}
		snippet.Style = *patch.Style
	}

	rendered, err := highlight.Render(
		snippet.Code, snippet.Language, snippet.Style, snippet.Title, snippet.Linenos,
	)
	if err != nil {
		return nil, fmt.Errorf("rendering snippet: %w", err)
	}
	snippet.Highlighted = rendered

	if err := s.repo.Update(ctx, snippet); err != nil {
		s.logger.Error("failed to update snippet",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating snippet: %w", err)
	}

	s.logger.Info("snippet updated",
		slog.String("id", snippet.ID),
		slog.String("requester", requesterID),
	)

	return snippet, nil
}

// Delete removes a snippet. Same ownership gate as Update.
func (s *SnippetService) Delete(ctx context.Context, requesterID, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.ValidationFailed("id", "snippet ID is required")
	}

	snippet, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !CanModify(requesterID, snippet) {
		return apperror.Forbidden("only the owner may delete a snippet")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("snippet deleted",
		slog.String("id", id),
		slog.String("requester", requesterID),
	)
	return nil
}
