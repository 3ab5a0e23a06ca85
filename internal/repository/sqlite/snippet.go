package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/snippetbin/internal/apperror"
	"github.com/sakif/snippetbin/internal/model"
	"github.com/sakif/snippetbin/internal/repository"
)

// COMPILE-TIME INTERFACE CHECK:
// `var _ X = (*Y)(nil)` fails to compile if *Y doesn't implement X.
// Without it, a missing method only surfaces wherever *DB is passed as a
// SnippetRepository — which could be much later and much less obvious.
var _ repository.SnippetRepository = (*DB)(nil)

// snippetColumns is the SELECT list shared by every snippet read query.
// The JOIN pulls the owner's username so read results can show who owns
// each snippet without a second query.
const snippetColumns = `
	s.id, s.title, s.code, s.linenos, s.language, s.style, s.highlighted,
	s.owner_id, u.username, s.created_at, s.updated_at`

// scanSnippet reads one row produced by a snippetColumns SELECT.
// Works for both *sql.Row and *sql.Rows thanks to the shared Scan signature.
func scanSnippet(row interface{ Scan(...any) error }, s *model.Snippet) error {
	return row.Scan(
		&s.ID, &s.Title, &s.Code, &s.Linenos, &s.Language, &s.Style,
		&s.Highlighted, &s.OwnerID, &s.Owner, &s.CreatedAt, &s.UpdatedAt,
	)
}

// Create inserts a new snippet.
//
// ID GENERATION WITH xid: 20 URL-safe chars, sortable by creation time.
// The pointer receiver matters — after Create the caller's snippet carries
// the generated ID and timestamps.
//
// The INSERT writes highlighted together with the source fields: one
// statement, one atomic write. There is no window where the row exists
// without its rendering.
func (db *DB) Create(ctx context.Context, snippet *model.Snippet) error {
	snippet.ID = xid.New().String()

	now := time.Now().UTC()
	snippet.CreatedAt = now
	snippet.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO snippets (id, title, code, linenos, language, style, highlighted, owner_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		snippet.ID,
		snippet.Title,
		snippet.Code,
		snippet.Linenos,
		snippet.Language,
		snippet.Style,
		snippet.Highlighted,
		snippet.OwnerID,
		snippet.CreatedAt,
		snippet.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating snippet: %w", err)
	}

	return nil
}

// GetByID retrieves a single snippet, including its owner's username.
// Returns apperror.NotFound when no row matches — sql.ErrNoRows never
// escapes this package.
func (db *DB) GetByID(ctx context.Context, id string) (*model.Snippet, error) {
	var snippet model.Snippet

	row := db.conn.QueryRowContext(ctx,
		`SELECT `+snippetColumns+`
		 FROM snippets s JOIN users u ON u.id = s.owner_id
		 WHERE s.id = ?`,
		id,
	)
	if err := scanSnippet(row, &snippet); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("snippet", id)
		}
		return nil, fmt.Errorf("sqlite: getting snippet %s: %w", id, err)
	}

	return &snippet, nil
}

// List retrieves snippets in ascending creation order, with pagination.
//
// The id tiebreaker keeps the order total even when two snippets share a
// created_at timestamp (xids are themselves time-ordered, so this also
// matches insertion order).
func (db *DB) List(ctx context.Context, opts repository.ListOptions) ([]model.Snippet, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+snippetColumns+`
		 FROM snippets s JOIN users u ON u.id = s.owner_id
		 ORDER BY s.created_at ASC, s.id ASC
		 LIMIT ? OFFSET ?`,
		limit,
		offset,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing snippets: %w", err)
	}
	// rows holds a pool connection until closed — leak these and the pool
	// eventually runs dry.
	defer rows.Close()

	snippets := make([]model.Snippet, 0, limit)
	for rows.Next() {
		var s model.Snippet
		if err := scanSnippet(rows, &s); err != nil {
			return nil, fmt.Errorf("sqlite: scanning snippet row: %w", err)
		}
		snippets = append(snippets, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating snippets: %w", err)
	}

	return snippets, nil
}

// Update rewrites a snippet's mutable fields plus its rendering in one
// statement. id, owner_id, and created_at are deliberately absent from the
// SET list — they are immutable and no caller can change them through this
// path.
func (db *DB) Update(ctx context.Context, snippet *model.Snippet) error {
	snippet.UpdatedAt = time.Now().UTC()

	result, err := db.conn.ExecContext(ctx,
		`UPDATE snippets
		 SET title = ?, code = ?, linenos = ?, language = ?, style = ?, highlighted = ?, updated_at = ?
		 WHERE id = ?`,
		snippet.Title,
		snippet.Code,
		snippet.Linenos,
		snippet.Language,
		snippet.Style,
		snippet.Highlighted,
		snippet.UpdatedAt,
		snippet.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating snippet %s: %w", snippet.ID, err)
	}

	// 0 rows affected means the WHERE clause matched nothing — not found.
	// Cheaper than a SELECT-then-UPDATE round trip.
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("snippet", snippet.ID)
	}

	return nil
}

// Delete removes a snippet by id. Same RowsAffected pattern as Update.
func (db *DB) Delete(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM snippets WHERE id = ?`,
		id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting snippet %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("snippet", id)
	}

	return nil
}
