// Package sqlite implements the repository interfaces using SQLite as the storage backend.
//
// WHY SQLITE?
// SQLite is an embedded database — it lives inside your Go binary as a single file.
// No separate database server to install, configure, or manage. Perfect for:
// - Single-server deployments (which is most apps, honestly)
// - Development and testing (use ":memory:" for an in-memory DB)
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo (calls C code from Go), which means you need a C compiler
// installed and cross-compilation becomes painful. modernc.org/sqlite is a pure Go
// translation of the SQLite C code — no C compiler needed, works everywhere Go works.
package sqlite

import (
	"database/sql"
	"fmt"

	// BLANK IMPORT:
	// `_ "modernc.org/sqlite"` is a side-effect-only import. The package's
	// init() registers itself with database/sql as a driver named "sqlite";
	// after this import, sql.Open("sqlite", ...) knows how to talk to SQLite.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and implements both repository
// interfaces (SnippetRepository in snippet.go, UserRepository in user.go).
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
//
// dbPath examples:
//   - "data/snippetbin.db"  → file-based database (persistent)
//   - ":memory:"            → in-memory database (great for tests, lost on close)
func New(dbPath string) (*DB, error) {
	// PRAGMAS IN THE DSN, NOT VIA Exec:
	// database/sql is a connection POOL, and SQLite pragmas are
	// per-connection. A `conn.Exec("PRAGMA foreign_keys=ON")` would only
	// configure whichever pooled connection happened to run it. Putting
	// the pragmas in the DSN makes the driver apply them to EVERY new
	// connection:
	//   - journal_mode=WAL: concurrent reads while a write is in progress
	//   - foreign_keys=ON:  OFF by default in SQLite; we need it ON because
	//     snippets declares ON DELETE CASCADE against users — that's how
	//     deleting an account takes its snippets with it.
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"

	// sql.Open doesn't actually connect — it creates a pool manager.
	// Ping forces an immediate connection so a bad path fails here,
	// not on the first query.
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// An in-memory database exists per-connection: two pooled connections
	// would see two different empty databases. One connection fixes that,
	// and tests are the only user of ":memory:" anyway.
	if dbPath == ":memory:" {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool. Always defer this next to New.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps it safe to
// run on every start; for anything more evolved you'd reach for a migration
// tool that tracks applied versions.
func (db *DB) migrate() error {
	// users first — snippets reference it.
	//
	// github_id is nullable: password accounts have no GitHub identity.
	// The partial unique index enforces one row per GitHub account without
	// making NULLs collide.
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			username      TEXT NOT NULL UNIQUE,
			email         TEXT NOT NULL DEFAULT '',
			password_hash TEXT NOT NULL DEFAULT '',
			github_id     INTEGER,
			avatar_url    TEXT NOT NULL DEFAULT '',
			created_at    DATETIME NOT NULL,
			updated_at    DATETIME NOT NULL
		);
		CREATE UNIQUE INDEX IF NOT EXISTS idx_users_github_id
			ON users(github_id) WHERE github_id IS NOT NULL;
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	// highlighted is NOT NULL: a snippet row never exists without its
	// rendering. The service computes it before every INSERT/UPDATE, so the
	// two can't drift apart.
	//
	// ON DELETE CASCADE: deleting a user deletes all their snippets in the
	// same statement, atomically.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS snippets (
			id          TEXT PRIMARY KEY,
			title       TEXT NOT NULL DEFAULT '',
			code        TEXT NOT NULL,
			linenos     INTEGER NOT NULL DEFAULT 0,
			language    TEXT NOT NULL,
			style       TEXT NOT NULL,
			highlighted TEXT NOT NULL,
			owner_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			created_at  DATETIME NOT NULL,
			updated_at  DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_snippets_created_at ON snippets(created_at);
		CREATE INDEX IF NOT EXISTS idx_snippets_owner_id ON snippets(owner_id);
	`)
	if err != nil {
		return fmt.Errorf("creating snippets table: %w", err)
	}

	return nil
}
