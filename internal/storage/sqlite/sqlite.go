// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using sqlx on top of database/sql.
//
// WHY SQLite?
// ───────────
// SQLite stores everything in a single file on disk. There is no
// network, no separate server process, and no installation beyond the
// driver. It is fast enough for most projects and trivial to set up.
//
// WHY sqlx ON TOP?
// ────────────────
// sqlx keeps the database/sql connection-pool semantics but scans rows
// straight into structs via db:"..." tags (Get for one row, Select for
// many), which removes the column-order bookkeeping of hand-written
// rows.Scan calls.
//
// The blank import below registers the sqlite3 driver with database/sql.
// The driver's init() function does this automatically when the package
// is loaded — we never call anything from it directly.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/aanand-mishra/hero-api/internal/config"
	"github.com/aanand-mishra/hero-api/internal/storage"
	"github.com/aanand-mishra/hero-api/internal/types"
	"github.com/jmoiron/sqlx"

	// Blank import: side-effect only (registers the "sqlite3" driver).
	// Without this the sqlx.Open("sqlite3", ...) call would fail with
	// "unknown driver".
	_ "github.com/mattn/go-sqlite3"
)

// SQLite is the concrete SQLite implementation of storage.Storage.
// It holds a *sqlx.DB, which wraps the database/sql connection pool
// and is safe for concurrent use by multiple goroutines. Each query
// checks a connection out of the pool and returns it when the scan or
// exec completes, on every exit path — this is the per-request scoped
// acquisition the handlers rely on.
type SQLite struct {
	Db *sqlx.DB
}

// New opens the SQLite database at the path specified in cfg.Storage.Path,
// creates the heroes table if it does not already exist, and returns
// a ready-to-use *SQLite.
//
// Naming convention: New() acts as a constructor. Go has no constructors,
// so the community convention is a package-level New() function that
// returns an initialised instance (and an error as the second value).
func New(cfg *config.Config) (*SQLite, error) {
	// sqlx.Open does NOT open a real connection yet — it just validates
	// the driver name and data source name (DSN).
	// The first actual connection happens on the first query.
	db, err := sqlx.Open("sqlite3", cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	// CREATE TABLE IF NOT EXISTS is idempotent — safe to run on every
	// startup. If the table already exists nothing happens. This is
	// create-if-absent, not a migration system: columns never evolve.
	//
	// Schema:
	//   id   — integer primary key, auto-incremented by SQLite,
	//          never reused for the lifetime of the table
	//   name — hero's name (TEXT = variable-length string)
	//   age  — hero's age in years; nullable because age is optional
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS heroes (
			id   INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT    NOT NULL,
			age  INTEGER
		)
	`)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: create table: %w", err)
	}

	return &SQLite{Db: db}, nil
}

// CreateHero inserts a new row into the heroes table and returns the
// auto-generated primary key.
//
// The ? placeholders keep user input out of the SQL text entirely: the
// driver ships query and values separately, so the engine treats the
// values as pure data, never as SQL syntax.
func (s *SQLite) CreateHero(name string, age *int) (int64, error) {
	// A nil *int is passed through as SQL NULL by the driver, so the
	// optional-age case needs no special handling here.
	result, err := s.Db.Exec(
		"INSERT INTO heroes (name, age) VALUES (?, ?)",
		name, age,
	)
	if err != nil {
		return 0, fmt.Errorf("CreateHero: exec: %w", err)
	}

	// LastInsertId returns the auto-generated primary key of the new row.
	lastID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("CreateHero: last insert id: %w", err)
	}

	return lastID, nil
}

// GetHeroByID fetches exactly one hero row matched by primary key.
//
// sqlx.Get runs the query and scans the single result row into the
// struct via its db:"..." tags. When nothing matches it surfaces
// sql.ErrNoRows, which we translate into the storage-level sentinel so
// handlers never import database/sql.
func (s *SQLite) GetHeroByID(id int64) (types.Hero, error) {
	var hero types.Hero

	err := s.Db.Get(&hero,
		"SELECT id, name, age FROM heroes WHERE id = ? LIMIT 1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Hero{}, fmt.Errorf("id %d: %w", id, storage.ErrHeroNotFound)
		}
		return types.Hero{}, fmt.Errorf("GetHeroByID: get: %w", err)
	}

	return hero, nil
}

// GetHeroes returns all hero rows matching the filter as a slice.
//
// The WHERE clause is assembled from the filter's non-nil fields only.
// A nil field means "no constraint on this column" — crucially, a
// pointer to zero (age=0) is a real constraint and produces "age = 0".
// Active conditions are ANDed; an empty filter selects the whole table.
func (s *SQLite) GetHeroes(filter storage.HeroFilter) ([]types.Hero, error) {
	// Explicitly list columns — never use SELECT * in production code.
	// If a column is added later, SELECT * would break scan ordering.
	query := "SELECT id, name, age FROM heroes"

	var conds []string
	var args []any

	if filter.Name != nil {
		conds = append(conds, "name = ?")
		args = append(args, *filter.Name)
	}
	if filter.Age != nil {
		conds = append(conds, "age = ?")
		args = append(args, *filter.Age)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	// Pre-allocate an empty (non-nil) slice.
	// Returning [] instead of null in JSON is better API behaviour.
	heroes := make([]types.Hero, 0)

	// Select runs the query and appends every row to the slice,
	// closing the cursor when iteration finishes or fails.
	if err := s.Db.Select(&heroes, query, args...); err != nil {
		return nil, fmt.Errorf("GetHeroes: select: %w", err)
	}

	return heroes, nil
}

// Close releases the connection pool. Safe to call once at shutdown.
func (s *SQLite) Close() error {
	return s.Db.Close()
}
