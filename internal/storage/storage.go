// Package storage defines the Storage interface — a contract that any
// database backend must satisfy to work with this application.
//
// WHY AN INTERFACE?
// ─────────────────
// Handlers (HTTP layer) should not know or care which database they are
// talking to. By depending only on this interface:
//
//   - Switching databases = implement the interface for the new DB,
//     change one line in main.go. Zero handler changes. (This is not
//     hypothetical here — both a SQLite and a PostgreSQL backend ship
//     with the app, selected by config.)
//
//   - Writing tests = pass a fake/mock that satisfies the interface.
//     No real database needed for unit tests.
//
// This is the Dependency Inversion Principle in practice.
package storage

import (
	"errors"

	"github.com/aanand-mishra/hero-api/internal/types"
)

// ErrHeroNotFound is the sentinel returned by GetHeroByID when no row
// matches the requested id.
//
// Handlers check for it with errors.Is and translate it into a 404.
// Every other storage error means the database itself misbehaved and
// becomes a 500. Backends must wrap — never replace — this sentinel so
// the errors.Is check keeps working.
var ErrHeroNotFound = errors.New("hero not found")

// HeroFilter carries the optional equality filters for GetHeroes.
//
// Each field is a pointer so "filter absent" (nil) is distinguishable
// from "filter for the zero value" (&zero). This matters: age=0 is a
// perfectly valid filter and must match zero-age heroes, not silently
// disable filtering. Handlers set a field only when the corresponding
// query parameter is present in the request.
type HeroFilter struct {
	Name *string
	Age  *int
}

// Storage is the database contract.
// Any concrete type that implements ALL of these methods automatically
// satisfies this interface — Go does this implicitly (no "implements"
// keyword required).
type Storage interface {
	// CreateHero inserts a new hero record and returns the auto-
	// generated primary-key ID. A nil age is stored as SQL NULL.
	CreateHero(name string, age *int) (int64, error)

	// GetHeroByID fetches a single hero by primary key.
	// Returns ErrHeroNotFound (possibly wrapped) if no row matches.
	GetHeroByID(id int64) (types.Hero, error)

	// GetHeroes returns every hero matching the filter, in natural
	// storage order. Active filters combine with AND; a zero-value
	// filter (empty HeroFilter) matches everything.
	// Returns an empty slice (not nil) if nothing matches.
	GetHeroes(filter HeroFilter) ([]types.Hero, error)

	// Close releases the underlying connection pool. Called once at
	// shutdown, after the HTTP server has drained.
	Close() error
}
