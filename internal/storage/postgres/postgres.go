// Package postgres provides a PostgreSQL-backed implementation of the
// storage.Storage interface, for deployments where a single on-disk
// SQLite file is not enough. Selected via storage.driver in the config.
//
// Differences from the sqlite backend are confined to SQL dialect:
// $n placeholders instead of ?, SERIAL instead of AUTOINCREMENT, and
// INSERT ... RETURNING id because lib/pq does not support LastInsertId.
package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aanand-mishra/hero-api/internal/config"
	"github.com/aanand-mishra/hero-api/internal/storage"
	"github.com/aanand-mishra/hero-api/internal/types"
	"github.com/jmoiron/sqlx"

	// Registers the "postgres" driver with database/sql.
	_ "github.com/lib/pq"
)

// Postgres is the concrete PostgreSQL implementation of storage.Storage.
type Postgres struct {
	Db *sqlx.DB
}

// New connects to the PostgreSQL server at cfg.Storage.DSN, verifies
// the connection, and creates the heroes table if it does not exist.
func New(cfg *config.Config) (*Postgres, error) {
	// sqlx.Connect = Open + Ping, so a bad DSN or unreachable server
	// fails here at startup instead of on the first request.
	db, err := sqlx.Connect("postgres", cfg.Storage.DSN)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: connect: %w", err)
	}

	// Modest pool limits; plenty for a service that issues one
	// statement per request.
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS heroes (
			id   SERIAL PRIMARY KEY,
			name TEXT   NOT NULL,
			age  INTEGER
		)
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: create table: %w", err)
	}

	return &Postgres{Db: db}, nil
}

// CreateHero inserts a new row and returns the assigned primary key.
func (p *Postgres) CreateHero(name string, age *int) (int64, error) {
	var id int64

	// RETURNING id delivers the generated key in the same round trip.
	err := p.Db.QueryRow(
		"INSERT INTO heroes (name, age) VALUES ($1, $2) RETURNING id",
		name, age,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("CreateHero: insert: %w", err)
	}

	return id, nil
}

// GetHeroByID fetches one hero by primary key, returning the
// storage.ErrHeroNotFound sentinel when no row matches.
func (p *Postgres) GetHeroByID(id int64) (types.Hero, error) {
	var hero types.Hero

	err := p.Db.Get(&hero,
		"SELECT id, name, age FROM heroes WHERE id = $1 LIMIT 1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Hero{}, fmt.Errorf("id %d: %w", id, storage.ErrHeroNotFound)
		}
		return types.Hero{}, fmt.Errorf("GetHeroByID: get: %w", err)
	}

	return hero, nil
}

// GetHeroes returns all heroes matching the filter's non-nil fields,
// ANDed together. Same contract as the sqlite backend; only the
// placeholder numbering differs.
func (p *Postgres) GetHeroes(filter storage.HeroFilter) ([]types.Hero, error) {
	query := "SELECT id, name, age FROM heroes"

	var conds []string
	var args []any

	if filter.Name != nil {
		args = append(args, *filter.Name)
		conds = append(conds, fmt.Sprintf("name = $%d", len(args)))
	}
	if filter.Age != nil {
		args = append(args, *filter.Age)
		conds = append(conds, fmt.Sprintf("age = $%d", len(args)))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	heroes := make([]types.Hero, 0)
	if err := p.Db.Select(&heroes, query, args...); err != nil {
		return nil, fmt.Errorf("GetHeroes: select: %w", err)
	}

	return heroes, nil
}

// Close releases the connection pool.
func (p *Postgres) Close() error {
	return p.Db.Close()
}
