package database

import (
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

type DB struct {
	*sqlx.DB
	driver string
}

// New opens a database connection. A postgres:// URL selects the
// postgres driver; anything else is treated as a sqlite file path.
func New(databaseURL string) (*DB, error) {
	if databaseURL == "" {
		databaseURL = "treasurehunt.db"
	}

	driver := "sqlite3"
	dsn := databaseURL
	if strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://") {
		driver = "postgres"
	} else if !strings.Contains(dsn, "?") && dsn != ":memory:" {
		dsn += "?_foreign_keys=on"
	}

	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if strings.Contains(dsn, ":memory:") {
		// A pooled connection to in-memory sqlite would see a different database
		db.SetMaxOpenConns(1)
	}

	wrapper := &DB{DB: db, driver: driver}
	if err := wrapper.createTables(); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return wrapper, nil
}

// Get rebinds ? placeholders for the active driver before querying
func (db *DB) Get(dest interface{}, query string, args ...interface{}) error {
	return db.DB.Get(dest, db.Rebind(query), args...)
}

// Select rebinds ? placeholders for the active driver before querying
func (db *DB) Select(dest interface{}, query string, args ...interface{}) error {
	return db.DB.Select(dest, db.Rebind(query), args...)
}

// InsertReturningID runs an INSERT and returns the new row id, papering
// over the LastInsertId gap in lib/pq.
func (db *DB) InsertReturningID(query string, args ...interface{}) (int64, error) {
	if db.driver == "postgres" {
		var id int64
		err := db.DB.QueryRow(db.Rebind(query+" RETURNING id"), args...).Scan(&id)
		return id, err
	}

	result, err := db.DB.Exec(query, args...)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (db *DB) createTables() error {
	idCol := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if db.driver == "postgres" {
		idCol = "BIGSERIAL PRIMARY KEY"
	}

	parentsTable := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS parents (
		id %s,
		email TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		name TEXT NOT NULL,
		is_admin BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMP NOT NULL
	);`, idCol)

	childrenTable := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS children (
		id %s,
		parent_id INTEGER NOT NULL REFERENCES parents(id),
		name TEXT NOT NULL,
		age INTEGER NOT NULL,
		token_balance INTEGER NOT NULL DEFAULT 0 CHECK (token_balance >= 0),
		created_at TIMESTAMP NOT NULL
	);`, idCol)

	activitiesTable := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS activities (
		id %s,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		category TEXT NOT NULL,
		age_min INTEGER NOT NULL,
		age_max INTEGER NOT NULL,
		location TEXT NOT NULL,
		validation_prompt TEXT NOT NULL DEFAULT '',
		tokens_reward INTEGER NOT NULL DEFAULT 1,
		created_at TIMESTAMP NOT NULL
	);`, idCol)

	completionsTable := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS completions (
		id %s,
		child_id INTEGER NOT NULL REFERENCES children(id),
		activity_id INTEGER NOT NULL REFERENCES activities(id),
		photo_key TEXT NOT NULL,
		photo_taken_at TIMESTAMP NOT NULL,
		validated BOOLEAN NOT NULL,
		reasoning TEXT NOT NULL DEFAULT '',
		tokens_awarded INTEGER NOT NULL DEFAULT 0,
		completed_at TIMESTAMP NOT NULL
	);`, idCol)

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_children_parent_id ON children(parent_id);`,
		`CREATE INDEX IF NOT EXISTS idx_activities_category ON activities(category);`,
		`CREATE INDEX IF NOT EXISTS idx_completions_child_id ON completions(child_id);`,
	}

	for _, query := range []string{parentsTable, childrenTable, activitiesTable, completionsTable} {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	for _, index := range indexes {
		if _, err := db.Exec(index); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

func (db *DB) Close() error {
	return db.DB.Close()
}
