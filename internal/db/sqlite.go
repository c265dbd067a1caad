package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// sqliteSchema mirrors the Postgres migrations for local databases. Quarter
// sets are stored as comma-separated text since SQLite has no array type.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS courses (
	course_number INTEGER PRIMARY KEY CHECK (course_number > 0),
	title         TEXT    NOT NULL UNIQUE,
	credits       INTEGER NOT NULL DEFAULT 4 CHECK (credits BETWEEN 1 AND 16),
	qtrs          TEXT    NOT NULL DEFAULT '',
	required      INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS prereqs (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	course_number INTEGER NOT NULL REFERENCES courses(course_number) ON DELETE CASCADE,
	prereq_number INTEGER NOT NULL REFERENCES courses(course_number) ON DELETE CASCADE,
	UNIQUE (course_number, prereq_number)
);

CREATE TABLE IF NOT EXISTS users (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	username TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS schedules (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id    INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	name       TEXT    NOT NULL,
	start_qtr  INTEGER NOT NULL CHECK (start_qtr BETWEEN 0 AND 3),
	end_qtr    INTEGER NOT NULL CHECK (end_qtr BETWEEN 0 AND 3),
	start_year INTEGER NOT NULL,
	end_year   INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS course_schedules (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	schedule_id   INTEGER NOT NULL REFERENCES schedules(id) ON DELETE CASCADE,
	course_number INTEGER NOT NULL REFERENCES courses(course_number) ON DELETE CASCADE,
	year          INTEGER NOT NULL,
	qtr           INTEGER NOT NULL CHECK (qtr BETWEEN 0 AND 3),
	UNIQUE (schedule_id, course_number)
);
`

// OpenSQLite opens a local SQLite database with foreign keys enforced.
// Use ":memory:" for a throwaway database.
func OpenSQLite(path string) (*sql.DB, error) {
	database, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// A single connection keeps ":memory:" databases and pragmas consistent.
	database.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, pragma := range []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 10000",
	} {
		if _, err := database.ExecContext(ctx, pragma); err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	return database, nil
}

// EnsureSQLiteSchema creates the planner tables if they do not exist yet.
func EnsureSQLiteSchema(ctx context.Context, database *sql.DB) error {
	if _, err := database.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("failed to create sqlite schema: %w", err)
	}
	return nil
}
