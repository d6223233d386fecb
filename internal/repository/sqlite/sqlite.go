// Package sqlite implements the persistence collaborator on SQLite.
//
// modernc.org/sqlite is a pure Go translation of SQLite, so the service builds
// without CGo and tests can run against ":memory:" databases.
//
// The store owns the fixed table schema of the site (lead-capture tables and
// the hackathon tables), enforces the uniqueness rules the forms rely on, and
// publishes a changefeed.Change after every committed insert or update.
package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/Reginald-Ch/konov-spark-learn-sub000/internal/changefeed"
)

// DB wraps a sql.DB connection pool and implements the repository interfaces.
type DB struct {
	conn *sql.DB
	feed changefeed.Publisher
}

// New opens the database at dbPath and creates the schema.
//
// dbPath examples:
//   - "data/spark.db"  → file-based database (persistent)
//   - ":memory:"       → in-memory database (tests)
//
// feed may be nil, in which case no change notifications are published.
func New(dbPath string, feed changefeed.Publisher) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Every connection to ":memory:" is a separate database, so the pool
	// must never open a second one.
	if dbPath == ":memory:" {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL lets leaderboard snapshot reads run while a signup insert is writing.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}
	if _, err := conn.Exec("PRAGMA busy_timeout=5000"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting busy timeout: %w", err)
	}
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn, feed: feed}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Ping satisfies health checks.
func (db *DB) Ping() error {
	return db.conn.Ping()
}

func (db *DB) publish(table string, event changefeed.Event, rowID string) {
	if db.feed == nil {
		return
	}
	db.feed.Publish(changefeed.Change{Table: table, Event: event, RowID: rowID})
}

// migrate creates all tables. CREATE TABLE IF NOT EXISTS keeps it idempotent.
func (db *DB) migrate() error {
	// Lead-capture tables.
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS newsletter_signups (
			id         TEXT PRIMARY KEY,
			email      TEXT NOT NULL UNIQUE,
			name       TEXT,
			source     TEXT,
			created_at DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS contact_submissions (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			email      TEXT NOT NULL,
			phone      TEXT,
			subject    TEXT,
			message    TEXT NOT NULL,
			source     TEXT,
			created_at DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS program_registrations (
			id          TEXT PRIMARY KEY,
			parent_name TEXT NOT NULL,
			email       TEXT NOT NULL,
			phone       TEXT NOT NULL,
			child_name  TEXT NOT NULL,
			child_age   INTEGER NOT NULL,
			program     TEXT NOT NULL,
			session_id  TEXT,
			message     TEXT,
			source      TEXT,
			created_at  DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS workshop_registrations (
			id          TEXT PRIMARY KEY,
			workshop_id TEXT NOT NULL,
			name        TEXT NOT NULL,
			email       TEXT NOT NULL,
			phone       TEXT,
			child_age   INTEGER,
			source      TEXT,
			created_at  DATETIME NOT NULL,
			UNIQUE (workshop_id, email)
		);
	`)
	if err != nil {
		return fmt.Errorf("creating lead tables: %w", err)
	}

	// Hackathon tables.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS hackathons (
			id                    TEXT PRIMARY KEY,
			title                 TEXT NOT NULL,
			description           TEXT NOT NULL DEFAULT '',
			theme                 TEXT NOT NULL DEFAULT '',
			status                TEXT NOT NULL CHECK (status IN ('upcoming', 'live', 'ended')),
			starts_at             DATETIME NOT NULL,
			ends_at               DATETIME NOT NULL,
			registration_deadline DATETIME,
			max_participants      INTEGER NOT NULL DEFAULT 0,
			current_participants  INTEGER NOT NULL DEFAULT 0,
			created_at            DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS hackathon_teams (
			id            TEXT PRIMARY KEY,
			hackathon_id  TEXT NOT NULL REFERENCES hackathons(id),
			name          TEXT NOT NULL,
			description   TEXT,
			creator_email TEXT NOT NULL,
			source        TEXT,
			created_at    DATETIME NOT NULL,
			UNIQUE (hackathon_id, name)
		);

		CREATE TABLE IF NOT EXISTS hackathon_registrations (
			id               TEXT PRIMARY KEY,
			hackathon_id     TEXT NOT NULL REFERENCES hackathons(id),
			name             TEXT NOT NULL,
			email            TEXT NOT NULL,
			phone            TEXT,
			age              INTEGER,
			team_id          TEXT REFERENCES hackathon_teams(id),
			looking_for_team INTEGER NOT NULL DEFAULT 0,
			source           TEXT,
			created_at       DATETIME NOT NULL,
			UNIQUE (hackathon_id, email)
		);
		CREATE INDEX IF NOT EXISTS idx_hackathon_registrations_team ON hackathon_registrations(team_id);

		CREATE TABLE IF NOT EXISTS hackathon_submissions (
			id           TEXT PRIMARY KEY,
			hackathon_id TEXT NOT NULL REFERENCES hackathons(id),
			team_id      TEXT NOT NULL REFERENCES hackathon_teams(id),
			project_name TEXT NOT NULL,
			description  TEXT NOT NULL,
			demo_url     TEXT,
			repo_url     TEXT,
			video_url    TEXT,
			technologies TEXT,
			source       TEXT,
			created_at   DATETIME NOT NULL,
			UNIQUE (hackathon_id, team_id)
		);
	`)
	if err != nil {
		return fmt.Errorf("creating hackathon tables: %w", err)
	}

	return nil
}
