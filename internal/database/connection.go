package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Config selects the database backend. Driver is "sqlite3" (default) or
// "postgres"; DSN is the file path for sqlite or the connection string
// for postgres.
type Config struct {
	Driver string
	DSN    string
}

// ConfigFromEnv builds a Config from DB_TYPE and DATABASE_URL /
// DATABASE_PATH environment variables
func ConfigFromEnv() Config {
	cfg := Config{Driver: "sqlite3", DSN: filepath.Join("data", "leitbot.db")}
	if os.Getenv("DB_TYPE") == "postgres" {
		cfg.Driver = "postgres"
		cfg.DSN = os.Getenv("DATABASE_URL")
	} else if path := os.Getenv("DATABASE_PATH"); path != "" {
		cfg.DSN = path
	}
	return cfg
}

// Connect opens the database, applies driver-specific settings and
// bootstraps the schema. The returned handle is injected into the
// repositories; there is no package-level connection.
func Connect(cfg Config) (*sqlx.DB, error) {
	if cfg.Driver == "sqlite3" {
		if err := os.MkdirAll(filepath.Dir(cfg.DSN), 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %v", err)
		}
	}

	db, err := sqlx.Connect(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %v", err)
	}

	if cfg.Driver == "sqlite3" {
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %v", err)
		}
		// SQLite doesn't support multiple writers
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	if err := initializeSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// initializeSchema creates the tables if they don't exist
func initializeSchema(db *sqlx.DB) error {
	idColumn := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if db.DriverName() == "postgres" {
		idColumn = "BIGSERIAL PRIMARY KEY"
	}

	statements := []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS learners (
				id %s,
				username TEXT UNIQUE NOT NULL,
				chat_id BIGINT DEFAULT 0,
				daily_goal INTEGER DEFAULT 20,
				notification_hour INTEGER DEFAULT 18,
				notification_enabled BOOLEAN DEFAULT true,
				total_points INTEGER DEFAULT 0,
				current_streak INTEGER DEFAULT 0,
				longest_streak INTEGER DEFAULT 0,
				last_active_on TIMESTAMP,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			)
		`, idColumn),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS words (
				id %s,
				term TEXT UNIQUE NOT NULL,
				translation TEXT NOT NULL,
				category TEXT NOT NULL,
				example_sentence TEXT DEFAULT '',
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			)
		`, idColumn),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS flashcard_sets (
				id %s,
				learner_id INTEGER NOT NULL,
				name TEXT NOT NULL,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				FOREIGN KEY (learner_id) REFERENCES learners(id) ON DELETE CASCADE
			)
		`, idColumn),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS flashcards (
				id %s,
				learner_id INTEGER NOT NULL,
				word_id INTEGER NOT NULL,
				set_id INTEGER NOT NULL,
				box_level INTEGER DEFAULT 1 CHECK(box_level BETWEEN 1 AND 5),
				weighted_score REAL DEFAULT 0,
				total_reviews INTEGER DEFAULT 0,
				next_review_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				is_mastered BOOLEAN DEFAULT false,
				last_reviewed_at TIMESTAMP,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				FOREIGN KEY (learner_id) REFERENCES learners(id) ON DELETE CASCADE,
				FOREIGN KEY (word_id) REFERENCES words(id) ON DELETE CASCADE,
				FOREIGN KEY (set_id) REFERENCES flashcard_sets(id) ON DELETE CASCADE,
				UNIQUE(learner_id, word_id, set_id)
			)
		`, idColumn),
		`CREATE INDEX IF NOT EXISTS idx_flashcards_learner_review ON flashcards(learner_id, next_review_at)`,
		`CREATE INDEX IF NOT EXISTS idx_flashcards_set_word ON flashcards(set_id, word_id)`,
		`CREATE INDEX IF NOT EXISTS idx_words_category ON words(category)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %v", err)
		}
	}
	return nil
}
