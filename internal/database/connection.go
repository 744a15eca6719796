package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/myglish/internal/logger"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// MemoryPath opens a private in-memory database
const MemoryPath = ":memory:"

// Store is the handle to the embedded lesson database
type Store struct {
	DB  *sqlx.DB
	log *logger.Logger
}

// Open establishes a connection to the SQLite file at path and makes sure
// the schema exists.
func Open(path string, log *logger.Logger) (*Store, error) {
	if log == nil {
		log = logger.Nop()
	}

	if path != MemoryPath {
		// Create data directory if it doesn't exist
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create data directory: %w", err)
			}
		}
	}

	db, err := sqlx.Connect("sqlite3", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite doesn't support multiple writers, and every :memory: connection
	// is a separate database.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &Store{DB: db, log: log}
	if err := s.initializeSchema(); err != nil {
		db.Close()
		return nil, err
	}

	log.Debug("database opened", "path", path)
	return s, nil
}

func dsn(path string) string {
	if strings.Contains(path, "?") {
		return path
	}
	return path + "?_foreign_keys=on"
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.DB != nil {
		return s.DB.Close()
	}
	return nil
}

// RunInTx executes fn within a transaction and commits it, which is the
// only way a change becomes durable. On error from fn the transaction is
// rolled back and the error returned unchanged.
func (s *Store) RunInTx(ctx context.Context, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := s.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %w (original error: %v)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// initializeSchema creates necessary tables if they don't exist
func (s *Store) initializeSchema() error {
	// Create lessons table
	_, err := s.DB.Exec(`
		CREATE TABLE IF NOT EXISTS lessons (
			id TEXT PRIMARY KEY,
			date DATETIME NOT NULL,
			topic TEXT NOT NULL CHECK (length(trim(topic)) > 0),
			duration_in_minutes INTEGER NOT NULL DEFAULT 60,
			grammar_topics TEXT,
			homework TEXT,
			notes TEXT,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create lessons table: %w", err)
	}

	_, err = s.DB.Exec(`CREATE INDEX IF NOT EXISTS idx_lessons_date ON lessons(date)`)
	if err != nil {
		return fmt.Errorf("failed to create lessons index: %w", err)
	}

	// Create words table. Deleting a lesson leaves its words behind as orphans.
	_, err = s.DB.Exec(`
		CREATE TABLE IF NOT EXISTS words (
			id TEXT PRIMARY KEY,
			word TEXT NOT NULL UNIQUE,
			translation TEXT NOT NULL,
			date_added DATETIME NOT NULL,
			lesson_id TEXT REFERENCES lessons(id) ON DELETE SET NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create words table: %w", err)
	}

	_, err = s.DB.Exec(`CREATE INDEX IF NOT EXISTS idx_words_lesson_id ON words(lesson_id)`)
	if err != nil {
		return fmt.Errorf("failed to create words index: %w", err)
	}

	return nil
}
