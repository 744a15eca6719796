package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

// Sentinel errors returned by the repositories.
var (
	ErrNotFound      = errors.New("not found")
	ErrValidation    = errors.New("validation error")
	ErrDuplicateWord = errors.New("word already exists")
)

// ValidationError describes an invalid field of a record.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// DuplicateWordError is returned when a word with the same spelling is
// already stored, so the caller can ask the user to rename it.
type DuplicateWordError struct {
	Word string
}

func (e *DuplicateWordError) Error() string {
	return fmt.Sprintf("word %q already exists", e.Word)
}

func (e *DuplicateWordError) Unwrap() error { return ErrDuplicateWord }

// mapError converts driver errors to repository errors.
func mapError(err error, entity, key string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", entity, key, ErrNotFound)
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintCheck, sqlite3.ErrConstraintNotNull:
			return fmt.Errorf("%s %s: %w", entity, key, ErrValidation)
		case sqlite3.ErrConstraintForeignKey:
			return fmt.Errorf("%s %s: %w", entity, key, ErrNotFound)
		}
	}

	return fmt.Errorf("%s %s: %w", entity, key, err)
}

// mapWordError is mapError plus detection of a duplicate spelling.
func mapWordError(err error, word string) error {
	if isUniqueConstraintErr(err) {
		return &DuplicateWordError{Word: word}
	}
	return mapError(err, "word", word)
}

func isUniqueConstraintErr(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}
