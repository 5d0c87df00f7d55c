package feedback

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"homefinance-recurring-service/pkg/errors"
)

// SQLiteStore persists pattern ids and decisions in a local SQLite file so
// that confirmations survive across runs. Access is serialized through a
// single connection; household workloads never need more.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens (creating if necessary) the feedback database at
// the given path. Parent directories are created as needed.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.StorageError(errors.CodeStorageUnavailable,
			fmt.Sprintf("failed to create database directory %s", dir), err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, errors.StorageError(errors.CodeStorageUnavailable,
			fmt.Sprintf("failed to open database %s", path), err)
	}

	// SQLite handles one writer at a time; a single connection avoids
	// SQLITE_BUSY churn entirely.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.StorageError(errors.CodeStorageUnavailable,
			fmt.Sprintf("failed to connect to database %s", path), err)
	}

	store := &SQLiteStore{db: db, path: path}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS recurring_patterns (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		account_id TEXT NOT NULL,
		normalized_description TEXT NOT NULL,
		is_confirmed INTEGER NOT NULL DEFAULT 0,
		is_rejected INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(account_id, normalized_description)
	);`

	if _, err := s.db.Exec(schema); err != nil {
		return errors.StorageError(errors.CodeStorageCorrupted,
			"failed to initialize feedback schema", err)
	}

	return nil
}

// AssignID returns the existing id for the key or inserts a new row
func (s *SQLiteStore) AssignID(key Key) (int64, error) {
	_, err := s.db.Exec(`
		INSERT OR IGNORE INTO recurring_patterns (account_id, normalized_description)
		VALUES (?, ?)`,
		key.AccountID, key.NormalizedDescription)
	if err != nil {
		return 0, errors.StorageError(errors.CodeStorageUnavailable,
			"failed to assign pattern id", err)
	}

	var id int64
	err = s.db.QueryRow(`
		SELECT id FROM recurring_patterns
		WHERE account_id = ? AND normalized_description = ?`,
		key.AccountID, key.NormalizedDescription).Scan(&id)
	if err != nil {
		return 0, errors.StorageError(errors.CodeStorageUnavailable,
			"failed to look up pattern id", err)
	}

	return id, nil
}

// Feedback returns the recorded decision for the key, or the zero Entry
func (s *SQLiteStore) Feedback(key Key) (Entry, error) {
	var entry Entry
	err := s.db.QueryRow(`
		SELECT is_confirmed, is_rejected FROM recurring_patterns
		WHERE account_id = ? AND normalized_description = ?`,
		key.AccountID, key.NormalizedDescription).Scan(&entry.IsConfirmed, &entry.IsRejected)
	if err == sql.ErrNoRows {
		return Entry{}, nil
	}
	if err != nil {
		return Entry{}, errors.StorageError(errors.CodeStorageUnavailable,
			"failed to read pattern feedback", err)
	}

	return entry, nil
}

// Confirm marks the pattern confirmed, clearing any prior rejection
func (s *SQLiteStore) Confirm(patternID int64) error {
	return s.setDecision(patternID, true, false)
}

// Reject marks the pattern rejected, clearing any prior confirmation
func (s *SQLiteStore) Reject(patternID int64) error {
	return s.setDecision(patternID, false, true)
}

func (s *SQLiteStore) setDecision(patternID int64, confirmed, rejected bool) error {
	result, err := s.db.Exec(`
		UPDATE recurring_patterns
		SET is_confirmed = ?, is_rejected = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		confirmed, rejected, patternID)
	if err != nil {
		return errors.StorageError(errors.CodeStorageUnavailable,
			"failed to record pattern feedback", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errors.StorageError(errors.CodeStorageUnavailable,
			"failed to record pattern feedback", err)
	}
	if affected == 0 {
		return errors.PatternNotFoundError(patternID)
	}

	return nil
}

// Exists reports whether the id has been assigned
func (s *SQLiteStore) Exists(patternID int64) (bool, error) {
	var one int
	err := s.db.QueryRow(`SELECT 1 FROM recurring_patterns WHERE id = ?`, patternID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, errors.StorageError(errors.CodeStorageUnavailable,
			"failed to check pattern id", err)
	}

	return true, nil
}

// Close closes the underlying database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
