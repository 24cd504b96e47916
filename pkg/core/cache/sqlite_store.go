package cache

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	mdwerror "github.com/msto63/fmwkit/foundation/core/error"
)

// SQLiteStore keeps documents in a single SQLite table
type SQLiteStore struct {
	db *sql.DB
}

// SQLiteConfig holds configuration for the SQLite store
type SQLiteConfig struct {
	Path string
}

// DefaultSQLiteConfig returns default configuration
func DefaultSQLiteConfig() SQLiteConfig {
	return SQLiteConfig{
		Path: "./data/cache/documents.db",
	}
}

// NewSQLiteStore opens (or creates) the cache database
func NewSQLiteStore(cfg SQLiteConfig) (*SQLiteStore, error) {
	// Ensure directory exists
	dir := filepath.Dir(cfg.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, mdwerror.Wrap(err, "failed to create directory").WithCode(mdwerror.CodeStorageError)
	}

	// Open database with WAL mode
	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_synchronous=NORMAL")
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to open database").WithCode(mdwerror.CodeStorageError)
	}

	store := &SQLiteStore{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, mdwerror.Wrap(err, "failed to initialize schema").WithCode(mdwerror.CodeStorageError)
	}

	return store, nil
}

// initSchema creates the necessary tables
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		id TEXT PRIMARY KEY,
		label TEXT NOT NULL,
		day TEXT NOT NULL,
		body TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		UNIQUE(label, day)
	);

	CREATE INDEX IF NOT EXISTS idx_documents_day ON documents(day);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) Get(ctx context.Context, key Key, out any) (bool, error) {
	if err := key.validate(); err != nil {
		return false, err
	}

	var body string
	err := s.db.QueryRowContext(ctx,
		`SELECT body FROM documents WHERE label = ? AND day = ?`,
		key.Label, key.DayString(),
	).Scan(&body)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, mdwerror.Wrap(err, "query cache document").
			WithCode(mdwerror.CodeStorageError).
			WithDetail("key", key.String())
	}
	return true, decode(key, []byte(body), out)
}

func (s *SQLiteStore) Put(ctx context.Context, key Key, v any) error {
	if err := key.validate(); err != nil {
		return err
	}
	body, err := encode(key, v)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (id, label, day, body, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(label, day) DO UPDATE SET
			body = excluded.body,
			created_at = excluded.created_at`,
		uuid.New().String(), key.Label, key.DayString(), string(body), time.Now().UTC(),
	)
	if err != nil {
		return mdwerror.Wrap(err, "store cache document").
			WithCode(mdwerror.CodeStorageError).
			WithDetail("key", key.String())
	}
	return nil
}

func (s *SQLiteStore) Prune(ctx context.Context, before time.Time) (int, error) {
	cutoff := NewKey("", before).DayString()
	result, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE day < ?`, cutoff)
	if err != nil {
		return 0, mdwerror.Wrap(err, "prune cache documents").WithCode(mdwerror.CodeStorageError)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, mdwerror.Wrap(err, "prune cache documents").WithCode(mdwerror.CodeStorageError)
	}
	return int(n), nil
}

// Labels returns the distinct labels with at least one stored document
func (s *SQLiteStore) Labels(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT label FROM documents ORDER BY label`)
	if err != nil {
		return nil, mdwerror.Wrap(err, "list cache labels").WithCode(mdwerror.CodeStorageError)
	}
	defer rows.Close()

	var labels []string
	for rows.Next() {
		var l string
		if err := rows.Scan(&l); err != nil {
			return nil, mdwerror.Wrap(err, "list cache labels").WithCode(mdwerror.CodeStorageError)
		}
		labels = append(labels, l)
	}
	return labels, rows.Err()
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
