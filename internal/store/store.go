// Package store persists crawled documents, the durable visited-URL set,
// serialized classifier models and the crawl run log in a single SQLite
// database.
package store

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/scholarseek/scholarseek/internal/pub"
	"github.com/scholarseek/scholarseek/internal/store/migrations"
)

// ErrNoModel is returned when no trained model has been saved yet.
var ErrNoModel = errors.New("store: no trained model")

// Crawl run statuses recorded in the run log.
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// CrawlRun is one entry of the crawl run log.
type CrawlRun struct {
	ID              string
	Status          string
	StartedAt       time.Time
	FinishedAt      *time.Time
	DocumentsAdded  int
	ProfilesCrawled int
	ErrorMessage    string
}

// Store wraps a SQLite database holding all durable state.
type Store struct {
	db   *sql.DB
	path string
}

// New opens (creating if necessary) the database under dataDir and runs
// pending migrations. An empty dataDir defaults to ~/.scholarseek/data.
func New(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".scholarseek", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "scholarseek.db")

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, path: dbPath}
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate applies all pending *.up.sql migrations in version order.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}
	return nil
}

// SaveDocuments upserts documents; a re-crawl of the same identifier
// replaces the stored row wholesale.
func (s *Store) SaveDocuments(ctx context.Context, docs []pub.Document) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO documents (id, title, authors, keywords, year, abstract, source_url, profile_url, crawled_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			authors = excluded.authors,
			keywords = excluded.keywords,
			year = excluded.year,
			abstract = excluded.abstract,
			source_url = excluded.source_url,
			profile_url = excluded.profile_url,
			crawled_at = excluded.crawled_at
	`)
	if err != nil {
		return fmt.Errorf("preparing upsert: %w", err)
	}
	defer stmt.Close()

	for _, doc := range docs {
		authors, err := json.Marshal(doc.Authors)
		if err != nil {
			return fmt.Errorf("marshalling authors for %s: %w", doc.ID, err)
		}
		keywords, err := json.Marshal(doc.Keywords)
		if err != nil {
			return fmt.Errorf("marshalling keywords for %s: %w", doc.ID, err)
		}
		if _, err := stmt.ExecContext(ctx,
			doc.ID, doc.Title, string(authors), string(keywords),
			doc.Year, doc.Abstract, doc.SourceURL, doc.ProfileURL, doc.CrawledAt.UTC(),
		); err != nil {
			return fmt.Errorf("saving document %s: %w", doc.ID, err)
		}
	}
	return tx.Commit()
}

// LoadDocuments returns every stored document ordered by identifier.
func (s *Store) LoadDocuments(ctx context.Context) ([]pub.Document, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, authors, keywords, year, abstract, source_url, profile_url, crawled_at
		FROM documents ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []pub.Document
	for rows.Next() {
		var doc pub.Document
		var authors, keywords string
		if err := rows.Scan(&doc.ID, &doc.Title, &authors, &keywords,
			&doc.Year, &doc.Abstract, &doc.SourceURL, &doc.ProfileURL, &doc.CrawledAt); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		if err := json.Unmarshal([]byte(authors), &doc.Authors); err != nil {
			return nil, fmt.Errorf("unmarshalling authors for %s: %w", doc.ID, err)
		}
		if err := json.Unmarshal([]byte(keywords), &doc.Keywords); err != nil {
			return nil, fmt.Errorf("unmarshalling keywords for %s: %w", doc.ID, err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// CountDocuments returns the number of stored documents.
func (s *Store) CountDocuments(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting documents: %w", err)
	}
	return count, nil
}

// VisitedContains reports whether a URL hash is in the durable visited set.
func (s *Store) VisitedContains(ctx context.Context, urlHash string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		"SELECT 1 FROM visited_urls WHERE url_hash = ?", urlHash).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking visited set: %w", err)
	}
	return true, nil
}

// VisitedAdd records a URL hash in the durable visited set.
func (s *Store) VisitedAdd(ctx context.Context, urlHash string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO visited_urls (url_hash) VALUES (?) ON CONFLICT(url_hash) DO NOTHING", urlHash)
	if err != nil {
		return fmt.Errorf("adding to visited set: %w", err)
	}
	return nil
}

// SaveModel stores a serialized model under a name, replacing any
// previous snapshot.
func (s *Store) SaveModel(ctx context.Context, name string, data []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO models (name, data, trained_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			data = excluded.data,
			trained_at = excluded.trained_at
	`, name, data, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("saving model %s: %w", name, err)
	}
	return nil
}

// LoadModel returns the serialized model saved under a name, or
// ErrNoModel when none has been trained.
func (s *Store) LoadModel(ctx context.Context, name string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT data FROM models WHERE name = ?", name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoModel
	}
	if err != nil {
		return nil, fmt.Errorf("loading model %s: %w", name, err)
	}
	return data, nil
}

// BeginCrawlRun opens a new entry in the crawl run log and returns its id.
func (s *Store) BeginCrawlRun(ctx context.Context) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO crawl_runs (id, status, started_at) VALUES (?, ?, ?)",
		id, RunStatusRunning, time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("recording crawl run: %w", err)
	}
	return id, nil
}

// CompleteCrawlRun marks a run completed with its final counts.
func (s *Store) CompleteCrawlRun(ctx context.Context, id string, documentsAdded, profilesCrawled int) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE crawl_runs
		SET status = ?, finished_at = ?, documents_added = ?, profiles_crawled = ?
		WHERE id = ?
	`, RunStatusCompleted, time.Now().UTC(), documentsAdded, profilesCrawled, id)
	if err != nil {
		return fmt.Errorf("completing crawl run %s: %w", id, err)
	}
	return nil
}

// FailCrawlRun marks a run failed with its error message.
func (s *Store) FailCrawlRun(ctx context.Context, id, message string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE crawl_runs SET status = ?, finished_at = ?, error_message = ? WHERE id = ?
	`, RunStatusFailed, time.Now().UTC(), message, id)
	if err != nil {
		return fmt.Errorf("failing crawl run %s: %w", id, err)
	}
	return nil
}

// ListCrawlRuns returns the most recent crawl runs, newest first.
func (s *Store) ListCrawlRuns(ctx context.Context, limit int) ([]CrawlRun, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, status, started_at, finished_at, documents_added, profiles_crawled, error_message
		FROM crawl_runs ORDER BY started_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying crawl runs: %w", err)
	}
	defer rows.Close()

	var runs []CrawlRun
	for rows.Next() {
		var run CrawlRun
		var finished sql.NullTime
		if err := rows.Scan(&run.ID, &run.Status, &run.StartedAt, &finished,
			&run.DocumentsAdded, &run.ProfilesCrawled, &run.ErrorMessage); err != nil {
			return nil, fmt.Errorf("scanning crawl run: %w", err)
		}
		if finished.Valid {
			t := finished.Time
			run.FinishedAt = &t
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
