package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/hkfire/newsurl/internal/model"
)

// FileName is the database file created inside the database directory.
const FileName = "newsurl.db"

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrNotFound is returned when the database file is required but missing.
var ErrNotFound = errors.New("database not found")

// NewsDB stores seen article URLs and run history.
type NewsDB struct {
	db     *sql.DB
	dbPath string
}

// Options configures Open.
type Options struct {
	// CreateIfNotExists creates the directory and database file when missing.
	CreateIfNotExists bool

	// EnableWAL switches the journal to write-ahead logging.
	EnableWAL bool
}

// DefaultOptions returns the options used by the scrape command.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// ReadOnlyOptions returns options for commands that only inspect history.
func ReadOnlyOptions() Options {
	return Options{}
}

// Open opens the database in dbDir.
func Open(dbDir string, opts Options) (*NewsDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	dsn := dbPath + "?mode=rwc"
	if opts.CreateIfNotExists {
		if err := os.MkdirAll(dbDir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	} else {
		if _, err := os.Stat(dbPath); errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w at %s", ErrNotFound, dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite allows a single writer; concurrent adapters share this handle.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	ndb := &NewsDB{db: db, dbPath: dbPath}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}
	if err := ndb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return ndb, nil
}

// Close closes the database.
func (ndb *NewsDB) Close() error {
	return ndb.db.Close()
}

// Path returns the database file path.
func (ndb *NewsDB) Path() string {
	return ndb.dbPath
}

func (ndb *NewsDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS seen_articles (
		site TEXT NOT NULL,
		url TEXT NOT NULL,
		title TEXT NOT NULL,
		published TEXT,
		first_seen TEXT NOT NULL,
		PRIMARY KEY (site, url)
	);

	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		site TEXT NOT NULL,
		started_at TEXT NOT NULL,
		status TEXT NOT NULL,
		candidates INTEGER NOT NULL DEFAULT 0,
		matched INTEGER NOT NULL DEFAULT 0,
		written INTEGER NOT NULL DEFAULT 0,
		skipped INTEGER NOT NULL DEFAULT 0,
		error TEXT,
		duration_ms INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_runs_site ON runs(site);
	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
	`

	_, err := ndb.db.ExecContext(context.Background(), schema)
	return err
}

// HasSeen reports whether url was recorded for site by an earlier run.
func (ndb *NewsDB) HasSeen(ctx context.Context, site, url string) (bool, error) {
	var one int
	err := ndb.db.QueryRowContext(ctx,
		`SELECT 1 FROM seen_articles WHERE site = ? AND url = ?`, site, url).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to query seen article: %w", err)
	}
	return true, nil
}

// MarkSeen records articles for their source site. Already recorded URLs
// keep their original first_seen time. It returns the number of new rows.
func (ndb *NewsDB) MarkSeen(ctx context.Context, seenAt time.Time, articles ...model.Article) (int, error) {
	if len(articles) == 0 {
		return 0, nil
	}

	tx, err := ndb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO seen_articles (site, url, title, published, first_seen)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(site, url) DO NOTHING
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	ts := seenAt.UTC().Format(timeLayout)
	for _, a := range articles {
		res, err := stmt.ExecContext(ctx, a.Source, a.URL, a.Title, a.Published, ts)
		if err != nil {
			return 0, fmt.Errorf("failed to mark %s as seen: %w", a.URL, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit seen articles: %w", err)
	}
	return inserted, nil
}

// SeenCount returns how many URLs are recorded for site.
func (ndb *NewsDB) SeenCount(ctx context.Context, site string) (int, error) {
	var n int
	if err := ndb.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM seen_articles WHERE site = ?`, site).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count seen articles: %w", err)
	}
	return n, nil
}

// ForgetSite deletes the seen URLs of site so the next registry run
// treats every article as new. It returns the number of rows removed.
func (ndb *NewsDB) ForgetSite(ctx context.Context, site string) (int64, error) {
	res, err := ndb.db.ExecContext(ctx, `DELETE FROM seen_articles WHERE site = ?`, site)
	if err != nil {
		return 0, fmt.Errorf("failed to forget site: %w", err)
	}
	return res.RowsAffected()
}

// RunRecord is a stored per-site run outcome.
type RunRecord struct {
	ID        int64     `json:"id"`
	StartedAt time.Time `json:"started_at"`
	model.SiteRun
}

// RecordRun stores the outcome of one site in a run.
func (ndb *NewsDB) RecordRun(ctx context.Context, startedAt time.Time, run model.SiteRun) (int64, error) {
	var errText sql.NullString
	if run.Error != "" {
		errText = sql.NullString{String: run.Error, Valid: true}
	}

	res, err := ndb.db.ExecContext(ctx, `
	INSERT INTO runs (site, started_at, status, candidates, matched, written, skipped, error, duration_ms)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.Site,
		startedAt.UTC().Format(timeLayout),
		run.Status.String(),
		run.Candidates,
		run.Matched,
		run.Written,
		run.Skipped,
		errText,
		run.Duration.Milliseconds(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to record run: %w", err)
	}
	return res.LastInsertId()
}

// ListRuns returns the most recent runs, newest first. An empty site lists
// every site; limit <= 0 means no limit.
func (ndb *NewsDB) ListRuns(ctx context.Context, site string, limit int) ([]RunRecord, error) {
	query := `
	SELECT id, site, started_at, status, candidates, matched, written, skipped, error, duration_ms
	FROM runs
	WHERE (? = '' OR site = ?)
	ORDER BY started_at DESC, id DESC
	`
	args := []any{site, site}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := ndb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var (
			rec        RunRecord
			startedAt  string
			status     string
			errText    sql.NullString
			durationMS int64
		)
		if err := rows.Scan(&rec.ID, &rec.Site, &startedAt, &status,
			&rec.Candidates, &rec.Matched, &rec.Written, &rec.Skipped, &errText, &durationMS); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		rec.StartedAt = parseTimestamp(startedAt)
		rec.Status = parseStatus(status)
		rec.Error = errText.String
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		records = append(records, rec)
	}
	return records, rows.Err()
}

// ListSites returns every site that has recorded runs, sorted by name.
func (ndb *NewsDB) ListSites(ctx context.Context) ([]string, error) {
	rows, err := ndb.db.QueryContext(ctx, `SELECT DISTINCT site FROM runs ORDER BY site`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sites: %w", err)
	}
	defer rows.Close()

	var sites []string
	for rows.Next() {
		var site string
		if err := rows.Scan(&site); err != nil {
			return nil, fmt.Errorf("failed to scan site: %w", err)
		}
		sites = append(sites, site)
	}
	return sites, rows.Err()
}

func parseStatus(s string) model.RunStatus {
	for _, st := range []model.RunStatus{model.StatusOK, model.StatusFetchFailed, model.StatusWriteFailed} {
		if st.String() == s {
			return st
		}
	}
	return model.RunStatus(-1)
}

// timestampFormats are tried in order by parseTimestamp.
var timestampFormats = []string{
	timeLayout,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// parseTimestamp returns the zero time when no format matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
