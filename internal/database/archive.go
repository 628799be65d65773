package database

import (
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/crypto/sha3"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/urlcrawler/internal/crawler"
)

// FileName is the archive file created inside the database directory.
const FileName = "urlcrawler.db"

// ErrCrawlNotFound is returned by LoadCrawl for an unknown id.
var ErrCrawlNotFound = errors.New("crawl not found")

// ArchiveDB stores finished crawl results.
type ArchiveDB struct {
	db     *sql.DB
	dbPath string
}

// Options configures ArchiveDB behavior.
type Options struct {
	// CreateIfNotExists creates the directory and database file if missing.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// busyTimeout lets a second process wait for the write lock instead of
// failing with SQLITE_BUSY.
const busyTimeout = "_pragma=busy_timeout(5000)"

// Open opens or creates the archive in dbDir.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*ArchiveDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	dsn := dbPath + "?mode=rw&" + busyTimeout
	if opts.CreateIfNotExists {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dsn = dbPath + "?mode=rwc&" + busyTimeout
	} else if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
	} else if err != nil {
		return nil, fmt.Errorf("failed to check database path: %w", err)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	adb := &ArchiveDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := adb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return adb, nil
}

// Close closes the database connection.
func (adb *ArchiveDB) Close() error {
	return adb.db.Close()
}

// Path returns the database file path.
func (adb *ArchiveDB) Path() string {
	return adb.dbPath
}

func (adb *ArchiveDB) createTables() error {
	schema := `
	-- One row per archived crawl
	CREATE TABLE IF NOT EXISTS crawls (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		seed TEXT NOT NULL,
		started_at TEXT NOT NULL,
		finished_at TEXT NOT NULL,
		workers INTEGER NOT NULL,
		delay_ms INTEGER NOT NULL,
		digest TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_crawls_seed ON crawls(seed);
	CREATE INDEX IF NOT EXISTS idx_crawls_digest ON crawls(digest);

	-- Store keys and their visited flag
	CREATE TABLE IF NOT EXISTS records (
		crawl_id INTEGER NOT NULL REFERENCES crawls(id) ON DELETE CASCADE,
		url TEXT NOT NULL,
		visited INTEGER NOT NULL,
		PRIMARY KEY (crawl_id, url)
	);

	-- Discovered lists, position keeps call order and duplicates
	CREATE TABLE IF NOT EXISTS discoveries (
		crawl_id INTEGER NOT NULL REFERENCES crawls(id) ON DELETE CASCADE,
		source TEXT NOT NULL,
		position INTEGER NOT NULL,
		target TEXT NOT NULL,
		PRIMARY KEY (crawl_id, source, position)
	);

	CREATE INDEX IF NOT EXISTS idx_discoveries_target ON discoveries(target);
	`

	_, err := adb.db.ExecContext(context.Background(), schema)
	return err
}

// CrawlMeta describes an archived crawl.
type CrawlMeta struct {
	// ID is assigned by SaveCrawl.
	ID int64

	// Seed is the URL the crawl started from.
	Seed string

	StartedAt  time.Time
	FinishedAt time.Time

	// Workers is the pool size.
	Workers int

	// Delay is the politeness delay, stored in milliseconds.
	Delay time.Duration

	// Digest is set by SaveCrawl from the snapshot.
	Digest string

	// Records and Visited are filled in by ListCrawls and LoadCrawl.
	Records int
	Visited int
}

// SaveCrawl archives snapshot with meta in one transaction and returns the
// new crawl id. meta.ID, meta.Digest and the counts are ignored.
func (adb *ArchiveDB) SaveCrawl(ctx context.Context, meta CrawlMeta, snapshot crawler.Snapshot) (id int64, err error) {
	tx, err := adb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `
	INSERT INTO crawls (seed, started_at, finished_at, workers, delay_ms, digest)
	VALUES (?, ?, ?, ?, ?, ?)
	`,
		meta.Seed,
		formatTimestamp(meta.StartedAt),
		formatTimestamp(meta.FinishedAt),
		meta.Workers,
		meta.Delay.Milliseconds(),
		Digest(snapshot),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert crawl: %w", err)
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get crawl id: %w", err)
	}

	recordStmt, err := tx.PrepareContext(ctx, `INSERT INTO records (crawl_id, url, visited) VALUES (?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare record insert: %w", err)
	}
	defer recordStmt.Close()

	edgeStmt, err := tx.PrepareContext(ctx, `INSERT INTO discoveries (crawl_id, source, position, target) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare discovery insert: %w", err)
	}
	defer edgeStmt.Close()

	for _, url := range snapshot.Keys() {
		record := snapshot[url]
		if _, err = recordStmt.ExecContext(ctx, id, url, record.Visited); err != nil {
			return 0, fmt.Errorf("failed to insert record %s: %w", url, err)
		}
		for pos, target := range record.Discovered {
			if _, err = edgeStmt.ExecContext(ctx, id, url, pos, target); err != nil {
				return 0, fmt.Errorf("failed to insert discovery %s: %w", url, err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit crawl: %w", err)
	}
	return id, nil
}

const selectMeta = `
	SELECT c.id, c.seed, c.started_at, c.finished_at, c.workers, c.delay_ms, c.digest,
		(SELECT COUNT(*) FROM records r WHERE r.crawl_id = c.id),
		(SELECT COUNT(*) FROM records r WHERE r.crawl_id = c.id AND r.visited = 1)
	FROM crawls c
	`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMeta(row rowScanner) (CrawlMeta, error) {
	var (
		meta              CrawlMeta
		started, finished string
		delayMS           int64
	)
	if err := row.Scan(&meta.ID, &meta.Seed, &started, &finished, &meta.Workers, &delayMS, &meta.Digest, &meta.Records, &meta.Visited); err != nil {
		return CrawlMeta{}, err
	}
	meta.StartedAt = parseTimestamp(started)
	meta.FinishedAt = parseTimestamp(finished)
	meta.Delay = time.Duration(delayMS) * time.Millisecond
	return meta, nil
}

// ListCrawls returns archived crawls, newest first. An empty seed lists all
// crawls; otherwise only crawls started from seed are returned.
func (adb *ArchiveDB) ListCrawls(ctx context.Context, seed string) ([]CrawlMeta, error) {
	query := selectMeta
	var args []any
	if seed != "" {
		query += "WHERE c.seed = ?\n"
		args = append(args, seed)
	}
	query += "ORDER BY c.id DESC"

	rows, err := adb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list crawls: %w", err)
	}
	defer rows.Close()

	var results []CrawlMeta
	for rows.Next() {
		meta, err := scanMeta(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan crawl: %w", err)
		}
		results = append(results, meta)
	}
	return results, rows.Err()
}

// LoadCrawl returns the metadata and snapshot of crawl id.
// It returns ErrCrawlNotFound when id is unknown.
func (adb *ArchiveDB) LoadCrawl(ctx context.Context, id int64) (*CrawlMeta, crawler.Snapshot, error) {
	meta, err := scanMeta(adb.db.QueryRowContext(ctx, selectMeta+"WHERE c.id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, fmt.Errorf("%w: %d", ErrCrawlNotFound, id)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get crawl: %w", err)
	}

	snapshot := make(crawler.Snapshot, meta.Records)
	if err := adb.loadRecords(ctx, id, snapshot); err != nil {
		return nil, nil, err
	}
	if err := adb.loadDiscoveries(ctx, id, snapshot); err != nil {
		return nil, nil, err
	}
	return &meta, snapshot, nil
}

func (adb *ArchiveDB) loadRecords(ctx context.Context, id int64, snapshot crawler.Snapshot) error {
	rows, err := adb.db.QueryContext(ctx, `SELECT url, visited FROM records WHERE crawl_id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to get records: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			url     string
			visited bool
		)
		if err := rows.Scan(&url, &visited); err != nil {
			return fmt.Errorf("failed to scan record: %w", err)
		}
		snapshot[url] = crawler.Record{Visited: visited, Discovered: []string{}}
	}
	return rows.Err()
}

func (adb *ArchiveDB) loadDiscoveries(ctx context.Context, id int64, snapshot crawler.Snapshot) error {
	rows, err := adb.db.QueryContext(ctx, `
	SELECT source, target FROM discoveries
	WHERE crawl_id = ?
	ORDER BY source, position
	`, id)
	if err != nil {
		return fmt.Errorf("failed to get discoveries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var source, target string
		if err := rows.Scan(&source, &target); err != nil {
			return fmt.Errorf("failed to scan discovery: %w", err)
		}
		record := snapshot[source]
		record.Discovered = append(record.Discovered, target)
		snapshot[source] = record
	}
	return rows.Err()
}

// DeleteCrawl removes crawl id and its records.
// It returns ErrCrawlNotFound when id is unknown.
func (adb *ArchiveDB) DeleteCrawl(ctx context.Context, id int64) (err error) {
	tx, err := adb.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// Foreign keys are off by default in SQLite, so children go first.
	for _, table := range []string{"discoveries", "records"} {
		if _, err = tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE crawl_id = ?", id); err != nil {
			return fmt.Errorf("failed to delete %s: %w", table, err)
		}
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM crawls WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete crawl: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete crawl: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %d", ErrCrawlNotFound, id)
	}
	return tx.Commit()
}

// Digest returns the hex SHA3-256 of the canonical form of snapshot:
// keys in lexical order, each with its visited flag and discovered list.
func Digest(snapshot crawler.Snapshot) string {
	h := sha3.New256()
	var b strings.Builder
	for _, key := range snapshot.Keys() {
		record := snapshot[key]
		b.Reset()
		b.WriteString(key)
		if record.Visited {
			b.WriteString("\x00v")
		} else {
			b.WriteString("\x00d")
		}
		for _, target := range record.Discovered {
			b.WriteByte(0)
			b.WriteString(target)
		}
		b.WriteByte('\n')
		_, _ = h.Write([]byte(b.String()))
	}
	return hex.EncodeToString(h.Sum(nil))
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// timestampFormats contains the timestamp formats that SQLite may return.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999",
}

// parseTimestamp tries each known format and returns the zero time if none match.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
