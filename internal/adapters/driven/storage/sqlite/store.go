package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/paygrade/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/paygrade/internal/core/domain"
	"github.com/custodia-labs/paygrade/internal/core/ports/driven"
)

const (
	// DBFileName is the database file inside an index directory.
	DBFileName = "index.db"

	// LockFileName guards concurrent builders of the same directory.
	LockFileName = ".lock"

	lockRetryDelay = 100 * time.Millisecond
)

// Ensure IndexStore implements the interface.
var _ driven.IndexStore = (*IndexStore)(nil)

// IndexStore persists index entries in one SQLite database per directory.
// A meta row with complete = 1 marks the index as committed.
type IndexStore struct{}

// NewIndexStore creates a SQLite-backed index store.
func NewIndexStore() *IndexStore {
	return &IndexStore{}
}

// Exists reports whether a complete index is persisted at dir.
func (s *IndexStore) Exists(ctx context.Context, dir string) (bool, error) {
	if !dbExists(dir) {
		return false, nil
	}
	db, err := open(dir)
	if err != nil {
		return false, err
	}
	defer db.Close()

	complete, found, err := readComplete(ctx, db)
	if err != nil {
		return false, err
	}
	return found && complete, nil
}

// Load returns every entry of the complete index at dir in insertion order.
func (s *IndexStore) Load(ctx context.Context, dir string) ([]domain.IndexEntry, error) {
	if !dbExists(dir) {
		return nil, domain.ErrNotFound
	}
	db, err := open(dir)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	complete, found, err := readComplete(ctx, db)
	if err != nil {
		return nil, err
	}
	if !found {
		var n int
		if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM index_entries").Scan(&n); err != nil {
			return nil, fmt.Errorf("counting entries: %w", err)
		}
		if n == 0 {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrIndexIncomplete
	}
	if !complete {
		return nil, domain.ErrIndexIncomplete
	}

	rows, err := db.QueryContext(ctx, `
		SELECT chunk_id, topic_id, ordinal, content, embedding
		FROM index_entries ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("querying entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.IndexEntry //nolint:prealloc // size unknown from query
	for rows.Next() {
		var e domain.IndexEntry
		var blob []byte
		if err := rows.Scan(&e.Chunk.ID, &e.Chunk.SourceTopicID, &e.Chunk.Ordinal, &e.Chunk.Text, &blob); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		e.Embedding = bytesToFloat32Slice(blob)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entries: %w", err)
	}
	if entries == nil {
		entries = []domain.IndexEntry{}
	}
	return entries, nil
}

// Meta returns the build metadata of the complete index at dir.
func (s *IndexStore) Meta(ctx context.Context, dir string) (driven.IndexMeta, error) {
	if !dbExists(dir) {
		return driven.IndexMeta{}, domain.ErrNotFound
	}
	db, err := open(dir)
	if err != nil {
		return driven.IndexMeta{}, err
	}
	defer db.Close()

	var meta driven.IndexMeta
	var complete bool
	err = db.QueryRowContext(ctx, `
		SELECT model, dimensions, chunk_size, chunk_overlap, complete FROM index_meta WHERE id = 1
	`).Scan(&meta.Model, &meta.Dimensions, &meta.ChunkSize, &meta.ChunkOverlap, &complete)
	if errors.Is(err, sql.ErrNoRows) {
		return driven.IndexMeta{}, domain.ErrNotFound
	}
	if err != nil {
		return driven.IndexMeta{}, fmt.Errorf("reading meta: %w", err)
	}
	if !complete {
		return driven.IndexMeta{}, domain.ErrIndexIncomplete
	}
	return meta, nil
}

// Begin clears dir and records an incomplete meta row.
func (s *IndexStore) Begin(ctx context.Context, dir string, meta driven.IndexMeta) (driven.IndexBuild, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}
	db, err := open(dir)
	if err != nil {
		return nil, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmts := []string{"DELETE FROM index_meta", "DELETE FROM index_entries"}
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("clearing index: %w", err)
		}
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO index_meta (id, model, dimensions, chunk_size, chunk_overlap, complete, created_at)
		VALUES (1, ?, ?, ?, ?, 0, ?)
	`, meta.Model, meta.Dimensions, meta.ChunkSize, meta.ChunkOverlap, time.Now().UTC()); err != nil {
		db.Close()
		return nil, fmt.Errorf("writing meta: %w", err)
	}
	if err := tx.Commit(); err != nil {
		db.Close()
		return nil, fmt.Errorf("committing transaction: %w", err)
	}

	return &build{db: db, dir: dir}, nil
}

// Lock takes an exclusive file lock on dir/.lock, waiting until ctx is done.
func (s *IndexStore) Lock(ctx context.Context, dir string) (func() error, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}
	fl := flock.New(filepath.Join(dir, LockFileName))
	locked, err := fl.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("locking %s: %w", dir, err)
	}
	if !locked {
		return nil, fmt.Errorf("locking %s: lock is held elsewhere", dir)
	}
	return fl.Unlock, nil
}

// build is an uncommitted index owning an open database handle.
type build struct {
	db     *sql.DB
	dir    string
	closed bool
}

func (b *build) Write(ctx context.Context, entries []domain.IndexEntry) error {
	if b.closed {
		return fmt.Errorf("write after commit or abort: %w", domain.ErrInvalidInput)
	}
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO index_entries (chunk_id, topic_id, ordinal, content, embedding)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx, e.Chunk.ID, e.Chunk.SourceTopicID, e.Chunk.Ordinal,
			e.Chunk.Text, float32SliceToBytes(e.Embedding)); err != nil {
			return fmt.Errorf("saving entry %s: %w", e.Chunk.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func (b *build) Commit(ctx context.Context) error {
	if b.closed {
		return fmt.Errorf("commit after commit or abort: %w", domain.ErrInvalidInput)
	}
	if _, err := b.db.ExecContext(ctx,
		"UPDATE index_meta SET complete = 1, completed_at = ? WHERE id = 1", time.Now().UTC()); err != nil {
		return fmt.Errorf("marking index complete: %w", err)
	}
	b.closed = true
	return b.db.Close()
}

func (b *build) Abort() error {
	if b.closed {
		return nil
	}
	b.closed = true
	closeErr := b.db.Close()
	var errs []error
	if closeErr != nil {
		errs = append(errs, closeErr)
	}
	for _, suffix := range []string{"", "-wal", "-shm"} {
		if err := os.Remove(filepath.Join(b.dir, DBFileName+suffix)); err != nil && !os.IsNotExist(err) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func dbExists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, DBFileName))
	return err == nil
}

// open opens dir/index.db and applies pending migrations.
func open(dir string) (*sql.DB, error) {
	dbPath := filepath.Join(dir, DBFileName)
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := migrate(db, migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return db, nil
}

// readComplete reports the completion flag and whether a meta row exists.
func readComplete(ctx context.Context, db *sql.DB) (complete, found bool, err error) {
	err = db.QueryRowContext(ctx, "SELECT complete FROM index_meta WHERE id = 1").Scan(&complete)
	if errors.Is(err, sql.ErrNoRows) {
		return false, false, nil
	}
	if err != nil {
		return false, false, fmt.Errorf("reading meta: %w", err)
	}
	return complete, true, nil
}

// migrate runs all pending up migrations in version order.
func migrate(db *sql.DB, fsys fs.FS) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
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
		// "001_index.up.sql" -> 1
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
		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
