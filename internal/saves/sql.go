package saves

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
	_ "modernc.org/sqlite"             // pure go sqlite driver

	"github.com/napolitain/hamlet/internal/models"
)

// dialect holds the statements that differ between SQL backends
type dialect struct {
	driver    string
	ddl       string
	upsert    string
	selectOne string
	list      string
}

var sqliteDialect = dialect{
	driver: "sqlite",
	ddl: `CREATE TABLE IF NOT EXISTS saves (
		slot TEXT PRIMARY KEY,
		revision TEXT NOT NULL,
		saved_at INTEGER NOT NULL,
		payload BLOB NOT NULL
	)`,
	upsert: `INSERT INTO saves (slot, revision, saved_at, payload) VALUES (?, ?, ?, ?)
		ON CONFLICT(slot) DO UPDATE SET revision = excluded.revision, saved_at = excluded.saved_at, payload = excluded.payload`,
	selectOne: `SELECT revision, saved_at, payload FROM saves WHERE slot = ?`,
	list:      `SELECT slot FROM saves ORDER BY slot`,
}

var postgresDialect = dialect{
	driver: "pgx",
	ddl: `CREATE TABLE IF NOT EXISTS saves (
		slot TEXT PRIMARY KEY,
		revision TEXT NOT NULL,
		saved_at BIGINT NOT NULL,
		payload JSONB NOT NULL
	)`,
	upsert: `INSERT INTO saves (slot, revision, saved_at, payload) VALUES ($1, $2, $3, $4)
		ON CONFLICT (slot) DO UPDATE SET revision = EXCLUDED.revision, saved_at = EXCLUDED.saved_at, payload = EXCLUDED.payload`,
	selectOne: `SELECT revision, saved_at, payload FROM saves WHERE slot = $1`,
	list:      `SELECT slot FROM saves ORDER BY slot`,
}

// SQLStore keeps snapshots in a single SQL table with JSON payloads
type SQLStore struct {
	db *sql.DB
	d  dialect
}

// NewSQLiteStore opens (or creates) a SQLite database file
func NewSQLiteStore(ctx context.Context, path string) (*SQLStore, error) {
	if path == "" {
		path = "hamlet.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	return openSQL(ctx, sqliteDialect, path)
}

// NewPostgresStore connects to Postgres using a pgx DSN
func NewPostgresStore(ctx context.Context, dsn string) (*SQLStore, error) {
	if dsn == "" {
		return nil, errors.New("postgres: dsn required")
	}
	return openSQL(ctx, postgresDialect, dsn)
}

func openSQL(ctx context.Context, d dialect, dsn string) (*SQLStore, error) {
	db, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", d.driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", d.driver, err)
	}
	if _, err := db.ExecContext(ctx, d.ddl); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure saves table: %w", err)
	}
	return &SQLStore{db: db, d: d}, nil
}

// DB exposes the underlying sql.DB for integration tests
func (s *SQLStore) DB() *sql.DB { return s.db }

func (s *SQLStore) Save(ctx context.Context, slot string, state *models.GameState) (Snapshot, error) {
	snap, err := newSnapshot(slot, state, time.Now())
	if err != nil {
		return Snapshot{}, err
	}
	payload, err := json.Marshal(snap.State)
	if err != nil {
		return Snapshot{}, fmt.Errorf("encode %s: %w", slot, err)
	}
	if _, err := s.db.ExecContext(ctx, s.d.upsert, slot, snap.Revision, snap.SavedAt.UnixNano(), payload); err != nil {
		return Snapshot{}, fmt.Errorf("save %s: %w", slot, err)
	}
	return snap, nil
}

func (s *SQLStore) Load(ctx context.Context, slot string) (Snapshot, error) {
	if err := ValidateSlot(slot); err != nil {
		return Snapshot{}, err
	}
	var (
		revision string
		savedAt  int64
		payload  []byte
	)
	err := s.db.QueryRowContext(ctx, s.d.selectOne, slot).Scan(&revision, &savedAt, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, notFound(slot)
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("load %s: %w", slot, err)
	}
	var state models.GameState
	if err := json.Unmarshal(payload, &state); err != nil {
		return Snapshot{}, fmt.Errorf("decode %s: %w", slot, err)
	}
	return Snapshot{
		Slot:     slot,
		Revision: revision,
		SavedAt:  time.Unix(0, savedAt).UTC(),
		State:    &state,
	}, nil
}

func (s *SQLStore) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, s.d.list)
	if err != nil {
		return nil, fmt.Errorf("list saves: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var out []string
	for rows.Next() {
		var slot string
		if err := rows.Scan(&slot); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		out = append(out, slot)
	}
	return out, rows.Err()
}

func (s *SQLStore) Close() error { return s.db.Close() }
