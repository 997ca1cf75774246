// Package sqlite keeps roster blobs in a single-file SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	qb "github.com/riskibarqy/team-sheet/internal/platform/querybuilder"
)

const (
	blobsTable = "blobs"

	createBlobsTable = `CREATE TABLE IF NOT EXISTS blobs (
	key        TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	updated_at INTEGER NOT NULL
)`
)

type blobTableModel struct {
	Key       string `db:"key"`
	Value     []byte `db:"value"`
	UpdatedAt int64  `db:"updated_at"`
}

type BlobRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

// Open opens (creating if needed) the database at path. ":memory:" gives a
// private in-memory database.
func Open(ctx context.Context, path string) (*BlobRepository, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, crerr.New("sqlite path is required")
	}

	dsn := path
	if path != ":memory:" {
		dsn = filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	}

	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, crerr.Wrap(err, "open sqlite db")
	}
	// One connection keeps ":memory:" a single database and serialises writers.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, crerr.Wrap(err, "ping sqlite db")
	}
	if _, err := db.ExecContext(ctx, createBlobsTable); err != nil {
		_ = db.Close()
		return nil, crerr.Wrap(err, "create blobs table")
	}

	return &BlobRepository{db: db, now: time.Now}, nil
}

func (r *BlobRepository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *BlobRepository) Get(ctx context.Context, key string) ([]byte, bool, error) {
	query, args, err := qb.Select("key", "value", "updated_at").From(blobsTable).
		Where(qb.Eq("key", key)).
		ToSQL()
	if err != nil {
		return nil, false, crerr.Wrap(err, "build get blob query")
	}

	var row blobTableModel
	if err := r.db.GetContext(ctx, &row, r.db.Rebind(query), args...); err != nil {
		if crerr.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, crerr.Wrapf(err, "get blob %q", key)
	}
	return row.Value, true, nil
}

func (r *BlobRepository) Put(ctx context.Context, key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	query, args, err := qb.InsertModel(blobsTable, blobTableModel{
		Key:       key,
		Value:     value,
		UpdatedAt: r.now().UTC().UnixMilli(),
	}, "ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at")
	if err != nil {
		return crerr.Wrap(err, "build put blob query")
	}

	if _, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...); err != nil {
		return crerr.Wrapf(err, "put blob %q", key)
	}
	return nil
}

func (r *BlobRepository) DeletePrefix(ctx context.Context, prefix string) error {
	if prefix == "" {
		return crerr.New("delete prefix is required")
	}

	query, args, err := qb.DeleteFrom(blobsTable).
		Where(qb.Expr(`key LIKE ? ESCAPE '\'`, escapeLike(prefix)+"%")).
		ToSQL()
	if err != nil {
		return crerr.Wrap(err, "build delete blobs query")
	}

	if _, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...); err != nil {
		return crerr.Wrapf(err, "delete blobs with prefix %q", prefix)
	}
	return nil
}

func escapeLike(value string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(value)
}
