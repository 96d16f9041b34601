package sqlstore

import (
	"database/sql"
	"fmt"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite" // Pure-Go SQLite driver.

	"localkms/internal/domain"
	"localkms/internal/fsstore"
	"localkms/internal/keystore"
)

// migrations is an ordered list of SQL statements applied on open.
// Each entry is idempotent (IF NOT EXISTS) so re-running is safe.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS keys (
		version INTEGER PRIMARY KEY,
		data    BLOB NOT NULL,
		created INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS meta (
		id    INTEGER PRIMARY KEY CHECK (id = 1),
		count INTEGER NOT NULL
	)`,
}

// DB binds a live store to a SQLite database file.
type DB struct {
	*keystore.Store
	db   *sql.DB
	path string
}

// New wraps an existing store around a fresh or existing database at path.
// Rows already present are ignored until Load; nothing is written until Save.
func New(store *keystore.Store, path string) (*DB, error) {
	db, err := open(path)
	if err != nil {
		return nil, err
	}
	return &DB{Store: store, db: db, path: path}, nil
}

// Load opens the database at path and rebuilds a store from its rows. A
// database with no meta row yields an empty store.
func Load(path string) (*DB, error) {
	db, err := open(path)
	if err != nil {
		return nil, err
	}

	snap := domain.Snapshot{Store: make(map[uint64]domain.KeyRecord)}
	err = db.QueryRow(`SELECT count FROM meta WHERE id = 1`).Scan(&snap.Count)
	if err != nil && err != sql.ErrNoRows {
		db.Close()
		return nil, errors.Wrap(err, "read counter")
	}

	rows, err := db.Query(`SELECT version, data, created FROM keys ORDER BY version`)
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "read keys")
	}
	defer rows.Close()

	for rows.Next() {
		var (
			version uint64
			rec     domain.KeyRecord
		)
		if err := rows.Scan(&version, &rec.Data, &rec.Created); err != nil {
			db.Close()
			return nil, errors.Wrap(err, "scan key row")
		}
		snap.Store[version] = rec
	}
	if err := rows.Err(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "iterate key rows")
	}

	return &DB{Store: keystore.FromSnapshot(snap), db: db, path: path}, nil
}

func open(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("%s?_journal=WAL&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}
	db.SetMaxOpenConns(1) // SQLite handles one writer at a time.

	for _, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, errors.Wrap(err, "migration")
		}
	}
	return db, nil
}

// Save replaces the database contents with the current snapshot in one
// transaction.
func (d *DB) Save() error {
	snap, err := d.Snapshot()
	if err != nil {
		return err
	}

	tx, err := d.db.Begin()
	if err != nil {
		return errors.Wrap(err, "begin save")
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM keys`); err != nil {
		return errors.Wrap(err, "clear keys")
	}
	for version, rec := range snap.Store {
		if _, err := tx.Exec(
			`INSERT INTO keys (version, data, created) VALUES (?, ?, ?)`,
			version, rec.Data, rec.Created,
		); err != nil {
			return errors.Wrap(err, "insert key")
		}
	}
	if _, err := tx.Exec(
		`INSERT INTO meta (id, count) VALUES (1, ?)
		 ON CONFLICT (id) DO UPDATE SET count = excluded.count`,
		snap.Count,
	); err != nil {
		return errors.Wrap(err, "write counter")
	}
	return errors.Wrap(tx.Commit(), "commit save")
}

// Path returns the database file path.
func (d *DB) Path() string { return d.path }

// Close releases the database handle.
func (d *DB) Close() error { return d.db.Close() }

var _ fsstore.Wrapper = (*DB)(nil)
