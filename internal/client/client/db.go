package client

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"github.com/dmitrijs2005/hydratemate/internal/client/migrations"
	"github.com/dmitrijs2005/hydratemate/internal/client/repositories/kv"
	"github.com/dmitrijs2005/hydratemate/internal/filex"
)

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens the SQLite database at dsn and migrates it.
func InitDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// A single connection serializes writers and keeps ":memory:" databases
	// shared across calls.
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// OpenStore builds the session store for backend. For sqlite and file the
// path is created under dir when it is relative; close releases the store.
func OpenStore(ctx context.Context, backend kv.Backend, dir, name string) (kv.Store, func() error, error) {
	nop := func() error { return nil }

	switch backend {
	case kv.BackendMemory:
		return kv.NewMemoryStore(), nop, nil

	case kv.BackendSQLite, kv.BackendFile:
		path, err := storePath(dir, name)
		if err != nil {
			return nil, nil, err
		}
		if backend == kv.BackendFile {
			fs, err := kv.OpenFileStore(path)
			if err != nil {
				return nil, nil, err
			}
			return fs, nop, nil
		}
		db, err := InitDatabase(ctx, path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to init database: %w", err)
		}
		return kv.NewSQLiteStore(db), db.Close, nil
	}

	return nil, nil, fmt.Errorf("unknown storage backend %q", backend)
}

func storePath(dir, name string) (string, error) {
	if filepath.IsAbs(name) || dir == "" {
		return name, nil
	}
	base, err := filex.EnsureSubdDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to create storage directory: %w", err)
	}
	return filepath.Join(base, name), nil
}
