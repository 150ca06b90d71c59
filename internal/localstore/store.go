// Package localstore implements the embedded table store recipes are cached in.
//
// A Store owns at most one database handle. The handle is opened by the first
// operation (or an explicit Initialize) and tables are created the first time a
// record type is used. Bulk inserts are not atomic: rows written before a failing
// row stay persisted and the failure is reported as a PartialInsertError.
package localstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/RecipeSync/RecipeSync/internal/config"
	"github.com/RecipeSync/RecipeSync/internal/db/dsn"
	gormadapter "github.com/RecipeSync/RecipeSync/internal/logger/adapter/gorm"
)

const (
	dataDirPerm   = 0o750
	memoryDSN     = ":memory:"
	sqliteTimeout = 5000 // busy_timeout in milliseconds
)

// Record is a persistable row type. Every record has a numeric primary key.
type Record interface {
	TableName() string
	GetID() uint64
}

// Store is the local table store.
type Store struct {
	cfg      config.DB
	validate *validator.Validate

	// opMu is held shared by every operation and exclusively by Close,
	// so the pool is never closed under a running statement.
	opMu sync.RWMutex

	mu sync.Mutex // guards db
	db *gorm.DB

	tablesMu sync.Mutex // guards tables
	tables   map[string]struct{}
}

// New creates a store for cfg. Nothing is opened until the first operation.
func New(cfg config.DB) *Store {
	return &Store{
		cfg:      cfg,
		validate: validator.New(),
		tables:   make(map[string]struct{}),
	}
}

// Initialize opens the database handle if it is not open yet.
// It is safe for concurrent use; only one handle is ever opened.
// A failed open leaves the store closed so a later call tries again.
func (s *Store) Initialize(ctx context.Context) error {
	_, err := s.handle(ctx)

	return err
}

// DB returns the initialized database handle bound to ctx.
// The handle is not protected against a concurrent Close, use Use for that.
func (s *Store) DB(ctx context.Context) (*gorm.DB, error) {
	db, err := s.handle(ctx)
	if err != nil {
		return nil, err
	}

	return db.WithContext(ctx), nil
}

// Close releases the database handle. The store can be initialized again afterwards.
// It waits for running Use calls to finish.
func (s *Store) Close() error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}

	sqlDB, err := s.db.DB()
	if err != nil {
		return errors.Wrap(err, "get sql handle")
	}

	s.db = nil

	s.tablesMu.Lock()
	s.tables = make(map[string]struct{})
	s.tablesMu.Unlock()

	return errors.Wrap(sqlDB.Close(), "close database")
}

func (s *Store) handle(ctx context.Context) (*gorm.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return s.db, nil
	}

	db, err := open(ctx, &s.cfg)
	if err != nil {
		log.Error().Err(err).Str("engine", s.cfg.GormEngine).Msg("failed to open local store")

		return nil, fmt.Errorf("%w: %w", ErrStorageInit, err)
	}

	log.Debug().Str("engine", s.cfg.GormEngine).Str("path", s.cfg.Path).Msg("local store opened")

	s.db = db

	return db, nil
}

// Use runs fn with a handle bound to ctx after making sure the table of T exists.
// Close blocks until fn returns. fn must not call Close or Use on the same store.
func Use[T Record](ctx context.Context, s *Store, fn func(db *gorm.DB) error) error {
	s.opMu.RLock()
	defer s.opMu.RUnlock()

	db, err := prepare[T](ctx, s)
	if err != nil {
		return err
	}

	return fn(db)
}

// prepare returns a handle bound to ctx after making sure the table of T exists.
func prepare[T Record](ctx context.Context, s *Store) (*gorm.DB, error) {
	db, err := s.handle(ctx)
	if err != nil {
		return nil, err
	}

	var zero T

	name := zero.TableName()

	s.tablesMu.Lock()
	defer s.tablesMu.Unlock()

	if _, ok := s.tables[name]; ok {
		return db.WithContext(ctx), nil
	}

	if err := db.WithContext(ctx).AutoMigrate(new(T)); err != nil {
		return nil, fmt.Errorf("%w: create table %s: %w", ErrStorageInit, name, err)
	}

	s.tables[name] = struct{}{}

	return db.WithContext(ctx), nil
}

func open(ctx context.Context, cfg *config.DB) (*gorm.DB, error) {
	if err := prepareDataDir(cfg); err != nil {
		return nil, err
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = cfg.OpenTimeout

	var db *gorm.DB

	err := backoff.Retry(func() error {
		var openErr error

		db, openErr = openOnce(ctx, cfg)
		if openErr != nil && isRetryableError(openErr) {
			log.Warn().Err(openErr).Msg("local store open failed, retrying")

			return openErr
		}

		if openErr != nil {
			return backoff.Permanent(openErr)
		}

		return nil
	}, backoff.WithContext(bo, ctx))
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	return db, nil
}

func openOnce(ctx context.Context, cfg *config.DB) (*gorm.DB, error) {
	dialector, err := dsn.Dialector(cfg)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormadapter.New(cfg.Trace),
	})
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "get sql handle")
	}

	if err = sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()

		return nil, errors.Wrap(err, "ping database")
	}

	if isSQLite(cfg) {
		// SQLite allows a single writer, one connection avoids SQLITE_BUSY.
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)

		if err = applyPragmas(ctx, db, cfg); err != nil {
			_ = sqlDB.Close()

			return nil, err
		}
	}

	return db, nil
}

func applyPragmas(ctx context.Context, db *gorm.DB, cfg *config.DB) error {
	pragmas := []string{
		fmt.Sprintf("PRAGMA busy_timeout = %d", sqliteTimeout),
	}

	if cfg.Path != memoryDSN {
		pragmas = append(pragmas, "PRAGMA journal_mode = WAL", "PRAGMA synchronous = NORMAL")
	}

	for _, pragma := range pragmas {
		if err := db.WithContext(ctx).Exec(pragma).Error; err != nil {
			return errors.Wrapf(err, "failed to execute %q", pragma)
		}
	}

	return nil
}

func prepareDataDir(cfg *config.DB) error {
	if !isSQLite(cfg) || cfg.Path == memoryDSN {
		return nil
	}

	dir := filepath.Dir(cfg.Path)
	if dir == "." {
		return nil
	}

	return errors.Wrapf(os.MkdirAll(dir, dataDirPerm), "create data directory %s", dir)
}

func isSQLite(cfg *config.DB) bool {
	return cfg.GormEngine == config.EngineSQLite || cfg.GormEngine == ""
}

// isRetryableError reports transient open failures worth another attempt.
func isRetryableError(err error) bool {
	errStr := strings.ToLower(err.Error())

	for _, transient := range []string{
		"connection refused",
		"connection reset",
		"bad connection",
		"database is locked",
		"i/o timeout",
		"the database system is starting up",
	} {
		if strings.Contains(errStr, transient) {
			return true
		}
	}

	return false
}
