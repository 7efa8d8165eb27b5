// Package store implements the storage gateway and entity upsert layer.
//
// All access to the backing store funnels through Store.do, which lazily
// opens one memoized connection and normalizes backend failures into a
// single error category (StorageError). "Not found" is not an error at
// this layer: operations whose contract allows it return a nil record.
package store

import (
	"errors"
	"fmt"
	"sync"

	driver "github.com/go-sql-driver/mysql"
	"github.com/lifeline-ai/lifeline/internal/config"
	"github.com/lifeline-ai/lifeline/internal/db"
	"gorm.io/gorm"
)

// StorageError is the uniform wrapper for any backend failure. The original
// error remains reachable via Unwrap.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	var me *driver.MySQLError
	if errors.As(e.Err, &me) {
		return fmt.Sprintf("store: %s: backend error %d: %s", e.Op, me.Number, me.Message)
	}
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// IsStorageError reports whether err is (or wraps) a StorageError.
func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}

// Store is the process-wide storage gateway. The underlying connection is
// opened on first use and reused for the process lifetime.
type Store struct {
	cfg             config.MySQLConfig
	defaultLanguage string

	once    sync.Once
	handle  *gorm.DB
	openErr error
}

// New creates a Store that will lazily connect using cfg.
func New(cfg config.MySQLConfig, defaultLanguage string) *Store {
	if defaultLanguage == "" {
		defaultLanguage = "Tamil"
	}
	return &Store{cfg: cfg, defaultLanguage: defaultLanguage}
}

// NewWithDB creates a Store bound to an already-open GORM handle. Tests use
// this with in-memory sqlite.
func NewWithDB(gdb *gorm.DB) *Store {
	s := &Store{defaultLanguage: "Tamil"}
	s.once.Do(func() { s.handle = gdb })
	return s
}

// conn returns the memoized connection, opening it on first use.
func (s *Store) conn() (*gorm.DB, error) {
	s.once.Do(func() {
		s.handle, s.openErr = db.Connect(s.cfg)
	})
	if s.openErr != nil {
		return nil, &StorageError{Op: "connect", Err: s.openErr}
	}
	return s.handle, nil
}

// do runs a single operation against the store. Backend errors come back
// wrapped as *StorageError; fn must translate gorm.ErrRecordNotFound itself
// where its contract treats absence as a normal result.
func (s *Store) do(op string, fn func(tx *gorm.DB) error) error {
	gdb, err := s.conn()
	if err != nil {
		return err
	}
	if err := fn(gdb); err != nil {
		return &StorageError{Op: op, Err: err}
	}
	return nil
}

// DB exposes the underlying handle for read-only consumers (dashboard,
// watchdog). It opens the connection if needed.
func (s *Store) DB() (*gorm.DB, error) {
	return s.conn()
}

// Close tears down the connection. Safe to call when never connected.
func (s *Store) Close() error {
	if s.handle == nil {
		return nil
	}
	sqlDB, err := s.handle.DB()
	if err != nil {
		return fmt.Errorf("store: close: %w", err)
	}
	return sqlDB.Close()
}
