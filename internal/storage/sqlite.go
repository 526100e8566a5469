// Package storage implements the persistence layer on SQLite: imported
// transactions, saved categorization results, and per-user merchant
// overrides consumed by the categorization engine.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/saffron-ledger/saffron/internal/model"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStorage implements the service.Storage interface using SQLite.
type SQLiteStorage struct {
	cacheExpiry   time.Time
	db            *sql.DB
	overrideCache map[string]*model.Override
	dbPath        string
	cacheMutex    sync.RWMutex
}

// NewSQLiteStorage creates a new SQLite storage instance.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}

	// Ensure directory exists for file-backed databases
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStorage{
		db:            db,
		dbPath:        dbPath,
		overrideCache: make(map[string]*model.Override),
	}, nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

const cacheTTL = 5 * time.Minute

func merchantIDCacheKey(userID, merchantID string) string {
	return "id\x00" + userID + "\x00" + merchantID
}

func nameCacheKey(userID, normalizedName string) string {
	return "name\x00" + userID + "\x00" + normalizedName
}

func (s *SQLiteStorage) getCachedOverride(key string) *model.Override {
	s.cacheMutex.RLock()
	defer s.cacheMutex.RUnlock()

	if time.Now().After(s.cacheExpiry) {
		return nil
	}
	return s.overrideCache[key]
}

func (s *SQLiteStorage) cacheOverride(key string, override *model.Override) {
	s.cacheMutex.Lock()
	defer s.cacheMutex.Unlock()

	if time.Now().After(s.cacheExpiry) {
		s.overrideCache = make(map[string]*model.Override)
		s.cacheExpiry = time.Now().Add(cacheTTL)
	}
	s.overrideCache[key] = override
}

func (s *SQLiteStorage) invalidateOverrideCache() {
	s.cacheMutex.Lock()
	defer s.cacheMutex.Unlock()

	s.overrideCache = make(map[string]*model.Override)
	s.cacheExpiry = time.Time{}
}
