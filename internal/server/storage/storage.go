// FILE: othello/internal/server/storage/storage.go
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"sync"
	"sync/atomic"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const (
	writeQueueSize = 1000
	drainTimeout   = 2 * time.Second
)

// Store handles SQLite persistence: game history is written asynchronously,
// accounts synchronously. A failed write marks the store degraded and later
// async writes are dropped.
type Store struct {
	db        *sql.DB
	path      string
	writeChan chan func(*sql.Tx) error
	healthy   atomic.Bool
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// NewStore opens the database and starts the async writer
func NewStore(dataSourceName string, devMode bool) (*Store, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pragmas := []string{"PRAGMA foreign_keys = ON"}
	if devMode {
		pragmas = append(pragmas, "PRAGMA journal_mode=WAL")
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	ctx, cancel := context.WithCancel(context.Background())
	s := &Store{
		db:        db,
		path:      dataSourceName,
		writeChan: make(chan func(*sql.Tx) error, writeQueueSize),
		ctx:       ctx,
		cancel:    cancel,
	}
	s.healthy.Store(true)

	s.wg.Add(1)
	go s.writerLoop()

	return s, nil
}

// IsHealthy reports whether every async write so far succeeded
func (s *Store) IsHealthy() bool {
	return s.healthy.Load()
}

func (s *Store) writerLoop() {
	defer s.wg.Done()

	for {
		select {
		case <-s.ctx.Done():
			s.drain()
			return
		case fn := <-s.writeChan:
			s.run(fn)
		}
	}
}

// drain runs writes still queued at shutdown, bounded by drainTimeout
func (s *Store) drain() {
	deadline := time.After(drainTimeout)
	for {
		select {
		case fn := <-s.writeChan:
			s.run(fn)
		case <-deadline:
			return
		default:
			return
		}
	}
}

func (s *Store) run(fn func(*sql.Tx) error) {
	if !s.healthy.Load() {
		return
	}
	if err := s.inTx(fn); err != nil {
		log.Printf("Storage degraded: %v", err)
		s.healthy.Store(false)
	}
}

// inTx runs fn in a transaction, committing only when it succeeds
func (s *Store) inTx(fn func(*sql.Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Flush blocks until every write queued before it has run
func (s *Store) Flush(timeout time.Duration) error {
	done := make(chan struct{})
	select {
	case s.writeChan <- func(*sql.Tx) error {
		close(done)
		return nil
	}:
	case <-time.After(timeout):
		return fmt.Errorf("write queue full")
	}

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("flush timeout exceeded")
	}
}

// Close stops the writer, letting it drain, and closes the database
func (s *Store) Close() error {
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(drainTimeout + time.Second):
		log.Printf("Warning: storage writer shutdown timeout, some writes may be lost")
	}

	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// InitDB creates the database schema
func (s *Store) InitDB() error {
	return s.inTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(Schema); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
		return nil
	})
}

// DeleteDB removes the database file
func (s *Store) DeleteDB() error {
	if err := s.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	// Removes the database file and its WAL companions
	for _, suffix := range []string{"", "-wal", "-shm"} {
		if err := os.Remove(s.path + suffix); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to delete database file: %w", err)
		}
	}

	return nil
}
