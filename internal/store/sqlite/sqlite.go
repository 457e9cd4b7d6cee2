// Package sqlitestore implements the measurement Store on an in-memory
// SQLite database with periodic disk dumps via VACUUM INTO. It wraps the
// gorm store via composition; the only SQLite-specific concerns are creating
// the in-memory DB and the dump loop.
package sqlitestore

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/eric-ce/mapmeasure/internal/database"
	"github.com/eric-ce/mapmeasure/internal/store/gormstore"
)

// Config holds configuration for the SQLite store.
type Config struct {
	DumpInterval time.Duration
	DumpPath     string // Path for periodic VACUUM INTO dumps
}

// Store wraps the gorm store for SQLite-specific behavior.
type Store struct {
	*gormstore.Store
	db       *gorm.DB
	cfg      Config
	log      *slog.Logger
	stopChan chan struct{}
}

func New(cfg Config, log *slog.Logger) (*Store, error) {
	db, err := database.GetSqliteDB("")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory SQLite DB: %w", err)
	}
	return &Store{
		Store:    gormstore.New(db),
		db:       db,
		cfg:      cfg,
		log:      log,
		stopChan: make(chan struct{}),
	}, nil
}

// Init migrates the schema and starts the dump goroutine.
func (s *Store) Init() error {
	if err := s.Store.Init(); err != nil {
		return err
	}
	if s.cfg.DumpPath != "" && s.cfg.DumpInterval > 0 {
		go s.dumpLoop()
	}
	return nil
}

// Close stops the dump goroutine and closes the embedded gorm store.
func (s *Store) Close() error {
	close(s.stopChan)
	return s.Store.Close()
}

// dumpLoop periodically snapshots the in-memory database to disk.
func (s *Store) dumpLoop() {
	ticker := time.NewTicker(s.cfg.DumpInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			start := time.Now()
			if err := database.DumpMemoryDBToDisk(s.db, s.cfg.DumpPath); err != nil {
				s.log.Error("Error dumping measurement DB to disk", "error", err)
			} else {
				s.log.Debug("Dumped measurement DB to disk", "duration", time.Since(start))
			}
		}
	}
}
