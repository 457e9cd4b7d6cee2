// internal/store/factory.go
package store

import (
	"fmt"
	"log/slog"

	"github.com/eric-ce/mapmeasure/internal/config"
	"github.com/eric-ce/mapmeasure/internal/store/memory"
	pgstore "github.com/eric-ce/mapmeasure/internal/store/postgres"
	sqlitestore "github.com/eric-ce/mapmeasure/internal/store/sqlite"
)

// NewStore creates a measurement store based on configuration.
func NewStore(cfg config.StorageConfig, log *slog.Logger) (Store, error) {
	switch cfg.Type {
	case "postgres":
		return pgstore.New()
	case "sqlite":
		return sqlitestore.New(sqlitestore.Config{
			DumpInterval: cfg.SQLite.DumpInterval,
			DumpPath:     cfg.SQLite.DumpPath,
		}, log)
	case "memory", "":
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
