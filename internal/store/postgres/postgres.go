// Package pgstore implements the measurement Store on Postgres. It is the
// gorm store plus connection construction; everything else is shared.
package pgstore

import (
	"fmt"

	"github.com/eric-ce/mapmeasure/internal/database"
	"github.com/eric-ce/mapmeasure/internal/store/gormstore"
)

// Store is the Postgres-backed measurement store.
type Store struct {
	*gormstore.Store
}

func New() (*Store, error) {
	db, err := database.GetPostgresDB()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	return &Store{Store: gormstore.New(db)}, nil
}
