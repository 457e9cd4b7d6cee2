// Package gormstore is the shared gorm-backed Store implementation. The
// sqlite and postgres stores wrap it via composition; the only
// driver-specific concerns live in those wrappers.
package gormstore

import (
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/eric-ce/mapmeasure/internal/model"
	"github.com/eric-ce/mapmeasure/pkg/core"
)

// groupRecord is the persisted shape of a measurement group. Coordinate
// sequences are JSON columns so SQLite can store them without spatial
// awareness.
type groupRecord struct {
	ID             uint64 `gorm:"primaryKey"`
	Mode           string
	LabelIndex     int
	LettersIssued  int
	Status         string
	Coordinates    datatypes.JSON
	SegmentLetters datatypes.JSON
	Records        datatypes.JSON
	Interpolated   datatypes.JSON
}

func (groupRecord) TableName() string { return "measurement_groups" }

func toRecord(g *model.Group) (*groupRecord, error) {
	coords, err := json.Marshal(g.Coordinates)
	if err != nil {
		return nil, fmt.Errorf("marshal coordinates: %w", err)
	}
	records, err := json.Marshal(g.Records)
	if err != nil {
		return nil, fmt.Errorf("marshal records: %w", err)
	}
	var interp datatypes.JSON
	if g.Interpolated != nil {
		interp, err = json.Marshal(g.Interpolated)
		if err != nil {
			return nil, fmt.Errorf("marshal interpolated: %w", err)
		}
	}
	var letters datatypes.JSON
	if g.SegmentLetters != nil {
		letters, err = json.Marshal(g.SegmentLetters)
		if err != nil {
			return nil, fmt.Errorf("marshal segment letters: %w", err)
		}
	}
	return &groupRecord{
		ID:             g.ID,
		Mode:           string(g.Mode),
		LabelIndex:     g.LabelIndex,
		LettersIssued:  g.LettersIssued,
		Status:         string(g.Status),
		Coordinates:    datatypes.JSON(coords),
		SegmentLetters: letters,
		Records:        datatypes.JSON(records),
		Interpolated:   interp,
	}, nil
}

func fromRecord(r *groupRecord) (*model.Group, error) {
	g := &model.Group{
		ID:            r.ID,
		Mode:          core.Mode(r.Mode),
		LabelIndex:    r.LabelIndex,
		LettersIssued: r.LettersIssued,
		Status:        core.GroupStatus(r.Status),
	}
	if err := json.Unmarshal(r.Coordinates, &g.Coordinates); err != nil {
		return nil, fmt.Errorf("unmarshal coordinates: %w", err)
	}
	if err := json.Unmarshal(r.Records, &g.Records); err != nil {
		return nil, fmt.Errorf("unmarshal records: %w", err)
	}
	if len(r.SegmentLetters) > 0 {
		if err := json.Unmarshal(r.SegmentLetters, &g.SegmentLetters); err != nil {
			return nil, fmt.Errorf("unmarshal segment letters: %w", err)
		}
	}
	if len(r.Interpolated) > 0 {
		if err := json.Unmarshal(r.Interpolated, &g.Interpolated); err != nil {
			return nil, fmt.Errorf("unmarshal interpolated: %w", err)
		}
	}
	return g, nil
}

// Store persists measurement groups through gorm.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Init migrates the schema.
func (s *Store) Init() error {
	if err := s.db.AutoMigrate(&groupRecord{}); err != nil {
		return fmt.Errorf("migrate measurement_groups: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) UpsertGroup(g *model.Group) error {
	rec, err := toRecord(g)
	if err != nil {
		return err
	}
	return s.db.Save(rec).Error
}

func (s *Store) RemoveGroupByID(id uint64) error {
	return s.db.Delete(&groupRecord{}, "id = ?", id).Error
}

func (s *Store) GetGroupByID(id uint64) (*model.Group, bool) {
	var rec groupRecord
	err := s.db.First(&rec, "id = ?", id).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false
		}
		return nil, false
	}
	g, err := fromRecord(&rec)
	if err != nil {
		return nil, false
	}
	return g, true
}

func (s *Store) GetAllGroups() []*model.Group {
	var recs []groupRecord
	if err := s.db.Find(&recs).Error; err != nil {
		return nil
	}
	out := make([]*model.Group, 0, len(recs))
	for i := range recs {
		g, err := fromRecord(&recs[i])
		if err != nil {
			continue
		}
		out = append(out, g)
	}
	return out
}

func (s *Store) Reset() error {
	return s.db.Exec("DELETE FROM measurement_groups").Error
}
