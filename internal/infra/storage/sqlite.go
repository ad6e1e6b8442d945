// Package storage persists the venue catalog between runs. It is a
// thin I/O wrapper: the connection layer never reads it directly.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"depth_go/internal/domain"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Storage is the SQLite-backed venue registry.
type Storage struct {
	db *gorm.DB
}

// NewStorage creates a new SQLite storage instance under the user's
// config directory.
func NewStorage() (*Storage, error) {
	dbPath, err := getDBPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve DB path: %w", err)
	}

	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create DB directory: %w", err)
	}

	// Pure-Go SQLite driver; no cgo
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&domain.Venue{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Storage{db: db}, nil
}

func getDBPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "DepthGo", "data", "venues.db"), nil
}

// SeedVenues inserts catalog entries that are not yet persisted.
// Existing rows win over the seed so local edits survive restarts.
func (s *Storage) SeedVenues(venues []domain.Venue) error {
	for _, v := range venues {
		existing, err := s.GetVenue(v.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}
		if err := s.UpsertVenue(&v); err != nil {
			return err
		}
	}
	return nil
}

// UpsertVenue creates or updates one venue record.
func (s *Storage) UpsertVenue(venue *domain.Venue) error {
	return s.db.Save(venue).Error
}

// GetVenue retrieves a venue by id; nil when not found.
func (s *Storage) GetVenue(id string) (*domain.Venue, error) {
	var venue domain.Venue
	err := s.db.First(&venue, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil // Not found is not an error
	}
	if err != nil {
		return nil, err
	}
	return &venue, nil
}

// ListVenues retrieves all persisted venues ordered by id.
func (s *Storage) ListVenues() ([]domain.Venue, error) {
	var venues []domain.Venue
	err := s.db.Order("id").Find(&venues).Error
	return venues, err
}

// DeleteVenue removes a venue from the registry.
func (s *Storage) DeleteVenue(id string) error {
	return s.db.Where("id = ?", id).Delete(&domain.Venue{}).Error
}
