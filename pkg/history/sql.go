// Package history keeps a local record of every randomized output, so a
// seed can be traced back to the inputs it was produced from.
package history

import (
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type Entity struct {
	ID uint `gorm:"primaryKey"`
}

type Run struct {
	Entity

	Seed    int64 `gorm:"not null;index"`
	Created time.Time
	Version string `gorm:"size:32"`

	// xxhash of the unmodified archive and executable
	Archive    string `gorm:"size:16"`
	Executable string `gorm:"size:16"`

	Output string
	// Key of the published spoiler
	Spoiler string `gorm:"size:48"`

	Placements []*Placement
}

// Placement is one hub slot of a run's level order.
type Placement struct {
	Entity
	RunID uint   `gorm:"not null"`
	Slot  string `gorm:"size:32"`
	Level string `gorm:"size:32"`
}

func InitDB(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(&Run{}, &Placement{})
	if err != nil {
		return nil, fmt.Errorf("could not migrate history: %w", err)
	}

	return db, nil
}

func Digest(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}

func Record(db *gorm.DB, run *Run) error {
	if run.Created.IsZero() {
		run.Created = time.Now().UTC()
	}

	return db.Create(run).Error
}

// Recent lists the newest runs first.
func Recent(db *gorm.DB, limit int) ([]Run, error) {
	var runs []Run
	err := db.
		Preload("Placements").
		Order("created desc").
		Limit(limit).
		Find(&runs).
		Error
	return runs, err
}

// BySeed finds the runs that used a seed, which may differ in their inputs.
func BySeed(db *gorm.DB, seed int64) ([]Run, error) {
	var runs []Run
	err := db.
		Preload("Placements").
		Where("seed = ?", seed).
		Order("created desc").
		Find(&runs).
		Error
	return runs, err
}
