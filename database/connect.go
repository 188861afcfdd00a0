package database

import (
	"fmt"
	"log"
	"sync"

	"github.com/csk7msd/student-college-allocation-system-dashboard/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// Store holds the session registry, attendance ledger and roster of every
// workspace. All read-check-write sequences run under mu.
type Store struct {
	db *gorm.DB
	mu sync.Mutex
}

// Connect opens the SQLite database behind dsn and migrates it. The default
// DSN is an in-memory database, which lives exactly as long as the process.
func Connect(dsn string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dsn, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// a shared in-memory database is dropped when its last connection closes
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	if err := db.AutoMigrate(&models.Session{}, &models.CheckIn{}, &models.RosterEntry{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	log.Println("[DB] connected and migrated")
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
