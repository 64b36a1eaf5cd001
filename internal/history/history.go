package history

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DBSource reads commands from a gsh history database.
type DBSource struct {
	db *gorm.DB
}

// HistoryEntry mirrors the history_entries table written by gsh.
type HistoryEntry struct {
	ID        uint      `gorm:"primarykey"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time `gorm:"index"`

	Command   string
	Directory string
	ExitCode  sql.NullInt32
}

// OpenDBSource opens the history database at dbFilePath. The table is created
// when missing so that an empty or fresh database reads as no history.
func OpenDBSource(dbFilePath string) (*DBSource, error) {
	db, err := gorm.Open(sqlite.Open(dbFilePath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("error opening history database %s: %w", dbFilePath, err)
	}

	if !db.Migrator().HasTable(&HistoryEntry{}) {
		if err := db.AutoMigrate(&HistoryEntry{}); err != nil {
			return nil, fmt.Errorf("error creating history table: %w", err)
		}
	}

	return &DBSource{db: db}, nil
}

// Commands returns every recorded command, oldest first.
func (s *DBSource) Commands() ([]string, error) {
	var commands []string
	result := s.db.Model(&HistoryEntry{}).
		Order("created_at asc").
		Order("id asc").
		Pluck("command", &commands)
	if result.Error != nil {
		return nil, result.Error
	}

	return commands, nil
}

func (s *DBSource) Name() string {
	return "gsh history database"
}

// Close releases the underlying database connection.
func (s *DBSource) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
