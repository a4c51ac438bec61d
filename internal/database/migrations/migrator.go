package migrations

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gorm.io/gorm"
)

// Migration represents a database migration
type Migration struct {
	ID string
	Up func(*gorm.DB) error
}

// Migrator keeps an ordered registry of migrations and applies the pending ones.
type Migrator struct {
	migrations map[string]Migration
	logger     *slog.Logger
}

// New creates an empty migrator
func New(logger *slog.Logger) *Migrator {
	return &Migrator{
		migrations: make(map[string]Migration),
		logger:     logger,
	}
}

// Register adds a new migration to the registry
func (m *Migrator) Register(id string, up func(*gorm.DB) error) {
	m.migrations[id] = Migration{ID: id, Up: up}
}

// MigrationRecord represents a record of executed migrations
type MigrationRecord struct {
	ID        string `gorm:"primaryKey"`
	CreatedAt int64  `gorm:"autoCreateTime"`
}

func (MigrationRecord) TableName() string {
	return "schema_migrations"
}

// Run executes all pending migrations in id order. Each migration and its
// record are committed together.
func (m *Migrator) Run(db *gorm.DB) error {
	if err := db.AutoMigrate(&MigrationRecord{}); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	ids := make([]string, 0, len(m.migrations))
	for id := range m.migrations {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var executed []MigrationRecord
	if err := db.Find(&executed).Error; err != nil {
		return fmt.Errorf("failed to get executed migrations: %w", err)
	}

	executedMap := make(map[string]bool, len(executed))
	for _, r := range executed {
		executedMap[r.ID] = true
	}

	for _, id := range ids {
		if executedMap[id] {
			continue
		}
		migration := m.migrations[id]
		m.logger.Info("Running migration", "id", id)
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := migration.Up(tx); err != nil {
				return err
			}
			return tx.Create(&MigrationRecord{ID: id}).Error
		})
		if err != nil {
			return fmt.Errorf("failed to run migration %s: %w", id, err)
		}
		m.logger.Info("Completed migration", "id", id)
	}

	return nil
}

// Applied returns the ids recorded as executed.
func (m *Migrator) Applied(db *gorm.DB) ([]string, error) {
	var ids []string
	if err := db.Model(&MigrationRecord{}).Order("id").Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to list applied migrations: %w", err)
	}
	return ids, nil
}

// LoadSQLDir registers every *.sql file in dir, keyed by file name without
// the extension.
func (m *Migrator) LoadSQLDir(dir string) error {
	files, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}
		id := strings.TrimSuffix(file.Name(), ".sql")

		content, err := os.ReadFile(filepath.Join(dir, file.Name()))
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", file.Name(), err)
		}

		statement := string(content)
		m.Register(id, func(db *gorm.DB) error {
			return db.Exec(statement).Error
		})
	}

	return nil
}
