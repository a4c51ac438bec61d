package database

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vladimiradmaev/meal-planner/internal/config"
	"github.com/vladimiradmaev/meal-planner/internal/database/migrations"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const planSlotIndex = "idx_planificacion_slot"

// Open connects to the configured store. Unique violations are translated to
// gorm.ErrDuplicatedKey.
func Open(cfg config.DBConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.DSN())
	case config.DriverSQLite:
		dialector = sqlite.Open(sqliteDSN(cfg.Path))
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

func sqliteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path
	}
	return path + "?_busy_timeout=5000"
}

// Connect opens the store and brings the schema up to date.
func Connect(cfg config.DBConfig, logger *slog.Logger) (*gorm.DB, error) {
	db, err := Open(cfg)
	if err != nil {
		return nil, err
	}

	if err := InitSchema(db, cfg.MigrationsDir, logger); err != nil {
		return nil, err
	}

	logger.Info("Database connection established and migrations completed", "driver", cfg.Driver)
	return db, nil
}

// InitSchema creates the tables if they are absent and applies pending
// migrations. It is safe to call on every start.
func InitSchema(db *gorm.DB, migrationsDir string, logger *slog.Logger) error {
	m := migrations.New(logger)
	m.Register("0001_initial_schema", func(tx *gorm.DB) error {
		return tx.AutoMigrate(Tables()...)
	})
	m.Register("0002_weekly_plan_unique_slot", uniquePlanSlot)

	if migrationsDir != "" {
		if err := m.LoadSQLDir(migrationsDir); err != nil {
			return fmt.Errorf("failed to load migrations: %w", err)
		}
	}

	if err := m.Run(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	applied, err := m.Applied(db)
	if err != nil {
		return err
	}
	logger.Debug("Schema up to date", "applied_migrations", len(applied))
	return nil
}

// uniquePlanSlot keeps the newest row of every (usuario_id, dia, comida)
// group and adds the unique index used by the plan upsert.
func uniquePlanSlot(tx *gorm.DB) error {
	var dedupe string
	switch tx.Dialector.Name() {
	case "postgres":
		dedupe = `DELETE FROM planificacion_semanal a
			USING planificacion_semanal b
			WHERE a.usuario_id = b.usuario_id AND a.dia = b.dia AND a.comida = b.comida
			AND a.ctid < b.ctid`
	default:
		dedupe = `DELETE FROM planificacion_semanal
			WHERE rowid NOT IN (
				SELECT MAX(rowid) FROM planificacion_semanal GROUP BY usuario_id, dia, comida
			)`
	}
	if err := tx.Exec(dedupe).Error; err != nil {
		return fmt.Errorf("failed to remove duplicate plan entries: %w", err)
	}

	return tx.Exec("CREATE UNIQUE INDEX IF NOT EXISTS " + planSlotIndex +
		" ON planificacion_semanal (usuario_id, dia, comida)").Error
}

// Ping checks that the store is reachable.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
