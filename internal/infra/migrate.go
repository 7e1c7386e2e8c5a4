package infra

import (
	"embed"
	"errors"
	"fmt"

	"workforce/internal/model"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Models lists every table owned by the application.
func Models() []interface{} {
	return []interface{}{
		&model.Company{},
		&model.User{},
		&model.Task{},
		&model.Subtask{},
		&model.WorkerHours{},
		&model.Signature{},
		&model.Request{},
		&model.Note{},
	}
}

// Migrate brings the schema up to date. Postgres is driven by the embedded SQL
// migrations; SQLite databases are created with AutoMigrate from the models.
func Migrate(db *gorm.DB) error {
	if isSQLite(db) {
		return db.AutoMigrate(Models()...)
	}
	m, err := newMigrator(db)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}
	version, dirty, _ := m.Version()
	log.Info().Uint("version", version).Bool("dirty", dirty).Msg("schema migrated")
	return nil
}

// MigrateDown rolls back the last applied migration.
func MigrateDown(db *gorm.DB) error {
	if isSQLite(db) {
		return errors.New("migrate down is only supported on postgres")
	}
	m, err := newMigrator(db)
	if err != nil {
		return err
	}
	if err := m.Steps(-1); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate down: %w", err)
	}
	return nil
}

// MigrationVersion reports the applied migration version; 0 means none.
func MigrationVersion(db *gorm.DB) (uint, bool, error) {
	if isSQLite(db) {
		return 0, false, errors.New("sqlite schemas are not versioned")
	}
	m, err := newMigrator(db)
	if err != nil {
		return 0, false, err
	}
	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

// newMigrator binds golang-migrate to the connection pool owned by gorm.
// The returned instance must not be closed: that would close the pool.
func newMigrator(db *gorm.DB) (*migrate.Migrate, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	driver, err := migratepg.WithInstance(sqlDB, &migratepg.Config{})
	if err != nil {
		return nil, err
	}
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, err
	}
	return migrate.NewWithInstance("iofs", source, "postgres", driver)
}
