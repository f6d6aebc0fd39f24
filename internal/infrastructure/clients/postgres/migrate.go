package postgres

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog/log"
	"github.com/zatekoja/dentalclinic/migrations"
)

// NewMigrator builds a migrator over the embedded schema files
func NewMigrator(c *Client) (*migrate.Migrate, error) {
	dbDriver, err := migratepg.WithInstance(c.DB(), &migratepg.Config{})
	if err != nil {
		return nil, fmt.Errorf("migration db driver: %w", err)
	}

	srcDriver, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return nil, fmt.Errorf("migration source driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", srcDriver, "postgres", dbDriver)
	if err != nil {
		return nil, fmt.Errorf("create migrator: %w", err)
	}
	return m, nil
}

// Migrate applies every pending up migration
func Migrate(c *Client) error {
	m, err := NewMigrator(c)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("read migration version: %w", err)
	}
	log.Info().Uint("version", version).Bool("dirty", dirty).Msg("Database schema is up to date")
	return nil
}
