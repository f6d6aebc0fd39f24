package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	"github.com/rs/zerolog/log"

	"github.com/zatekoja/dentalclinic/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/dentalclinic/internal/infrastructure/observability"
	"github.com/zatekoja/dentalclinic/pkg/config"
)

const usage = "usage: migrate [up | down | version | force <version>]"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	observability.InitLogger(observability.LoggerOptions{Service: "dental-clinic-migrate", Clinic: cfg.Clinic.Name, Env: cfg.Log.Env, Level: cfg.Log.Level})

	command := "up"
	if len(os.Args) >= 2 {
		command = os.Args[1]
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pgClient.Close()

	m, err := postgres.NewMigrator(pgClient)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create migrator")
	}
	defer func() { _, _ = m.Close() }()

	switch command {
	case "up":
		err = m.Up()
	case "down":
		// One step only; dropping the whole schema needs repeated calls
		err = m.Steps(-1)
	case "force":
		if len(os.Args) < 3 {
			log.Fatal().Msg(usage)
		}
		version, convErr := strconv.Atoi(os.Args[2])
		if convErr != nil {
			log.Fatal().Err(convErr).Msg("Invalid version")
		}
		err = m.Force(version)
	case "version":
	default:
		log.Fatal().Str("command", command).Msg(usage)
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Fatal().Err(err).Str("command", command).Msg("Migration failed")
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		log.Fatal().Err(err).Msg("Failed to read migration version")
	}
	log.Info().Str("command", command).Uint("version", version).Bool("dirty", dirty).Msg("Migrations complete")
}
