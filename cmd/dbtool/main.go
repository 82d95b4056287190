package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/paradise-yatra/data-management-system-sub003/internal/adapters/repositories"
	"github.com/paradise-yatra/data-management-system-sub003/internal/config"
	"github.com/paradise-yatra/data-management-system-sub003/internal/platform/db"
	"github.com/paradise-yatra/data-management-system-sub003/internal/platform/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "dbtool:", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	var (
		databaseURL string
		catalogPath string
		seedPath    string
		migrate     bool
		logLevel    string
	)

	flagSet := pflag.NewFlagSet("dbtool", pflag.ContinueOnError)
	flagSet.StringVar(&databaseURL, "database-url", config.Get("DATABASE_URL", ""), "Postgres connection string")
	flagSet.BoolVar(&migrate, "migrate", false, "apply Postgres migrations")
	flagSet.StringVar(&catalogPath, "catalog-db", config.Get("CATALOG_DB_PATH", "data/catalog.db"), "SQLite place catalog path")
	flagSet.StringVar(&seedPath, "seed", "", "JSON file with places and closures to load into the catalog")
	flagSet.StringVar(&logLevel, "log-level", config.Get("LOG_LEVEL", "info"), "log level")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	if !migrate && seedPath == "" {
		flagSet.PrintDefaults()
		return fmt.Errorf("nothing to do: pass --migrate and/or --seed")
	}

	log, err := logger.New(logLevel, zap.String("service", "dbtool"))
	if err != nil {
		return err
	}
	defer log.Sync()

	if migrate {
		if databaseURL == "" {
			return fmt.Errorf("--database-url or DATABASE_URL is required for --migrate")
		}

		pg, err := db.Open(databaseURL)
		if err != nil {
			return err
		}
		defer pg.Close()

		if err := db.Migrate(pg, log); err != nil {
			return err
		}
	}

	if seedPath != "" {
		catalog, err := db.OpenSQLite(catalogPath)
		if err != nil {
			return err
		}
		defer catalog.Close()

		log.Info("initializing catalog schema", zap.String("path", catalogPath))
		if err := repositories.InitSchema(catalog); err != nil {
			return err
		}

		log.Info("seeding catalog", zap.String("seed", seedPath))
		if err := repositories.SeedFromJSON(catalog, seedPath); err != nil {
			return err
		}
		log.Info("seeding complete")
	}

	return nil
}
