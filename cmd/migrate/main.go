package main

import (
	"context"
	"database/sql"
	"flag"
	"os"

	_ "github.com/lib/pq"

	"github.com/hatef97/office-supplies-website/internal/config"
	"github.com/hatef97/office-supplies-website/internal/logging"
	"github.com/hatef97/office-supplies-website/internal/migrations"
)

func main() {
	cmd := flag.String("cmd", "up", "migration command: up|down|status|version|redo|reset")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		bl := logging.New("info")
		bl.Fatal().Err(err).Msg("config_load_failed")
	}
	l := logging.New(cfg.LogLevel).With().Str("cmd", *cmd).Logger()

	if cfg.DBDriver != "postgres" {
		l.Error().Str("driver", cfg.DBDriver).Msg("migrations run against postgres only, use DB_AUTO_MIGRATE for sqlite")
		os.Exit(1)
	}

	sqlDB, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		l.Fatal().Err(err).Msg("db_open_failed")
	}
	defer sqlDB.Close()

	if err := migrations.Run(context.Background(), sqlDB, *cmd, flag.Args()...); err != nil {
		l.Error().Err(err).Msg("migrate_failed")
		os.Exit(1)
	}
	l.Info().Msg("migrate_done")
}
