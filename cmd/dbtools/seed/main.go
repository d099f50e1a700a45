// cmd/dbtools/seed/main.go
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/codr1/Clubhouse/internal/config"
	"github.com/codr1/Clubhouse/internal/db"
)

func main() {
	var (
		configPath = flag.String("config", "config.yaml", "Path to the YAML config file")
		dbPath     = flag.String("db", "", "Path to SQLite database (overrides the config file)")
		seed       = flag.Int64("seed", time.Now().UnixNano(), "Random seed for reproducible data")
		force      = flag.Bool("force", false, "Seed even when the database already has sports")
	)
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	filename := *dbPath
	if filename == "" {
		cfg, err := config.Load(*configPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", *configPath).Msg("Failed to load configuration")
		}
		filename = cfg.Database.Filename
	}

	database, err := db.New(filename)
	if err != nil {
		log.Fatal().Err(err).Str("db", filename).Msg("Failed to open database")
	}
	defer database.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	existing, err := database.Queries.CountSports(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to inspect database")
	}
	if existing > 0 && !*force {
		log.Warn().Int64("sports", existing).Msg("Database already has data; pass -force to seed anyway")
		return
	}

	summary, err := Seed(ctx, database, DefaultCounts(), *seed, time.Now())
	if err != nil {
		log.Fatal().Err(err).Msg("Seeding failed")
	}
	log.Info().
		Int64("seed", *seed).
		Int("sports", summary.Sports).
		Int("teams", summary.Teams).
		Int("players", summary.Players).
		Int("events", summary.Events).
		Int("blogs", summary.Blogs).
		Msg("Database seeded")
}
