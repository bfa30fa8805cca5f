package main

import (
	"context"
	"database/sql"
	"flag"
	"os/signal"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"cafe_finder/internal/adapters/observability"
	"cafe_finder/internal/adapters/places"
	redisad "cafe_finder/internal/adapters/redis"
	"cafe_finder/internal/app"
	"cafe_finder/internal/domain"
	"cafe_finder/internal/shared"
	mysqlrepo "cafe_finder/internal/storage/mysql"
)

// importer pulls cafés around a point from the places directory into MySQL.
func main() {
	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	lat := flag.Float64("lat", cfg.ImportCenter.Lat, "search centre latitude")
	lng := flag.Float64("lng", cfg.ImportCenter.Lng, "search centre longitude")
	radius := flag.Int("radius", cfg.ImportRadius, "search radius in meters")
	keyword := flag.String("keyword", cfg.ImportKeyword, "optional search keyword")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info().
		Str("base", cfg.PlacesBase).
		Int("workers", cfg.ImportWorkers).
		Float64("lat", *lat).
		Float64("lng", *lng).
		Int("radius", *radius).
		Msg("importer starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	if cfg.MySQLMigrate {
		if err := mysqlrepo.Migrate(ctx, db); err != nil {
			log.Fatal().Err(err).Msg("migrations failed")
		}
	}
	log.Info().Msg("db ping ok")

	client, err := places.New(cfg.PlacesBase, cfg.PlacesKey, cfg.PlacesRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize places client")
	}

	var cache domain.Cache
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer rc.Close()
		cache = rc
	}

	imp := app.NewImportService(client, mysqlrepo.New(db), cache, cfg.ImportWorkers, app.ClockIn(cfg.Location))
	res, err := imp.ImportNearby(ctx, domain.Coords{Lat: *lat, Lng: *lng}, *radius, *keyword)
	if err != nil {
		log.Fatal().Err(err).Int("imported", res.Imported).Msg("import failed")
	}
	log.Info().
		Int("found", res.Found).
		Int("imported", res.Imported).
		Int("failed", res.Failed).
		Msg("import completed")
}
