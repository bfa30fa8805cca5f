package shared

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // TIMEZONE must resolve on hosts without zoneinfo

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"cafe_finder/internal/domain"
)

type Config struct {
	AppEnv         string
	HTTPAddr       string
	MetricsAddr    string
	RequestTimeout time.Duration
	CORSOrigins    []string

	Storage      string // memory | mysql
	MySQLDSN     string
	MySQLMigrate bool

	RedisAddr string // empty disables caching
	RedisDB   int
	RedisPass string
	CacheTTL  time.Duration

	PlacesBase string
	PlacesKey  string // empty disables live lookups
	PlacesRPS  int

	ImportWorkers int
	ImportCenter  domain.Coords
	ImportRadius  int // meters
	ImportKeyword string

	Location      *time.Location
	ReviewDefault domain.ReviewStatus
}

// Load reads the environment, after merging an optional .env file from the
// working directory. Variables already set win over the file.
func Load() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Msg(".env could not be read")
	}

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Msg("not an integer, using default")
		}
		return def
	}
	atof := func(k string, def float64) float64 {
		if v := os.Getenv(k); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return f
			}
			log.Warn().Str("key", k).Str("value", v).Msg("not a number, using default")
		}
		return def
	}

	c := Config{
		AppEnv:         env("APP_ENV", "prod"),
		HTTPAddr:       env("HTTP_ADDR", ":8080"),
		MetricsAddr:    os.Getenv("METRICS_ADDR"),
		RequestTimeout: time.Duration(atoi("REQUEST_TIMEOUT_SECONDS", 15)) * time.Second,
		CORSOrigins:    splitCSV(os.Getenv("CORS_ORIGINS")),
		Storage:        strings.ToLower(env("STORAGE", "memory")),
		MySQLDSN:       env("MYSQL_DSN", "root:root@tcp(localhost:3306)/cafes?parseTime=true&charset=utf8mb4&loc=UTC"),
		MySQLMigrate:   env("MYSQL_MIGRATE", "true") == "true",
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPass:      env("REDIS_PASSWORD", ""),
		RedisDB:        atoi("REDIS_DB", 0),
		CacheTTL:       time.Duration(atoi("CACHE_TTL_SECONDS", 300)) * time.Second,
		PlacesBase:     env("PLACES_BASE_URL", "https://maps.googleapis.com/maps/api/place"),
		PlacesKey:      os.Getenv("PLACES_API_KEY"),
		PlacesRPS:      atoi("PLACES_RPS", 5),
		ImportWorkers:  atoi("IMPORT_WORKERS", 4),
		ImportCenter:   domain.Coords{Lat: atof("IMPORT_LAT", 37.8715), Lng: atof("IMPORT_LNG", -122.2730)},
		ImportRadius:   atoi("IMPORT_RADIUS_METERS", 5000),
		ImportKeyword:  env("IMPORT_KEYWORD", ""),
		ReviewDefault:  domain.ReviewStatus(strings.ToLower(env("REVIEW_DEFAULT_STATUS", string(domain.ReviewApproved)))),
	}

	tz := env("TIMEZONE", "UTC")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Warn().Err(err).Str("timezone", tz).Msg("unknown time zone, using UTC")
		loc = time.UTC
	}
	c.Location = loc

	if !c.ReviewDefault.Valid() {
		log.Warn().Str("status", string(c.ReviewDefault)).Msg("REVIEW_DEFAULT_STATUS is invalid, using approved")
		c.ReviewDefault = domain.ReviewApproved
	}
	if c.Storage != "memory" && c.Storage != "mysql" {
		log.Warn().Str("storage", c.Storage).Msg("unknown STORAGE, using memory")
		c.Storage = "memory"
	}
	if c.PlacesKey == "" {
		log.Warn().Msg("PLACES_API_KEY is empty; live places lookups are disabled")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
