package cliparse

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         int
	DataFile     string
	DataFallback string
	DatabaseType string
	DatabaseURL  string
	SeedFile     string
	AdminKey     string
}

// ParseFlags validates flags, with environment variable fallback.
// A .env file in the working directory is loaded first if present.
func ParseFlags(args []string) (Config, error) {
	// Missing .env is the normal case, not an error.
	_ = godotenv.Load()

	var cfg Config

	fs := flag.NewFlagSet("quiz-stats", flag.ContinueOnError)

	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DataFile, "d", "", "SQLite data file path")
	fs.StringVar(&cfg.DataFallback, "fallback", "", "Fallback data file path if the primary is not writable")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.DatabaseURL, "database-url", "", "Postgres connection URL (postgres only)")
	fs.StringVar(&cfg.SeedFile, "seed", "", "JSON seed file for the question corpus")
	fs.StringVar(&cfg.AdminKey, "admin-key", "", "Admin key for /api/admin endpoints (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 8080 // default
		}
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, errors.New("database type must be sqlite or postgres")
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseType == "postgres" && cfg.DatabaseURL == "" {
		return Config{}, errors.New("DATABASE_URL required for postgres (use -database-url or env)")
	}

	if cfg.DataFile == "" {
		cfg.DataFile = os.Getenv("DATA_FILE")
	}
	if cfg.DataFile == "" {
		cfg.DataFile = filepath.Join("data", "quizstats.db")
	}

	if cfg.DataFallback == "" {
		cfg.DataFallback = os.Getenv("DATA_FALLBACK")
	}
	if cfg.DataFallback == "" {
		cfg.DataFallback = filepath.Join(os.TempDir(), "quizstats", "quizstats.db")
	}

	if cfg.SeedFile == "" {
		cfg.SeedFile = os.Getenv("SEED_FILE")
	}

	// Optional: when unset, admin endpoints are open
	if cfg.AdminKey == "" {
		cfg.AdminKey = os.Getenv("ADMIN_KEY")
	}

	return cfg, nil
}
