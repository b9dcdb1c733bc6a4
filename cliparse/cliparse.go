package cliparse

import (
	"errors"
	"flag"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
	JWTSecret    string
	AcademicYear string
	SweepSeconds int
	SensorPort   string
}

// ParseFlags validates flags, falling back to environment variables.
// A .env file in the working directory is honored when present.
func ParseFlags(args []string) (Config, error) {
	_ = godotenv.Load()

	var cfg Config

	fs := flag.NewFlagSet("campusvote", flag.ContinueOnError)

	// Network and storage config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	// Domain settings
	fs.StringVar(&cfg.AcademicYear, "year", "", "Current academic year (e.g. 2024-2025)")
	fs.IntVar(&cfg.SweepSeconds, "sweep", 0, "Seconds between expired-election sweeps")
	fs.StringVar(&cfg.SensorPort, "sensor", "", "Fingerprint sensor device path (optional)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", "", "JWT signing secret (prefer env)")

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
			cfg.Port = 8742 // default
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
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

	if cfg.AcademicYear == "" {
		cfg.AcademicYear = os.Getenv("ACADEMIC_YEAR")
		if cfg.AcademicYear == "" {
			cfg.AcademicYear = "2024-2025"
		}
	}

	if cfg.SweepSeconds == 0 {
		if sweepStr := os.Getenv("SWEEP_SECONDS"); sweepStr != "" {
			sweep, err := strconv.Atoi(sweepStr)
			if err != nil {
				return Config{}, errors.New("invalid SWEEP_SECONDS env variable")
			}
			cfg.SweepSeconds = sweep
		} else {
			cfg.SweepSeconds = 60
		}
	}

	if cfg.SensorPort == "" {
		cfg.SensorPort = os.Getenv("SENSOR_PORT")
	}

	// Secrets - MUST be provided
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = os.Getenv("JWT_SECRET")
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET required")
	}

	return cfg, nil
}
