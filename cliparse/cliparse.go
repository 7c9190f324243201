package cliparse

import (
	"errors"
	"flag"
	"os"
	"strconv"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
	PublicDomain string
	RequireOwner bool
}

// ParseFlags validates flags and fills in environment fallbacks
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("tap-survey", flag.ContinueOnError)

	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.PublicDomain, "domain", "", "Public domain used in https tag URLs")
	fs.BoolVar(&cfg.RequireOwner, "require-owner", false, "Require X-Owner-ID for survey creation")

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
			cfg.Port = 3318 // default
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

	if cfg.PublicDomain == "" {
		cfg.PublicDomain = os.Getenv("PUBLIC_DOMAIN")
		if cfg.PublicDomain == "" {
			cfg.PublicDomain = "tap-survey.app"
		}
	}

	// Env can only turn this on; the flag default is false.
	if !cfg.RequireOwner {
		if v := os.Getenv("REQUIRE_OWNER"); v != "" {
			required, err := strconv.ParseBool(v)
			if err != nil {
				return Config{}, errors.New("invalid REQUIRE_OWNER env variable")
			}
			cfg.RequireOwner = required
		}
	}

	return cfg, nil
}
