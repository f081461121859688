package config

import (
	"log"
	"os"
	"strings"
	"time"
)

const (
	defaultEnv          = "dev"
	defaultDBPath       = "./dev.db"
	defaultPort         = "8080"
	defaultBusinessName = "Chef de Valor"
	defaultMemoTTL      = 10 * time.Minute
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	Env           string
	AdminEmail    string
	AdminPassword string
	SessionSecret string
	DBPath        string
	// MigrationsDir overrides the migrations bundled into the binary.
	MigrationsDir string
	Port          string
	BusinessName  string
	SeedCatalog   string
	LogLevel      string
	MemoTTL       time.Duration
}

// Load reads environment variables and returns a populated Config.
func Load() Config {
	_ = loadDotEnv(".env")

	cfg := Config{
		Env:           os.Getenv("APP_ENV"),
		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		DBPath:        os.Getenv("DB_PATH"),
		MigrationsDir: os.Getenv("MIGRATIONS_DIR"),
		Port:          os.Getenv("PORT"),
		BusinessName:  os.Getenv("BUSINESS_NAME"),
		SeedCatalog:   os.Getenv("SEED_CATALOG"),
		LogLevel:      os.Getenv("LOG_LEVEL"),
		MemoTTL:       defaultMemoTTL,
	}

	if cfg.Env == "" {
		cfg.Env = defaultEnv
	}
	if cfg.DBPath == "" {
		cfg.DBPath = defaultDBPath
	}
	if cfg.Port == "" {
		cfg.Port = defaultPort
	}
	if cfg.BusinessName == "" {
		cfg.BusinessName = defaultBusinessName
	}
	if raw := os.Getenv("MEMO_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil || ttl <= 0 {
			log.Printf("warning: MEMO_TTL=%q is not a positive duration, using %s", raw, defaultMemoTTL)
		} else {
			cfg.MemoTTL = ttl
		}
	}

	if cfg.AdminEmail == "" {
		log.Print("warning: ADMIN_EMAIL is not set")
	}
	if cfg.AdminPassword == "" {
		log.Print("warning: ADMIN_PASSWORD is not set")
	}
	if cfg.SessionSecret == "" {
		log.Print("warning: SESSION_SECRET is not set")
	}

	return cfg
}

// IsDev reports whether the app runs in development mode, where migrations
// are applied on startup.
func (c Config) IsDev() bool {
	return strings.EqualFold(c.Env, "dev") || strings.EqualFold(c.Env, "development")
}
