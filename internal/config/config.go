package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	AppPort string `yaml:"app_port"`

	DBDriver string `yaml:"db_driver"`
	DBDSN    string `yaml:"db_dsn"`
	LogSQL   bool   `yaml:"log_sql"`

	RedisAddr string `yaml:"redis_addr"`
	RedisDB   int    `yaml:"redis_db"`

	IdempTTLSecs int `yaml:"idempotency_ttl_seconds"`

	JWTSecret string `yaml:"jwt_secret"`
	BackupDir string `yaml:"backup_dir"`
}

var supportedDrivers = map[string]bool{"sqlite": true, "mysql": true, "postgres": true}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func defaults() *Config {
	return &Config{
		AppPort:      "8080",
		DBDriver:     "sqlite",
		DBDSN:        "library.db",
		IdempTTLSecs: 300,
		BackupDir:    "backups",
	}
}

// Load layers .env, then the YAML file named by CONFIG_FILE, then env vars.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("config: .env not loaded: %v", err)
	}

	c := defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := c.loadFile(path); err != nil {
			log.Printf("config: %v", err)
		}
	}

	c.AppPort = getenv("APP_PORT", c.AppPort)
	c.DBDriver = strings.ToLower(getenv("DB_DRIVER", c.DBDriver))
	c.DBDSN = getenv("DB_DSN", c.DBDSN)
	c.RedisAddr = getenv("REDIS_ADDR", c.RedisAddr)
	c.JWTSecret = getenv("JWT_SECRET", c.JWTSecret)
	c.BackupDir = getenv("BACKUP_DIR", c.BackupDir)

	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RedisDB = n
		}
	}
	if v := os.Getenv("IDEMPOTENCY_TTL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.IdempTTLSecs = n
		}
	}
	if v := os.Getenv("LOG_SQL"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.LogSQL = b
		}
	}
	return c
}

func (c *Config) loadFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) Validate() error {
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if _, err := strconv.Atoi(c.AppPort); err != nil {
		return fmt.Errorf("invalid APP_PORT %q: %w", c.AppPort, err)
	}
	if !supportedDrivers[c.DBDriver] {
		return fmt.Errorf("unsupported DB_DRIVER %q (sqlite, mysql, postgres)", c.DBDriver)
	}
	if strings.TrimSpace(c.DBDSN) == "" {
		return errors.New("missing DB_DSN")
	}
	if c.JWTSecret == "" {
		return errors.New("missing JWT_SECRET")
	}
	if c.IdempTTLSecs <= 0 {
		return errors.New("IDEMPOTENCY_TTL_SECONDS must be positive")
	}
	return nil
}

func (c *Config) RedisEnabled() bool { return c.RedisAddr != "" }
