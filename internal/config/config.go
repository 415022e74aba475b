package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort  string
	AppEnv   string
	LogLevel string

	DBDriver      string // mysql | sqlite
	DBAutoMigrate bool

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	SQLitePath string

	RedisAddr string
	RedisDB   int

	IdempTTLSecs int

	JWTSecret string
	JWTIssuer string

	AdminEmail string

	DefaultInterestRate   float64
	GoldPricePerGram      float64
	MaxLoanToValuePercent float64
	MaxTenureMonths       int
	ConflictRetries       int
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getint(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func getfloat(k string, d float64) float64 {
	if v := os.Getenv(k); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return d
}

func getbool(k string, d bool) bool {
	if v := os.Getenv(k); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return d
}

// Load reads an optional .env file, then the environment.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		AppPort:  getenv("APP_PORT", "8080"),
		AppEnv:   getenv("APP_ENV", "development"),
		LogLevel: getenv("LOG_LEVEL", "info"),

		DBDriver:      strings.ToLower(getenv("DB_DRIVER", "mysql")),
		DBAutoMigrate: getbool("DB_AUTO_MIGRATE", true),

		MySQLHost: getenv("MYSQL_HOST", "mysql"),
		MySQLPort: getenv("MYSQL_PORT", "3306"),
		MySQLDB:   getenv("MYSQL_DB", "goldvault"),
		MySQLUser: getenv("MYSQL_USER", "goldvault"),
		MySQLPass: getenv("MYSQL_PASS", "goldvault"),

		SQLitePath: getenv("SQLITE_PATH", "goldvault.db"),

		RedisAddr:    getenv("REDIS_ADDR", "redis:6379"),
		RedisDB:      getint("REDIS_DB", 0),
		IdempTTLSecs: getint("IDEMPOTENCY_TTL_SECONDS", 300),

		JWTSecret: os.Getenv("AUTH_JWT_SECRET"),
		JWTIssuer: os.Getenv("AUTH_JWT_ISSUER"),

		AdminEmail: strings.ToLower(strings.TrimSpace(os.Getenv("ADMIN_EMAIL"))),

		DefaultInterestRate:   getfloat("DEFAULT_INTEREST_RATE", 11.0),
		GoldPricePerGram:      getfloat("GOLD_PRICE_PER_GRAM", 5986.25),
		MaxLoanToValuePercent: getfloat("MAX_LTV_PERCENT", 70),
		MaxTenureMonths:       getint("MAX_TENURE_MONTHS", 360),
		ConflictRetries:       getint("CONFLICT_RETRIES", 3),
	}
}

func (c *Config) Validate() error {
	switch c.DBDriver {
	case "mysql":
		if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
			return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
		}
		// ensure port is valid
		if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
			return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
		}
	case "sqlite":
		if c.SQLitePath == "" {
			return errors.New("missing SQLITE_PATH")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (mysql|sqlite)", c.DBDriver)
	}
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if len(c.JWTSecret) < 16 {
		return errors.New("AUTH_JWT_SECRET must be at least 16 bytes")
	}
	if c.IdempTTLSecs <= 0 {
		return errors.New("IDEMPOTENCY_TTL_SECONDS must be positive")
	}
	if c.DefaultInterestRate < 0 || c.DefaultInterestRate > 100 {
		return fmt.Errorf("DEFAULT_INTEREST_RATE %v out of range [0,100]", c.DefaultInterestRate)
	}
	if c.GoldPricePerGram < 0 {
		return errors.New("GOLD_PRICE_PER_GRAM must not be negative")
	}
	if c.MaxLoanToValuePercent < 0 || c.MaxLoanToValuePercent > 100 {
		return fmt.Errorf("MAX_LTV_PERCENT %v out of range [0,100]", c.MaxLoanToValuePercent)
	}
	if c.MaxTenureMonths < 1 || c.MaxTenureMonths > 360 {
		return fmt.Errorf("MAX_TENURE_MONTHS %d out of range [1,360]", c.MaxTenureMonths)
	}
	if c.ConflictRetries < 1 {
		return errors.New("CONFLICT_RETRIES must be at least 1")
	}
	return nil
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// multiStatements=true is handy for migrations; parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}

// DSN is the data source for the configured driver.
func (c *Config) DSN() string {
	if c.DBDriver == "sqlite" {
		return c.SQLitePath
	}
	return c.MySQLDSN()
}

func (c *Config) IsProduction() bool { return c.AppEnv == "production" }
