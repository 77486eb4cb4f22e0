package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"pawnshop-ledger/internal/usecase/ledger"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds process settings. A TOML file named by CONFIG_FILE is
// applied over the defaults; environment variables win over both.
type Config struct {
	AppPort string `toml:"app_port"`

	DBDriver string `toml:"db_driver"`

	MySQLHost string `toml:"mysql_host"`
	MySQLPort string `toml:"mysql_port"`
	MySQLDB   string `toml:"mysql_db"`
	MySQLUser string `toml:"mysql_user"`
	MySQLPass string `toml:"mysql_pass"`

	PostgresDSN string `toml:"postgres_dsn"`
	SQLitePath  string `toml:"sqlite_path"`

	RedisAddr string `toml:"redis_addr"`
	RedisDB   int    `toml:"redis_db"`

	IdempTTLSecs int `toml:"idempotency_ttl_seconds"`

	BaseCapital         string `toml:"base_capital"`
	ForfeitMarkup       string `toml:"forfeit_markup"`
	DefaultInterestRate int    `toml:"default_interest_rate"`
	DefaultLoanDays     int    `toml:"default_loan_days"`

	// Redis pub/sub channel for notifications; empty keeps them in the log only
	NotifyChannel string `toml:"notify_channel"`

	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getint(k string, d int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return d, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", k, v, err)
	}
	return n, nil
}

func defaults() *Config {
	return &Config{
		AppPort:   "8080",
		DBDriver:  DriverMySQL,
		MySQLHost: "mysql",
		MySQLPort: "3306",
		MySQLDB:   "pawnshop",
		MySQLUser: "pawnshop",
		MySQLPass: "pawnshop",

		SQLitePath: "pawnshop.db",

		RedisAddr:    "redis:6379",
		IdempTTLSecs: 300,

		BaseCapital:         "100000",
		ForfeitMarkup:       "1.05",
		DefaultInterestRate: 5,
		DefaultLoanDays:     30,

		NotifyChannel: "pawnshop:notifications",
		LogLevel:      "info",
		LogFormat:     "json",
	}
}

// Load reads .env if present, then CONFIG_FILE, then the environment.
func Load() (*Config, error) {
	// a missing .env is normal outside local development
	_ = godotenv.Load()

	c := defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if _, err := toml.DecodeFile(path, c); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
	}

	c.AppPort = getenv("APP_PORT", c.AppPort)
	c.DBDriver = strings.ToLower(getenv("DB_DRIVER", c.DBDriver))
	c.MySQLHost = getenv("MYSQL_HOST", c.MySQLHost)
	c.MySQLPort = getenv("MYSQL_PORT", c.MySQLPort)
	c.MySQLDB = getenv("MYSQL_DB", c.MySQLDB)
	c.MySQLUser = getenv("MYSQL_USER", c.MySQLUser)
	c.MySQLPass = getenv("MYSQL_PASS", c.MySQLPass)
	c.PostgresDSN = getenv("POSTGRES_DSN", c.PostgresDSN)
	c.SQLitePath = getenv("SQLITE_PATH", c.SQLitePath)
	c.RedisAddr = getenv("REDIS_ADDR", c.RedisAddr)
	c.BaseCapital = getenv("BASE_CAPITAL", c.BaseCapital)
	c.ForfeitMarkup = getenv("FORFEIT_MARKUP", c.ForfeitMarkup)
	c.NotifyChannel = getenv("NOTIFY_CHANNEL", c.NotifyChannel)
	c.LogLevel = getenv("LOG_LEVEL", c.LogLevel)
	c.LogFormat = getenv("LOG_FORMAT", c.LogFormat)

	var err error
	if c.RedisDB, err = getint("REDIS_DB", c.RedisDB); err != nil {
		return nil, err
	}
	if c.IdempTTLSecs, err = getint("IDEMPOTENCY_TTL_SECONDS", c.IdempTTLSecs); err != nil {
		return nil, err
	}
	if c.DefaultInterestRate, err = getint("DEFAULT_INTEREST_RATE", c.DefaultInterestRate); err != nil {
		return nil, err
	}
	if c.DefaultLoanDays, err = getint("DEFAULT_LOAN_DAYS", c.DefaultLoanDays); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) Validate() error {
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	switch c.DBDriver {
	case DriverMySQL:
		if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
			return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
		}
		// ensure port is valid
		if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
			return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
		}
	case DriverPostgres:
		if c.PostgresDSN == "" {
			return errors.New("missing POSTGRES_DSN")
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return errors.New("missing SQLITE_PATH")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if _, err := c.Ledger(); err != nil {
		return err
	}
	return nil
}

// Ledger converts the ledger constants into engine settings.
func (c *Config) Ledger() (ledger.Settings, error) {
	s := ledger.DefaultSettings()
	base, err := decimal.NewFromString(c.BaseCapital)
	if err != nil {
		return s, fmt.Errorf("invalid BASE_CAPITAL %q: %w", c.BaseCapital, err)
	}
	if base.IsNegative() {
		return s, fmt.Errorf("BASE_CAPITAL must not be negative, got %s", base)
	}
	markup, err := decimal.NewFromString(c.ForfeitMarkup)
	if err != nil {
		return s, fmt.Errorf("invalid FORFEIT_MARKUP %q: %w", c.ForfeitMarkup, err)
	}
	if markup.LessThan(decimal.NewFromInt(1)) {
		return s, fmt.Errorf("FORFEIT_MARKUP must be at least 1, got %s", markup)
	}
	if c.DefaultInterestRate < 0 || c.DefaultInterestRate > 100 {
		return s, fmt.Errorf("DEFAULT_INTEREST_RATE must be between 0 and 100, got %d", c.DefaultInterestRate)
	}
	if c.DefaultLoanDays <= 0 {
		return s, fmt.Errorf("DEFAULT_LOAN_DAYS must be positive, got %d", c.DefaultLoanDays)
	}
	s.BaseCapital = base
	s.ForfeitMarkup = markup
	s.DefaultInterestRate = c.DefaultInterestRate
	s.DefaultLoanDays = c.DefaultLoanDays
	return s, nil
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// multiStatements=true is handy for migrations; parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}
