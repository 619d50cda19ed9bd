package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StoragePgx      = "pgx"
)

type PsqlConfig struct {
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Database string `mapstructure:"database"`
	Sslmode  string `mapstructure:"sslmode"`
}

type HTTPConfig struct {
	Env  string `mapstructure:"env"`
	Port int    `mapstructure:"port"`
}

type StorageConfig struct {
	Driver string `mapstructure:"driver"`
}

type BackendConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
	// CheckVouchers enables the backend lookup for codes missing from the local rule set.
	CheckVouchers bool `mapstructure:"check_vouchers"`
}

type BookingConfig struct {
	Variant  string        `mapstructure:"variant"`
	Duration time.Duration `mapstructure:"duration"`
	Deposit  string        `mapstructure:"deposit"`
	// DepositWaiverMin is the food and drink subtotal at which a table deposit is waived. "0" disables it.
	DepositWaiverMin string `mapstructure:"deposit_waiver_min"`
}

type CatalogConfig struct {
	PageSize int `mapstructure:"page_size"`
}

type VoucherRule struct {
	Code        string `mapstructure:"code"`
	Kind        string `mapstructure:"kind"`
	Value       string `mapstructure:"value"`
	DisplayName string `mapstructure:"display_name"`
}

type Config struct {
	HTTP     HTTPConfig    `mapstructure:"http"`
	Psql     PsqlConfig    `mapstructure:"psql_conn"`
	Storage  StorageConfig `mapstructure:"storage"`
	Backend  BackendConfig `mapstructure:"backend"`
	Booking  BookingConfig `mapstructure:"booking"`
	Catalog  CatalogConfig `mapstructure:"catalog"`
	Vouchers []VoucherRule `mapstructure:"vouchers"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.env", EnvLocal)
	v.SetDefault("http.port", 8080)

	v.SetDefault("psql_conn.host", "localhost")
	v.SetDefault("psql_conn.port", 5432)
	v.SetDefault("psql_conn.user", "postgres")
	v.SetDefault("psql_conn.database", "restoapi")
	v.SetDefault("psql_conn.sslmode", "disable")

	v.SetDefault("storage.driver", StorageMemory)

	v.SetDefault("backend.base_url", "http://localhost:8000/api/")
	v.SetDefault("backend.timeout", 10*time.Second)
	v.SetDefault("backend.check_vouchers", true)

	v.SetDefault("booking.variant", "direct")
	v.SetDefault("booking.duration", 2*time.Hour)
	v.SetDefault("booking.deposit", "50000")
	v.SetDefault("booking.deposit_waiver_min", "0")

	v.SetDefault("catalog.page_size", 8)

	v.SetDefault("vouchers", []map[string]any{
		{"code": "UNSPROMO", "kind": "percentage", "value": "0.1", "display_name": "UNS promo 10%"},
	})
}

// Load reads config.yaml from CONFIG_PATH (or the working directory) and lets
// RESTO_* environment variables override it. A .env file is loaded first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		v.AddConfigPath(path)
	}
	v.AddConfigPath(".")

	v.SetEnvPrefix("RESTO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Printf("Error reading config file, %s\n", err)
			return nil, err
		}
		log.Printf("Config file not found, using defaults and environment\n")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Printf("Unable to decode into struct, %v\n", err)
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.HTTP.Env {
	case EnvLocal, EnvDev, EnvProd:
	default:
		return fmt.Errorf("config: unknown env %q", c.HTTP.Env)
	}
	switch c.Storage.Driver {
	case StorageMemory, StoragePostgres, StoragePgx:
	default:
		return fmt.Errorf("config: unknown storage driver %q", c.Storage.Driver)
	}
	if c.Catalog.PageSize <= 0 {
		return fmt.Errorf("config: catalog.page_size must be positive")
	}
	if c.Booking.Duration <= 0 {
		return fmt.Errorf("config: booking.duration must be positive")
	}
	return nil
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Psql.User, c.Psql.Password, c.Psql.Host, c.Psql.Port, c.Psql.Database, c.Psql.Sslmode)
}
