package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Store    StoreConfig
	API      APIConfig
	Gateway  GatewayConfig
}

type ServerConfig struct {
	Port int
	Env  string // "development", "production"
}

type DatabaseConfig struct {
	Host    string
	Port    string
	Name    string
	User    string
	Pass    string
	Charset string
}

type RedisConfig struct {
	Addr string
	Pass string
	DB   int
}

// StoreConfig points back at the storefront the payer is returned to.
type StoreConfig struct {
	// HomeURL is the neutral destination every terminated callback resolves to.
	HomeURL string
	// CompletedURL is the order-completion destination; the order id is
	// appended as a path segment.
	CompletedURL string
	// PendingOrderTTL is how long an order may stay pending before the
	// expiry job cancels it.
	PendingOrderTTL time.Duration
}

type APIConfig struct {
	Key string
}

// GatewayConfig holds protocol tunables. Credentials live in the database,
// not here.
type GatewayConfig struct {
	VerifyTimeout time.Duration
	// DedupTTL is how long a processed transactionKey is remembered.
	DedupTTL time.Duration
}

// Load reads configuration from .env file and environment variables.
func Load() (*Config, error) {
	// Load .env file (ignore error if missing)
	_ = godotenv.Load()

	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("APP_PORT", 8080)
	viper.SetDefault("APP_ENV", "production")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "3306")
	viper.SetDefault("DB_CHARSET", "utf8mb4")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("STORE_HOME_URL", "/")
	viper.SetDefault("STORE_COMPLETED_URL", "/checkout/completed")
	viper.SetDefault("PENDING_ORDER_TTL", "24h")
	viper.SetDefault("VERIFY_TIMEOUT", "15s")
	viper.SetDefault("CALLBACK_DEDUP_TTL", "30m")

	pendingTTL, err := time.ParseDuration(viper.GetString("PENDING_ORDER_TTL"))
	if err != nil {
		pendingTTL = 24 * time.Hour
	}
	verifyTimeout, err := time.ParseDuration(viper.GetString("VERIFY_TIMEOUT"))
	if err != nil {
		verifyTimeout = 15 * time.Second
	}
	dedupTTL, err := time.ParseDuration(viper.GetString("CALLBACK_DEDUP_TTL"))
	if err != nil {
		dedupTTL = 30 * time.Minute
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: viper.GetInt("APP_PORT"),
			Env:  viper.GetString("APP_ENV"),
		},
		Database: DatabaseConfig{
			Host:    viper.GetString("DB_HOST"),
			Port:    viper.GetString("DB_PORT"),
			Name:    viper.GetString("DB_NAME"),
			User:    viper.GetString("DB_USER"),
			Pass:    viper.GetString("DB_PASS"),
			Charset: viper.GetString("DB_CHARSET"),
		},
		Redis: RedisConfig{
			Addr: viper.GetString("REDIS_ADDR"),
			Pass: viper.GetString("REDIS_PASS"),
			DB:   viper.GetInt("REDIS_DB"),
		},
		Store: StoreConfig{
			HomeURL:         viper.GetString("STORE_HOME_URL"),
			CompletedURL:    viper.GetString("STORE_COMPLETED_URL"),
			PendingOrderTTL: pendingTTL,
		},
		API: APIConfig{
			Key: viper.GetString("API_KEY"),
		},
		Gateway: GatewayConfig{
			VerifyTimeout: verifyTimeout,
			DedupTTL:      dedupTTL,
		},
	}

	if cfg.Database.Name == "" {
		log.Println("WARNING: DB_NAME is not set")
	}
	if cfg.API.Key == "" {
		log.Println("WARNING: API_KEY is not set, admin API is locked")
	}

	return cfg, nil
}

// LoadDatabaseOnly reads just the database configuration, for bootstrap runs.
func LoadDatabaseOnly() (*DatabaseConfig, error) {
	_ = godotenv.Load()

	viper.AutomaticEnv()
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "3306")
	viper.SetDefault("DB_CHARSET", "utf8mb4")

	return &DatabaseConfig{
		Host:    viper.GetString("DB_HOST"),
		Port:    viper.GetString("DB_PORT"),
		Name:    viper.GetString("DB_NAME"),
		User:    viper.GetString("DB_USER"),
		Pass:    viper.GetString("DB_PASS"),
		Charset: viper.GetString("DB_CHARSET"),
	}, nil
}

// DSN returns the MySQL DSN string for GORM.
func (d *DatabaseConfig) DSN() string {
	return d.User + ":" + d.Pass + "@tcp(" + d.Host + ":" + d.Port + ")/" + d.Name + "?charset=" + d.Charset + "&parseTime=True&loc=Local"
}
