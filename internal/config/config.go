package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config holds all the configuration for the application.
type Config struct {
	Env          string `yaml:"env" env:"ENV" env-default:"production"`
	HTTPServer   `yaml:"http_server"`
	Database     `yaml:"database"`
	Auth         `yaml:"auth"`
	URLShortener `yaml:"url_shortener"`
	Redis        `yaml:"redis"`
	GeoIP        `yaml:"geoip"`
	Analytics    `yaml:"analytics"`
	Reaper       `yaml:"reaper"`
}

// HTTPServer holds HTTP server specific configuration.
type HTTPServer struct {
	Address      string        `yaml:"address" env:"HTTP_ADDRESS" env-default:":8080"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"30s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"30s"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

// Database holds PostgreSQL connection configuration.
type Database struct {
	Host            string `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port            int    `yaml:"port" env:"DB_PORT" env-default:"5432"`
	User            string `yaml:"user" env:"DB_USER" env-default:"postgres"`
	Password        string `yaml:"password" env:"DB_PASSWORD"`
	DBName          string `yaml:"dbname" env:"DB_NAME" env-default:"trimurl"`
	SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE" env-default:"disable"`
	Timezone        string `yaml:"timezone" env:"DB_TIMEZONE" env-default:"UTC"`
	MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS" env-default:"10"`
	MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS" env-default:"50"`
	ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME" env-default:"1h"`
	AutoMigrate     bool   `yaml:"auto_migrate" env:"DB_AUTO_MIGRATE" env-default:"true"`
	SeedData        bool   `yaml:"seed_data" env:"DB_SEED_DATA" env-default:"false"`
}

// Auth holds JWT and password-reset configuration.
type Auth struct {
	JWTSecret            string        `yaml:"jwt_secret" env:"JWT_SECRET" env-required:"true"`
	AccessTokenDuration  time.Duration `yaml:"access_token_duration" env:"ACCESS_TOKEN_DURATION" env-default:"15m"`
	RefreshTokenDuration time.Duration `yaml:"refresh_token_duration" env:"REFRESH_TOKEN_DURATION" env-default:"168h"`
	ResetTokenDuration   time.Duration `yaml:"reset_token_duration" env:"RESET_TOKEN_DURATION" env-default:"1h"`
	Issuer               string        `yaml:"issuer" env:"JWT_ISSUER" env-default:"trim-url"`
}

// URLShortener holds service-specific configuration.
type URLShortener struct {
	CodeLength    int    `yaml:"code_length" env:"CODE_LENGTH" env-default:"6"`
	BaseURL       string `yaml:"base_url" env:"BASE_URL" env-default:"http://localhost:8080"`
	UARegexesPath string `yaml:"ua_regexes_path" env:"UA_REGEXES_PATH" env-default:"assets/regexes.yaml"`
}

// Redis holds optional redirect-cache configuration.
type Redis struct {
	Enabled  bool          `yaml:"enabled" env:"REDIS_ENABLED" env-default:"false"`
	Address  string        `yaml:"address" env:"REDIS_ADDRESS" env-default:"localhost:6379"`
	Password string        `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int           `yaml:"db" env:"REDIS_DB" env-default:"0"`
	TTL      time.Duration `yaml:"ttl" env:"REDIS_TTL" env-default:"10m"`
}

// GeoIP holds the optional MaxMind database location. When Path is empty the
// click recorder leaves country/city unset.
type GeoIP struct {
	Path string `yaml:"path" env:"GEOIP_PATH"`
}

// Analytics holds click-recorder worker configuration.
type Analytics struct {
	WorkerCount     int           `yaml:"worker_count" env:"ANALYTICS_WORKERS" env-default:"3"`
	BufferSize      int           `yaml:"buffer_size" env:"ANALYTICS_BUFFER" env-default:"1000"`
	RetryAttempts   int           `yaml:"retry_attempts" env:"ANALYTICS_RETRIES" env-default:"3"`
	RetryDelay      time.Duration `yaml:"retry_delay" env:"ANALYTICS_RETRY_DELAY" env-default:"1s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"ANALYTICS_SHUTDOWN_TIMEOUT" env-default:"30s"`
}

// Reaper holds the expired-link sweep configuration.
type Reaper struct {
	Interval time.Duration `yaml:"interval" env:"REAPER_INTERVAL" env-default:"1m"`
}

// MustLoad loads the application configuration.
func MustLoad() *Config {
	// Try to load .env file (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment variables")
	}

	var cfg Config

	// Check if config file path is specified
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/local.yml" // default path
	}

	// Try to load config file
	if _, err := os.Stat(configPath); err == nil {
		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			log.Fatalf("cannot read config: %s", err)
		}
	} else {
		// If config file doesn't exist, use environment variables only
		log.Println("Config file not found, using environment variables only")
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			log.Fatalf("cannot read config from environment: %s", err)
		}
	}

	return &cfg
}
