package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix scopes every environment variable the service reads.
	EnvPrefix = "FRESHMART"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"FRESHMART_APP_ENV" required:"true"`
	Port         string `envconfig:"FRESHMART_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"FRESHMART_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FRESHMART_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"FRESHMART_DB_DSN"`
	Driver string `envconfig:"FRESHMART_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"FRESHMART_DB_HOST"`
	Port     int    `envconfig:"FRESHMART_DB_PORT" default:"5432"`
	User     string `envconfig:"FRESHMART_DB_USER"`
	Password string `envconfig:"FRESHMART_DB_PASSWORD"`
	Name     string `envconfig:"FRESHMART_DB_NAME"`
	SSLMode  string `envconfig:"FRESHMART_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FRESHMART_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FRESHMART_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FRESHMART_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FRESHMART_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// ensureDSN assembles a postgres DSN from the discrete fields when one was not
// provided directly.
func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.Host == "" || d.User == "" || d.Name == "" {
		return fmt.Errorf("db config requires either FRESHMART_DB_DSN or host/user/name fields")
	}

	u := url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.Name,
	}
	if d.Password != "" {
		u.User = url.UserPassword(d.User, d.Password)
	} else {
		u.User = url.User(d.User)
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()

	d.DSN = u.String()
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"FRESHMART_REDIS_URL" required:"true"`
	Address      string        `envconfig:"FRESHMART_REDIS_ADDR"`
	Password     string        `envconfig:"FRESHMART_REDIS_PASSWORD"`
	DB           int           `envconfig:"FRESHMART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FRESHMART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FRESHMART_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FRESHMART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FRESHMART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FRESHMART_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"FRESHMART_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"FRESHMART_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"FRESHMART_JWT_EXPIRATION_MINUTES" default:"30"`
	RefreshTokenTTLMinutes int    `envconfig:"FRESHMART_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"FRESHMART_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"FRESHMART_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"FRESHMART_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"FRESHMART_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"FRESHMART_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"FRESHMART_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"FRESHMART_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"FRESHMART_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"FRESHMART_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"FRESHMART_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"FRESHMART_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"10"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"FRESHMART_FEATURE_AUTO_MIGRATE" default:"false"`
}
