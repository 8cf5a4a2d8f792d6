package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "MAYORISTA"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "MAYORISTA_DB_DSN"
	EnvDBHost = "MAYORISTA_DB_HOST"
	EnvDBUser = "MAYORISTA_DB_USER"
	EnvDBName = "MAYORISTA_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	RateLimit    RateLimitConfig
	FeatureFlags FeatureFlagsConfig
	SMTP         SMTPConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Outbox       OutboxConfig
	Orders       OrdersConfig
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
	Env          string `envconfig:"MAYORISTA_APP_ENV" required:"true"`
	Port         string `envconfig:"MAYORISTA_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"MAYORISTA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MAYORISTA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"MAYORISTA_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"MAYORISTA_DB_DSN"`
	Driver string `envconfig:"MAYORISTA_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"MAYORISTA_DB_HOST"`
	LegacyPort     int    `envconfig:"MAYORISTA_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"MAYORISTA_DB_USER"`
	LegacyPassword string `envconfig:"MAYORISTA_DB_PASSWORD"`
	LegacyName     string `envconfig:"MAYORISTA_DB_NAME"`
	LegacySSLMode  string `envconfig:"MAYORISTA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MAYORISTA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MAYORISTA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MAYORISTA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MAYORISTA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"MAYORISTA_REDIS_URL" required:"true"`
	Address      string        `envconfig:"MAYORISTA_REDIS_ADDR"`
	Password     string        `envconfig:"MAYORISTA_REDIS_PASSWORD"`
	DB           int           `envconfig:"MAYORISTA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MAYORISTA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MAYORISTA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MAYORISTA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MAYORISTA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MAYORISTA_REDIS_WRITE_TIMEOUT" default:"5s"`

	SellerChannel string `envconfig:"MAYORISTA_REDIS_SELLER_CHANNEL" default:"vendedores"`
}

type JWTConfig struct {
	Secret            string `envconfig:"MAYORISTA_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"MAYORISTA_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"MAYORISTA_JWT_EXPIRATION_MINUTES" default:"60"`
}

type RateLimitConfig struct {
	GuestOrderWindow  time.Duration `envconfig:"MAYORISTA_RATE_LIMIT_GUEST_ORDER_WINDOW" default:"1m"`
	GuestOrderIPLimit int           `envconfig:"MAYORISTA_RATE_LIMIT_GUEST_ORDER_IP_LIMIT" default:"10"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"MAYORISTA_AUTO_MIGRATE" default:"false"`
}

type SMTPConfig struct {
	Host     string `envconfig:"MAYORISTA_SMTP_HOST"`
	Port     int    `envconfig:"MAYORISTA_SMTP_PORT" default:"465"`
	Username string `envconfig:"MAYORISTA_SMTP_USER"`
	Password string `envconfig:"MAYORISTA_SMTP_PASSWORD"`
	From     string `envconfig:"MAYORISTA_SMTP_FROM"`
}

// Enabled reports whether outbound mail is configured at all.
func (s SMTPConfig) Enabled() bool {
	return s.Host != "" && s.From != ""
}

type GCPConfig struct {
	ProjectID string `envconfig:"MAYORISTA_GCP_PROJECT_ID"`
}

type PubSubConfig struct {
	OrdersTopic string `envconfig:"MAYORISTA_PUBSUB_ORDERS_TOPIC" default:"mayorista-order-events"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"MAYORISTA_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"MAYORISTA_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"MAYORISTA_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

type OrdersConfig struct {
	PendingTTLHours int `envconfig:"MAYORISTA_ORDERS_PENDING_TTL_HOURS" default:"72"`
}

// PendingTTL converts the configured TTL to a duration.
func (o OrdersConfig) PendingTTL() time.Duration {
	if o.PendingTTLHours <= 0 {
		return 0
	}
	return time.Duration(o.PendingTTLHours) * time.Hour
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
