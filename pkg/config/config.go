package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App     AppConfig
	DB      DBConfig
	Redis   RedisConfig
	JWT     JWTConfig
	Flags   FeatureFlagsConfig
	GCP     GCPConfig
	PubSub  PubSubConfig
	Outbox  OutboxConfig
	Booking BookingConfig
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
	Env          string `envconfig:"CHAIRTIME_APP_ENV" required:"true"`
	Port         string `envconfig:"CHAIRTIME_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"CHAIRTIME_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CHAIRTIME_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"CHAIRTIME_DB_DSN"`
	Driver string `envconfig:"CHAIRTIME_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"CHAIRTIME_DB_HOST"`
	Port     int    `envconfig:"CHAIRTIME_DB_PORT" default:"5432"`
	User     string `envconfig:"CHAIRTIME_DB_USER"`
	Password string `envconfig:"CHAIRTIME_DB_PASSWORD"`
	Name     string `envconfig:"CHAIRTIME_DB_NAME"`
	SSLMode  string `envconfig:"CHAIRTIME_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CHAIRTIME_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CHAIRTIME_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CHAIRTIME_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CHAIRTIME_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"CHAIRTIME_REDIS_URL"`
	Address      string        `envconfig:"CHAIRTIME_REDIS_ADDR"`
	Password     string        `envconfig:"CHAIRTIME_REDIS_PASSWORD"`
	DB           int           `envconfig:"CHAIRTIME_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CHAIRTIME_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CHAIRTIME_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CHAIRTIME_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CHAIRTIME_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CHAIRTIME_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret string `envconfig:"CHAIRTIME_JWT_SECRET" required:"true"`
	Issuer string `envconfig:"CHAIRTIME_JWT_ISSUER" required:"true"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"CHAIRTIME_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID       string `envconfig:"CHAIRTIME_GCP_PROJECT_ID"`
	CredentialsJSON string `envconfig:"CHAIRTIME_GCP_CREDENTIALS_JSON"`
}

type PubSubConfig struct {
	DomainTopic string `envconfig:"CHAIRTIME_PUBSUB_DOMAIN_TOPIC" default:"chairtime-domain-events"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"CHAIRTIME_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"CHAIRTIME_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"CHAIRTIME_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

// BookingConfig carries operational knobs for the booking engine. The
// per-customer booking limits deliberately live in the settings table, not
// here, so administrators can change them at runtime.
type BookingConfig struct {
	MaxRangeDays int `envconfig:"CHAIRTIME_BOOKING_MAX_RANGE_DAYS" default:"31"`
}

// ensureDSN assembles a postgres URL from the discrete DB_* variables when
// no DSN was given outright.
func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	byEnv := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	var missing []string
	for _, env := range requiredDBEnvVars {
		if byEnv[env] == "" {
			missing = append(missing, env)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}
	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}
	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
