package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Review       ReviewConfig
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Outbox       OutboxConfig
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
	Env          string `envconfig:"MEMBERHUB_APP_ENV" required:"true"`
	Port         string `envconfig:"MEMBERHUB_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"MEMBERHUB_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MEMBERHUB_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"MEMBERHUB_DB_DSN"`
	Driver string `envconfig:"MEMBERHUB_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"MEMBERHUB_DB_HOST"`
	LegacyPort     int    `envconfig:"MEMBERHUB_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"MEMBERHUB_DB_USER"`
	LegacyPassword string `envconfig:"MEMBERHUB_DB_PASSWORD"`
	LegacyName     string `envconfig:"MEMBERHUB_DB_NAME"`
	LegacySSLMode  string `envconfig:"MEMBERHUB_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MEMBERHUB_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MEMBERHUB_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MEMBERHUB_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MEMBERHUB_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"MEMBERHUB_REDIS_URL" required:"true"`
	Address      string        `envconfig:"MEMBERHUB_REDIS_ADDR"`
	Password     string        `envconfig:"MEMBERHUB_REDIS_PASSWORD"`
	DB           int           `envconfig:"MEMBERHUB_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MEMBERHUB_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MEMBERHUB_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MEMBERHUB_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MEMBERHUB_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MEMBERHUB_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"MEMBERHUB_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"MEMBERHUB_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"MEMBERHUB_JWT_EXPIRATION_MINUTES" required:"true"`
}

// ReviewConfig tunes the admin request review workflow.
type ReviewConfig struct {
	// StepTimeout bounds each individual datastore call the coordinator
	// issues. A timed-out fatal step aborts the review; a timed-out
	// best-effort step is recorded and skipped.
	StepTimeout time.Duration `envconfig:"MEMBERHUB_REVIEW_STEP_TIMEOUT" default:"5s"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"MEMBERHUB_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"MEMBERHUB_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"MEMBERHUB_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"MEMBERHUB_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	DomainTopic        string `envconfig:"MEMBERHUB_PUBSUB_DOMAIN_TOPIC" default:"memberhub-domain-events"`
	DomainSubscription string `envconfig:"MEMBERHUB_PUBSUB_DOMAIN_SUBSCRIPTION"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"MEMBERHUB_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"MEMBERHUB_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"MEMBERHUB_OUTBOX_MAX_ATTEMPTS" default:"10"`
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
