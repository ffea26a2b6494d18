package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Cart          CartConfig
	Catalog       CatalogConfig
	GCP           GCPConfig
	PubSub        PubSubConfig
	CORS          CORSConfig
	Admin         AdminConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"DELIVERYDASH_APP_ENV" required:"true"`
	Port         string `envconfig:"DELIVERYDASH_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"DELIVERYDASH_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"DELIVERYDASH_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"DELIVERYDASH_DB_DSN"`
	Driver string `envconfig:"DELIVERYDASH_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"DELIVERYDASH_DB_HOST"`
	LegacyPort     int    `envconfig:"DELIVERYDASH_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"DELIVERYDASH_DB_USER"`
	LegacyPassword string `envconfig:"DELIVERYDASH_DB_PASSWORD"`
	LegacyName     string `envconfig:"DELIVERYDASH_DB_NAME"`
	LegacySSLMode  string `envconfig:"DELIVERYDASH_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"DELIVERYDASH_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"DELIVERYDASH_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"DELIVERYDASH_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"DELIVERYDASH_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"DELIVERYDASH_REDIS_URL" required:"true"`
	Address      string        `envconfig:"DELIVERYDASH_REDIS_ADDR"`
	Password     string        `envconfig:"DELIVERYDASH_REDIS_PASSWORD"`
	DB           int           `envconfig:"DELIVERYDASH_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"DELIVERYDASH_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"DELIVERYDASH_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"DELIVERYDASH_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"DELIVERYDASH_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"DELIVERYDASH_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"DELIVERYDASH_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"DELIVERYDASH_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"DELIVERYDASH_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"DELIVERYDASH_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"DELIVERYDASH_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"DELIVERYDASH_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"DELIVERYDASH_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"DELIVERYDASH_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"DELIVERYDASH_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	SignInWindow     time.Duration `envconfig:"DELIVERYDASH_AUTH_RATE_LIMIT_SIGNIN_WINDOW" default:"1m"`
	SignInEmailLimit int           `envconfig:"DELIVERYDASH_AUTH_RATE_LIMIT_SIGNIN_EMAIL_LIMIT" default:"5"`
	SignInIPLimit    int           `envconfig:"DELIVERYDASH_AUTH_RATE_LIMIT_SIGNIN_IP_LIMIT" default:"20"`
	SignUpWindow     time.Duration `envconfig:"DELIVERYDASH_AUTH_RATE_LIMIT_SIGNUP_WINDOW" default:"5m"`
	SignUpEmailLimit int           `envconfig:"DELIVERYDASH_AUTH_RATE_LIMIT_SIGNUP_EMAIL_LIMIT" default:"3"`
	SignUpIPLimit    int           `envconfig:"DELIVERYDASH_AUTH_RATE_LIMIT_SIGNUP_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"DELIVERYDASH_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"DELIVERYDASH_AUTO_MIGRATE" default:"false"`
}

type CartConfig struct {
	TTL time.Duration `envconfig:"DELIVERYDASH_CART_TTL" default:"72h"`
}

type CatalogConfig struct {
	CacheTTL time.Duration `envconfig:"DELIVERYDASH_CATALOG_CACHE_TTL" default:"30s"`
}

type GCPConfig struct {
	ProjectID string `envconfig:"DELIVERYDASH_GCP_PROJECT_ID"`
}

type PubSubConfig struct {
	OrdersTopic string `envconfig:"DELIVERYDASH_PUBSUB_ORDERS_TOPIC"`
}

// Enabled reports whether order events should be published.
func (p PubSubConfig) Enabled() bool {
	return strings.TrimSpace(p.OrdersTopic) != ""
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"DELIVERYDASH_CORS_ALLOWED_ORIGINS" default:"http://localhost:5173"`
}

// AdminConfig lists the accounts that hold the admin role.
type AdminConfig struct {
	Emails []string `envconfig:"DELIVERYDASH_ADMIN_EMAILS"`
}

// IsAdminEmail matches email case-insensitively against the configured list.
func (a AdminConfig) IsAdminEmail(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return false
	}
	for _, candidate := range a.Emails {
		if strings.ToLower(strings.TrimSpace(candidate)) == email {
			return true
		}
	}
	return false
}

func (db *DBConfig) ensureDSN(useSQLite bool) error {
	if db.DSN != "" {
		return nil
	}
	if useSQLite {
		db.DSN = "file:deliverydash.db?cache=shared"
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
