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
	Service       ServiceConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Admin         AdminConfig
	Cleanup       CleanupConfig
	BulkLoad      BulkLoadConfig
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
	Env          string `envconfig:"CATALOG_APP_ENV" required:"true"`
	Port         string `envconfig:"CATALOG_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"CATALOG_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"CATALOG_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"CATALOG_LOG_WARN_STACK" default:"false"`

	CORSAllowedOrigins []string `envconfig:"CATALOG_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"CATALOG_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN string `envconfig:"CATALOG_DB_DSN"`

	LegacyHost     string `envconfig:"CATALOG_DB_HOST"`
	LegacyPort     int    `envconfig:"CATALOG_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"CATALOG_DB_USER"`
	LegacyPassword string `envconfig:"CATALOG_DB_PASSWORD"`
	LegacyName     string `envconfig:"CATALOG_DB_NAME"`
	LegacySSLMode  string `envconfig:"CATALOG_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CATALOG_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CATALOG_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CATALOG_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CATALOG_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	SlowQueryThreshold time.Duration `envconfig:"CATALOG_DB_SLOW_QUERY_THRESHOLD" default:"500ms"`
}

type RedisConfig struct {
	URL          string        `envconfig:"CATALOG_REDIS_URL" required:"true"`
	Address      string        `envconfig:"CATALOG_REDIS_ADDR"`
	Password     string        `envconfig:"CATALOG_REDIS_PASSWORD"`
	DB           int           `envconfig:"CATALOG_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CATALOG_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CATALOG_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CATALOG_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CATALOG_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CATALOG_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"CATALOG_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"CATALOG_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"CATALOG_JWT_EXPIRATION_MINUTES" required:"true"`
}

// TTL returns the access token lifetime.
func (j JWTConfig) TTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"CATALOG_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"CATALOG_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"CATALOG_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"CATALOG_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"CATALOG_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow           time.Duration `envconfig:"CATALOG_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginUsernameLimit    int           `envconfig:"CATALOG_AUTH_RATE_LIMIT_LOGIN_USERNAME_LIMIT" default:"5"`
	LoginIPLimit          int           `envconfig:"CATALOG_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow        time.Duration `envconfig:"CATALOG_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterUsernameLimit int           `envconfig:"CATALOG_AUTH_RATE_LIMIT_REGISTER_USERNAME_LIMIT" default:"3"`
	RegisterIPLimit       int           `envconfig:"CATALOG_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"CATALOG_AUTO_MIGRATE" default:"false"`
}

// AdminConfig holds the credentials used to seed the single admin account.
type AdminConfig struct {
	Username string `envconfig:"CATALOG_ADMIN_USERNAME" default:"admin"`
	Password string `envconfig:"CATALOG_ADMIN_PASSWORD" required:"true"`
}

type CleanupConfig struct {
	Schedule    string        `envconfig:"CATALOG_CLEANUP_SCHEDULE" default:"02:00"`
	RunOnStart  bool          `envconfig:"CATALOG_CLEANUP_RUN_ON_START" default:"false"`
	LockTTL     time.Duration `envconfig:"CATALOG_CLEANUP_LOCK_TTL" default:"25h"`
	MetricsAddr string        `envconfig:"CATALOG_CLEANUP_METRICS_ADDR" default:":9090"`
}

type BulkLoadConfig struct {
	FetchTimeout time.Duration `envconfig:"CATALOG_BULK_LOAD_FETCH_TIMEOUT" default:"10m"`
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
