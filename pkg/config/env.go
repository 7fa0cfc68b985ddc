package config

// EnvPrefix is handed to envconfig; every field spells out its full key so the
// prefix only matters for fields without an explicit tag.
const EnvPrefix = "CATALOG"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv      = "CATALOG_APP_ENV"
	EnvPort        = "CATALOG_APP_PORT"
	EnvLogLevel    = "CATALOG_LOG_LEVEL"
	EnvDBDSN       = "CATALOG_DB_DSN"
	EnvDBHost      = "CATALOG_DB_HOST"
	EnvDBUser      = "CATALOG_DB_USER"
	EnvDBName      = "CATALOG_DB_NAME"
	EnvRedisURL    = "CATALOG_REDIS_URL"
	EnvJWTSecret   = "CATALOG_JWT_SECRET"
	EnvJWTIssuer   = "CATALOG_JWT_ISSUER"
	EnvJWTExpMins  = "CATALOG_JWT_EXPIRATION_MINUTES"
	EnvAdminUser   = "CATALOG_ADMIN_USERNAME"
	EnvAdminPass   = "CATALOG_ADMIN_PASSWORD"
	EnvCleanupAt   = "CATALOG_CLEANUP_SCHEDULE"
	EnvAutoMigrate = "CATALOG_AUTO_MIGRATE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
