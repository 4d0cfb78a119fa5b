package config

// EnvPrefix is empty because every field carries its full MOTORLINE_ name.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

const (
	EnvAppEnv   = "MOTORLINE_APP_ENV"
	EnvPort     = "MOTORLINE_APP_PORT"
	EnvLogLevel = "MOTORLINE_LOG_LEVEL"

	EnvDBDSN      = "MOTORLINE_DB_DSN"
	EnvDBHost     = "MOTORLINE_DB_HOST"
	EnvDBUser     = "MOTORLINE_DB_USER"
	EnvDBPassword = "MOTORLINE_DB_PASSWORD"
	EnvDBName     = "MOTORLINE_DB_NAME"

	EnvRedisURL = "MOTORLINE_REDIS_URL"

	EnvJWTSecret  = "MOTORLINE_JWT_SECRET"
	EnvJWTIssuer  = "MOTORLINE_JWT_ISSUER"
	EnvJWTExpMins = "MOTORLINE_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
