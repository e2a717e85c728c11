package config

const (
	EnvPrefix = "GOUSTTY"

	AppEnvDev  = "dev"
	AppEnvProd = "production"

	EnvAppEnv     = "GOUSTTY_APP_ENV"
	EnvLogLevel   = "GOUSTTY_LOG_LEVEL"
	EnvAPIBaseURL = "GOUSTTY_API_BASE_URL"
	EnvTokenPath  = "GOUSTTY_SESSION_TOKEN_PATH"
	EnvRedisURL   = "GOUSTTY_REDIS_URL"
	EnvJWTSecret  = "GOUSTTY_JWT_SECRET"
)
