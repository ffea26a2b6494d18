package config

// EnvPrefix is handed to envconfig; every field carries its full variable name.
const EnvPrefix = "DELIVERYDASH"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv                  = "DELIVERYDASH_APP_ENV"
	EnvPort                    = "DELIVERYDASH_APP_PORT"
	EnvLogLevel                = "DELIVERYDASH_LOG_LEVEL"
	EnvDBDSN                   = "DELIVERYDASH_DB_DSN"
	EnvDBHost                  = "DELIVERYDASH_DB_HOST"
	EnvDBUser                  = "DELIVERYDASH_DB_USER"
	EnvDBName                  = "DELIVERYDASH_DB_NAME"
	EnvDBPassword              = "DELIVERYDASH_DB_PASSWORD"
	EnvRedisURL                = "DELIVERYDASH_REDIS_URL"
	EnvJWTSecret               = "DELIVERYDASH_JWT_SECRET"
	EnvJWTIssuer               = "DELIVERYDASH_JWT_ISSUER"
	EnvJWTExpMins              = "DELIVERYDASH_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes  = "DELIVERYDASH_REFRESH_TOKEN_TTL_MINUTES"
	EnvUseSQLite               = "DELIVERYDASH_USE_SQLITE"
	EnvCartTTL                 = "DELIVERYDASH_CART_TTL"
	EnvGCPProjectID            = "DELIVERYDASH_GCP_PROJECT_ID"
	EnvPubSubOrdersTopic       = "DELIVERYDASH_PUBSUB_ORDERS_TOPIC"
	EnvCORSAllowedOrigins      = "DELIVERYDASH_CORS_ALLOWED_ORIGINS"
	EnvCatalogCacheTTL         = "DELIVERYDASH_CATALOG_CACHE_TTL"
	EnvAuthRateLimitSignInIP   = "DELIVERYDASH_AUTH_RATE_LIMIT_SIGNIN_IP_LIMIT"
	EnvAuthRateLimitSignUpMail = "DELIVERYDASH_AUTH_RATE_LIMIT_SIGNUP_EMAIL_LIMIT"
	EnvAdminEmails             = "DELIVERYDASH_ADMIN_EMAILS"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
