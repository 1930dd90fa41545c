package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"
	EnvMongoQueryTimeout = "MONGO_QUERY_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvPreparationFee      = "PREPARATION_FEE"
	EnvFallbackWeekdayRate = "FALLBACK_WEEKDAY_RATE"
	EnvFallbackWeekendRate = "FALLBACK_WEEKEND_RATE"
	EnvPackageUnitCap      = "PACKAGE_UNIT_CAP"
	EnvPackageCapacityBand = "PACKAGE_CAPACITY_BAND"
	EnvPackageMaxResults   = "PACKAGE_MAX_RESULTS"
	EnvPackageMaxPool      = "PACKAGE_MAX_POOL"
	EnvDepositPercent      = "DEPOSIT_PERCENT"
	EnvDepositRounding     = "DEPOSIT_ROUNDING"
	EnvDiscountMode        = "DEFAULT_DISCOUNT_MODE"
	EnvFleetTimezone       = "FLEET_TIMEZONE"
)
