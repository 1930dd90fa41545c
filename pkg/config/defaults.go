package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "houseboat"
	DefaultMongoConnTimeout  = 10 * time.Second
	DefaultMongoQueryTimeout = 5 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultPreparationFee      = "76.00"
	DefaultFallbackWeekdayRate = "0"
	DefaultFallbackWeekendRate = "0"
	DefaultPackageUnitCap      = 6
	DefaultPackageCapacityBand = 2
	DefaultPackageMaxResults   = 5
	DefaultPackageMaxPool      = 30
	DefaultDepositPercent      = 30
	DefaultDepositRounding     = "1.00"
	DefaultDiscountMode        = "percent"
	DefaultFleetTimezone       = "Europe/Paris"
)
