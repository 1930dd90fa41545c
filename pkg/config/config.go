package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"time"

	"houseboat/pkg/client"
	"houseboat/pkg/engine"
	"houseboat/pkg/engine/packages"
	"houseboat/pkg/engine/pricing"
	kafka_config "houseboat/pkg/kafka/config"
	"houseboat/pkg/logger"
	"houseboat/pkg/model"
	"houseboat/pkg/money"
)

var mongoURIRegex = regexp.MustCompile(`^mongodb(\+srv)?://`)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration
	MongoQueryTimeout time.Duration

	Port     string
	LogLevel string

	RequestTimeout time.Duration
	MaxRequestSize int64

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	PreparationFee      money.Cents
	FallbackWeekdayRate money.Cents
	FallbackWeekendRate money.Cents
	PackageUnitCap      int
	PackageCapacityBand int
	PackageMaxResults   int
	PackageMaxPool      int
	DepositPercent      int
	DepositRounding     money.Cents
	DiscountMode        string
	FleetTimezone       string
	FleetLocation       *time.Location

	Kafka *kafka_config.Config

	Log    *logger.Logger
	Client *client.Client

	// problems found while parsing, reported by Validate
	parseErrors []string
}

// Load reads the service configuration from the environment and exits the
// process when it is invalid.
func Load(serviceName string) *Config {
	cfg := FromEnv(serviceName)
	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

// FromEnv reads the configuration without validating it.
func FromEnv(serviceName string) *Config {
	cfg := &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),
		MongoQueryTimeout: getEnvDuration(EnvMongoQueryTimeout, DefaultMongoQueryTimeout),

		Port:     getEnvStr(EnvPort, DefaultPort),
		LogLevel: getEnvStr(EnvLogLevel, DefaultLogLevel),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		MaxRequestSize: int64(getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize)),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		PackageUnitCap:      getEnvNum(EnvPackageUnitCap, DefaultPackageUnitCap),
		PackageCapacityBand: getEnvNum(EnvPackageCapacityBand, DefaultPackageCapacityBand),
		PackageMaxResults:   getEnvNum(EnvPackageMaxResults, DefaultPackageMaxResults),
		PackageMaxPool:      getEnvNum(EnvPackageMaxPool, DefaultPackageMaxPool),
		DepositPercent:      getEnvNum(EnvDepositPercent, DefaultDepositPercent),
		DiscountMode:        getEnvStr(EnvDiscountMode, DefaultDiscountMode),
		FleetTimezone:       getEnvStr(EnvFleetTimezone, DefaultFleetTimezone),

		Client: client.NewClient(),
	}

	cfg.PreparationFee = cfg.getEnvMoney(EnvPreparationFee, DefaultPreparationFee)
	cfg.FallbackWeekdayRate = cfg.getEnvMoney(EnvFallbackWeekdayRate, DefaultFallbackWeekdayRate)
	cfg.FallbackWeekendRate = cfg.getEnvMoney(EnvFallbackWeekendRate, DefaultFallbackWeekendRate)
	cfg.DepositRounding = cfg.getEnvMoney(EnvDepositRounding, DefaultDepositRounding)

	loc, err := time.LoadLocation(cfg.FleetTimezone)
	if err != nil {
		cfg.parseErrors = append(cfg.parseErrors, fmt.Sprintf("FleetTimezone is not a known time zone: %s", cfg.FleetTimezone))
		loc = time.UTC
	}
	cfg.FleetLocation = loc

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.parseErrors = append(cfg.parseErrors, err.Error())
	}
	cfg.Kafka = kafkaCfg

	cfg.Log = logger.New(logger.Config{
		Level:     cfg.LogLevel,
		Format:    logger.JSON,
		AddSource: true,
		Service:   serviceName,
	})
	return cfg
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

// EngineConfig maps the environment onto the engine constants.
func (cfg *Config) EngineConfig() engine.Config {
	return engine.Config{
		Pricing: pricing.Config{
			PreparationFee: cfg.PreparationFee,
			FallbackRates: model.NightlyRates{
				Weekday: cfg.FallbackWeekdayRate,
				Weekend: cfg.FallbackWeekendRate,
			},
			DepositPoints:       int64(cfg.DepositPercent) * 100,
			DepositRounding:     cfg.DepositRounding,
			DefaultDiscountMode: model.DiscountMode(cfg.DiscountMode),
		},
		Packages: packages.Config{
			UnitCap:      cfg.PackageUnitCap,
			CapacityBand: cfg.PackageCapacityBand,
			MaxResults:   cfg.PackageMaxResults,
			MaxPool:      cfg.PackageMaxPool,
		},
	}
}

func (cfg *Config) Validate() error {
	errors := append([]string(nil), cfg.parseErrors...)

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" {
		errors = append(errors, "MongoURI cannot be empty")
	} else if len(cfg.MongoURI) < 10 || !mongoURIRegex.MatchString(cfg.MongoURI) {
		errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", redactMongoURI(cfg.MongoURI)))
	}
	if cfg.MongoDatabaseName == "" {
		errors = append(errors, "MongoDatabaseName cannot be empty")
	}

	durations := []struct {
		name  string
		value time.Duration
	}{
		{"MongoConnTimeout", cfg.MongoConnTimeout},
		{"MongoQueryTimeout", cfg.MongoQueryTimeout},
		{"RequestTimeout", cfg.RequestTimeout},
		{"ReadTimeout", cfg.ReadTimeout},
		{"WriteTimeout", cfg.WriteTimeout},
		{"IdleTimeout", cfg.IdleTimeout},
		{"ShutdownTimeout", cfg.ShutdownTimeout},
	}
	for _, d := range durations {
		if d.value <= 0 {
			errors = append(errors, fmt.Sprintf("%s must be positive, got: %s", d.name, d.value))
		}
	}

	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}

	if cfg.PreparationFee < 0 {
		errors = append(errors, fmt.Sprintf("PreparationFee cannot be negative, got: %s", cfg.PreparationFee))
	}
	if cfg.FallbackWeekdayRate < 0 || cfg.FallbackWeekendRate < 0 {
		errors = append(errors, fmt.Sprintf("Fallback rates cannot be negative, got: %s/%s", cfg.FallbackWeekdayRate, cfg.FallbackWeekendRate))
	}
	if cfg.PackageUnitCap < 1 {
		errors = append(errors, fmt.Sprintf("PackageUnitCap must be positive, got: %d", cfg.PackageUnitCap))
	}
	if cfg.PackageCapacityBand < 0 {
		errors = append(errors, fmt.Sprintf("PackageCapacityBand cannot be negative, got: %d", cfg.PackageCapacityBand))
	}
	if cfg.PackageMaxResults < 1 {
		errors = append(errors, fmt.Sprintf("PackageMaxResults must be positive, got: %d", cfg.PackageMaxResults))
	}
	if cfg.PackageMaxPool < cfg.PackageUnitCap {
		errors = append(errors, fmt.Sprintf("PackageMaxPool (%d) must be >= PackageUnitCap (%d)", cfg.PackageMaxPool, cfg.PackageUnitCap))
	}
	if cfg.DepositPercent < 0 || cfg.DepositPercent > 100 {
		errors = append(errors, fmt.Sprintf("DepositPercent must be between 0 and 100, got: %d", cfg.DepositPercent))
	}
	if cfg.DepositRounding <= 0 {
		errors = append(errors, fmt.Sprintf("DepositRounding must be positive, got: %s", cfg.DepositRounding))
	}
	switch model.DiscountMode(cfg.DiscountMode) {
	case model.DiscountPercent, model.DiscountFlat:
	default:
		errors = append(errors, fmt.Sprintf("DiscountMode must be 'percent' or 'flat', got: %s", cfg.DiscountMode))
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"mongo_query_timeout", cfg.MongoQueryTimeout,
		"port", cfg.Port,
		"request_timeout", cfg.RequestTimeout,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"preparation_fee", cfg.PreparationFee.String(),
		"fallback_weekday_rate", cfg.FallbackWeekdayRate.String(),
		"fallback_weekend_rate", cfg.FallbackWeekendRate.String(),
		"package_unit_cap", cfg.PackageUnitCap,
		"package_capacity_band", cfg.PackageCapacityBand,
		"package_max_results", cfg.PackageMaxResults,
		"package_max_pool", cfg.PackageMaxPool,
		"deposit_percent", cfg.DepositPercent,
		"deposit_rounding", cfg.DepositRounding.String(),
		"default_discount_mode", cfg.DiscountMode,
		"fleet_timezone", cfg.FleetTimezone,
	)
	if cfg.Kafka != nil {
		cfg.Kafka.LogConfiguration(cfg.Log.Info)
	}
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown(cfg.Log, cfg.ShutdownTimeout)
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func (cfg *Config) getEnvMoney(key, fallback string) money.Cents {
	raw := getEnvStr(key, fallback)
	amount, err := money.Parse(raw)
	if err != nil {
		cfg.parseErrors = append(cfg.parseErrors, fmt.Sprintf("%s must be a decimal amount, got: %s", key, raw))
		return 0
	}
	return amount
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
