package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the service configuration
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	ServiceBus ServiceBusConfig
	NewRelic   NewRelicConfig
	JWT        JWTConfig
	Blobstore  BlobstoreConfig
	Worker     WorkerConfig
}

// ServerConfig holds the HTTP server configuration
type ServerConfig struct {
	Port int
	Mode string // debug, release, test
}

// DatabaseConfig holds the database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig holds the Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// ServiceBusConfig holds the Azure Service Bus configuration
type ServiceBusConfig struct {
	ConnectionString string
	QueueName        string
}

// NewRelicConfig holds the New Relic configuration
type NewRelicConfig struct {
	AppName    string
	LicenseKey string
	Enabled    bool
}

// JWTConfig holds the token signing configuration
type JWTConfig struct {
	Secret   string
	TTLHours int
}

// BlobstoreConfig holds the IPFS pinning service configuration.
// When APIKey is empty a local mock store is used instead.
type BlobstoreConfig struct {
	APIKey         string
	APISecret      string
	GatewayURL     string
	TimeoutSeconds int
}

// WorkerConfig holds the background worker configuration
type WorkerConfig struct {
	PDFSweepIntervalMinutes int
	PDFSweepBatchSize       int
}

// InitConfig initializes the configuration using Viper
func InitConfig(cfgFile string) error {
	setDefaults()

	// Use config file from the flag if provided
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
		viper.AddConfigPath("/etc/deliverynote-service")
		viper.SetConfigName("config")
	}

	// Environment variable overrides, e.g. DELIVERY_SERVER_PORT -> server.port
	viper.SetEnvPrefix("DELIVERY")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			fmt.Println("No config file found, using defaults and environment variables")
		} else {
			return fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}

	return nil
}

// setDefaults sets default values for configuration
func setDefaults() {
	// Server defaults
	viper.SetDefault("server.port", 8093)
	viper.SetDefault("server.mode", "debug")

	// Database defaults
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "deliverynote")
	viper.SetDefault("database.password", "deliverynote")
	viper.SetDefault("database.dbname", "deliverynote_service_db")
	viper.SetDefault("database.sslmode", "disable")

	// Redis defaults
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)

	// Service Bus defaults - no default connection string for security
	viper.SetDefault("servicebus.queuename", "deliverynote-events")

	// New Relic defaults
	viper.SetDefault("newrelic.appname", "Delivery Note Service Local")
	viper.SetDefault("newrelic.enabled", false)

	// JWT defaults - no default secret for security
	viper.SetDefault("jwt.ttlhours", 24)

	// Blobstore defaults - no default API key, mock store used when unset
	viper.SetDefault("blobstore.gatewayurl", "gateway.pinata.cloud")
	viper.SetDefault("blobstore.timeoutseconds", 30)

	// Worker defaults
	viper.SetDefault("worker.pdfsweepintervalminutes", 5)
	viper.SetDefault("worker.pdfsweepbatchsize", 50)
}

// Load loads the configuration
func Load() (*Config, error) {
	serverConfig := ServerConfig{
		Port: viper.GetInt("server.port"),
		Mode: viper.GetString("server.mode"),
	}

	dbConfig := DatabaseConfig{
		Host:     viper.GetString("database.host"),
		Port:     viper.GetInt("database.port"),
		User:     viper.GetString("database.user"),
		Password: viper.GetString("database.password"),
		DBName:   viper.GetString("database.dbname"),
		SSLMode:  viper.GetString("database.sslmode"),
	}

	redisConfig := RedisConfig{
		Host:     viper.GetString("redis.host"),
		Port:     viper.GetInt("redis.port"),
		Password: viper.GetString("redis.password"),
		DB:       viper.GetInt("redis.db"),
	}

	serviceBusConfig := ServiceBusConfig{
		ConnectionString: viper.GetString("servicebus.connectionstring"),
		QueueName:        viper.GetString("servicebus.queuename"),
	}

	newRelicConfig := NewRelicConfig{
		AppName:    viper.GetString("newrelic.appname"),
		LicenseKey: viper.GetString("newrelic.licensekey"),
		Enabled:    viper.GetBool("newrelic.enabled"),
	}

	jwtConfig := JWTConfig{
		Secret:   viper.GetString("jwt.secret"),
		TTLHours: viper.GetInt("jwt.ttlhours"),
	}

	blobstoreConfig := BlobstoreConfig{
		APIKey:         viper.GetString("blobstore.apikey"),
		APISecret:      viper.GetString("blobstore.apisecret"),
		GatewayURL:     viper.GetString("blobstore.gatewayurl"),
		TimeoutSeconds: viper.GetInt("blobstore.timeoutseconds"),
	}

	workerConfig := WorkerConfig{
		PDFSweepIntervalMinutes: viper.GetInt("worker.pdfsweepintervalminutes"),
		PDFSweepBatchSize:       viper.GetInt("worker.pdfsweepbatchsize"),
	}

	return &Config{
		Server:     serverConfig,
		Database:   dbConfig,
		Redis:      redisConfig,
		ServiceBus: serviceBusConfig,
		NewRelic:   newRelicConfig,
		JWT:        jwtConfig,
		Blobstore:  blobstoreConfig,
		Worker:     workerConfig,
	}, nil
}
