package config

import (
	"flag"
	"os"
	"time"

	"go-payguard/internal/payguard"
	"go-payguard/internal/payguard/data/database"
	"go-payguard/internal/payguard/orderstore"
	"go-payguard/internal/payguard/provision"
	"go-payguard/internal/payguard/recordsource"
	"go-payguard/internal/payguard/verification"
)

const (
	serverAddressFlag          = "a"
	serverAddressEnv           = "RUN_ADDRESS"
	serverAddressDefault       = "localhost:8080"
	recordSourceAddressFlag    = "r"
	recordSourceAddressEnv     = "RECORD_SOURCE_ADDRESS"
	recordSourceAddressDefault = "http://localhost:5001"
	orderStoreAddressFlag      = "o"
	orderStoreAddressEnv       = "ORDER_STORE_ADDRESS"
	orderStoreAddressDefault   = "http://localhost:8080"
	panelURLFlag               = "p"
	panelURLEnv                = "PANEL_URL"
	panelURLDefault            = "http://localhost:23333"
	panelAPIKeyEnv             = "PANEL_API_KEY"
	dbConnectionStringFlag     = "d"
	dbConnectionStringEnv      = "DATABASE_URI"
	dbConnectionStringDefault  = ""
)

type Config struct {
	Server       payguard.Config
	JWTConfig    JWTConfig
	DB           database.Config
	RecordSource recordsource.Config
	OrderStore   orderstore.Config
	Panel        provision.PanelConfig
	Renewal      provision.RenewalConfig
	Verification verification.Config
	PointsRatio  float64

	ShutdownTimeout time.Duration
}

type JWTConfig struct {
	Algorithm      string
	Secret         string
	ExpirationTime time.Duration
}

func Load() (*Config, error) {
	serverAddress := flag.String(
		serverAddressFlag,
		serverAddressDefault,
		"Server address host:port",
	)

	recordSourceAddress := flag.String(
		recordSourceAddressFlag,
		recordSourceAddressDefault,
		"Payment detection backend base URL",
	)

	orderStoreAddress := flag.String(
		orderStoreAddressFlag,
		orderStoreAddressDefault,
		"Order store base URL for outcome callbacks",
	)

	panelURL := flag.String(
		panelURLFlag,
		panelURLDefault,
		"Game panel base URL",
	)

	dbConnectionString := flag.String(
		dbConnectionStringFlag,
		dbConnectionStringDefault,
		"PostgreSQL connection string",
	)

	flag.Parse()

	if valStr, ok := os.LookupEnv(serverAddressEnv); ok {
		*serverAddress = valStr
	}

	if valStr, ok := os.LookupEnv(recordSourceAddressEnv); ok {
		*recordSourceAddress = valStr
	}

	if valStr, ok := os.LookupEnv(orderStoreAddressEnv); ok {
		*orderStoreAddress = valStr
	}

	if valStr, ok := os.LookupEnv(panelURLEnv); ok {
		*panelURL = valStr
	}

	if valStr, ok := os.LookupEnv(dbConnectionStringEnv); ok {
		*dbConnectionString = valStr
	}

	panelAPIKey := os.Getenv(panelAPIKeyEnv)

	return &Config{
		Server: payguard.Config{
			ServerAddress:   *serverAddress,
			ShutdownTimeout: time.Second * 5,
		},
		JWTConfig: JWTConfig{
			Algorithm:      "HS256",
			Secret:         "secret",
			ExpirationTime: time.Hour,
		},
		DB: database.Config{
			ConnectionString: *dbConnectionString,
			RetryAttemptDelays: []time.Duration{
				time.Second,
				time.Second * 3,
				time.Second * 5,
			},
		},
		RecordSource: recordsource.Config{
			ServerAddress: *recordSourceAddress,
		},
		OrderStore: orderstore.Config{
			ServerAddress: *orderStoreAddress,
		},
		Panel: provision.PanelConfig{
			PanelURL: *panelURL,
			APIKey:   panelAPIKey,
		},
		Renewal: provision.RenewalConfig{
			PricePerDay: 0.33,
			DefaultDays: 30,
		},
		Verification:    verification.DefaultConfig(),
		PointsRatio:     10,
		ShutdownTimeout: time.Second * 5,
	}, nil
}
