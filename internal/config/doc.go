// Package config provides centralized configuration management for the
// shopmetrics services. It handles loading configuration from multiple
// sources, validation, and provides a type-safe API for accessing
// configuration values throughout the application.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. Configuration file (YAML)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern SHOP_* for namespacing:
//
//	SHOP_SERVER_PORT=8080
//	SHOP_PATHS_DATA_DIR=ecommerce_data
//	SHOP_LOGGING_LEVEL=info
//
// # Path Management
//
// The package provides centralized path management through the Paths type,
// which resolves the dataset, logs and exports directories and the five
// dataset file paths the loader depends on:
//
//	paths, err := config.GetPaths(cfg.Paths)
//	ordersCSV := paths.DatasetFile(config.OrdersFile)
//
// # Usage
//
// Load configuration at application startup:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
