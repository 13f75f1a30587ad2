// Package config provides configuration management for the dashboard.
//
// # Configuration Sources
//
// Configuration is assembled from the following sources, later ones winning:
//
//	1. Default values (Default)
//	2. A YAML file: $ZOMATO_CONFIG, config.yaml or configs/config.yaml
//	3. Environment variables
//
// # Environment Variables
//
// Variables are namespaced with ZOMATO and the section name:
//
//	ZOMATO_SERVER_PORT=8080
//	ZOMATO_DATASET_FILE=data/zomato.csv
//	ZOMATO_DATASET_MAX_DOLLAR_COST=1000
//	ZOMATO_DATASET_SKIP_UNKNOWN=true
//	ZOMATO_LOGGING_LEVEL=debug
//	ZOMATO_EXPORT_DIR=exports
//
// # Paths
//
// Relative paths are resolved with Config.ResolvePaths:
//
//	paths, err := cfg.ResolvePaths("")
//	if err != nil {
//	    return err
//	}
//	if err := paths.EnsureDirectories(); err != nil {
//	    return err
//	}
package config
