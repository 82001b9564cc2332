// Package config loads service configuration with Viper.
//
// LoadConfig looks for cmd/<service>/config.yml (falling back to
// ./config/config.yml and ./config.yml), loads an optional .env file with
// godotenv, then overlays process environment variables onto nested keys.
//
//	var cfg AppConfig
//	err := config.LoadConfig("speakeralign", &cfg)
package config
