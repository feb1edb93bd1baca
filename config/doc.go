// Package config loads voxpersona configuration.
//
// Values come from a YAML file (searched under ./cmd/<service>/config.yml,
// ./config/config.yml and ./config.yml), then a .env file loaded with
// godotenv, then process environment variables. Environment variables are
// matched against the mapstructure keys of the target struct using the
// upper-cased service name as prefix:
//
//	VOXPERSONA_SERVER_PORT        -> server.port
//	VOXPERSONA_DATABASE_DRIVER    -> database.driver
//
// A missing config file is not an error; ApplyDefaults fills the gaps.
package config
