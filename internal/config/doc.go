// Package config loads and validates cratepress configuration from TOML
// files and the environment.
package config
