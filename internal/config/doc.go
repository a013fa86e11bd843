// Package config holds all runtime configuration for simscan.
//
// Configuration flows from CLI flags into a single Config struct that is
// passed through the application by dependency injection; there is no
// package-level mutable state. An optional .simscan YAML file supplies
// per-assignment defaults (template path, winnowing parameters, directive
// markers) keyed by target filename.
package config
