// Package config loads and validates the billigst-mat YAML configuration.
//
// Configuration is split across three concerns:
//   - config.go: struct definitions with yaml tags
//   - defaults.go: default values applied after parsing
//   - validate.go: field validation
//
// Secrets may use ${VAR} placeholders; they are expanded from the
// environment before parsing.
package config
