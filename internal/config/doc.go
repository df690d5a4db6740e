// Package config loads and validates the TOML configuration that wires the
// pipeline to its collaborator services and sets the composite engine's
// iteration limits.
package config
