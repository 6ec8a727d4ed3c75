// Package config loads, normalizes, and validates muxkit configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and parses the timing defaults into exact
// rationals. The Config type centralizes every knob the CLI needs: work and
// output directories, naming tokens, the default timestamp source, and
// external binary overrides.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, parsed rationals, and clear validation errors.
package config
