// Package config loads, normalizes, and validates cohortgen configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// COHORTGEN_SEED. The Config type centralizes every knob the appender and CLI
// need, allowing output/log directories and generator settings to be
// discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical format lists, and clear validation errors.
package config
