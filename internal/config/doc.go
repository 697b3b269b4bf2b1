// Package config loads, normalizes, and validates timbre configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// TIMBRE_DATASET. The Config type centralizes the knobs the CLI needs: where
// the feature dataset lives, how it is split, how many neighbors vote, and
// where run history and logs are written.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
