// Package config loads, normalizes, and validates transcriber configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the TRANSCRIBER_MODEL environment
// override. The CLI merges these values with per-run flags before handing an
// immutable run configuration to the pipeline.
//
// Always obtain settings through this package so downstream code receives
// absolute paths, canonical log formats, and clear validation errors.
package config
