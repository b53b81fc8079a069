// Package config loads and validates the target configuration file.
//
// Singer targets receive their configuration as a JSON document passed
// with the -c/--config flag. Only s3_bucket is required; everything else
// has a sensible default so a minimal config is a single key.
package config
