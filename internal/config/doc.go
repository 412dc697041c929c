// Package config loads, normalizes, and validates teasers configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// AWS_REGION and TEASERS_LOG_LEVEL. The Config type also derives the on-disk
// layout (entry directories, vocal track paths, ledger and lock files) so
// every stage agrees on where things live.
package config
