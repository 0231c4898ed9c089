// Package config loads toolcache configuration from a YAML file and
// TOOLCACHE_* environment variables, with `${VAR}` expansion for directory
// paths.
package config
