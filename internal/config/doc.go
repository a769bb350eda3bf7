// Package config loads and validates configuration for the API server and
// the command line tool from defaults, an optional config.yaml and REPEAT_
// environment variables.
package config
