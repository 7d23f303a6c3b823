// Package config defines the application configuration structure and
// loading logic. Configuration comes from an optional YAML file plus
// environment variables with the TASKTRACK_ prefix, validated at startup.
package config
