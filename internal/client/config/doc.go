// Package config loads runtime configuration for the feedback backoffice CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// # JSON schema
//
// Intervals may be strings like "3s" or integer nanoseconds:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "online_check_interval": "3s",
//	  "request_timeout": "5s",
//	  "culture": "da-DK"
//	}
package config
