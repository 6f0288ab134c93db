// Package config handles configuration for the feedback server,
// including defaults, JSON overlay, and command-line flags.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/dmitrijs2005/gophfeedback/internal/common"
)

const (
	BackendSQL      = "sql"
	BackendDynamoDB = "dynamodb"
	BackendMemory   = "memory"
)

// Config holds runtime settings for the feedback server.
//
// Fields:
//   - EndpointAddrGRPC: bind address for the gRPC endpoint.
//   - StoreBackend: "sql", "dynamodb" or "memory".
//   - DatabaseDriver / DatabaseDSN: SQL store driver ("pgx" or "sqlite") and DSN.
//   - Dynamo*: DynamoDB table, region, endpoint override and static credentials.
//   - ContentFile: YAML file describing the content tree, users and dictionary.
//   - PerPage: page size used when a listing does not ask for one.
//   - DisableDefaultPlugin: skip registering the built-in site/user plugin.
//   - CreatedStatus: report 201 instead of 200 for new entries.
type Config struct {
	EndpointAddrGRPC string
	LogLevel         string

	StoreBackend   string
	DatabaseDriver string
	DatabaseDSN    string

	DynamoTable       string
	DynamoRegion      string
	DynamoEndpoint    string
	DynamoAccessKey   string
	DynamoSecretKey   string
	DynamoCreateTable bool

	ContentFile          string
	PerPage              int
	DisableDefaultPlugin bool
	CreatedStatus        bool
}

// LoadDefaults populates Config with development defaults: an embedded
// SQLite database next to the binary and a local content file.
func (c *Config) LoadDefaults() {
	c.EndpointAddrGRPC = ":50051"
	c.LogLevel = "info"
	c.StoreBackend = BackendSQL
	c.DatabaseDriver = "sqlite"
	c.DatabaseDSN = "file:feedback.db?_time_format=sqlite"
	c.DynamoTable = "feedback_entries"
	c.DynamoRegion = "us-east-1"
	c.DynamoCreateTable = true
	c.ContentFile = "content.yaml"
	c.PerPage = 10
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case BackendSQL:
		switch c.DatabaseDriver {
		case "pgx", "postgres", "sqlite", "sqlite3":
		default:
			return &common.ConfigurationError{Msg: fmt.Sprintf("unsupported database driver %q", c.DatabaseDriver)}
		}
		if c.DatabaseDSN == "" {
			return &common.ConfigurationError{Msg: "database DSN is empty"}
		}
	case BackendDynamoDB:
		if c.DynamoTable == "" {
			return &common.ConfigurationError{Msg: "dynamodb table is empty"}
		}
	case BackendMemory:
	default:
		return &common.ConfigurationError{Msg: fmt.Sprintf("unsupported store backend %q", c.StoreBackend)}
	}
	if c.ContentFile == "" {
		return &common.ConfigurationError{Msg: "content file is empty"}
	}
	return nil
}

// Level maps LogLevel to a slog level. Unknown values mean info.
func (c *Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
