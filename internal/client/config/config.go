package config

import "time"

// Config holds runtime settings for the feedback backoffice CLI.
//
// Fields:
//   - ServerEndpointAddr: host:port of the feedback gRPC endpoint.
//   - OnlineCheckInterval: how often the client probes server reachability.
//   - RequestTimeout: deadline applied to every call.
//   - Culture: culture used by the server to localize names.
type Config struct {
	ServerEndpointAddr  string
	OnlineCheckInterval time.Duration
	RequestTimeout      time.Duration
	Culture             string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.OnlineCheckInterval = 3 * time.Second
	c.RequestTimeout = 5 * time.Second
	c.Culture = "en-US"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
