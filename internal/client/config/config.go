package config

import "time"

// Config holds runtime settings for the SKD tracker CLI.
//
// Fields:
//   - ServerEndpointAddr: host:port of the dashboard gRPC endpoint.
//   - RequestTimeout: upper bound for a single call to the server.
//   - OnlineCheckInterval: how often the client probes server reachability.
//   - ExportDir: where exported files are saved; empty only prints the link.
type Config struct {
	ServerEndpointAddr  string
	RequestTimeout      time.Duration
	OnlineCheckInterval time.Duration
	ExportDir           string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.RequestTimeout = 10 * time.Second
	c.OnlineCheckInterval = 3 * time.Second
	c.ExportDir = "exports"
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
