// ABOUTME: Configuration loading and parsing for the agentcore bridge
// ABOUTME: Supports YAML or TOML files and Lambda environment variables, with duration parsing

package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// ErrGatewayRequired is returned by RequireGateway when the forward target is incomplete.
var ErrGatewayRequired = errors.New("gateway endpoint and target name are required")

// Config represents the complete bridge configuration
type Config struct {
	Gateway GatewayConfig `yaml:"gateway" toml:"gateway"`
	Server  ServerConfig  `yaml:"server" toml:"server"`
	Lambda  LambdaConfig  `yaml:"lambda" toml:"lambda"`
	Tools   ToolsConfig   `yaml:"tools" toml:"tools"`
	Logging LoggingConfig `yaml:"logging" toml:"logging"`
	Metrics MetricsConfig `yaml:"metrics" toml:"metrics"`
}

// GatewayConfig describes the downstream MCP gateway the action bridge forwards to
type GatewayConfig struct {
	Endpoint string `yaml:"endpoint" toml:"endpoint"`
	Target   string `yaml:"target" toml:"target"`
	Region   string `yaml:"region" toml:"region"`
	Service  string `yaml:"service" toml:"service"`

	Timeout    time.Duration `yaml:"-" toml:"-"`
	TimeoutRaw string        `yaml:"timeout" toml:"timeout"`
}

// ServerConfig holds the HTTP listener address
type ServerConfig struct {
	HTTPAddr string `yaml:"http_addr" toml:"http_addr"`
}

// LambdaConfig holds Lambda delivery options
type LambdaConfig struct {
	ResponseStreaming bool `yaml:"response_streaming" toml:"response_streaming"`
}

// ToolsConfig holds configuration for the built-in tools
type ToolsConfig struct {
	Clock ClockConfig `yaml:"clock" toml:"clock"`
	Proxy ProxyConfig `yaml:"proxy" toml:"proxy"`
}

// ClockConfig configures the getCurrentTime tool
type ClockConfig struct {
	Enabled bool   `yaml:"enabled" toml:"enabled"`
	Zone    string `yaml:"zone" toml:"zone"`
	Label   string `yaml:"label" toml:"label"`

	Timeout    time.Duration `yaml:"-" toml:"-"`
	TimeoutRaw string        `yaml:"timeout" toml:"timeout"`
}

// ProxyConfig configures tools forwarded to a remote AWS MCP server
type ProxyConfig struct {
	Enabled  bool     `yaml:"enabled" toml:"enabled"`
	Endpoint string   `yaml:"endpoint" toml:"endpoint"`
	Region   string   `yaml:"region" toml:"region"`
	Service  string   `yaml:"service" toml:"service"`
	Tools    []string `yaml:"tools" toml:"tools"`

	Timeout    time.Duration `yaml:"-" toml:"-"`
	TimeoutRaw string        `yaml:"timeout" toml:"timeout"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// MetricsConfig holds metrics endpoint configuration
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" toml:"enabled"`
	Path    string `yaml:"path" toml:"path"`
}

// Default returns a Config populated with default values.
func Default() *Config {
	return &Config{
		Gateway: GatewayConfig{
			Region:     "ap-northeast-1",
			Service:    "bedrock-agentcore",
			TimeoutRaw: "30s",
		},
		Server: ServerConfig{
			HTTPAddr: ":8080",
		},
		Tools: ToolsConfig{
			Clock: ClockConfig{
				Enabled:    true,
				Zone:       "Asia/Tokyo",
				Label:      "JST",
				TimeoutRaw: "5s",
			},
			Proxy: ProxyConfig{
				Endpoint:   "https://aws-mcp.us-east-1.api.aws/mcp",
				Region:     "us-east-1",
				Service:    "aws-mcp",
				Tools:      []string{"search_documentation", "read_documentation", "recommend"},
				TimeoutRaw: "60s",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Path: "/metrics",
		},
	}
}

// Load reads a configuration file from the given path and returns a parsed Config.
// Files ending in .toml are parsed as TOML, anything else as YAML.
// Environment variables in the format ${VAR_NAME} are expanded.
// Duration strings are parsed into time.Duration values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expandedData := expandEnvVars(string(data))

	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(expandedData, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	default:
		if err := yaml.Unmarshal([]byte(expandedData), cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := parseDurations(cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// FromEnv builds a Config from defaults overridden by environment variables.
// This is how the Lambda entry points are configured.
func FromEnv() (*Config, error) {
	cfg := Default()

	setString(&cfg.Gateway.Endpoint, "GATEWAY_ENDPOINT")
	setString(&cfg.Gateway.Target, "TARGET_NAME")
	setString(&cfg.Gateway.Region, "AWS_REGION")
	setString(&cfg.Gateway.Service, "GATEWAY_SERVICE")
	setString(&cfg.Gateway.TimeoutRaw, "FORWARD_TIMEOUT")
	setString(&cfg.Logging.Level, "LOG_LEVEL")
	setString(&cfg.Logging.Format, "LOG_FORMAT")
	setString(&cfg.Tools.Proxy.Endpoint, "AWS_MCP_ENDPOINT")
	setString(&cfg.Tools.Proxy.Region, "AWS_MCP_REGION")

	if v := os.Getenv("AWS_MCP_TOOLS"); v != "" {
		cfg.Tools.Proxy.Tools = splitList(v)
	}
	if err := setBool(&cfg.Tools.Proxy.Enabled, "PROXY_ENABLED"); err != nil {
		return nil, err
	}
	if err := setBool(&cfg.Lambda.ResponseStreaming, "RESPONSE_STREAMING"); err != nil {
		return nil, err
	}

	if err := parseDurations(cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// MCPURL is the gateway's MCP endpoint.
func (g GatewayConfig) MCPURL() string {
	return strings.TrimRight(g.Endpoint, "/") + "/mcp"
}

// RequireGateway reports whether the action bridge has somewhere to forward to.
func (c *Config) RequireGateway() error {
	if c.Gateway.Endpoint == "" || c.Gateway.Target == "" {
		return ErrGatewayRequired
	}
	return nil
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// Validate checks that all configuration fields are consistent.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	if c.Gateway.Endpoint != "" {
		if err := validateURL(c.Gateway.Endpoint); err != nil {
			return fmt.Errorf("gateway.endpoint: %w", err)
		}
	}
	if strings.Contains(c.Gateway.Target, "___") {
		return fmt.Errorf("gateway.target must not contain the namespace separator")
	}
	if c.Gateway.Region == "" {
		return fmt.Errorf("gateway.region is required")
	}
	if c.Gateway.Service == "" {
		return fmt.Errorf("gateway.service is required")
	}

	if c.Tools.Proxy.Enabled {
		if err := validateURL(c.Tools.Proxy.Endpoint); err != nil {
			return fmt.Errorf("tools.proxy.endpoint: %w", err)
		}
		if c.Tools.Proxy.Region == "" {
			return fmt.Errorf("tools.proxy.region is required when proxy is enabled")
		}
		if len(c.Tools.Proxy.Tools) == 0 {
			return fmt.Errorf("tools.proxy.tools must list at least one tool when proxy is enabled")
		}
	}

	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path must start with /")
	}

	return nil
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host")
	}
	return nil
}

// parseDurations converts the raw duration strings into time.Duration values
func parseDurations(cfg *Config) error {
	fields := []struct {
		name string
		raw  string
		dst  *time.Duration
	}{
		{"gateway.timeout", cfg.Gateway.TimeoutRaw, &cfg.Gateway.Timeout},
		{"tools.clock.timeout", cfg.Tools.Clock.TimeoutRaw, &cfg.Tools.Clock.Timeout},
		{"tools.proxy.timeout", cfg.Tools.Proxy.TimeoutRaw, &cfg.Tools.Proxy.Timeout},
	}

	for _, f := range fields {
		if f.raw == "" {
			continue
		}
		d, err := time.ParseDuration(f.raw)
		if err != nil {
			return fmt.Errorf("parsing %s %q: %w", f.name, f.raw, err)
		}
		if d <= 0 {
			return fmt.Errorf("%s must be positive, got %q", f.name, f.raw)
		}
		*f.dst = d
	}

	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setBool(dst *bool, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("parsing %s %q: %w", key, v, err)
	}
	*dst = b
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
