package config

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "/etc/omnitron/config"
	ConfigFileName    = "omnitron.yml"
)

// GateConfig holds all gateway configuration settings
type GateConfig struct {
	// BindAddress is the address the gateway listens on
	BindAddress string `yaml:"bind_address" json:"bind_address"`

	// Port is the gateway listen port
	Port int `yaml:"port" json:"port"`

	// AdminToken guards the administrative API
	AdminToken string `yaml:"admin_token" json:"admin_token"`

	// TicketTTL is the default ticket lifetime in seconds (0 = no expiry)
	TicketTTL int `yaml:"ticket_ttl" json:"ticket_ttl"`

	// UpstreamTimeout is the upstream response header timeout in seconds
	UpstreamTimeout int `yaml:"upstream_timeout" json:"upstream_timeout"`

	// RateLimitPerSecond is the per-client request rate for the admin API
	RateLimitPerSecond float64 `yaml:"rate_limit_per_second" json:"rate_limit_per_second"`

	// RateLimitBurst is the per-client burst size for the admin API
	RateLimitBurst int `yaml:"rate_limit_burst" json:"rate_limit_burst"`

	// TrustedProxies is a list of CIDR ranges for trusted proxies
	TrustedProxies []string `yaml:"trusted_proxies" json:"trusted_proxies"`

	// sources tracks where each value came from
	sources map[string]string

	// configFilePath is the path to the config file
	configFilePath string
}

// Attribute represents a configuration attribute with its value and source
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

// Global singleton config
var (
	globalConfig *GateConfig
	configMu     sync.RWMutex
)

// Get returns the global configuration, loading it if necessary
func Get() *GateConfig {
	configMu.RLock()
	if globalConfig != nil {
		configMu.RUnlock()
		return globalConfig
	}
	configMu.RUnlock()

	configMu.Lock()
	defer configMu.Unlock()

	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			// Return defaults on error
			globalConfig = newDefault()
		} else {
			globalConfig = cfg
		}
	}
	return globalConfig
}

// Reload reloads the configuration from file and environment
func Reload() error {
	cfg, err := Load()
	if err != nil {
		return err
	}

	configMu.Lock()
	globalConfig = cfg
	configMu.Unlock()
	return nil
}

// newDefault returns a config with default values
func newDefault() *GateConfig {
	return &GateConfig{
		BindAddress:        "0.0.0.0",
		Port:               8888,
		TicketTTL:          0,
		UpstreamTimeout:    30,
		RateLimitPerSecond: 2,
		RateLimitBurst:     30,
		TrustedProxies:     []string{},
		sources:            make(map[string]string),
	}
}

// Load loads configuration from file and environment variables
// Environment variables take precedence over file values
func Load() (*GateConfig, error) {
	config := newDefault()

	for _, name := range attributeNames() {
		config.sources[name] = "default"
	}

	configPath := os.Getenv("OMNITRON_CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	config.configFilePath = filepath.Join(configPath, ConfigFileName)

	if data, err := os.ReadFile(config.configFilePath); err == nil {
		var fileConfig GateConfig
		if err := yaml.Unmarshal(data, &fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", config.configFilePath, err)
		}
		config.applyFileConfig(&fileConfig)
	}

	config.applyEnvConfig()

	return config, nil
}

func attributeNames() []string {
	return []string{
		"bind_address", "port", "admin_token", "ticket_ttl",
		"upstream_timeout", "rate_limit_per_second", "rate_limit_burst",
		"trusted_proxies",
	}
}

func (c *GateConfig) applyFileConfig(file *GateConfig) {
	if file.BindAddress != "" {
		c.BindAddress = file.BindAddress
		c.sources["bind_address"] = "file"
	}
	if file.Port != 0 {
		c.Port = file.Port
		c.sources["port"] = "file"
	}
	if file.AdminToken != "" {
		c.AdminToken = file.AdminToken
		c.sources["admin_token"] = "file"
	}
	if file.TicketTTL != 0 {
		c.TicketTTL = file.TicketTTL
		c.sources["ticket_ttl"] = "file"
	}
	if file.UpstreamTimeout != 0 {
		c.UpstreamTimeout = file.UpstreamTimeout
		c.sources["upstream_timeout"] = "file"
	}
	if file.RateLimitPerSecond != 0 {
		c.RateLimitPerSecond = file.RateLimitPerSecond
		c.sources["rate_limit_per_second"] = "file"
	}
	if file.RateLimitBurst != 0 {
		c.RateLimitBurst = file.RateLimitBurst
		c.sources["rate_limit_burst"] = "file"
	}
	if len(file.TrustedProxies) > 0 {
		c.TrustedProxies = file.TrustedProxies
		c.sources["trusted_proxies"] = "file"
	}
}

func (c *GateConfig) applyEnvConfig() {
	if val := os.Getenv("OMNITRON_BIND_ADDRESS"); val != "" {
		c.BindAddress = val
		c.sources["bind_address"] = "environment"
	}
	if val := os.Getenv("OMNITRON_PORT"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.Port = i
			c.sources["port"] = "environment"
		}
	}
	if val := os.Getenv("OMNITRON_ADMIN_TOKEN"); val != "" {
		c.AdminToken = val
		c.sources["admin_token"] = "environment"
	}
	if val := os.Getenv("OMNITRON_TICKET_TTL"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.TicketTTL = i
			c.sources["ticket_ttl"] = "environment"
		}
	}
	if val := os.Getenv("OMNITRON_UPSTREAM_TIMEOUT"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.UpstreamTimeout = i
			c.sources["upstream_timeout"] = "environment"
		}
	}
	if val := os.Getenv("OMNITRON_RATE_LIMIT_PER_SECOND"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			c.RateLimitPerSecond = f
			c.sources["rate_limit_per_second"] = "environment"
		}
	}
	if val := os.Getenv("OMNITRON_RATE_LIMIT_BURST"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.RateLimitBurst = i
			c.sources["rate_limit_burst"] = "environment"
		}
	}
	if val := os.Getenv("OMNITRON_TRUSTED_PROXIES"); val != "" {
		c.TrustedProxies = splitAndTrim(val)
		c.sources["trusted_proxies"] = "environment"
	}
}

// ConfigFilePath returns the path to the config file
func (c *GateConfig) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute
func (c *GateConfig) Source(name string) string {
	if c.sources == nil {
		return "default"
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return "default"
}

// ListenAddr returns the address the HTTP server binds to
func (c *GateConfig) ListenAddr() string {
	return c.BindAddress + ":" + strconv.Itoa(c.Port)
}

// DefaultTicketTTL returns the default ticket lifetime as a duration.
// Zero means tickets do not expire.
func (c *GateConfig) DefaultTicketTTL() time.Duration {
	return time.Duration(c.TicketTTL) * time.Second
}

// UpstreamResponseTimeout returns the upstream timeout as a duration
func (c *GateConfig) UpstreamResponseTimeout() time.Duration {
	return time.Duration(c.UpstreamTimeout) * time.Second
}

// IsTrustedProxy checks if an IP is from a trusted proxy
func (c *GateConfig) IsTrustedProxy(ip string) bool {
	if len(c.TrustedProxies) == 0 {
		return false
	}

	parsedIP := net.ParseIP(ip)
	if parsedIP == nil {
		return false
	}

	for _, cidr := range c.TrustedProxies {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			// Try as plain IP
			if net.ParseIP(cidr) != nil && cidr == ip {
				return true
			}
			continue
		}
		if network.Contains(parsedIP) {
			return true
		}
	}
	return false
}

// Validate validates the configuration
func (c *GateConfig) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.AdminToken == "" {
		return fmt.Errorf("admin_token is required (set OMNITRON_ADMIN_TOKEN or admin_token in the config file)")
	}
	if c.UpstreamTimeout < 0 {
		return fmt.Errorf("invalid upstream_timeout: %d", c.UpstreamTimeout)
	}
	if c.RateLimitPerSecond < 0 {
		return fmt.Errorf("invalid rate_limit_per_second: %v", c.RateLimitPerSecond)
	}
	for _, cidr := range c.TrustedProxies {
		if _, _, err := net.ParseCIDR(cidr); err != nil {
			if net.ParseIP(cidr) == nil {
				return fmt.Errorf("invalid trusted_proxies value: %s", cidr)
			}
		}
	}
	return nil
}

// Attributes returns all configuration attributes with their values and sources
func (c *GateConfig) Attributes() []Attribute {
	adminToken := ""
	if c.AdminToken != "" {
		adminToken = "(set)"
	}
	return []Attribute{
		{Name: "bind_address", Value: c.BindAddress, Source: c.Source("bind_address")},
		{Name: "port", Value: strconv.Itoa(c.Port), Source: c.Source("port")},
		{Name: "admin_token", Value: adminToken, Source: c.Source("admin_token")},
		{Name: "ticket_ttl", Value: strconv.Itoa(c.TicketTTL), Source: c.Source("ticket_ttl")},
		{Name: "upstream_timeout", Value: strconv.Itoa(c.UpstreamTimeout), Source: c.Source("upstream_timeout")},
		{Name: "rate_limit_per_second", Value: strconv.FormatFloat(c.RateLimitPerSecond, 'f', -1, 64), Source: c.Source("rate_limit_per_second")},
		{Name: "rate_limit_burst", Value: strconv.Itoa(c.RateLimitBurst), Source: c.Source("rate_limit_burst")},
		{Name: "trusted_proxies", Value: strings.Join(c.TrustedProxies, ","), Source: c.Source("trusted_proxies")},
	}
}

// FormatText returns a text representation of the configuration
func (c *GateConfig) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Config file: %s\n\n", c.configFilePath))
	sb.WriteString(fmt.Sprintf("%-30s %-30s %s\n", "NAME", "VALUE", "SOURCE"))
	sb.WriteString(fmt.Sprintf("%-30s %-30s %s\n", "----", "-----", "------"))

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("%-30s %-30s %s\n", attr.Name, value, attr.Source))
	}
	return sb.String()
}

// FormatJSON returns a JSON representation of the configuration
func (c *GateConfig) FormatJSON() (string, error) {
	result := map[string]interface{}{
		"config_file": c.configFilePath,
		"attributes":  c.Attributes(),
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Watch watches the config file and reloads the global configuration when it
// changes. The returned stop function closes the watcher.
func Watch(onReload func(*GateConfig)) (func(), error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	path := Get().ConfigFilePath()
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", path, err)
	}

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Name != path {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if err := Reload(); err != nil {
					continue
				}
				if onReload != nil {
					onReload(Get())
				}
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return func() { _ = watcher.Close() }, nil
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
