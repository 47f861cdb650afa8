package config

import (
	"encoding/json"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "/etc/storyhub"
	ConfigFileName    = "storyhub.yml"
)

// UploadKinds lists the media kinds that may appear in allowed_upload_types
var UploadKinds = []string{"image", "video", "audio", "document"}

// StoryhubConfig holds all server configuration settings
type StoryhubConfig struct {
	// StorageRoot is the directory where uploaded media blobs are written
	StorageRoot string `yaml:"storage_root" json:"storage_root"`

	// MaxUploadBytes is the largest single file accepted by the upload flow
	MaxUploadBytes int64 `yaml:"max_upload_bytes" json:"max_upload_bytes"`

	// AllowedUploadTypes is the list of media kinds accepted for upload
	AllowedUploadTypes []string `yaml:"allowed_upload_types" json:"allowed_upload_types"`

	// APIListLimitMax caps the limit query parameter on list endpoints
	APIListLimitMax int `yaml:"api_list_limit_max" json:"api_list_limit_max"`

	// SessionTokenTTL is the lifetime of issued access tokens in seconds
	SessionTokenTTL int `yaml:"session_token_ttl" json:"session_token_ttl"`

	// PublicBaseURL is used when building absolute links in reports and pages
	PublicBaseURL string `yaml:"public_base_url" json:"public_base_url"`

	// TrustedProxies is a list of CIDR ranges allowed to set X-Forwarded-For
	TrustedProxies []string `yaml:"trusted_proxies" json:"trusted_proxies"`

	// FetchRetries is the number of retries after a failed remote fetch
	FetchRetries int `yaml:"fetch_retries" json:"fetch_retries"`

	// FetchTimeout is the per-attempt timeout for remote fetches in seconds
	FetchTimeout int `yaml:"fetch_timeout" json:"fetch_timeout"`

	// FetchCacheTTL is how long fetched documents stay cached, in seconds
	FetchCacheTTL int `yaml:"fetch_cache_ttl" json:"fetch_cache_ttl"`

	// FetchCacheSize is the number of documents kept in the fetch cache
	FetchCacheSize int `yaml:"fetch_cache_size" json:"fetch_cache_size"`

	// WebDAVEnabled exposes the media store read-only under /dav/
	WebDAVEnabled bool `yaml:"webdav_enabled" json:"webdav_enabled"`

	sources        map[string]string
	configFilePath string
}

// envConfig mirrors StoryhubConfig for environment overrides. Pointer fields
// stay nil when the variable is unset so the source can be tracked.
type envConfig struct {
	StorageRoot        *string  `env:"STORYHUB_STORAGE_ROOT"`
	MaxUploadBytes     *int64   `env:"STORYHUB_MAX_UPLOAD_BYTES"`
	AllowedUploadTypes []string `env:"STORYHUB_ALLOWED_UPLOAD_TYPES" envSeparator:","`
	APIListLimitMax    *int     `env:"STORYHUB_API_LIST_LIMIT_MAX"`
	SessionTokenTTL    *int     `env:"STORYHUB_SESSION_TOKEN_TTL"`
	PublicBaseURL      *string  `env:"STORYHUB_PUBLIC_BASE_URL"`
	TrustedProxies     []string `env:"STORYHUB_TRUSTED_PROXIES" envSeparator:","`
	FetchRetries       *int     `env:"STORYHUB_FETCH_RETRIES"`
	FetchTimeout       *int     `env:"STORYHUB_FETCH_TIMEOUT"`
	FetchCacheTTL      *int     `env:"STORYHUB_FETCH_CACHE_TTL"`
	FetchCacheSize     *int     `env:"STORYHUB_FETCH_CACHE_SIZE"`
	WebDAVEnabled      *bool    `env:"STORYHUB_WEBDAV_ENABLED"`
}

// Attribute represents a configuration attribute with its value and source
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

// Default returns a config populated with built-in defaults
func Default() *StoryhubConfig {
	c := &StoryhubConfig{
		StorageRoot:        "/var/lib/storyhub/media",
		MaxUploadBytes:     50 << 20,
		AllowedUploadTypes: append([]string(nil), UploadKinds...),
		APIListLimitMax:    1000,
		SessionTokenTTL:    28800,
		PublicBaseURL:      "",
		TrustedProxies:     []string{},
		FetchRetries:       2,
		FetchTimeout:       10,
		FetchCacheTTL:      300,
		FetchCacheSize:     128,
		WebDAVEnabled:      false,
		sources:            make(map[string]string),
	}
	for _, name := range attributeNames() {
		c.sources[name] = "default"
	}
	return c
}

// Load loads configuration from file and environment variables.
// Environment variables take precedence over file values.
func Load() (*StoryhubConfig, error) {
	config := Default()

	configPath := os.Getenv("STORYHUB_CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	config.configFilePath = filepath.Join(configPath, ConfigFileName)

	if data, err := os.ReadFile(config.configFilePath); err == nil {
		var fileConfig StoryhubConfig
		if err := yaml.Unmarshal(data, &fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", config.configFilePath, err)
		}
		config.applyFileConfig(&fileConfig)
	}

	var overrides envConfig
	if err := env.Parse(&overrides); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	config.applyEnvConfig(&overrides)

	return config, nil
}

func attributeNames() []string {
	return []string{
		"storage_root", "max_upload_bytes", "allowed_upload_types",
		"api_list_limit_max", "session_token_ttl", "public_base_url",
		"trusted_proxies", "fetch_retries", "fetch_timeout",
		"fetch_cache_ttl", "fetch_cache_size", "webdav_enabled",
	}
}

func (c *StoryhubConfig) applyFileConfig(file *StoryhubConfig) {
	if file.StorageRoot != "" {
		c.StorageRoot = file.StorageRoot
		c.sources["storage_root"] = "file"
	}
	if file.MaxUploadBytes != 0 {
		c.MaxUploadBytes = file.MaxUploadBytes
		c.sources["max_upload_bytes"] = "file"
	}
	if len(file.AllowedUploadTypes) > 0 {
		c.AllowedUploadTypes = file.AllowedUploadTypes
		c.sources["allowed_upload_types"] = "file"
	}
	if file.APIListLimitMax != 0 {
		c.APIListLimitMax = file.APIListLimitMax
		c.sources["api_list_limit_max"] = "file"
	}
	if file.SessionTokenTTL != 0 {
		c.SessionTokenTTL = file.SessionTokenTTL
		c.sources["session_token_ttl"] = "file"
	}
	if file.PublicBaseURL != "" {
		c.PublicBaseURL = file.PublicBaseURL
		c.sources["public_base_url"] = "file"
	}
	if len(file.TrustedProxies) > 0 {
		c.TrustedProxies = file.TrustedProxies
		c.sources["trusted_proxies"] = "file"
	}
	if file.FetchRetries != 0 {
		c.FetchRetries = file.FetchRetries
		c.sources["fetch_retries"] = "file"
	}
	if file.FetchTimeout != 0 {
		c.FetchTimeout = file.FetchTimeout
		c.sources["fetch_timeout"] = "file"
	}
	if file.FetchCacheTTL != 0 {
		c.FetchCacheTTL = file.FetchCacheTTL
		c.sources["fetch_cache_ttl"] = "file"
	}
	if file.FetchCacheSize != 0 {
		c.FetchCacheSize = file.FetchCacheSize
		c.sources["fetch_cache_size"] = "file"
	}
	if file.WebDAVEnabled {
		c.WebDAVEnabled = true
		c.sources["webdav_enabled"] = "file"
	}
}

func (c *StoryhubConfig) applyEnvConfig(e *envConfig) {
	if e.StorageRoot != nil && *e.StorageRoot != "" {
		c.StorageRoot = *e.StorageRoot
		c.sources["storage_root"] = "environment"
	}
	if e.MaxUploadBytes != nil {
		c.MaxUploadBytes = *e.MaxUploadBytes
		c.sources["max_upload_bytes"] = "environment"
	}
	if len(e.AllowedUploadTypes) > 0 {
		c.AllowedUploadTypes = trimAll(e.AllowedUploadTypes)
		c.sources["allowed_upload_types"] = "environment"
	}
	if e.APIListLimitMax != nil {
		c.APIListLimitMax = *e.APIListLimitMax
		c.sources["api_list_limit_max"] = "environment"
	}
	if e.SessionTokenTTL != nil {
		c.SessionTokenTTL = *e.SessionTokenTTL
		c.sources["session_token_ttl"] = "environment"
	}
	if e.PublicBaseURL != nil {
		c.PublicBaseURL = *e.PublicBaseURL
		c.sources["public_base_url"] = "environment"
	}
	if len(e.TrustedProxies) > 0 {
		c.TrustedProxies = trimAll(e.TrustedProxies)
		c.sources["trusted_proxies"] = "environment"
	}
	if e.FetchRetries != nil {
		c.FetchRetries = *e.FetchRetries
		c.sources["fetch_retries"] = "environment"
	}
	if e.FetchTimeout != nil {
		c.FetchTimeout = *e.FetchTimeout
		c.sources["fetch_timeout"] = "environment"
	}
	if e.FetchCacheTTL != nil {
		c.FetchCacheTTL = *e.FetchCacheTTL
		c.sources["fetch_cache_ttl"] = "environment"
	}
	if e.FetchCacheSize != nil {
		c.FetchCacheSize = *e.FetchCacheSize
		c.sources["fetch_cache_size"] = "environment"
	}
	if e.WebDAVEnabled != nil {
		c.WebDAVEnabled = *e.WebDAVEnabled
		c.sources["webdav_enabled"] = "environment"
	}
}

// ConfigFilePath returns the path to the config file
func (c *StoryhubConfig) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute
func (c *StoryhubConfig) Source(name string) string {
	if c.sources == nil {
		return "default"
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return "default"
}

func (c *StoryhubConfig) TokenTTL() time.Duration {
	return time.Duration(c.SessionTokenTTL) * time.Second
}

func (c *StoryhubConfig) FetchTimeoutDuration() time.Duration {
	return time.Duration(c.FetchTimeout) * time.Second
}

func (c *StoryhubConfig) FetchCacheTTLDuration() time.Duration {
	return time.Duration(c.FetchCacheTTL) * time.Second
}

// IsUploadKindAllowed reports whether files of the given media kind may be uploaded
func (c *StoryhubConfig) IsUploadKindAllowed(kind string) bool {
	for _, k := range c.AllowedUploadTypes {
		if strings.EqualFold(k, kind) {
			return true
		}
	}
	return false
}

// ClampLimit bounds a requested list limit to [1, APIListLimitMax].
// A non-positive request yields the default of 50 (or the max, if lower).
func (c *StoryhubConfig) ClampLimit(requested int) int {
	max := c.APIListLimitMax
	if max <= 0 {
		max = 1000
	}
	if requested <= 0 {
		requested = 50
	}
	if requested > max {
		return max
	}
	return requested
}

// IsTrustedProxy checks if an IP is from a trusted proxy
func (c *StoryhubConfig) IsTrustedProxy(ip string) bool {
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
func (c *StoryhubConfig) Validate() error {
	for _, cidr := range c.TrustedProxies {
		if _, _, err := net.ParseCIDR(cidr); err != nil {
			if net.ParseIP(cidr) == nil {
				return fmt.Errorf("invalid trusted_proxies value: %s", cidr)
			}
		}
	}

	valid := make(map[string]bool)
	for _, k := range UploadKinds {
		valid[k] = true
	}
	for _, k := range c.AllowedUploadTypes {
		if !valid[strings.ToLower(k)] {
			return fmt.Errorf("invalid allowed_upload_types value: %s", k)
		}
	}

	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("max_upload_bytes must be positive")
	}
	if c.APIListLimitMax <= 0 {
		return fmt.Errorf("api_list_limit_max must be positive")
	}
	if c.SessionTokenTTL <= 0 {
		return fmt.Errorf("session_token_ttl must be positive")
	}
	if c.FetchRetries < 0 {
		return fmt.Errorf("fetch_retries must not be negative")
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("fetch_timeout must be positive")
	}
	if c.FetchCacheSize <= 0 {
		return fmt.Errorf("fetch_cache_size must be positive")
	}
	if c.PublicBaseURL != "" {
		if u, err := url.Parse(c.PublicBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid public_base_url value: %s", c.PublicBaseURL)
		}
	}

	return nil
}

// Attributes returns all configuration attributes with their values and sources
func (c *StoryhubConfig) Attributes() []Attribute {
	return []Attribute{
		{Name: "storage_root", Value: c.StorageRoot, Source: c.Source("storage_root")},
		{Name: "max_upload_bytes", Value: strconv.FormatInt(c.MaxUploadBytes, 10), Source: c.Source("max_upload_bytes")},
		{Name: "allowed_upload_types", Value: strings.Join(c.AllowedUploadTypes, ","), Source: c.Source("allowed_upload_types")},
		{Name: "api_list_limit_max", Value: strconv.Itoa(c.APIListLimitMax), Source: c.Source("api_list_limit_max")},
		{Name: "session_token_ttl", Value: strconv.Itoa(c.SessionTokenTTL), Source: c.Source("session_token_ttl")},
		{Name: "public_base_url", Value: c.PublicBaseURL, Source: c.Source("public_base_url")},
		{Name: "trusted_proxies", Value: strings.Join(c.TrustedProxies, ","), Source: c.Source("trusted_proxies")},
		{Name: "fetch_retries", Value: strconv.Itoa(c.FetchRetries), Source: c.Source("fetch_retries")},
		{Name: "fetch_timeout", Value: strconv.Itoa(c.FetchTimeout), Source: c.Source("fetch_timeout")},
		{Name: "fetch_cache_ttl", Value: strconv.Itoa(c.FetchCacheTTL), Source: c.Source("fetch_cache_ttl")},
		{Name: "fetch_cache_size", Value: strconv.Itoa(c.FetchCacheSize), Source: c.Source("fetch_cache_size")},
		{Name: "webdav_enabled", Value: strconv.FormatBool(c.WebDAVEnabled), Source: c.Source("webdav_enabled")},
	}
}

// FormatText returns a text representation of the configuration
func (c *StoryhubConfig) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Config file: %s\n\n", c.configFilePath))
	sb.WriteString(fmt.Sprintf("%-40s %-30s %s\n", "NAME", "VALUE", "SOURCE"))
	sb.WriteString(fmt.Sprintf("%-40s %-30s %s\n", "----", "-----", "------"))

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("%-40s %-30s %s\n", attr.Name, value, attr.Source))
	}
	return sb.String()
}

// FormatJSON returns a JSON representation of the configuration
func (c *StoryhubConfig) FormatJSON() (string, error) {
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

func trimAll(values []string) []string {
	result := make([]string, 0, len(values))
	for _, v := range values {
		if t := strings.TrimSpace(v); t != "" {
			result = append(result, t)
		}
	}
	return result
}
