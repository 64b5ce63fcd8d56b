// Package config defines the typed configuration structs shared across layers.
package config

import (
	"fmt"
	"time"
)

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
	AddSource  bool   `mapstructure:"add_source"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// SOAPEndpointConfig describes the legacy SOAP ticket desk. An empty URL
// means the legacy backend is not deployed and is skipped in the fan-out.
type SOAPEndpointConfig struct {
	URL       string `mapstructure:"url"`
	Namespace string `mapstructure:"namespace"`
}

// RESTEndpointConfig describes one REST ticket desk instance. The map key it
// is registered under becomes the origin tag of every entity it produces.
type RESTEndpointConfig struct {
	URL  string `mapstructure:"url"`
	Kind string `mapstructure:"kind"`
}

// HelpdeskConfig tunes the aggregation and cache-refresh engine.
type HelpdeskConfig struct {
	BackendTimeout   time.Duration                 `mapstructure:"backend_timeout"`
	CacheTTL         time.Duration                 `mapstructure:"cache_ttl"`
	RefreshInterval  time.Duration                 `mapstructure:"refresh_interval"`
	IdleRefreshLimit int                           `mapstructure:"idle_refresh_limit"`
	SOAP             SOAPEndpointConfig            `mapstructure:"soap"`
	RESTEndpoints    map[string]RESTEndpointConfig `mapstructure:"rest_endpoints"`
}

// Validate enforces the cross-field constraints the engine relies on. The
// keep-warm interval must stay strictly below the cache TTL or a value under
// steady read traffic would expire between refreshes.
func (h *HelpdeskConfig) Validate() error {
	if h.BackendTimeout <= 0 {
		return fmt.Errorf("helpdesk.backend_timeout must be positive, got %s", h.BackendTimeout)
	}
	if h.CacheTTL <= 0 {
		return fmt.Errorf("helpdesk.cache_ttl must be positive, got %s", h.CacheTTL)
	}
	if h.RefreshInterval <= 0 {
		return fmt.Errorf("helpdesk.refresh_interval must be positive, got %s", h.RefreshInterval)
	}
	if h.RefreshInterval >= h.CacheTTL {
		return fmt.Errorf("helpdesk.refresh_interval (%s) must be strictly shorter than helpdesk.cache_ttl (%s)",
			h.RefreshInterval, h.CacheTTL)
	}
	for key, ep := range h.RESTEndpoints {
		if ep.URL == "" {
			return fmt.Errorf("helpdesk.rest_endpoints.%s.url must not be empty", key)
		}
	}
	return nil
}
