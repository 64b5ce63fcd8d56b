// Package backends assembles the backend registry from configuration.
package backends

import (
	"sort"
	"strings"

	"deskhub/internal/domain/helpdesk"
	"deskhub/internal/infrastructure/backends/restdesk"
	"deskhub/internal/infrastructure/backends/soapdesk"
	sharedConfig "deskhub/internal/shared/config"
	"deskhub/internal/shared/logger"
)

// BuildRegistry registers one backend per configured endpoint. An absent
// SOAP URL means the legacy desk is skipped, not an error. A REST endpoint
// whose kind is not recognized gets a misconfigured stub so the fan-out
// reports it per call without disturbing the other backends.
func BuildRegistry(cfg *sharedConfig.HelpdeskConfig, log logger.Interface) *helpdesk.Registry {
	registry := helpdesk.NewRegistry()

	if cfg.SOAP.URL != "" {
		registry.Register(soapdesk.New(cfg.SOAP.URL, cfg.SOAP.Namespace, cfg.BackendTimeout, log))
		log.Infow("registered legacy soap backend", "url", cfg.SOAP.URL)
	} else {
		log.Infow("legacy soap backend not configured, skipping")
	}

	// Map iteration order is random; sort the keys so fan-out order is
	// stable across restarts.
	keys := make([]string, 0, len(cfg.RESTEndpoints))
	for key := range cfg.RESTEndpoints {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		endpoint := cfg.RESTEndpoints[key]
		switch strings.ToLower(endpoint.Kind) {
		case "rest", "":
			registry.Register(restdesk.New(key, endpoint.URL, cfg.BackendTimeout, log))
			log.Infow("registered rest backend", "endpoint", key, "url", endpoint.URL)
		default:
			registry.Register(NewMisconfigured(helpdesk.Origin(key), endpoint.Kind))
			log.Warnw("endpoint kind is not recognized, registering misconfigured stub",
				"endpoint", key,
				"kind", endpoint.Kind,
			)
		}
	}

	return registry
}
