package ratelimit

import (
	"strings"
)

// unlimitedPaths are GET endpoints that are never rate limited
var unlimitedPaths = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// MatchEndpoint matches a request path and method to an endpoint configuration.
// Returns the matching EndpointConfig or nil if no match is found.
// Path matching supports prefix matching (e.g., "/api/submissions/" matches "/api/submissions/{id}").
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	if method == "GET" && unlimitedPaths[path] {
		return &EndpointConfig{Path: path, Method: method}
	}

	// Try exact match first
	for i := range configs {
		config := &configs[i]
		if config.Path == path && config.Method == method {
			return config
		}
	}

	// Try prefix match (for paths ending with "/")
	for i := range configs {
		config := &configs[i]
		if config.Method == method && strings.HasSuffix(config.Path, "/") {
			if strings.HasPrefix(path, config.Path) {
				return config
			}
		}
	}

	return nil
}

// key returns the bucket key for a request matched by this configuration.
// Prefix configurations share one bucket across every path they match, and the
// default configuration shares one bucket across every unmatched path.
func (c EndpointConfig) key(path string) string {
	if c.Path == "" {
		return "*"
	}
	if strings.HasSuffix(c.Path, "/") {
		return c.Path
	}
	return path
}
