// ABOUTME: Feature flag management for optional backend behaviour
// ABOUTME: A static base holds the defaults and FEATURE_* environment variables override it

package featureflags

import (
	"context"
	"os"
	"strings"
	"sync"
)

// FeatureFlag represents a single feature flag
type FeatureFlag string

// Defined feature flags
const (
	// ListingCache caches listing details between requests
	ListingCache FeatureFlag = "listing_cache"

	// RateLimit enables per-IP rate limiting on the backend
	RateLimit FeatureFlag = "rate_limit"

	// PageFallback scrapes the public listing page when no API key is configured
	PageFallback FeatureFlag = "page_fallback"
)

// All lists every defined flag
var All = []FeatureFlag{ListingCache, RateLimit, PageFallback}

// Defaults is the state of each flag when nothing overrides it
var Defaults = map[FeatureFlag]bool{
	ListingCache: true,
	RateLimit:    true,
	PageFallback: true,
}

// Manager defines the interface for feature flag management
type Manager interface {
	// IsEnabled checks if a feature flag is enabled
	IsEnabled(ctx context.Context, flag FeatureFlag) bool

	// SetEnabled sets a feature flag's state (for testing)
	SetEnabled(flag FeatureFlag, enabled bool)

	// GetAllFlags returns the state of all flags
	GetAllFlags() map[FeatureFlag]bool
}

// EnvManager implements Manager using environment variables over a base manager
type EnvManager struct {
	mu        sync.RWMutex
	overrides map[FeatureFlag]bool
	prefix    string
	base      Manager
}

// NewEnvManager creates a new environment-based feature flag manager
// whose base is a StaticManager holding Defaults
func NewEnvManager(prefix string) *EnvManager {
	return NewEnvManagerWithBase(prefix, NewStaticManager(Defaults))
}

// NewEnvManagerWithBase creates an environment-based manager that falls back
// to base for flags the environment does not set
func NewEnvManagerWithBase(prefix string, base Manager) *EnvManager {
	if prefix == "" {
		prefix = "FEATURE_"
	}
	if base == nil {
		base = NewStaticManager(Defaults)
	}
	return &EnvManager{
		overrides: make(map[FeatureFlag]bool),
		prefix:    prefix,
		base:      base,
	}
}

// IsEnabled checks if a feature flag is enabled. Explicit overrides win,
// then the environment, then the base manager.
func (m *EnvManager) IsEnabled(ctx context.Context, flag FeatureFlag) bool {
	m.mu.RLock()
	if enabled, ok := m.overrides[flag]; ok {
		m.mu.RUnlock()
		return enabled
	}
	m.mu.RUnlock()

	value := strings.ToLower(strings.TrimSpace(os.Getenv(m.prefix + strings.ToUpper(string(flag)))))
	switch value {
	case "true", "1", "enabled", "on":
		return true
	case "false", "0", "disabled", "off":
		return false
	}
	return m.base.IsEnabled(ctx, flag)
}

// SetEnabled sets a feature flag's state (mainly for testing)
func (m *EnvManager) SetEnabled(flag FeatureFlag, enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.overrides[flag] = enabled
}

// GetAllFlags returns the state of all defined flags
func (m *EnvManager) GetAllFlags() map[FeatureFlag]bool {
	ctx := context.Background()
	flags := make(map[FeatureFlag]bool, len(All))
	for _, f := range All {
		flags[f] = m.IsEnabled(ctx, f)
	}
	return flags
}

// StaticManager implements Manager with static configuration
type StaticManager struct {
	flags map[FeatureFlag]bool
	mu    sync.RWMutex
}

// NewStaticManager creates a manager with predefined flag states.
// Flags missing from the map are disabled.
func NewStaticManager(flags map[FeatureFlag]bool) *StaticManager {
	copied := make(map[FeatureFlag]bool, len(flags))
	for k, v := range flags {
		copied[k] = v
	}
	return &StaticManager{
		flags: copied,
	}
}

// IsEnabled checks if a feature flag is enabled
func (m *StaticManager) IsEnabled(ctx context.Context, flag FeatureFlag) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.flags[flag]
}

// SetEnabled sets a feature flag's state
func (m *StaticManager) SetEnabled(flag FeatureFlag, enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flags[flag] = enabled
}

// GetAllFlags returns all flag states
func (m *StaticManager) GetAllFlags() map[FeatureFlag]bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make(map[FeatureFlag]bool)
	for k, v := range m.flags {
		result[k] = v
	}
	return result
}
