package backend

import (
	"fmt"

	"github.com/mattermost/mattermost/server/public/plugin"

	"github.com/mattermost/mattermost-plugin-orefalerts/server/metrics"
)

// Dependencies groups the collaborators handed to every monitor.
type Dependencies struct {
	// Logger receives structured logs
	Logger Logger

	// API is used for KV state persistence
	API plugin.API

	// Notifier dispatches home alert notifications (may be nil)
	Notifier Notifier

	// OnHomeAlert is called for each newly relevant alert (may be nil)
	OnHomeAlert HomeAlertCallback

	// Metrics records cycle outcomes (may be nil)
	Metrics *metrics.Metrics
}

// Factory is a function type that creates a monitor instance
type Factory func(config Config, deps Dependencies) (Backend, error)

// factoryRegistry maps feed types to their factory functions
var factoryRegistry = make(map[string]Factory)

// RegisterBackendFactory registers a monitor factory for a given type.
func RegisterBackendFactory(backendType string, factory Factory) {
	factoryRegistry[backendType] = factory
}

// Create creates a new monitor instance based on the provided configuration.
// Returns an error if the type is unknown or if creation fails.
func Create(config Config, deps Dependencies) (Backend, error) {
	if config.Type == "" {
		return nil, fmt.Errorf("backend type is required")
	}

	factory, exists := factoryRegistry[config.Type]
	if !exists {
		return nil, fmt.Errorf("unknown backend type: %s", config.Type)
	}

	return factory(config, deps)
}
