// Package oref implements the Home Front Command (Pikud HaOref) alert monitor.
package oref

import (
	"fmt"
	"sync"

	"github.com/mattermost/mattermost-plugin-orefalerts/server/backend"
	"github.com/mattermost/mattermost-plugin-orefalerts/server/metrics"
)

// init registers the oref monitor factory
func init() {
	backend.RegisterBackendFactory(backend.TypeOref, func(config backend.Config, deps backend.Dependencies) (backend.Backend, error) {
		return New(config, deps)
	})
}

// Backend implements backend.Backend for the Home Front Command feed
type Backend struct {
	config     backend.Config
	logger     backend.Logger
	metrics    *metrics.Metrics
	stateStore *StateStore
	poller     *Poller
	mu         sync.RWMutex
	running    bool
}

// New creates a new monitor instance
func New(config backend.Config, deps backend.Dependencies) (*Backend, error) {
	if config.Type != backend.TypeOref {
		return nil, fmt.Errorf("invalid backend type: %s (expected: %s)", config.Type, backend.TypeOref)
	}
	if config.ID == "" {
		return nil, fmt.Errorf("backend ID is required")
	}
	if config.URL == "" {
		return nil, fmt.Errorf("backend URL is required")
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	stateStore := NewStateStore(deps.API, config.ID)
	feed := NewFeedClient(config.URL, deps.Logger)

	processor := NewAlertProcessor(
		deps.Logger,
		config.ID,
		config.Name,
		config.HomeLocality,
		deps.Notifier,
		deps.OnHomeAlert,
		deps.Metrics,
	)

	poller := NewPoller(
		deps.Logger,
		config.ID,
		config.Name,
		config.HomeLocality,
		config.PollInterval(),
		feed,
		processor,
		stateStore,
		deps.Metrics,
	)

	return &Backend{
		config:     config,
		logger:     deps.Logger,
		metrics:    deps.Metrics,
		stateStore: stateStore,
		poller:     poller,
	}, nil
}

// Start begins the monitor's polling lifecycle
func (b *Backend) Start() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.running {
		return fmt.Errorf("backend already running")
	}

	if !b.config.Enabled {
		return fmt.Errorf("backend is disabled")
	}

	if err := b.poller.Start(); err != nil {
		return fmt.Errorf("failed to start poller: %w", err)
	}

	b.running = true
	b.logger.Info("Oref monitor started", "id", b.config.ID, "name", b.config.Name, "homeLocality", b.config.HomeLocality)
	return nil
}

// Stop cancels future polling cycles
func (b *Backend) Stop() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.running {
		return nil
	}

	if err := b.poller.Stop(); err != nil {
		b.logger.Error("Failed to stop poller", "id", b.config.ID, "error", err.Error())
		return fmt.Errorf("failed to stop poller: %w", err)
	}

	b.metrics.Forget(b.config.Name)

	b.running = false
	b.logger.Info("Oref monitor stopped", "id", b.config.ID, "name", b.config.Name)
	return nil
}

// ClearState removes persisted poll health
func (b *Backend) ClearState() error {
	return b.stateStore.Clear()
}

// GetID returns the unique identifier for this monitor
func (b *Backend) GetID() string {
	return b.config.ID
}

// GetName returns the display name for this monitor
func (b *Backend) GetName() string {
	return b.config.Name
}

// GetType returns the feed type
func (b *Backend) GetType() string {
	return b.config.Type
}

// GetSnapshot returns the latest published snapshot
func (b *Backend) GetSnapshot() backend.Snapshot {
	return b.poller.Snapshot()
}

// Refresh requests an immediate cycle
func (b *Backend) Refresh() bool {
	return b.poller.Refresh()
}

// GetStatus returns the current operational status of the monitor
func (b *Backend) GetStatus() backend.Status {
	b.mu.RLock()
	running := b.running
	b.mu.RUnlock()

	health := b.poller.Health()

	return backend.Status{
		Enabled:             b.config.Enabled && running,
		ConnectionState:     b.poller.Snapshot().ConnectionState,
		LastPollTime:        health.LastPoll,
		LastSuccessTime:     health.LastSuccess,
		ConsecutiveFailures: health.ConsecutiveFailures,
		LastError:           health.LastError,
		SkippedTicks:        b.poller.SkippedTicks(),
	}
}
