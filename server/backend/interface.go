package backend

// Backend defines the interface that every monitor implementation must satisfy.
// A monitor owns one polling loop, its connection state and its dedup state.
type Backend interface {
	// Start begins the monitor's polling lifecycle.
	// The first cycle runs immediately.
	Start() error

	// Stop cancels future cycles. A cycle already in flight is allowed to
	// finish but its result is discarded.
	Stop() error

	// GetID returns the unique identifier for this monitor (UUID v4).
	GetID() string

	// GetName returns the display name for this monitor.
	GetName() string

	// GetType returns the feed type (e.g., "oref").
	GetType() string

	// GetStatus returns the current operational status of the monitor.
	GetStatus() Status

	// GetSnapshot returns the most recently published snapshot.
	GetSnapshot() Snapshot

	// Refresh requests an immediate cycle. It is a no-op while a cycle is in flight.
	Refresh() bool

	// ClearState removes persisted operational state. Used when a monitor is
	// removed from configuration.
	ClearState() error
}

// Logger is the structured logger used by monitors.
// pluginapi.LogService satisfies it.
type Logger interface {
	Debug(message string, keyValuePairs ...any)
	Info(message string, keyValuePairs ...any)
	Warn(message string, keyValuePairs ...any)
	Error(message string, keyValuePairs ...any)
}

//go:generate mockgen -destination=mocks/mock_notifier.go -package=mocks github.com/mattermost/mattermost-plugin-orefalerts/server/backend Notifier

// Notifier dispatches a notification for an alert relevant to the home locality.
type Notifier interface {
	// PermissionGranted reports whether notifications may be dispatched at all.
	PermissionGranted() bool

	// Notify dispatches one notification for the alert.
	Notify(alert Alert) error
}

// HomeAlertCallback is invoked once for each alert newly observed as relevant
// to a monitor's home locality.
type HomeAlertCallback func(backendID string, alert Alert)
