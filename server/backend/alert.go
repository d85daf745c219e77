package backend

import "time"

// ConnectionState reports the health of a monitor's upstream feed.
type ConnectionState string

const (
	// ConnectionChecking is the state before the first cycle completes.
	ConnectionChecking ConnectionState = "checking"

	// ConnectionConnected means the last cycle reached the feed and parsed its reply.
	ConnectionConnected ConnectionState = "connected"

	// ConnectionDisconnected means the last cycle failed for any reason.
	// Clients show this as a retry-in-progress indicator.
	ConnectionDisconnected ConnectionState = "disconnected"
)

// Alert represents a normalized civil-defense alert.
// Alerts are rebuilt on every polling cycle; only ID carries meaning across cycles.
type Alert struct {
	// BackendName is the name of the monitor that observed this alert
	BackendName string `json:"backendName,omitempty"`

	// ID is unique within one snapshot
	ID string `json:"id"`

	// Title is the alert headline as published by the feed
	Title string `json:"title"`

	// Localities lists the affected localities in feed order
	Localities []string `json:"localities"`

	// ObservedAt is the timestamp of the cycle that produced this alert
	ObservedAt time.Time `json:"observedAt"`

	// ShelterCountdownSeconds is the estimated time to reach a protected space.
	// It depends on Localities only.
	ShelterCountdownSeconds int `json:"shelterCountdownSeconds"`

	// Category is the feed's alert category, "unknown" when missing
	Category string `json:"category"`

	// Description carries the feed's instructions, if any
	Description string `json:"description"`
}

// Snapshot is what one completed cycle publishes to display clients.
type Snapshot struct {
	// Alerts is every alert in the feed at LastUpdate
	Alerts []Alert `json:"alerts"`

	// RelevantAlerts is the display-filtered subset of Alerts
	RelevantAlerts []Alert `json:"relevantAlerts"`

	// ConnectionState is the feed health after the cycle
	ConnectionState ConnectionState `json:"connectionState"`

	// LastUpdate is the observation timestamp of the cycle
	LastUpdate time.Time `json:"lastUpdate"`
}

// EmptySnapshot returns the snapshot served before any cycle has completed.
func EmptySnapshot(now time.Time) Snapshot {
	return Snapshot{
		Alerts:          []Alert{},
		RelevantAlerts:  []Alert{},
		ConnectionState: ConnectionChecking,
		LastUpdate:      now,
	}
}
