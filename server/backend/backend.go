package backend

import "time"

// Config represents the configuration for a monitor instance.
// Each monitor is uniquely identified by its ID (UUID v4).
type Config struct {
	// ID is the unique stable identifier for this monitor (UUID v4, immutable)
	ID string `json:"id"`

	// Name is the display name for this monitor (mutable, must be unique)
	Name string `json:"name"`

	// Type is the feed type (e.g., "oref")
	Type string `json:"type"`

	// Enabled indicates whether this monitor should be actively polling
	Enabled bool `json:"enabled"`

	// URL is the feed URL
	URL string `json:"url"`

	// HomeLocality is the locality to notify for. Empty means no home is configured.
	HomeLocality string `json:"homeLocality"`

	// ChannelID is the Mattermost channel ID to post home alerts to
	ChannelID string `json:"channelId"`

	// NotificationsEnabled gates every notification dispatch for this monitor
	NotificationsEnabled bool `json:"notificationsEnabled"`

	// WebhookURL optionally receives a JSON copy of each home alert
	WebhookURL string `json:"webhookUrl"`

	// PollIntervalSeconds is the polling cadence; zero selects DefaultPollIntervalSeconds
	PollIntervalSeconds int `json:"pollIntervalSeconds"`
}

// PollInterval returns the effective polling cadence.
func (c Config) PollInterval() time.Duration {
	if c.PollIntervalSeconds <= 0 {
		return DefaultPollIntervalSeconds * time.Second
	}
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

// Status represents the current operational status of a monitor instance.
type Status struct {
	// Enabled indicates whether the monitor is enabled and running
	Enabled bool `json:"enabled"`

	// ConnectionState is the feed health after the latest completed cycle
	ConnectionState ConnectionState `json:"connectionState"`

	// LastPollTime is the timestamp of the last poll attempt
	LastPollTime time.Time `json:"lastPollTime"`

	// LastSuccessTime is the timestamp of the last successful poll
	LastSuccessTime time.Time `json:"lastSuccessTime"`

	// ConsecutiveFailures is the count of consecutive polling failures
	ConsecutiveFailures int `json:"consecutiveFailures"`

	// LastError contains a description of the most recent failure (empty if none)
	LastError string `json:"lastError"`

	// SkippedTicks counts ticks dropped because a cycle was still in flight
	SkippedTicks int64 `json:"skippedTicks"`
}
