package backend

// Constants for monitor behavior
const (
	// TypeOref is the Home Front Command (Pikud HaOref) feed type
	TypeOref = "oref"

	// DefaultFeedURL is the official Home Front Command alerts endpoint
	DefaultFeedURL = "https://www.oref.org.il/WarningMessages/alert/alerts.json"

	// DefaultPollIntervalSeconds is the polling cadence. It does not change with feed health.
	DefaultPollIntervalSeconds = 5

	// MinPollIntervalSeconds is the minimum allowed poll interval
	MinPollIntervalSeconds = 1
)
