package oref

import (
	"github.com/mattermost/mattermost-plugin-orefalerts/server/backend"
	"github.com/mattermost/mattermost-plugin-orefalerts/server/locality"
)

// IsRelevant reports whether the alert concerns home: some alert locality
// contains home or is contained in it. It is only meaningful for a non-empty
// home; callers decide what an absent home means.
func IsRelevant(alert backend.Alert, home string) bool {
	return locality.MatchesAny(home, alert.Localities)
}

// hasHome reports whether a home locality is configured. A home that
// normalizes to nothing counts as absent, matching what the matcher sees.
func hasHome(home string) bool {
	return locality.Normalize(home) != ""
}

// FilterForDisplay returns the alerts to show. Without a home every alert is shown.
func FilterForDisplay(alerts []backend.Alert, home string) []backend.Alert {
	if !hasHome(home) {
		out := make([]backend.Alert, len(alerts))
		copy(out, alerts)
		return out
	}
	return filterRelevant(alerts, home)
}

// FilterForNotification returns the alerts that may trigger a notification.
// Without a home nothing does.
func FilterForNotification(alerts []backend.Alert, home string) []backend.Alert {
	if !hasHome(home) {
		return []backend.Alert{}
	}
	return filterRelevant(alerts, home)
}

func filterRelevant(alerts []backend.Alert, home string) []backend.Alert {
	out := make([]backend.Alert, 0, len(alerts))
	for _, a := range alerts {
		if IsRelevant(a, home) {
			out = append(out, a)
		}
	}
	return out
}
