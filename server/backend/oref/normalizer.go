package oref

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mattermost/mattermost-plugin-orefalerts/server/backend"
)

const (
	// DefaultTitle replaces a missing title ("alert")
	DefaultTitle = "התראה"

	// UnknownCategory replaces a missing category
	UnknownCategory = "unknown"
)

// alertIDNamespace seeds the name-based ids of records that arrive without one
var alertIDNamespace = uuid.MustParse("6f1d7c0e-3b53-4c8e-9a43-2f0b7d3f9e51")

// NormalizeAlerts converts feed records into canonical alerts.
//
// The result depends only on its arguments. Records without an id get a
// name-based UUID derived from their content and their position among identical
// records, so the same payload yields the same ids on every cycle. When two
// records share an explicit id the first one wins.
func NormalizeAlerts(records []RawAlert, observedAt time.Time, table *AreaCountdownTable, backendName string) []backend.Alert {
	alerts := make([]backend.Alert, 0, len(records))
	seenIDs := make(map[string]bool, len(records))
	occurrences := make(map[string]int)

	for _, raw := range records {
		id := strings.TrimSpace(string(raw.ID))
		if id == "" {
			fp := fingerprint(raw)
			id = uuid.NewSHA1(alertIDNamespace, []byte(fp+"\x1d"+strconv.Itoa(occurrences[fp]))).String()
			occurrences[fp]++
		}

		if seenIDs[id] {
			continue
		}
		seenIDs[id] = true

		alerts = append(alerts, NormalizeAlert(raw, id, observedAt, table, backendName))
	}

	return alerts
}

// NormalizeAlert converts one record using the given id.
func NormalizeAlert(raw RawAlert, id string, observedAt time.Time, table *AreaCountdownTable, backendName string) backend.Alert {
	localities := make([]string, 0, len(raw.Localities))
	for _, l := range raw.Localities {
		if l = strings.TrimSpace(l); l != "" {
			localities = append(localities, l)
		}
	}

	title := strings.TrimSpace(raw.Title)
	if title == "" {
		title = DefaultTitle
	}

	category := strings.TrimSpace(string(raw.Category))
	if category == "" {
		category = UnknownCategory
	}

	return backend.Alert{
		BackendName:             backendName,
		ID:                      id,
		Title:                   title,
		Localities:              localities,
		ObservedAt:              observedAt,
		ShelterCountdownSeconds: table.Countdown(localities),
		Category:                category,
		Description:             raw.Description,
	}
}

// fingerprint is the content key of a record without an id
func fingerprint(raw RawAlert) string {
	parts := []string{
		string(raw.Category),
		raw.Title,
		strings.Join(raw.Localities, "\x1e"),
		raw.Description,
	}
	return strings.Join(parts, "\x1f")
}
