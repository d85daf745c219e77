package oref

import "github.com/mattermost/mattermost-plugin-orefalerts/server/backend"

// SeenSet holds the ids that were relevant in the previous cycle.
type SeenSet map[string]struct{}

// NewSeenSet builds a set from the ids of alerts
func NewSeenSet(alerts []backend.Alert) SeenSet {
	s := make(SeenSet, len(alerts))
	for _, a := range alerts {
		s[a.ID] = struct{}{}
	}
	return s
}

// Contains reports whether id is in the set
func (s SeenSet) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

// Advance compares the current relevant alerts to the previous cycle's set.
// It returns the alerts not seen in the previous cycle and the set to carry
// into the next cycle. The next set replaces the previous one entirely, so an
// alert that drops out for a single cycle is new again when it returns.
func Advance(seen SeenSet, currentRelevant []backend.Alert) (newlyAppeared []backend.Alert, next SeenSet) {
	for _, a := range currentRelevant {
		if !seen.Contains(a.ID) {
			newlyAppeared = append(newlyAppeared, a)
		}
	}
	return newlyAppeared, NewSeenSet(currentRelevant)
}
