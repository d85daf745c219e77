package oref

import (
	"sort"

	"github.com/mattermost/mattermost-plugin-orefalerts/server/locality"
)

// areaCountdown is one row of an AreaCountdownTable
type areaCountdown struct {
	area       string
	normalized string
	seconds    int
}

// AreaCountdownTable maps area names to the seconds available to reach a
// protected space. It is immutable once built.
type AreaCountdownTable struct {
	areas          []areaCountdown
	defaultSeconds int
}

// NewAreaCountdownTable builds a table from area names and a default used when
// no area matches.
func NewAreaCountdownTable(areas map[string]int, defaultSeconds int) *AreaCountdownTable {
	t := &AreaCountdownTable{
		areas:          make([]areaCountdown, 0, len(areas)),
		defaultSeconds: defaultSeconds,
	}

	for area, seconds := range areas {
		t.areas = append(t.areas, areaCountdown{
			area:       area,
			normalized: locality.Normalize(area),
			seconds:    seconds,
		})
	}
	sort.Slice(t.areas, func(i, j int) bool { return t.areas[i].area < t.areas[j].area })

	return t
}

// DefaultCountdownTable holds the Home Front Command shelter times by area.
var DefaultCountdownTable = NewAreaCountdownTable(map[string]int{
	"עוטף עזה":      15,
	"שדרות, נתיבות": 15,
	"לכיש":          30,
	"מערב לכיש":     30,
	"אשקלון":        30,
	"שפלת יהודה":    45,
	"באר שבע":       60,
	"חיפה":          60,
	"הצפון":         60,
	"תל אביב":       90,
	"גוש דן":        90,
	"המרכז":         90,
	"ירושלים":       90,
}, 90)

// Default returns the countdown used when no area matches.
func (t *AreaCountdownTable) Default() int {
	return t.defaultSeconds
}

// Countdown returns the most urgent countdown among every area matched by any
// of the localities, or the default when nothing matches. A blank locality
// matches no area, so Countdown([]string{""}) is the default.
func (t *AreaCountdownTable) Countdown(localities []string) int {
	best := -1

	for _, l := range localities {
		n := locality.Normalize(l)
		if n == "" {
			continue
		}
		for _, a := range t.areas {
			if !locality.MatchesNormalized(n, a.normalized) {
				continue
			}
			if best < 0 || a.seconds < best {
				best = a.seconds
			}
		}
	}

	if best < 0 {
		return t.defaultSeconds
	}
	return best
}
