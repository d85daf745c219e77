package hashtag

import "strings"

// threatTags maps phrases found in feed titles to a threat hashtag.
// Checked in order; the first phrase contained in the title wins.
var threatTags = []struct {
	phrase string
	tag    string
}{
	{"ירי רקטות וטילים", "#Rockets"},
	{"חדירת כלי טיס עוין", "#HostileAircraft"},
	{"חדירת מחבלים", "#Infiltration"},
	{"רעידת אדמה", "#Earthquake"},
	{"צונאמי", "#Tsunami"},
	{"חומרים מסוכנים", "#HazardousMaterials"},
	{"אירוע רדיולוגי", "#Radiological"},
	{"תרגיל", "#Drill"},
}

// extractThreatTag returns the hashtag for a known alert title, or "".
//
// Examples:
//   - "ירי רקטות וטילים" -> #Rockets
//   - "חדירת כלי טיס עוין" -> #HostileAircraft
//   - "התראה" -> ""
func extractThreatTag(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return ""
	}

	for _, t := range threatTags {
		if strings.Contains(title, t.phrase) {
			return t.tag
		}
	}

	return ""
}
