package hashtag

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mattermost/mattermost-plugin-orefalerts/server/backend"
)

// alertTag leads every hashtag line
const alertTag = "#RedAlert"

// maxLocalityTags bounds how many localities are tagged
const maxLocalityTags = 5

// Generate creates formatted hashtag text from alert data.
//
// Order of hashtags:
// 1. #RedAlert
// 2. Threat type derived from the title, if known
// 3. Localities (up to 5)
//
// Returns formatted string (e.g., "🏷️ #RedAlert, #Rockets, #שדרות")
func Generate(alert backend.Alert) string {
	allTags := []string{alertTag}

	if threat := extractThreatTag(alert.Title); threat != "" {
		allTags = append(allTags, threat)
	}

	allTags = append(allTags, extractLocalityTags(alert.Localities)...)

	// Deduplicate while preserving order
	uniqueTags := deduplicateTags(allTags)

	return formatHashtagText(uniqueTags)
}

// extractLocalityTags turns localities into hashtags.
// "תל אביב - יפו" -> #תל_אביב_יפו
func extractLocalityTags(localities []string) []string {
	var tags []string

	for _, l := range localities {
		tag := localityTag(l)
		if tag == "" {
			continue
		}
		tags = append(tags, tag)
		if len(tags) == maxLocalityTags {
			break
		}
	}

	return tags
}

// localityTag joins the words of a locality with underscores.
// Returns "" when the result would not be a valid hashtag.
func localityTag(locality string) string {
	words := strings.FieldsFunc(locality, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(words) == 0 {
		return ""
	}

	body := strings.Join(words, "_")
	first, _ := utf8.DecodeRuneInString(body)
	if !unicode.IsLetter(first) || utf8.RuneCountInString(body) < 2 {
		return ""
	}

	return "#" + body
}

// deduplicateTags removes duplicate tags (case-insensitive) while preserving order.
func deduplicateTags(tags []string) []string {
	seen := make(map[string]bool)
	var uniqueTags []string

	for _, tag := range tags {
		tagLower := strings.ToLower(tag)
		if !seen[tagLower] {
			uniqueTags = append(uniqueTags, tag)
			seen[tagLower] = true
		}
	}

	return uniqueTags
}

// formatHashtagText formats hashtags as comma-separated text with emoji prefix.
func formatHashtagText(tags []string) string {
	if len(tags) == 0 {
		return ""
	}

	return "🏷️ " + strings.Join(tags, ", ")
}
