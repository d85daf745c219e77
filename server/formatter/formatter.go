package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/mattermost/mattermost/server/public/model"

	"github.com/mattermost/mattermost-plugin-orefalerts/server/backend"
)

// Urgency colors, chosen by shelter countdown
const (
	ColorImmediate = "#FF0000" // Red 🔴
	ColorUrgent    = "#FF9900" // Orange 🟠
	ColorAlert     = "#FFFF00" // Yellow 🟡
	ColorStandard  = "#808080" // Gray ⚪
)

// Urgency emojis
const (
	EmojiImmediate = "🔴"
	EmojiUrgent    = "🟠"
	EmojiAlert     = "🟡"
	EmojiStandard  = "⚪"
)

// Countdown thresholds in seconds
const (
	immediateSeconds = 15
	urgentSeconds    = 30
	alertSeconds     = 60
)

// notificationLocalities is how many localities a notification lists
const notificationLocalities = 3

// FormatAlert converts a normalized backend.Alert into a Mattermost SlackAttachment
// colored by how little time there is to reach a protected space.
func FormatAlert(alert backend.Alert) *model.SlackAttachment {
	attachment := &model.SlackAttachment{}

	// Markdown H4 header for emphasis
	attachment.Text = fmt.Sprintf("#### %s %s", getUrgencyEmoji(alert.ShelterCountdownSeconds), alert.Title)
	attachment.Fallback = FormatNotificationText(alert)
	attachment.Color = getUrgencyColor(alert.ShelterCountdownSeconds)

	var fields []*model.SlackAttachmentField

	// Countdown + observed time side by side
	fields = append(fields,
		&model.SlackAttachmentField{
			Title: "Time to Protected Space",
			Value: formatCountdown(alert.ShelterCountdownSeconds),
			Short: true,
		},
		&model.SlackAttachmentField{
			Title: "Observed",
			Value: formatTime(alert.ObservedAt),
			Short: true,
		},
	)

	if len(alert.Localities) > 0 {
		fields = append(fields, &model.SlackAttachmentField{
			Title: "Localities",
			Value: formatBulletList(alert.Localities),
			Short: false,
		})
	}

	if alert.Description != "" {
		fields = append(fields, &model.SlackAttachmentField{
			Title: "Instructions",
			Value: truncateText(alert.Description, 500),
			Short: false,
		})
	}

	attachment.Fields = fields

	// Footer: monitor name + category
	attachment.Footer = fmt.Sprintf("%s | Category %s", alert.BackendName, alert.Category)

	return attachment
}

// FormatNotificationText renders the short plain-text body of a home alert
// notification.
func FormatNotificationText(alert backend.Alert) string {
	var b strings.Builder

	b.WriteString("🚨 Alert in your area!\n")
	b.WriteString(alert.Title)

	if len(alert.Localities) > 0 {
		shown := alert.Localities
		if len(shown) > notificationLocalities {
			shown = shown[:notificationLocalities]
		}
		b.WriteString("\n")
		b.WriteString(strings.Join(shown, ", "))
		if extra := len(alert.Localities) - len(shown); extra > 0 {
			fmt.Fprintf(&b, " (+%d)", extra)
		}
	}

	fmt.Fprintf(&b, "\n%d seconds to protected space", alert.ShelterCountdownSeconds)
	return b.String()
}

// getUrgencyColor returns the color code for a shelter countdown
func getUrgencyColor(seconds int) string {
	switch {
	case seconds <= immediateSeconds:
		return ColorImmediate
	case seconds <= urgentSeconds:
		return ColorUrgent
	case seconds <= alertSeconds:
		return ColorAlert
	default:
		return ColorStandard
	}
}

// getUrgencyEmoji returns the emoji for a shelter countdown
func getUrgencyEmoji(seconds int) string {
	switch {
	case seconds <= immediateSeconds:
		return EmojiImmediate
	case seconds <= urgentSeconds:
		return EmojiUrgent
	case seconds <= alertSeconds:
		return EmojiAlert
	default:
		return EmojiStandard
	}
}

// formatCountdown formats a countdown in seconds, or minutes when it is whole
func formatCountdown(seconds int) string {
	if seconds >= 60 && seconds%60 == 0 {
		if seconds == 60 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", seconds/60)
	}
	return fmt.Sprintf("%d seconds", seconds)
}

// formatTime formats a time.Time to a readable string
func formatTime(t time.Time) string {
	return t.Format("2006-01-02 15:04:05 MST")
}

// formatBulletList formats a slice of strings as a bulleted list
func formatBulletList(items []string) string {
	bullets := make([]string, len(items))
	for i, item := range items {
		bullets[i] = fmt.Sprintf("• %s", item)
	}
	return strings.Join(bullets, "\n")
}

// truncateText truncates text to maxLen runes, adding "..." if truncated
func truncateText(text string, maxLen int) string {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	return string(runes[:maxLen]) + "..."
}
