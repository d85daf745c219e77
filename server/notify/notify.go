// Package notify implements the notifiers a monitor dispatches home alerts to.
package notify

import (
	"errors"
	"fmt"

	"github.com/mattermost/mattermost-plugin-orefalerts/server/backend"
)

// AlertPoster is an interface for posting alerts to Mattermost channels.
// *poster.Poster satisfies it.
type AlertPoster interface {
	PostAlert(alert backend.Alert, channelID string) error
}

// ChannelNotifier posts home alerts to one Mattermost channel.
type ChannelNotifier struct {
	poster    AlertPoster
	channelID string
	enabled   bool
}

// NewChannelNotifier creates a channel notifier
func NewChannelNotifier(poster AlertPoster, channelID string, enabled bool) *ChannelNotifier {
	return &ChannelNotifier{
		poster:    poster,
		channelID: channelID,
		enabled:   enabled,
	}
}

// PermissionGranted implements backend.Notifier
func (n *ChannelNotifier) PermissionGranted() bool {
	return n.enabled && n.channelID != "" && n.poster != nil
}

// Notify implements backend.Notifier
func (n *ChannelNotifier) Notify(alert backend.Alert) error {
	if err := n.poster.PostAlert(alert, n.channelID); err != nil {
		return fmt.Errorf("failed to post alert to channel %s: %w", n.channelID, err)
	}
	return nil
}

// Multi fans a notification out to several notifiers.
type Multi []backend.Notifier

// PermissionGranted reports whether any child may notify
func (m Multi) PermissionGranted() bool {
	for _, n := range m {
		if n.PermissionGranted() {
			return true
		}
	}
	return false
}

// Notify reaches every granted child, even after a failure, and joins their errors.
func (m Multi) Notify(alert backend.Alert) error {
	var errs []error
	for _, n := range m {
		if !n.PermissionGranted() {
			continue
		}
		if err := n.Notify(alert); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
