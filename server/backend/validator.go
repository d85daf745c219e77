package backend

import (
	"fmt"
	"net/url"

	"github.com/google/uuid"
)

// SupportedBackendTypes lists all feed types this plugin supports
var SupportedBackendTypes = map[string]bool{
	TypeOref: true,
}

// ValidateBackends validates monitor configurations.
func ValidateBackends(configs []Config) error {
	seenIDs := make(map[string]bool)
	seenNames := make(map[string]bool)

	for i, config := range configs {
		if err := validateRequiredFields(config); err != nil {
			return fmt.Errorf("backend configuration at position %d: %w", i+1, err)
		}

		if err := validateUUID(config.ID); err != nil {
			return fmt.Errorf("backend '%s': %w", config.Name, err)
		}

		if seenIDs[config.ID] {
			return fmt.Errorf("duplicate backend ID found: %s", config.ID)
		}
		seenIDs[config.ID] = true

		if seenNames[config.Name] {
			return fmt.Errorf("duplicate backend name found: '%s'", config.Name)
		}
		seenNames[config.Name] = true

		if !SupportedBackendTypes[config.Type] {
			return fmt.Errorf("backend '%s': unsupported type '%s' (only '%s' is currently supported)", config.Name, config.Type, TypeOref)
		}

		if err := validateFeedURL(config.URL); err != nil {
			return fmt.Errorf("backend '%s': %w", config.Name, err)
		}

		if config.WebhookURL != "" {
			if err := validateWebhookURL(config.WebhookURL); err != nil {
				return fmt.Errorf("backend '%s': %w", config.Name, err)
			}
		}

		// Zero selects the default cadence
		if config.PollIntervalSeconds != 0 && config.PollIntervalSeconds < MinPollIntervalSeconds {
			return fmt.Errorf("backend '%s': poll interval must be at least %d seconds (got %d)",
				config.Name, MinPollIntervalSeconds, config.PollIntervalSeconds)
		}

		if config.NotificationsEnabled && config.ChannelID == "" && config.WebhookURL == "" {
			return fmt.Errorf("backend '%s': notifications are enabled but neither channelId nor webhookUrl is set", config.Name)
		}
	}

	return nil
}

// validateRequiredFields checks that all required fields are present and non-empty
func validateRequiredFields(config Config) error {
	if config.ID == "" {
		return fmt.Errorf("missing required field 'id'")
	}
	if config.Name == "" {
		return fmt.Errorf("missing required field 'name'")
	}
	if config.Type == "" {
		return fmt.Errorf("missing required field 'type'")
	}
	if config.URL == "" {
		return fmt.Errorf("missing required field 'url'")
	}
	return nil
}

// validateUUID checks that the ID is a valid UUID v4
func validateUUID(id string) error {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid UUID format for id: %w", err)
	}

	if parsed.Version() != 4 {
		return fmt.Errorf("id must be a UUID v4 (got version %d)", parsed.Version())
	}

	return nil
}

// validateFeedURL checks that the feed URL is valid and uses HTTPS
func validateFeedURL(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid url format: %w", err)
	}

	if parsed.Scheme != "https" {
		return fmt.Errorf("url must use HTTPS (got %s)", parsed.Scheme)
	}

	if parsed.Host == "" {
		return fmt.Errorf("url must include a hostname")
	}

	return nil
}

// validateWebhookURL accepts http and https targets with a host
func validateWebhookURL(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid webhookUrl format: %w", err)
	}

	if parsed.Scheme != "https" && parsed.Scheme != "http" {
		return fmt.Errorf("webhookUrl must use HTTP or HTTPS (got %s)", parsed.Scheme)
	}

	if parsed.Host == "" {
		return fmt.Errorf("webhookUrl must include a hostname")
	}

	return nil
}

// DiffBackendConfigs compares old and new monitor configurations and returns IDs to add, update, and remove.
// Any field change, including the home locality, counts as an update: the monitor is
// recreated and starts with an empty seen set.
func DiffBackendConfigs(oldConfigs, newConfigs []Config) (toAdd, toUpdate, toRemove []string) {
	oldMap := make(map[string]Config)
	newMap := make(map[string]Config)

	for _, cfg := range oldConfigs {
		oldMap[cfg.ID] = cfg
	}

	for _, cfg := range newConfigs {
		newMap[cfg.ID] = cfg
	}

	for id, newCfg := range newMap {
		if oldCfg, exists := oldMap[id]; !exists {
			toAdd = append(toAdd, id)
		} else if oldCfg != newCfg {
			toUpdate = append(toUpdate, id)
		}
	}

	for id := range oldMap {
		if _, exists := newMap[id]; !exists {
			toRemove = append(toRemove, id)
		}
	}

	return toAdd, toUpdate, toRemove
}
