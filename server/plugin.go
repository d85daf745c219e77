package main

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/mattermost/mattermost/server/public/model"
	"github.com/mattermost/mattermost/server/public/plugin"
	"github.com/mattermost/mattermost/server/public/pluginapi"
	"github.com/pkg/errors"

	"github.com/mattermost/mattermost-plugin-orefalerts/server/backend"
	_ "github.com/mattermost/mattermost-plugin-orefalerts/server/backend/oref" // Register oref backend factory
	"github.com/mattermost/mattermost-plugin-orefalerts/server/metrics"
	"github.com/mattermost/mattermost-plugin-orefalerts/server/notify"
	"github.com/mattermost/mattermost-plugin-orefalerts/server/poster"
)

const (
	defaultBotUsername    = "red-alert"
	defaultBotDisplayName = "Red Alert"

	// homeAlertEvent is published to web clients for each new home alert
	homeAlertEvent = "home_alert"
)

// Plugin implements the interface expected by the Mattermost server to communicate between the server and plugin processes.
type Plugin struct {
	plugin.MattermostPlugin

	// client is the Mattermost server API client.
	client *pluginapi.Client

	// configurationLock synchronizes access to the configuration.
	configurationLock sync.RWMutex

	// configuration is the active plugin configuration. Consult getConfiguration and
	// setConfiguration for usage.
	configuration *configuration

	// registry manages all active monitors.
	registry *backend.Registry

	// poster posts alerts to Mattermost channels.
	poster notify.AlertPoster

	// metrics is shared by all monitors and served on /metrics.
	metrics *metrics.Metrics
}

// OnActivate is invoked when the plugin is activated. If an error is returned, the plugin will be deactivated.
func (p *Plugin) OnActivate() error {
	p.client = pluginapi.NewClient(p.API, p.Driver)
	p.registry = backend.NewRegistry()
	p.metrics = metrics.New()

	config := p.getConfiguration()

	// Ensure bot user exists
	botUsername := config.BotUsername
	if botUsername == "" {
		botUsername = defaultBotUsername
	}
	botDisplayName := config.BotDisplayName
	if botDisplayName == "" {
		botDisplayName = defaultBotDisplayName
	}

	botID, err := p.API.EnsureBotUser(&model.Bot{
		Username:    botUsername,
		DisplayName: botDisplayName,
		Description: "Bot for posting Home Front Command alerts to Mattermost channels",
	})
	if err != nil {
		return errors.Wrap(err, "failed to ensure bot user")
	}

	p.API.LogInfo("Bot user initialized", "botID", botID, "username", botUsername)

	p.poster = poster.New(p.API, botID)

	for _, backendConfig := range config.Backends {
		p.createAndStartBackend(backendConfig)
	}

	return nil
}

// OnDeactivate is invoked when the plugin is deactivated.
func (p *Plugin) OnDeactivate() error {
	if p.registry != nil {
		if err := p.registry.UnregisterAll(); err != nil {
			p.API.LogError("Failed to unregister all backends during deactivation", "error", err.Error())
			return err
		}
	}

	return nil
}

// createAndStartBackend creates a monitor and registers it.
// If the monitor is enabled, it also starts it.
// Logs errors but does not fail - errors are non-fatal for individual monitors.
func (p *Plugin) createAndStartBackend(config backend.Config) {
	deps := backend.Dependencies{
		Logger:      &p.client.Log,
		API:         p.API,
		Notifier:    p.buildNotifier(config),
		OnHomeAlert: p.publishHomeAlert,
		Metrics:     p.metrics,
	}

	b, err := backend.Create(config, deps)
	if err != nil {
		p.API.LogError("Failed to create backend", "id", config.ID, "name", config.Name, "error", err.Error())
		return
	}

	// Register backend (always register, even if disabled)
	if err := p.registry.Register(b); err != nil {
		p.API.LogError("Failed to register backend", "id", config.ID, "name", config.Name, "error", err.Error())
		return
	}

	if !config.Enabled {
		p.API.LogInfo("Backend registered but not started (disabled)", "id", config.ID, "name", config.Name)
		return
	}

	if err := b.Start(); err != nil {
		p.API.LogError("Failed to start backend", "id", config.ID, "name", config.Name, "error", err.Error())
		// Keep backend registered even if start fails - it will show error state in status
		return
	}

	p.API.LogInfo("Backend started successfully", "id", config.ID, "name", config.Name, "type", config.Type, "homeLocality", config.HomeLocality)
}

// buildNotifier assembles the notifiers of one monitor
func (p *Plugin) buildNotifier(config backend.Config) backend.Notifier {
	return notify.Multi{
		notify.NewChannelNotifier(p.poster, config.ChannelID, config.NotificationsEnabled),
		notify.NewWebhookNotifier(config.WebhookURL, config.NotificationsEnabled, &p.client.Log),
	}
}

// publishHomeAlert tells web clients that a monitor observed a new home alert.
func (p *Plugin) publishHomeAlert(backendID string, alert backend.Alert) {
	alertJSON, err := json.Marshal(alert)
	if err != nil {
		p.API.LogError("Failed to marshal home alert", "backendId", backendID, "alertId", alert.ID, "error", err.Error())
		return
	}

	p.API.PublishWebSocketEvent(homeAlertEvent, map[string]any{
		"backendId":  backendID,
		"alertId":    alert.ID,
		"title":      alert.Title,
		"localities": strings.Join(alert.Localities, ", "),
		"alert":      string(alertJSON),
	}, &model.WebsocketBroadcast{})
}

// See https://developers.mattermost.com/extend/plugins/server/reference/
