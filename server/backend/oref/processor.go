package oref

import (
	"github.com/mattermost/mattermost-plugin-orefalerts/server/backend"
	"github.com/mattermost/mattermost-plugin-orefalerts/server/metrics"
)

// AlertProcessor fires home alert triggers for alerts newly relevant to the
// home locality. It owns the seen set of one monitor and is driven by a single
// cycle at a time, so it takes no locks.
type AlertProcessor struct {
	logger       backend.Logger
	backendID    string
	backendName  string
	homeLocality string
	notifier     backend.Notifier
	onHomeAlert  backend.HomeAlertCallback
	metrics      *metrics.Metrics
	seen         SeenSet
}

// NewAlertProcessor creates a processor with an empty seen set
func NewAlertProcessor(
	logger backend.Logger,
	backendID string,
	backendName string,
	homeLocality string,
	notifier backend.Notifier,
	onHomeAlert backend.HomeAlertCallback,
	m *metrics.Metrics,
) *AlertProcessor {
	return &AlertProcessor{
		logger:       logger,
		backendID:    backendID,
		backendName:  backendName,
		homeLocality: homeLocality,
		notifier:     notifier,
		onHomeAlert:  onHomeAlert,
		metrics:      m,
		seen:         SeenSet{},
	}
}

// ProcessAlerts runs one dedup step over a cycle's snapshot and fires the
// triggers. Returns the alerts that triggered.
func (p *AlertProcessor) ProcessAlerts(alerts []backend.Alert) []backend.Alert {
	newlyAppeared := p.Observe(alerts)
	p.Trigger(newlyAppeared, func() bool { return true })
	return newlyAppeared
}

// Observe advances the seen set over a cycle's snapshot and returns the alerts
// newly relevant to the home locality. It performs no I/O.
func (p *AlertProcessor) Observe(alerts []backend.Alert) []backend.Alert {
	relevant := FilterForNotification(alerts, p.homeLocality)

	var newlyAppeared []backend.Alert
	newlyAppeared, p.seen = Advance(p.seen, relevant)
	return newlyAppeared
}

// Trigger fires the home alert callback and one notification per alert.
// Once live reports false the remaining alerts are dropped and the result of
// a dispatch already under way is not recorded.
func (p *AlertProcessor) Trigger(alerts []backend.Alert, live func() bool) {
	for i, alert := range alerts {
		if !live() {
			p.logger.Debug("Monitor stopped, dropping remaining home alerts",
				"backendId", p.backendID,
				"dropped", len(alerts)-i)
			return
		}

		p.logger.Info("Alert for home locality",
			"backendId", p.backendID,
			"alertId", alert.ID,
			"title", alert.Title,
			"countdown", alert.ShelterCountdownSeconds)
		p.metrics.IncHomeAlert(p.backendName)

		if p.onHomeAlert != nil {
			p.onHomeAlert(p.backendID, alert)
		}

		result := p.dispatch(alert)
		if !live() {
			continue
		}
		p.metrics.IncNotification(p.backendName, result)
	}
}

// dispatch attempts exactly one notification and returns its result label
func (p *AlertProcessor) dispatch(alert backend.Alert) string {
	if p.notifier == nil || !p.notifier.PermissionGranted() {
		p.logger.Debug("Notification not permitted", "backendId", p.backendID, "alertId", alert.ID)
		return metrics.ResultDenied
	}

	if err := p.notifier.Notify(alert); err != nil {
		p.logger.Error("Failed to dispatch notification",
			"backendId", p.backendID,
			"alertId", alert.ID,
			"error", err.Error())
		return metrics.ResultFailed
	}

	return metrics.ResultSent
}

// Seen returns a copy of the current seen set
func (p *AlertProcessor) Seen() SeenSet {
	out := make(SeenSet, len(p.seen))
	for id := range p.seen {
		out[id] = struct{}{}
	}
	return out
}
