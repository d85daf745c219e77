package oref

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattermost/mattermost-plugin-orefalerts/server/backend"
	"github.com/mattermost/mattermost-plugin-orefalerts/server/metrics"
)

func TestAlertProcessor_TriggersOncePerAppearance(t *testing.T) {
	notifier := &recordingNotifier{granted: true}
	callbacks := &callbackRecorder{}
	p := NewAlertProcessor(&testLogger{}, "id-1", "Home", "חיפה", notifier, callbacks.record, nil)

	home := canonicalAlert("A", "חיפה")
	elsewhere := canonicalAlert("B", "אשקלון")

	triggered := p.ProcessAlerts([]backend.Alert{home, elsewhere})
	assert.Equal(t, []string{"A"}, idsOf(triggered))

	triggered = p.ProcessAlerts([]backend.Alert{home, elsewhere})
	assert.Empty(t, triggered)

	triggered = p.ProcessAlerts(nil)
	assert.Empty(t, triggered)
	assert.Empty(t, p.Seen())

	triggered = p.ProcessAlerts([]backend.Alert{home})
	assert.Equal(t, []string{"A"}, idsOf(triggered))

	assert.Equal(t, []string{"A", "A"}, notifier.sentIDs())
	assert.Equal(t, 2, callbacks.count())
}

func TestAlertProcessor_NoHome(t *testing.T) {
	notifier := &recordingNotifier{granted: true}
	p := NewAlertProcessor(&testLogger{}, "id-1", "Home", "", notifier, nil, nil)

	triggered := p.ProcessAlerts([]backend.Alert{canonicalAlert("A", "חיפה")})

	assert.Empty(t, triggered)
	assert.Empty(t, notifier.sentIDs())
}

func TestAlertProcessor_PermissionDenied(t *testing.T) {
	m := metrics.New()
	logger := &testLogger{}
	notifier := &recordingNotifier{granted: false}
	callbacks := &callbackRecorder{}
	p := NewAlertProcessor(logger, "id-1", "Home", "חיפה", notifier, callbacks.record, m)

	triggered := p.ProcessAlerts([]backend.Alert{canonicalAlert("A", "חיפה")})

	assert.Len(t, triggered, 1)
	assert.Empty(t, notifier.sentIDs())
	assert.Equal(t, 1, callbacks.count())
	assert.True(t, logger.contains("debug: Notification not permitted"))
	assert.Equal(t, 1.0, metricValue(t, m, "orefalerts_notifications_total", "Home", metrics.ResultDenied))

	// the alert is still marked seen
	assert.Empty(t, p.ProcessAlerts([]backend.Alert{canonicalAlert("A", "חיפה")}))
}

func TestAlertProcessor_NilNotifier(t *testing.T) {
	p := NewAlertProcessor(&testLogger{}, "id-1", "Home", "חיפה", nil, nil, nil)
	assert.NotPanics(t, func() {
		triggered := p.ProcessAlerts([]backend.Alert{canonicalAlert("A", "חיפה")})
		assert.Len(t, triggered, 1)
	})
}

func TestAlertProcessor_NotifyFailure(t *testing.T) {
	m := metrics.New()
	logger := &testLogger{}
	notifier := &recordingNotifier{granted: true, err: errors.New("channel archived")}
	p := NewAlertProcessor(logger, "id-1", "Home", "חיפה", notifier, nil, m)

	triggered := p.ProcessAlerts([]backend.Alert{canonicalAlert("A", "חיפה")})
	require.Len(t, triggered, 1)

	// one attempt, no retry on the next cycle
	assert.Empty(t, p.ProcessAlerts([]backend.Alert{canonicalAlert("A", "חיפה")}))
	assert.Equal(t, []string{"A"}, notifier.sentIDs())
	assert.True(t, logger.contains("error: Failed to dispatch notification"))
	assert.Equal(t, 1.0, metricValue(t, m, "orefalerts_notifications_total", "Home", metrics.ResultFailed))
}

func TestAlertProcessor_Metrics(t *testing.T) {
	m := metrics.New()
	p := NewAlertProcessor(&testLogger{}, "id-1", "Home", "חיפה", &recordingNotifier{granted: true}, nil, m)

	p.ProcessAlerts([]backend.Alert{canonicalAlert("A", "חיפה"), canonicalAlert("B", "חיפה - מערב")})

	assert.Equal(t, 2.0, metricValue(t, m, "orefalerts_home_alerts_total", "Home"))
	assert.Equal(t, 2.0, metricValue(t, m, "orefalerts_notifications_total", "Home", metrics.ResultSent))
}

func TestAlertProcessor_ObserveDoesNotDispatch(t *testing.T) {
	notifier := &recordingNotifier{granted: true}
	callbacks := &callbackRecorder{}
	p := NewAlertProcessor(&testLogger{}, "id-1", "Home", "חיפה", notifier, callbacks.record, nil)

	newlyAppeared := p.Observe([]backend.Alert{canonicalAlert("A", "חיפה")})
	assert.Equal(t, []string{"A"}, idsOf(newlyAppeared))
	assert.Len(t, p.Seen(), 1)
	assert.Empty(t, notifier.sentIDs())
	assert.Equal(t, 0, callbacks.count())
}

func TestAlertProcessor_TriggerStopsWhenNotLive(t *testing.T) {
	m := metrics.New()
	notifier := &recordingNotifier{granted: true}
	logger := &testLogger{}
	p := NewAlertProcessor(logger, "id-1", "Home", "חיפה", notifier, nil, m)

	alerts := p.Observe([]backend.Alert{canonicalAlert("A", "חיפה"), canonicalAlert("B", "חיפה - מערב")})

	// Live for the first check only: A is dispatched but not recorded, B is dropped
	checks := 0
	p.Trigger(alerts, func() bool {
		checks++
		return checks == 1
	})

	assert.Equal(t, []string{"A"}, notifier.sentIDs())
	assert.Equal(t, 0.0, metricValue(t, m, "orefalerts_notifications_total", "Home", metrics.ResultSent))
	assert.True(t, logger.contains("debug: Monitor stopped, dropping remaining home alerts"))
}
