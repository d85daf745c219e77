package oref

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mattermost/mattermost-plugin-orefalerts/server/backend"
	"github.com/mattermost/mattermost-plugin-orefalerts/server/metrics"
)

// testLogger records log messages
type testLogger struct {
	mu       sync.Mutex
	messages []string
}

func (l *testLogger) log(level, message string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, level+": "+message)
}

func (l *testLogger) Debug(message string, _ ...any) { l.log("debug", message) }
func (l *testLogger) Info(message string, _ ...any)  { l.log("info", message) }
func (l *testLogger) Warn(message string, _ ...any)  { l.log("warn", message) }
func (l *testLogger) Error(message string, _ ...any) { l.log("error", message) }

func (l *testLogger) contains(entry string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, m := range l.messages {
		if m == entry {
			return true
		}
	}
	return false
}

// feedStep is one scripted FetchRaw reply
type feedStep struct {
	payload Payload
	healthy bool
}

// scriptedFeed replays steps in order, then reports an empty healthy feed.
// When gate is set every fetch waits for a value on it.
type scriptedFeed struct {
	mu    sync.Mutex
	steps []feedStep
	calls int
	gate  chan struct{}
}

func (f *scriptedFeed) FetchRaw(_ context.Context) (Payload, bool) {
	if f.gate != nil {
		<-f.gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	if len(f.steps) == 0 {
		return Payload{Kind: PayloadEmpty}, true
	}
	step := f.steps[0]
	f.steps = f.steps[1:]
	return step.payload, step.healthy
}

func (f *scriptedFeed) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// manualScheduler runs the callback once on Schedule and then only on fire
type manualScheduler struct {
	mu       sync.Mutex
	callback func()
	closed   bool
}

func (s *manualScheduler) Schedule(_ string, _ time.Duration, callback func()) (Job, error) {
	s.mu.Lock()
	s.callback = callback
	s.closed = false
	s.mu.Unlock()

	callback()
	return &manualJob{s: s}, nil
}

func (s *manualScheduler) fire() {
	s.mu.Lock()
	cb, closed := s.callback, s.closed
	s.mu.Unlock()

	if cb != nil && !closed {
		cb()
	}
}

type manualJob struct {
	s *manualScheduler
}

func (j *manualJob) Close() error {
	j.s.mu.Lock()
	defer j.s.mu.Unlock()
	j.s.closed = true
	return nil
}

// recordingNotifier records dispatched alerts
type recordingNotifier struct {
	mu      sync.Mutex
	granted bool
	err     error
	sent    []backend.Alert
}

func (n *recordingNotifier) PermissionGranted() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.granted
}

func (n *recordingNotifier) Notify(alert backend.Alert) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, alert)
	return n.err
}

func (n *recordingNotifier) sentIDs() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	ids := make([]string, 0, len(n.sent))
	for _, a := range n.sent {
		ids = append(ids, a.ID)
	}
	return ids
}

// callbackRecorder collects home alert callbacks
type callbackRecorder struct {
	mu  sync.Mutex
	ids []string
}

func (c *callbackRecorder) record(_ string, alert backend.Alert) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ids = append(c.ids, alert.ID)
}

func (c *callbackRecorder) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.ids)
}

func rawAlert(id string, localities ...string) RawAlert {
	return RawAlert{
		ID:         FlexString(id),
		Category:   "1",
		Title:      "ירי רקטות וטילים",
		Localities: localities,
	}
}

func singlePayload(r RawAlert) Payload {
	return Payload{Kind: PayloadSingle, Single: r}
}

func listPayload(records ...RawAlert) Payload {
	return Payload{Kind: PayloadList, List: records}
}

func canonicalAlert(id string, localities ...string) backend.Alert {
	return backend.Alert{
		ID:                      id,
		Title:                   "title " + id,
		Localities:              localities,
		ObservedAt:              time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		ShelterCountdownSeconds: 90,
		Category:                "1",
	}
}

func steppingClock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

func idsOf(alerts []backend.Alert) []string {
	ids := make([]string, 0, len(alerts))
	for _, a := range alerts {
		ids = append(ids, a.ID)
	}
	return ids
}

// metricValue returns the counter or gauge value of the series whose label
// values equal labelValues in order, or 0 when the series does not exist.
func metricValue(t *testing.T, m *metrics.Metrics, name string, labelValues ...string) float64 {
	t.Helper()

	families, err := m.Gatherer().Gather()
	require.NoError(t, err)

	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, metric := range family.GetMetric() {
			labels := metric.GetLabel()
			if len(labels) != len(labelValues) {
				continue
			}
			match := true
			for i, l := range labels {
				if l.GetValue() != labelValues[i] {
					match = false
					break
				}
			}
			if !match {
				continue
			}
			if c := metric.GetCounter(); c != nil {
				return c.GetValue()
			}
			return metric.GetGauge().GetValue()
		}
	}
	return 0
}
