package oref

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mattermost/mattermost-plugin-orefalerts/server/backend"
	"github.com/mattermost/mattermost-plugin-orefalerts/server/metrics"
)

// feedFailureReason is recorded as the last error of an unhealthy cycle.
// The specific cause is logged by the feed client.
const feedFailureReason = "alert feed unavailable"

// Poller drives the fetch → normalize → publish → dedup cycle of one monitor.
//
// Ticks never queue: a tick that arrives while a cycle is in flight is dropped.
// Stop cancels future ticks; a cycle already in flight finishes its fetch, but
// its result is discarded by the post-check in publish.
type Poller struct {
	logger       backend.Logger
	backendID    string
	backendName  string
	homeLocality string
	interval     time.Duration
	feed         FeedFetcher
	table        *AreaCountdownTable
	processor    *AlertProcessor
	stateStore   *StateStore
	metrics      *metrics.Metrics
	scheduler    JobScheduler
	now          func() time.Time

	// lifecycle guards job, health and the publish section of a cycle
	lifecycle sync.Mutex
	job       Job
	health    PollHealth

	running    atomic.Bool
	generation atomic.Uint64
	inFlight   atomic.Bool
	skipped    atomic.Int64
	snapshot   atomic.Pointer[backend.Snapshot]
	cycles     sync.WaitGroup
}

// NewPoller creates a new poller instance
func NewPoller(
	logger backend.Logger,
	backendID string,
	backendName string,
	homeLocality string,
	interval time.Duration,
	feed FeedFetcher,
	processor *AlertProcessor,
	stateStore *StateStore,
	m *metrics.Metrics,
) *Poller {
	p := &Poller{
		logger:       logger,
		backendID:    backendID,
		backendName:  backendName,
		homeLocality: homeLocality,
		interval:     interval,
		feed:         feed,
		table:        DefaultCountdownTable,
		processor:    processor,
		stateStore:   stateStore,
		metrics:      m,
		scheduler:    NewTickerScheduler(),
		now:          time.Now,
	}

	initial := backend.EmptySnapshot(p.now())
	p.snapshot.Store(&initial)

	return p
}

// SetScheduler sets a custom job scheduler (useful for testing)
func (p *Poller) SetScheduler(scheduler JobScheduler) {
	p.scheduler = scheduler
}

// SetClock sets the time source (useful for testing)
func (p *Poller) SetClock(now func() time.Time) {
	p.now = now
}

// SetCountdownTable replaces the area countdown table
func (p *Poller) SetCountdownTable(table *AreaCountdownTable) {
	p.table = table
}

// Start schedules the polling job. The first cycle runs immediately.
func (p *Poller) Start() error {
	p.lifecycle.Lock()
	defer p.lifecycle.Unlock()

	if p.job != nil {
		return fmt.Errorf("poller already running")
	}

	if health, err := p.stateStore.GetHealth(); err != nil {
		p.logger.Warn("Failed to load poll health", "backendId", p.backendID, "error", err.Error())
	} else {
		p.health = health
	}

	p.generation.Add(1)
	p.running.Store(true)

	jobID := fmt.Sprintf("oref_poll_%s", p.backendID)
	job, err := p.scheduler.Schedule(jobID, p.interval, func() { p.tick() })
	if err != nil {
		p.running.Store(false)
		return fmt.Errorf("failed to schedule polling job: %w", err)
	}

	p.job = job
	p.logger.Info("Poller started", "backendId", p.backendID, "backendName", p.backendName, "interval", p.interval.String())
	return nil
}

// Stop cancels future cycles. It does not wait for an in-flight fetch.
func (p *Poller) Stop() error {
	p.lifecycle.Lock()
	p.running.Store(false)
	p.generation.Add(1)
	job := p.job
	p.job = nil
	p.lifecycle.Unlock()

	if job == nil {
		return nil
	}

	if err := job.Close(); err != nil {
		p.logger.Error("Failed to close polling job", "backendId", p.backendID, "error", err.Error())
		return fmt.Errorf("failed to close polling job: %w", err)
	}

	p.logger.Info("Poller stopped", "backendId", p.backendID, "backendName", p.backendName)
	return nil
}

// Refresh starts a cycle now unless one is in flight
func (p *Poller) Refresh() bool {
	return p.tick()
}

// tick starts a cycle in the background unless the poller is stopped or a
// cycle is already in flight. Returns whether a cycle was started.
func (p *Poller) tick() bool {
	if !p.running.Load() {
		return false
	}

	if !p.inFlight.CompareAndSwap(false, true) {
		p.skipped.Add(1)
		p.metrics.IncSkippedTick(p.backendName)
		p.logger.Debug("Skipping tick, previous cycle still in flight", "backendId", p.backendID)
		return false
	}

	gen := p.generation.Load()
	p.cycles.Add(1)
	go func() {
		defer p.cycles.Done()
		defer p.inFlight.Store(false)
		p.run(gen)
	}()

	return true
}

// run executes one cycle. The feed fetch is the only blocking call.
func (p *Poller) run(gen uint64) {
	started := p.now()

	payload, healthy := p.feed.FetchRaw(context.Background())

	observedAt := p.now()
	alerts := NormalizeAlerts(payload.Records(), observedAt, p.table, p.backendName)

	p.finishCycle(gen, alerts, healthy, observedAt, started)
}

// finishCycle publishes a cycle's result and fires its triggers, unless the
// poller was stopped or restarted while the fetch was in flight. Triggers run
// outside the lifecycle lock so Stop and Health never wait on a notifier.
func (p *Poller) finishCycle(gen uint64, alerts []backend.Alert, healthy bool, observedAt, started time.Time) {
	newlyAppeared, ok := p.publish(gen, alerts, healthy, observedAt, started)
	if !ok {
		return
	}

	p.processor.Trigger(newlyAppeared, func() bool { return p.current(gen) })
}

// publish stores the snapshot, records health and advances the seen set.
// It reports false when the result belongs to a stopped generation.
func (p *Poller) publish(gen uint64, alerts []backend.Alert, healthy bool, observedAt, started time.Time) ([]backend.Alert, bool) {
	p.lifecycle.Lock()
	defer p.lifecycle.Unlock()

	if !p.current(gen) {
		p.logger.Debug("Discarding result of cycle finished after stop", "backendId", p.backendID)
		return nil, false
	}

	state := backend.ConnectionConnected
	outcome := metrics.OutcomeConnected
	if healthy {
		p.health.RecordSuccess(observedAt)
	} else {
		state = backend.ConnectionDisconnected
		outcome = metrics.OutcomeDisconnected
		p.health.RecordFailure(observedAt, feedFailureReason)
	}

	snapshot := backend.Snapshot{
		Alerts:          alerts,
		RelevantAlerts:  FilterForDisplay(alerts, p.homeLocality),
		ConnectionState: state,
		LastUpdate:      observedAt,
	}
	p.snapshot.Store(&snapshot)

	newlyAppeared := p.processor.Observe(alerts)

	if err := p.stateStore.SaveHealth(p.health); err != nil {
		p.logger.Error("Failed to save poll health", "backendId", p.backendID, "error", err.Error())
	}

	p.metrics.ObserveCycle(p.backendName, outcome, observedAt.Sub(started).Seconds())
	p.metrics.SetActiveAlerts(p.backendName, len(snapshot.Alerts), len(snapshot.RelevantAlerts))

	p.logger.Debug("Poll cycle completed",
		"backendId", p.backendID,
		"connectionState", string(state),
		"totalAlerts", len(snapshot.Alerts),
		"relevantAlerts", len(snapshot.RelevantAlerts),
		"triggered", len(newlyAppeared))

	return newlyAppeared, true
}

// current reports whether gen is the running generation
func (p *Poller) current(gen uint64) bool {
	return p.running.Load() && p.generation.Load() == gen
}

// Snapshot returns the most recently published snapshot
func (p *Poller) Snapshot() backend.Snapshot {
	return *p.snapshot.Load()
}

// Health returns the current poll health
func (p *Poller) Health() PollHealth {
	p.lifecycle.Lock()
	defer p.lifecycle.Unlock()
	return p.health
}

// SkippedTicks returns how many ticks were dropped
func (p *Poller) SkippedTicks() int64 {
	return p.skipped.Load()
}

// Wait blocks until no cycle is in flight
func (p *Poller) Wait() {
	p.cycles.Wait()
}
