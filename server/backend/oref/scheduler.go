package oref

import (
	"fmt"
	"sync"
	"time"
)

// Job represents a scheduled job that can be closed
type Job interface {
	Close() error
}

// JobScheduler schedules a callback at a fixed cadence
type JobScheduler interface {
	// Schedule invokes callback once immediately and then on every interval
	// until the returned job is closed. Callbacks run on a single goroutine and
	// must not block.
	Schedule(jobID string, interval time.Duration, callback func()) (Job, error)
}

// TickerScheduler is the production scheduler backed by time.Ticker
type TickerScheduler struct{}

// NewTickerScheduler creates a new ticker scheduler
func NewTickerScheduler() *TickerScheduler {
	return &TickerScheduler{}
}

// Schedule implements JobScheduler
func (s *TickerScheduler) Schedule(jobID string, interval time.Duration, callback func()) (Job, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("job %s: interval must be positive (got %s)", jobID, interval)
	}
	if callback == nil {
		return nil, fmt.Errorf("job %s: callback is required", jobID)
	}

	job := &tickerJob{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	go job.loop(interval, callback)

	return job, nil
}

type tickerJob struct {
	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

func (j *tickerJob) loop(interval time.Duration, callback func()) {
	defer close(j.done)

	callback()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-j.stop:
			return
		case <-ticker.C:
			callback()
		}
	}
}

// Close stops the ticker and waits for the loop to exit.
// It does not wait for work the callback started.
func (j *tickerJob) Close() error {
	j.closeOnce.Do(func() { close(j.stop) })
	<-j.done
	return nil
}
