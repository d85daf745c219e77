package main

import (
	"sync"
	"time"

	"github.com/mattermost/mattermost/server/public/plugin/plugintest"
	"github.com/stretchr/testify/mock"

	"github.com/mattermost/mattermost-plugin-orefalerts/server/backend"
)

// fakeBackend is a backend.Backend with canned responses
type fakeBackend struct {
	mu        sync.Mutex
	id        string
	name      string
	snapshot  backend.Snapshot
	status    backend.Status
	refreshOK bool
	refreshes int
	stopped   bool
	cleared   bool
	clearErr  error
}

func newFakeBackend(id, name string) *fakeBackend {
	return &fakeBackend{
		id:       id,
		name:     name,
		snapshot: backend.EmptySnapshot(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)),
	}
}

func (f *fakeBackend) Start() error { return nil }

func (f *fakeBackend) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
	return nil
}

func (f *fakeBackend) GetID() string                 { return f.id }
func (f *fakeBackend) GetName() string               { return f.name }
func (f *fakeBackend) GetType() string               { return backend.TypeOref }
func (f *fakeBackend) GetStatus() backend.Status     { return f.status }
func (f *fakeBackend) GetSnapshot() backend.Snapshot { return f.snapshot }

func (f *fakeBackend) Refresh() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshes++
	return f.refreshOK
}

func (f *fakeBackend) ClearState() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleared = true
	return f.clearErr
}

// allowLogs accepts log calls of any arity at the given levels
func allowLogs(api *plugintest.API, levels ...string) {
	for _, level := range levels {
		for n := 1; n <= 13; n += 2 {
			args := make([]any, n)
			for i := range args {
				args[i] = mock.Anything
			}
			api.On(level, args...).Maybe()
		}
	}
}
