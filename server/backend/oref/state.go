package oref

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mattermost/mattermost/server/public/plugin"
)

// PollHealth summarizes recent polling outcomes of a monitor.
// No alert content is stored.
type PollHealth struct {
	LastPoll            time.Time `json:"lastPoll"`
	LastSuccess         time.Time `json:"lastSuccess"`
	ConsecutiveFailures int       `json:"consecutiveFailures"`
	LastError           string    `json:"lastError"`
}

// RecordSuccess marks a healthy cycle
func (h *PollHealth) RecordSuccess(at time.Time) {
	h.LastPoll = at
	h.LastSuccess = at
	h.ConsecutiveFailures = 0
	h.LastError = ""
}

// RecordFailure marks an unhealthy cycle
func (h *PollHealth) RecordFailure(at time.Time, reason string) {
	h.LastPoll = at
	h.ConsecutiveFailures++
	h.LastError = reason
}

// StateStore persists poll health in the Mattermost KV store.
// Keys are scoped to the monitor ID. A nil *StateStore stores nothing.
type StateStore struct {
	api       plugin.API
	backendID string
}

// NewStateStore creates a new state store for a specific monitor.
// Returns nil when api is nil.
func NewStateStore(api plugin.API, backendID string) *StateStore {
	if api == nil {
		return nil
	}
	return &StateStore{
		api:       api,
		backendID: backendID,
	}
}

func (s *StateStore) healthKey() string {
	return fmt.Sprintf("backend_%s_health", s.backendID)
}

// SaveHealth stores the poll health record
func (s *StateStore) SaveHealth(h PollHealth) error {
	if s == nil {
		return nil
	}

	data, err := json.Marshal(h)
	if err != nil {
		return fmt.Errorf("failed to marshal poll health: %w", err)
	}

	if appErr := s.api.KVSet(s.healthKey(), data); appErr != nil {
		return fmt.Errorf("failed to save poll health: %w", appErr)
	}

	return nil
}

// GetHealth retrieves the poll health record.
// Returns the zero record if nothing is stored.
func (s *StateStore) GetHealth() (PollHealth, error) {
	if s == nil {
		return PollHealth{}, nil
	}

	data, appErr := s.api.KVGet(s.healthKey())
	if appErr != nil {
		return PollHealth{}, fmt.Errorf("failed to get poll health: %w", appErr)
	}

	if data == nil {
		return PollHealth{}, nil
	}

	var h PollHealth
	if err := json.Unmarshal(data, &h); err != nil {
		return PollHealth{}, fmt.Errorf("failed to unmarshal poll health: %w", err)
	}

	return h, nil
}

// Clear removes the stored record
func (s *StateStore) Clear() error {
	if s == nil {
		return nil
	}

	if appErr := s.api.KVDelete(s.healthKey()); appErr != nil {
		return fmt.Errorf("failed to delete poll health: %w", appErr)
	}
	return nil
}
