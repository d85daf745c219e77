package notify

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testLogger struct {
	warnings atomic.Int32
}

func (l *testLogger) Debug(string, ...any) {}
func (l *testLogger) Info(string, ...any)  {}
func (l *testLogger) Warn(string, ...any)  { l.warnings.Add(1) }
func (l *testLogger) Error(string, ...any) {}

func fastWebhook(url string, logger *testLogger) *WebhookNotifier {
	n := NewWebhookNotifier(url, true, logger)
	n.client.RetryWaitMin = time.Millisecond
	n.client.RetryWaitMax = 5 * time.Millisecond
	return n
}

func TestWebhookNotifier_PermissionGranted(t *testing.T) {
	assert.True(t, NewWebhookNotifier("https://hooks.example.com/x", true, nil).PermissionGranted())
	assert.False(t, NewWebhookNotifier("https://hooks.example.com/x", false, nil).PermissionGranted())
	assert.False(t, NewWebhookNotifier("", true, nil).PermissionGranted())
}

func TestWebhookNotifier_Notify(t *testing.T) {
	var received WebhookPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	err := fastWebhook(server.URL, &testLogger{}).Notify(testAlert())
	require.NoError(t, err)

	assert.Equal(t, "133", received.Alert.ID)
	assert.Equal(t, 90, received.Alert.ShelterCountdownSeconds)
	assert.Contains(t, received.Text, "🚨 Alert in your area!")
	assert.Contains(t, received.Text, "90 seconds to protected space")
}

func TestWebhookNotifier_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	err := fastWebhook(server.URL, &testLogger{}).Notify(testAlert())
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestWebhookNotifier_GivesUp(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	err := fastWebhook(server.URL, &testLogger{}).Notify(testAlert())
	require.Error(t, err)
	assert.Equal(t, int32(webhookRetryMax+1), calls.Load())
}

func TestWebhookNotifier_ClientError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	err := fastWebhook(server.URL, &testLogger{}).Notify(testAlert())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 400")
	assert.Equal(t, int32(1), calls.Load())
}
