package backend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockFactory creates a mock backend using the existing mockBackend from registry_test.go
func mockFactory(config Config, _ Dependencies) (Backend, error) {
	return newMockBackend(config.ID, config.Name, config.Type), nil
}

func TestRegisterBackendFactory(t *testing.T) {
	// Save original registry and restore after test
	originalRegistry := factoryRegistry
	defer func() { factoryRegistry = originalRegistry }()

	t.Run("register new factory", func(t *testing.T) {
		factoryRegistry = make(map[string]Factory)

		RegisterBackendFactory("test", mockFactory)

		assert.Contains(t, factoryRegistry, "test")
	})

	t.Run("register multiple factories", func(t *testing.T) {
		factoryRegistry = make(map[string]Factory)

		RegisterBackendFactory("type1", mockFactory)
		RegisterBackendFactory("type2", mockFactory)

		assert.Contains(t, factoryRegistry, "type1")
		assert.Contains(t, factoryRegistry, "type2")
		assert.Len(t, factoryRegistry, 2)
	})

	t.Run("overwrite existing factory", func(t *testing.T) {
		factoryRegistry = make(map[string]Factory)

		RegisterBackendFactory("test", mockFactory)
		RegisterBackendFactory("test", mockFactory)

		// Should have only one entry
		assert.Len(t, factoryRegistry, 1)
	})
}

func TestCreate(t *testing.T) {
	// Save original registry and restore after test
	originalRegistry := factoryRegistry
	defer func() { factoryRegistry = originalRegistry }()

	t.Run("create backend with registered factory", func(t *testing.T) {
		factoryRegistry = make(map[string]Factory)

		RegisterBackendFactory("mock", mockFactory)

		config := Config{
			ID:   "test-id",
			Name: "Test Backend",
			Type: "mock",
		}

		backend, err := Create(config, Dependencies{})
		require.NoError(t, err)
		require.NotNil(t, backend)

		assert.Equal(t, "test-id", backend.GetID())
		assert.Equal(t, "Test Backend", backend.GetName())
		assert.Equal(t, "mock", backend.GetType())
	})

	t.Run("factory receives dependencies", func(t *testing.T) {
		factoryRegistry = make(map[string]Factory)

		var got Dependencies
		RegisterBackendFactory("mock", func(config Config, deps Dependencies) (Backend, error) {
			got = deps
			return newMockBackend(config.ID, config.Name, config.Type), nil
		})

		called := false
		_, err := Create(Config{ID: "id", Type: "mock"}, Dependencies{
			OnHomeAlert: func(string, Alert) { called = true },
		})
		require.NoError(t, err)
		require.NotNil(t, got.OnHomeAlert)

		got.OnHomeAlert("id", Alert{})
		assert.True(t, called)
	})

	t.Run("fail with unknown backend type", func(t *testing.T) {
		factoryRegistry = make(map[string]Factory)

		config := Config{
			ID:   "test-id",
			Name: "Test Backend",
			Type: "unknown",
		}

		backend, err := Create(config, Dependencies{})
		assert.Error(t, err)
		assert.Nil(t, backend)
		assert.Contains(t, err.Error(), "unknown backend type: unknown")
	})

	t.Run("fail with empty backend type", func(t *testing.T) {
		factoryRegistry = make(map[string]Factory)

		config := Config{
			ID:   "test-id",
			Name: "Test Backend",
			Type: "",
		}

		backend, err := Create(config, Dependencies{})
		assert.Error(t, err)
		assert.Nil(t, backend)
		assert.Contains(t, err.Error(), "backend type is required")
	})
}

func TestConfig_PollInterval(t *testing.T) {
	assert.Equal(t, "5s", Config{}.PollInterval().String())
	assert.Equal(t, "5s", Config{PollIntervalSeconds: -1}.PollInterval().String())
	assert.Equal(t, "2s", Config{PollIntervalSeconds: 2}.PollInterval().String())
}

func TestEmptySnapshot(t *testing.T) {
	var zero Snapshot
	snapshot := EmptySnapshot(zero.LastUpdate)

	assert.Equal(t, ConnectionChecking, snapshot.ConnectionState)
	assert.NotNil(t, snapshot.Alerts)
	assert.NotNil(t, snapshot.RelevantAlerts)
}
