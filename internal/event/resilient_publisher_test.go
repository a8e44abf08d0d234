package event

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockBus is a test double for event.Bus
type mockBus struct {
	mu         sync.Mutex
	calls      []Event
	shouldFail func(attempt int) bool
}

func (m *mockBus) Publish(ctx context.Context, event Event) error {
	m.mu.Lock()
	m.calls = append(m.calls, event)
	callCount := len(m.calls)
	m.mu.Unlock()

	if m.shouldFail != nil && m.shouldFail(callCount) {
		return errors.New("mock publish error")
	}
	return nil
}

func (m *mockBus) Subscribe(eventType Type, handler Handler) {}

func (m *mockBus) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func TestResilientPublisher_SuccessfulPublish(t *testing.T) {
	tmpFile := t.TempDir() + "/deadletter.jsonl"
	bus := &mockBus{}

	rp, err := NewResilientPublisher(bus, 3, 100*time.Millisecond, tmpFile)
	require.NoError(t, err)
	defer rp.Shutdown(context.Background())

	rp.PublishWithRetry(context.Background(), Event{Type: Type("test_event")})

	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, 1, bus.CallCount(), "Event should be published once")

	content, _ := os.ReadFile(tmpFile)
	assert.Empty(t, content, "No dead-letter entries expected")
}

func TestResilientPublisher_RetrySuccess(t *testing.T) {
	tmpFile := t.TempDir() + "/deadletter.jsonl"

	// Bus fails on first attempt, succeeds on second
	bus := &mockBus{
		shouldFail: func(attempt int) bool {
			return attempt == 1
		},
	}

	rp, err := NewResilientPublisher(bus, 3, 50*time.Millisecond, tmpFile)
	require.NoError(t, err)
	defer rp.Shutdown(context.Background())

	rp.PublishWithRetry(context.Background(), Event{Type: Type("test_event")})

	time.Sleep(300 * time.Millisecond)

	assert.Equal(t, 2, bus.CallCount(), "Should attempt twice: initial + retry")

	content, _ := os.ReadFile(tmpFile)
	assert.Empty(t, content, "No dead-letter entries for successful retry")
}

func TestResilientPublisher_RetryExhaustion(t *testing.T) {
	tmpFile := t.TempDir() + "/deadletter.jsonl"

	// Bus never succeeds
	bus := &mockBus{
		shouldFail: func(attempt int) bool { return true },
	}

	rp, err := NewResilientPublisher(bus, 2, 10*time.Millisecond, tmpFile)
	require.NoError(t, err)

	rp.PublishWithRetry(context.Background(), Event{
		Type:    Type("doomed_event"),
		Payload: map[string]interface{}{"user_id": "u1"},
	})

	// initial attempt + 2 retries with short backoff
	time.Sleep(500 * time.Millisecond)
	require.NoError(t, rp.Shutdown(context.Background()))

	assert.Equal(t, 3, bus.CallCount(), "initial attempt plus maxRetries")

	content, err := os.ReadFile(tmpFile)
	require.NoError(t, err)
	require.NotEmpty(t, content, "Exhausted event should be dead-lettered")

	var entry DeadLetterEntry
	require.NoError(t, json.Unmarshal(content, &entry))
	assert.Equal(t, DeadLetterSchemaVersion, entry.SchemaVersion)
	assert.Equal(t, Type("doomed_event"), entry.Event.Type)
	assert.Equal(t, 2, entry.Attempts)
	assert.NotEmpty(t, entry.LastError)
}

func TestResilientPublisher_ShutdownDrainsPending(t *testing.T) {
	tmpFile := t.TempDir() + "/deadletter.jsonl"

	bus := &mockBus{
		shouldFail: func(attempt int) bool { return true },
	}

	// Long retry delay keeps the event pending at shutdown
	rp, err := NewResilientPublisher(bus, 5, 10*time.Second, tmpFile)
	require.NoError(t, err)

	rp.PublishWithRetry(context.Background(), Event{Type: Type("pending_event")})

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, rp.Shutdown(context.Background()))

	content, err := os.ReadFile(tmpFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), "pending_event", "Pending event should be dead-lettered on shutdown")
}

func TestResilientPublisher_ShutdownIdempotent(t *testing.T) {
	tmpFile := t.TempDir() + "/deadletter.jsonl"

	rp, err := NewResilientPublisher(&mockBus{}, 3, time.Second, tmpFile)
	require.NoError(t, err)

	require.NoError(t, rp.Shutdown(context.Background()))
	// Second call returns the close error from the already-closed file,
	// but must not panic or hang
	_ = rp.Shutdown(context.Background())
}
