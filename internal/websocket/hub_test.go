package websocket

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockClient is a test double for Client that captures sent messages
type mockClient struct {
	id       string
	userID   uuid.UUID
	messages [][]byte
	mu       sync.Mutex
	closed   bool
}

func newMockClient(id string, userID uuid.UUID) *mockClient {
	return &mockClient{
		id:       id,
		userID:   userID,
		messages: make([][]byte, 0),
	}
}

func (m *mockClient) ID() string {
	return m.id
}

func (m *mockClient) UserID() uuid.UUID {
	return m.userID
}

func (m *mockClient) Send(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClientClosed
	}
	m.messages = append(m.messages, data)
	return nil
}

func (m *mockClient) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockClient) GetMessages() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := make([][]byte, len(m.messages))
	copy(copied, m.messages)
	return copied
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub := NewHub()

	userA := uuid.New()
	userB := uuid.New()

	client1 := newMockClient("client-1", userA)
	client2 := newMockClient("client-2", userA)
	client3 := newMockClient("client-3", userB)

	hub.Register(client1)
	hub.Register(client2)
	hub.Register(client3)

	assert.Equal(t, 2, hub.ClientCount(userA))
	assert.Equal(t, 1, hub.ClientCount(userB))
	assert.Equal(t, 0, hub.ClientCount(uuid.New()))
	assert.Equal(t, 3, hub.TotalClientCount())

	hub.Unregister(client1)
	assert.Equal(t, 1, hub.ClientCount(userA))

	hub.Unregister(client2)
	hub.Unregister(client3)
	assert.Equal(t, 0, hub.ClientCount(userA))
	assert.Equal(t, 0, hub.ClientCount(userB))
	assert.Equal(t, 0, hub.TotalClientCount())
}

func TestHub_Broadcast_UserIsolation(t *testing.T) {
	hub := NewHub()

	userA := uuid.New()
	userB := uuid.New()

	// Two clients for user A, one for user B
	clientA1 := newMockClient("client-a1", userA)
	clientA2 := newMockClient("client-a2", userA)
	clientB := newMockClient("client-b", userB)

	hub.Register(clientA1)
	hub.Register(clientA2)
	hub.Register(clientB)

	evt := TotalsUpdated(userA, map[string]interface{}{"totalBalance": "3300.00"})
	hub.Broadcast(userA, evt)

	// Sends run in goroutines
	time.Sleep(10 * time.Millisecond)

	assert.Len(t, clientA1.GetMessages(), 1, "clientA1 should receive 1 message")
	assert.Len(t, clientA2.GetMessages(), 1, "clientA2 should receive 1 message")
	assert.Empty(t, clientB.GetMessages(), "clientB must not receive user A's events")
}

func TestHub_Broadcast_MessageFormat(t *testing.T) {
	hub := NewHub()

	userID := uuid.New()
	client := newMockClient("client-1", userID)
	hub.Register(client)

	evt := TotalsUpdated(userID, map[string]interface{}{"monthlyIncome": "8000.00"})
	hub.Broadcast(userID, evt)

	time.Sleep(10 * time.Millisecond)

	messages := client.GetMessages()
	require.Len(t, messages, 1)

	var decoded Event
	require.NoError(t, json.Unmarshal(messages[0], &decoded))

	assert.Equal(t, TotalsTopic(userID), decoded.Topic)
	assert.Equal(t, EventTypeTotalsUpdated, decoded.Type)
	assert.False(t, decoded.Timestamp.IsZero())

	payload, ok := decoded.Payload.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "8000.00", payload["monthlyIncome"])
}

func TestHub_Broadcast_NoClients(t *testing.T) {
	hub := NewHub()

	// Must not panic with no registered clients
	userID := uuid.New()
	hub.Broadcast(userID, TotalsUpdated(userID, nil))
}

func TestHub_Broadcast_ClosedClient(t *testing.T) {
	hub := NewHub()

	userID := uuid.New()
	open := newMockClient("open", userID)
	closed := newMockClient("closed", userID)
	closed.Close()

	hub.Register(open)
	hub.Register(closed)

	hub.Broadcast(userID, TotalsUpdated(userID, nil))

	time.Sleep(10 * time.Millisecond)

	// The closed client's failure must not affect the open one
	assert.Len(t, open.GetMessages(), 1)
	assert.Empty(t, closed.GetMessages())
}

func TestHub_Publish_DelegatesToBroadcast(t *testing.T) {
	hub := NewHub()

	userID := uuid.New()
	client := newMockClient("client-1", userID)
	hub.Register(client)

	var publisher EventPublisher = hub
	publisher.Publish(userID, TotalsUpdated(userID, nil))

	time.Sleep(10 * time.Millisecond)

	assert.Len(t, client.GetMessages(), 1)
}

func TestHub_ConcurrentAccess(t *testing.T) {
	hub := NewHub()

	userID := uuid.New()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			client := newMockClient(uuid.NewString(), userID)
			hub.Register(client)
			hub.Broadcast(userID, TotalsUpdated(userID, nil))
			hub.Unregister(client)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 0, hub.ClientCount(userID))
}
