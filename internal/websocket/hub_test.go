package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"approval-flow-api/internal/domain"
)

func newTestClient(hub *Hub) *Client {
	return &Client{
		hub:    hub,
		Send:   make(chan []byte, 16),
		logger: zap.NewNop(),
	}
}

func TestHub_RegisterAndBroadcast(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	c1 := newTestClient(hub)
	c2 := newTestClient(hub)
	hub.Register <- c1
	hub.Register <- c2

	require.Eventually(t, func() bool { return hub.ClientCount() == 2 }, time.Second, 10*time.Millisecond)

	hub.Broadcast <- []byte("hello")

	for _, c := range []*Client{c1, c2} {
		select {
		case msg := <-c.Send:
			assert.Equal(t, "hello", string(msg))
		case <-time.After(time.Second):
			t.Fatal("client did not receive broadcast")
		}
	}
}

func TestHub_Unregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	c := newTestClient(hub)
	hub.Register <- c
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	hub.Unregister <- c
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 10*time.Millisecond)

	// the send channel is closed so the write pump exits
	_, open := <-c.Send
	assert.False(t, open)
}

func TestHub_SlowClientDropped(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	slow := &Client{hub: hub, Send: make(chan []byte), logger: zap.NewNop()}
	hub.Register <- slow
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	// nobody drains the unbuffered channel, so the broadcast evicts the client
	hub.Broadcast <- []byte("one")
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 10*time.Millisecond)
}

func TestPublisher_NotifyStatusChange(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	c := newTestClient(hub)
	hub.Register <- c
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	p := NewPublisher(hub, zap.NewNop())
	p.NotifyStatusChange(7, "AP-20231027-0001", domain.StatusPending, domain.StatusApproved)

	select {
	case msg := <-c.Send:
		var event StatusEvent
		require.NoError(t, json.Unmarshal(msg, &event))
		assert.Equal(t, uint(7), event.ApprovalID)
		assert.Equal(t, "AP-20231027-0001", event.SerialNo)
		assert.Equal(t, domain.StatusPending, event.From)
		assert.Equal(t, domain.StatusApproved, event.To)
	case <-time.After(time.Second):
		t.Fatal("no status event received")
	}
}
