package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestHub_RoutesByPage(t *testing.T) {
	defer goleak.VerifyNone(t)

	hub := NewHub(zap.NewNop())
	defer hub.Stop()

	a := &Connection{PageID: "a", Send: make(chan []byte, 4), Hub: hub}
	b := &Connection{PageID: "b", Send: make(chan []byte, 4), Hub: hub}
	hub.Register(a)
	hub.Register(b)

	hub.SendToPage("a", errorMessage(assert.AnError))

	select {
	case data := <-a.Send:
		var msg Message
		require.NoError(t, json.Unmarshal(data, &msg))
		assert.Equal(t, MsgError, msg.Type)
	case <-time.After(time.Second):
		t.Fatal("no message delivered")
	}
	assert.Empty(t, b.Send)
}

func TestHub_ReplaceAndUnregister(t *testing.T) {
	defer goleak.VerifyNone(t)

	hub := NewHub(zap.NewNop())
	defer hub.Stop()

	old := &Connection{PageID: "p", Send: make(chan []byte, 1), Hub: hub}
	hub.Register(old)
	cur := &Connection{PageID: "p", Send: make(chan []byte, 1), Hub: hub}
	hub.Register(cur)

	_, open := <-old.Send
	assert.False(t, open)

	// A stale unregister leaves the current connection alone.
	hub.Unregister(old)
	assert.Eventually(t, func() bool { return hub.Connected("p") }, time.Second, time.Millisecond)

	hub.Unregister(cur)
	_, open = <-cur.Send
	assert.False(t, open)
	assert.False(t, hub.Connected("p"))
}

func TestHub_StopClosesConnections(t *testing.T) {
	defer goleak.VerifyNone(t)

	hub := NewHub(zap.NewNop())
	conn := &Connection{PageID: "p", Send: make(chan []byte, 1), Hub: hub}
	hub.Register(conn)

	hub.Stop()
	hub.Stop()

	_, open := <-conn.Send
	assert.False(t, open)

	// Calls after Stop return instead of blocking.
	hub.SendToPage("p", errorMessage(assert.AnError))
	hub.Unregister(conn)
	assert.False(t, hub.Connected("p"))
}
