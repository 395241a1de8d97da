package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skill-gap/internal/domain/analysis"
	"skill-gap/internal/domain/gap"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)
	return hub
}

func testClient(hub *Hub, userID string) *Client {
	return &Client{hub: hub, send: make(chan []byte, sendBuffer), userID: userID}
}

func waitClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return hub.ClientCount() == n }, time.Second, 5*time.Millisecond)
}

func receive(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case msg := <-c.send:
		return msg
	case <-time.After(time.Second):
		t.Fatal("no message received")
		return nil
	}
}

func assertSilent(t *testing.T, c *Client) {
	t.Helper()
	select {
	case msg := <-c.send:
		t.Fatalf("unexpected message %s", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_PublishRoutesByUser(t *testing.T) {
	hub := startHub(t)
	alice := testClient(hub, "alice")
	bob := testClient(hub, "bob")
	anon := testClient(hub, "")
	for _, c := range []*Client{alice, bob, anon} {
		hub.Register(c)
	}
	waitClients(t, hub, 3)

	hub.Publish("alice", []byte("a"))
	assert.Equal(t, "a", string(receive(t, alice)))
	assert.Equal(t, "a", string(receive(t, anon)))
	assertSilent(t, bob)

	hub.Broadcast([]byte("all"))
	for _, c := range []*Client{alice, bob, anon} {
		assert.Equal(t, "all", string(receive(t, c)))
	}
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	hub := startHub(t)
	c := testClient(hub, "")
	hub.Register(c)
	waitClients(t, hub, 1)

	hub.Unregister(c)
	waitClients(t, hub, 0)
	_, ok := <-c.send
	assert.False(t, ok)
}

func TestHub_SlowClientIsDropped(t *testing.T) {
	hub := startHub(t)
	slow := &Client{hub: hub, send: make(chan []byte), userID: ""}
	hub.Register(slow)
	waitClients(t, hub, 1)

	hub.Broadcast([]byte("x"))
	waitClients(t, hub, 0)
}

func TestNilHubIsInert(t *testing.T) {
	var hub *Hub
	hub.Broadcast([]byte("x"))
	assert.Equal(t, 0, hub.ClientCount())

	var n *Notifier
	n.AnalysisCompleted(analysis.Analysis{})
}

func TestNotifier_AnalysisCompleted(t *testing.T) {
	hub := startHub(t)
	c := testClient(hub, "u1")
	hub.Register(c)
	waitClients(t, hub, 1)

	n := NewNotifier(hub)
	n.now = func() time.Time { return time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC) }

	batchID := uuid.New()
	a := analysis.Analysis{
		ID:      uuid.New(),
		UserID:  "u1",
		BatchID: &batchID,
		Source:  analysis.SourceBatch,
		Report:  gap.Report{OverallScore: 80},
	}
	n.AnalysisCompleted(a)

	var evt AnalysisCompletedEvent
	require.NoError(t, json.Unmarshal(receive(t, c), &evt))
	assert.Equal(t, "analysis_completed", evt.Type)
	assert.Equal(t, a.ID.String(), evt.AnalysisID)
	assert.Equal(t, batchID.String(), evt.BatchID)
	assert.Equal(t, 80, evt.OverallScore)
	assert.Equal(t, "well_aligned", evt.Readiness)
	assert.Equal(t, "2026-04-01T09:00:00Z", evt.Timestamp)

	n.BatchCompleted("u1", batchID, 3, 2, 1)
	var done BatchCompletedEvent
	require.NoError(t, json.Unmarshal(receive(t, c), &done))
	assert.Equal(t, "batch_completed", done.Type)
	assert.Equal(t, 2, done.Succeeded)
}
