package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.ErrorLevel)
	return l
}

// newTestClient builds a client without a real WebSocket connection;
// hub fan-out only touches the send channel.
func newTestClient(h *Hub) *Client {
	return &Client{
		hub:  h,
		send: make(chan []byte, clientSendBuffer),
		log:  h.log,
		keys: make(map[string]bool),
	}
}

func recvEvent(t *testing.T, c *Client) *Event {
	t.Helper()

	select {
	case msg := <-c.send:
		var evt Event
		if err := json.Unmarshal(msg, &evt); err != nil {
			t.Fatalf("unmarshal event: %v", err)
		}
		return &evt
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return nil
	}
}

func TestHub_DeliversOnlyToSubscribedEntity(t *testing.T) {
	h := NewHub(testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	watcher := newTestClient(h)
	other := newTestClient(h)
	h.Register(watcher)
	h.Register(other)
	h.Subscribe(watcher, "task", "t1", 0)
	h.Subscribe(other, "task", "t2", 0)

	// Give the Run goroutine time to process registrations.
	time.Sleep(50 * time.Millisecond)

	h.BroadcastEvent("activity.insert", "task", "t1", json.RawMessage(`{"field":"status"}`))

	evt := recvEvent(t, watcher)
	if evt.EntityID != "t1" || evt.EntityType != "task" {
		t.Errorf("event entity = %s/%s, want task/t1", evt.EntityType, evt.EntityID)
	}

	select {
	case msg := <-other.send:
		t.Fatalf("client subscribed to t2 received event for t1: %s", msg)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestHub_ResubscribeIsNotASecondFeed(t *testing.T) {
	h := NewHub(testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	client := newTestClient(h)
	h.Register(client)
	h.Subscribe(client, "task", "t1", 0)
	h.Subscribe(client, "task", "t1", 0)
	time.Sleep(50 * time.Millisecond)

	h.BroadcastEvent("activity.insert", "task", "t1", json.RawMessage(`{}`))

	recvEvent(t, client)

	select {
	case msg := <-client.send:
		t.Fatalf("duplicate delivery after re-subscribe: %s", msg)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestHub_UnsubscribeStopsDelivery(t *testing.T) {
	h := NewHub(testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	client := newTestClient(h)
	h.Register(client)
	h.Subscribe(client, "task", "t1", 0)
	time.Sleep(50 * time.Millisecond)

	h.Unsubscribe(client, "task", "t1")
	time.Sleep(50 * time.Millisecond)

	h.BroadcastEvent("activity.insert", "task", "t1", json.RawMessage(`{}`))

	select {
	case msg := <-client.send:
		t.Fatalf("received event after unsubscribe: %s", msg)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestHub_ReplaysMissedEvents(t *testing.T) {
	h := NewHub(testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	first := newTestClient(h)
	h.Register(first)
	h.Subscribe(first, "task", "t1", 0)
	time.Sleep(50 * time.Millisecond)

	h.BroadcastEvent("activity.insert", "task", "t1", json.RawMessage(`{"n":1}`))
	h.BroadcastEvent("activity.insert", "task", "t1", json.RawMessage(`{"n":2}`))

	e1 := recvEvent(t, first)
	recvEvent(t, first)

	// A reconnecting client that saw event 1 should get event 2 replayed.
	second := newTestClient(h)
	h.Register(second)
	h.Subscribe(second, "task", "t1", e1.ID)

	evt := recvEvent(t, second)
	if evt.ID <= e1.ID {
		t.Errorf("replayed event id = %d, want > %d", evt.ID, e1.ID)
	}
}

func TestEventBuffer_SinceAndOldest(t *testing.T) {
	eb := NewEventBuffer(3, time.Hour)
	defer eb.Stop()

	key := EntityKey("task", "t1")
	for i := uint64(1); i <= 5; i++ {
		eb.Append(key, &Event{ID: i, Time: time.Now()})
	}

	// maxLen=3 keeps only the newest three.
	if oldest := eb.OldestID(key); oldest != 3 {
		t.Errorf("OldestID = %d, want 3", oldest)
	}

	since := eb.Since(key, 3)
	if len(since) != 2 || since[0].ID != 4 || since[1].ID != 5 {
		t.Errorf("Since(3) = %+v, want ids 4,5", since)
	}

	if got := eb.Since(EntityKey("task", "other"), 0); got != nil {
		t.Errorf("Since on empty key = %+v, want nil", got)
	}
}
