package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/coder/websocket"
)

// WatchEvent is a realtime message for a watched entity. Type is
// "<entity_type>.<op>" for change events ("task.update") or "reset" when
// the server could not replay missed events and the caller should
// re-query the feed.
type WatchEvent struct {
	Type       string          `json:"type"`
	ID         uint64          `json:"id,omitempty"`
	EntityType string          `json:"entity_type"`
	EntityID   string          `json:"entity_id"`
	Data       json.RawMessage `json:"data,omitempty"`
	Time       time.Time       `json:"time,omitempty"`
	Reason     string          `json:"reason,omitempty"`
}

// subscribeMsg mirrors the server's subscription wire format.
type subscribeMsg struct {
	Type        string `json:"type"`
	EntityType  string `json:"entity_type"`
	EntityID    string `json:"entity_id"`
	LastEventID uint64 `json:"last_event_id,omitempty"`
}

// Watch is a live subscription handle. Events arrive on Events until
// Close is called or the connection drops; after the channel closes,
// Err reports why.
type Watch struct {
	conn   *websocket.Conn
	cancel context.CancelFunc
	events chan WatchEvent

	mu  sync.Mutex
	err error

	closeOnce sync.Once
}

// Events returns the channel of incoming events. It is closed when the
// watch ends.
func (w *Watch) Events() <-chan WatchEvent {
	return w.events
}

// Err returns the error that terminated the watch, or nil after a clean
// Close.
func (w *Watch) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}

// Subscribe adds another entity's feed to this watch. Duplicate
// subscriptions for the same entity are collapsed server side.
func (w *Watch) Subscribe(ctx context.Context, entityType, entityID string, lastEventID uint64) error {
	msg := subscribeMsg{Type: "subscribe", EntityType: entityType, EntityID: entityID, LastEventID: lastEventID}
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal subscribe: %w", err)
	}
	return w.conn.Write(ctx, websocket.MessageText, data)
}

// Unsubscribe stops delivery for one entity without closing the
// connection.
func (w *Watch) Unsubscribe(ctx context.Context, entityType, entityID string) error {
	msg := subscribeMsg{Type: "unsubscribe", EntityType: entityType, EntityID: entityID}
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal unsubscribe: %w", err)
	}
	return w.conn.Write(ctx, websocket.MessageText, data)
}

// Close terminates the watch and closes the events channel.
func (w *Watch) Close() error {
	w.closeOnce.Do(func() {
		w.cancel()
		w.conn.Close(websocket.StatusNormalClosure, "client closed")
	})
	return nil
}

func (w *Watch) fail(err error) {
	w.mu.Lock()
	if w.err == nil {
		w.err = err
	}
	w.mu.Unlock()
}

// Watch opens a websocket connection and subscribes to one entity's
// activity feed. Pass lastEventID from a previous session to request
// replay of missed events; a "reset" event means replay was impossible
// and the feed should be re-queried via Activity.Query.
func (c *Client) Watch(ctx context.Context, entityType, entityID string, lastEventID uint64) (*Watch, error) {
	wsURL := strings.Replace(c.baseURL, "http", "ws", 1) + "/v1/ws"

	hdr := http.Header{}
	if c.apiKey != "" {
		hdr.Set("Authorization", "Bearer "+c.apiKey)
	}

	conn, _, err := websocket.Dial(ctx, wsURL, &websocket.DialOptions{HTTPHeader: hdr})
	if err != nil {
		return nil, fmt.Errorf("dial websocket: %w", err)
	}

	watchCtx, cancel := context.WithCancel(context.Background())
	w := &Watch{
		conn:   conn,
		cancel: cancel,
		events: make(chan WatchEvent, 64),
	}

	if err := w.Subscribe(ctx, entityType, entityID, lastEventID); err != nil {
		cancel()
		conn.Close(websocket.StatusInternalError, "subscribe failed")
		return nil, err
	}

	go w.readLoop(watchCtx)

	return w, nil
}

func (w *Watch) readLoop(ctx context.Context) {
	defer close(w.events)

	for {
		_, data, err := w.conn.Read(ctx)
		if err != nil {
			if ctx.Err() == nil && websocket.CloseStatus(err) != websocket.StatusNormalClosure {
				w.fail(err)
			}
			return
		}

		var evt WatchEvent
		if err := json.Unmarshal(data, &evt); err != nil {
			// Skip frames we do not understand rather than killing the feed.
			continue
		}

		select {
		case w.events <- evt:
		case <-ctx.Done():
			return
		}
	}
}
