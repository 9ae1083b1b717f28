// Package ws implements the WebSocket hub that fans activity events out to
// clients watching individual entities.
package ws

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/traceopshq/traceops/internal/metrics"
)

// Hub channel buffer sizes.
const (
	broadcastBuffer = 256
	registerBuffer  = 64
	subscribeBuffer = 64
)

// Hub connection limits.
const (
	maxClients          = 1000
	maxSubsPerClient    = 100
	maxBroadcastPayload = 4096
)

// entityBroadcast is sent through the broadcast channel to the Run goroutine.
type entityBroadcast struct {
	key string
	msg []byte
}

// subRequest registers or cancels a client's watch on one entity key.
// All subscription map mutations happen in the Run goroutine.
type subRequest struct {
	client      *Client
	key         string
	lastEventID uint64
	cancel      bool
}

// Hub manages active WebSocket clients and their per-entity subscriptions.
// A client receives events only for entities it has subscribed to, and at
// most one subscription exists per (entity, client) pair — re-subscribing
// is a replay request, not a second feed.
type Hub struct {
	clients    map[*Client]bool
	subs       map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	subscribe  chan subRequest
	broadcast  chan entityBroadcast
	shutdown   chan struct{} // signals Run to begin graceful drain
	done       chan struct{} // closed when Run has finished draining
	count      atomic.Int64
	log        *logrus.Logger
	seq        *EventSequence
	buffer     *EventBuffer
}

// NewHub creates a new Hub instance.
func NewHub(log *logrus.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		subs:       make(map[string]map[*Client]bool),
		register:   make(chan *Client, registerBuffer),
		unregister: make(chan *Client, registerBuffer),
		subscribe:  make(chan subRequest, subscribeBuffer),
		broadcast:  make(chan entityBroadcast, broadcastBuffer),
		shutdown:   make(chan struct{}),
		done:       make(chan struct{}),
		log:        log,
		seq:        NewEventSequence(),
		buffer:     NewEventBuffer(defaultBufferMaxLen, defaultBufferMaxAge),
	}
}

// drainTimeout is how long the hub waits for clients to flush after shutdown.
const drainTimeout = 3 * time.Second

// Run starts the hub event loop. It should be run as a goroutine.
// It exits when Shutdown is called or the context is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.drainClients()

			return
		case <-h.shutdown:
			h.drainClients()

			return

		case client := <-h.register:
			if len(h.clients) >= maxClients {
				h.log.Warn("connection limit reached, dropping client")
				client.closeSend()
				continue
			}
			h.clients[client] = true
			h.count.Store(int64(len(h.clients)))
			metrics.WSConnections.Set(float64(len(h.clients)))
			h.log.WithField("total", len(h.clients)).Info("client registered")

		case client := <-h.unregister:
			h.removeClient(client)
			h.count.Store(int64(len(h.clients)))
			metrics.WSConnections.Set(float64(len(h.clients)))
			h.log.WithField("total", len(h.clients)).Info("client unregistered")

		case sub := <-h.subscribe:
			h.handleSubscribe(sub)

		case b := <-h.broadcast:
			for client := range h.subs[b.key] {
				select {
				case client.send <- b.msg:
				default:
					// Slow consumer: drop the whole client, not the event.
					h.removeClient(client)
				}
			}
			h.count.Store(int64(len(h.clients)))
		}
	}
}

// handleSubscribe adds or cancels one (entity, client) subscription and
// replays missed events when a last event ID is supplied.
func (h *Hub) handleSubscribe(sub subRequest) {
	if !h.clients[sub.client] {
		return
	}

	if sub.cancel {
		h.dropSub(sub.client, sub.key)

		return
	}

	if len(sub.client.keys) >= maxSubsPerClient && !sub.client.keys[sub.key] {
		h.log.WithField("key", sub.key).Warn("subscription limit reached, ignoring subscribe")

		return
	}

	set, ok := h.subs[sub.key]
	if !ok {
		set = make(map[*Client]bool)
		h.subs[sub.key] = set
	}
	set[sub.client] = true
	sub.client.keys[sub.key] = true

	h.replayEvents(sub.client, sub.key, sub.lastEventID)
}

// removeClient unregisters a client and drops all of its subscriptions.
func (h *Hub) removeClient(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}

	for key := range client.keys {
		h.dropSub(client, key)
	}

	delete(h.clients, client)
	client.closeSend()
}

// dropSub removes one (entity, client) subscription.
func (h *Hub) dropSub(client *Client, key string) {
	delete(client.keys, key)

	if set, ok := h.subs[key]; ok {
		delete(set, client)
		if len(set) == 0 {
			delete(h.subs, key)
		}
	}
}

// broadcastToKey sends a message to all clients subscribed to an entity key.
// Payloads exceeding 4 KB are dropped with a warning log. The actual send is
// performed by the Run goroutine via a channel.
func (h *Hub) broadcastToKey(key string, msg []byte) {
	if len(msg) > maxBroadcastPayload {
		h.log.WithFields(logrus.Fields{
			"key":          key,
			"payload_size": len(msg),
			"max_size":     maxBroadcastPayload,
		}).Warn("dropping oversized broadcast payload")
		return
	}
	select {
	case h.broadcast <- entityBroadcast{key: key, msg: msg}:
	default:
		h.log.Warn("broadcast channel full, dropping message")
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	default:
		h.log.Warn("register channel full, dropping client")
		c.closeSend()
	}
}

// Unregister removes a client from the hub.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	default:
		// Run loop already exited; client cleanup happened in Run shutdown.
	}
}

// Subscribe requests delivery of events for one entity to the client,
// replaying buffered events newer than lastEventID.
func (h *Hub) Subscribe(c *Client, entityType, entityID string, lastEventID uint64) {
	select {
	case h.subscribe <- subRequest{client: c, key: EntityKey(entityType, entityID), lastEventID: lastEventID}:
	default:
		h.log.Warn("subscribe channel full, dropping subscribe request")
	}
}

// Unsubscribe cancels the client's watch on one entity.
func (h *Hub) Unsubscribe(c *Client, entityType, entityID string) {
	select {
	case h.subscribe <- subRequest{client: c, key: EntityKey(entityType, entityID), cancel: true}:
	default:
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	return int(h.count.Load())
}

// BroadcastEvent assigns a sequence ID, stores the event in the replay
// buffer, and delivers it to every client watching the entity.
func (h *Hub) BroadcastEvent(eventType, entityType, entityID string, data json.RawMessage) {
	key := EntityKey(entityType, entityID)

	evt := Event{
		Type:       eventType,
		ID:         h.seq.Next(key),
		EntityType: entityType,
		EntityID:   entityID,
		Data:       data,
		Time:       time.Now(),
	}

	msg, err := json.Marshal(evt)
	if err != nil {
		h.log.WithError(err).Error("failed to marshal event")
		return
	}

	h.buffer.Append(key, &evt)
	h.broadcastToKey(key, msg)
}

// Shutdown initiates a graceful WebSocket drain: notifies every connected
// client, waits for their write pumps to flush, then closes all
// connections. It blocks until drain is complete or the timeout expires.
func (h *Hub) Shutdown() {
	close(h.shutdown)
	<-h.done
}

// replayEvents sends buffered events since lastEventID to the client.
// If the requested ID has already aged out of the buffer, the client is told
// to re-query the feed instead of silently missing records.
func (h *Hub) replayEvents(client *Client, key string, lastEventID uint64) {
	oldest := h.buffer.OldestID(key)
	if oldest > 0 && lastEventID > 0 && lastEventID < oldest {
		entityType, entityID, _ := splitEntityKey(key)
		resetMsg, err := json.Marshal(ResetMsg{
			Type:       "reset",
			EntityType: entityType,
			EntityID:   entityID,
			Reason:     "requested events no longer available, perform full refresh",
		})
		if err != nil {
			return
		}
		select {
		case client.send <- resetMsg:
		default:
		}

		return
	}

	for _, evt := range h.buffer.Since(key, lastEventID) {
		msg, err := json.Marshal(evt)
		if err != nil {
			continue
		}
		select {
		case client.send <- msg:
		default:
			return // channel full, stop replay
		}
	}
}

// drainClients sends a close frame to every client and waits for buffers to flush.
func (h *Hub) drainClients() {
	if len(h.clients) == 0 {
		return
	}

	h.log.WithField("clients", len(h.clients)).Info("draining WebSocket clients")

	// Send shutdown notification so clients know to reconnect.
	shutdownMsg := []byte(`{"type":"shutdown","message":"server shutting down"}`)
	for client := range h.clients {
		select {
		case client.send <- shutdownMsg:
		default:
		}
	}

	// Wait for send buffers to empty or timeout.
	deadline := time.After(drainTimeout)
	ticker := time.NewTicker(50 * time.Millisecond) //nolint:mnd // poll interval
	defer ticker.Stop()

	for {
		allDrained := true

		for client := range h.clients {
			if len(client.send) > 0 {
				allDrained = false

				break
			}
		}

		if allDrained {
			break
		}

		select {
		case <-deadline:
			h.log.Warn("WebSocket drain timeout, closing remaining clients")

			goto closeAll
		case <-ticker.C:
		}
	}

closeAll:
	for client := range h.clients {
		client.closeSend()
		delete(h.clients, client)
	}

	h.subs = make(map[string]map[*Client]bool)
	h.count.Store(0)
	metrics.WSConnections.Set(0)
}
