package ws

import (
	"encoding/json"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// EntityKey joins an entity type and id into the subscription key used
// throughout the hub ("task:t1", "label_spec:ls9").
func EntityKey(entityType, entityID string) string {
	return entityType + ":" + entityID
}

// splitEntityKey is the inverse of EntityKey.
func splitEntityKey(key string) (entityType, entityID string, ok bool) {
	entityType, entityID, ok = strings.Cut(key, ":")
	return entityType, entityID, ok
}

// Event is the structured message sent to WebSocket clients when an
// activity record is inserted against a subscribed entity.
type Event struct {
	Type       string          `json:"type"`
	ID         uint64          `json:"id"`
	EntityType string          `json:"entity_type"`
	EntityID   string          `json:"entity_id"`
	Data       json.RawMessage `json:"data"`
	Time       time.Time       `json:"time"`
}

// SubscribeMsg is sent by the client to watch an entity's activity feed.
// LastEventID requests replay of events missed since a previous connection.
type SubscribeMsg struct {
	Type        string `json:"type"`
	EntityType  string `json:"entity_type"`
	EntityID    string `json:"entity_id"`
	LastEventID uint64 `json:"last_event_id"`
}

// ResetMsg tells the client to re-query the feed (requested events too old).
type ResetMsg struct {
	Type       string `json:"type"`
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
	Reason     string `json:"reason"`
}

// EventSequence tracks monotonic event IDs per entity key.
type EventSequence struct {
	mu       sync.Mutex
	counters map[string]*atomic.Uint64
}

// NewEventSequence creates a new EventSequence.
func NewEventSequence() *EventSequence {
	return &EventSequence{
		counters: make(map[string]*atomic.Uint64),
	}
}

// Next returns the next sequence number for an entity key.
func (es *EventSequence) Next(key string) uint64 {
	es.mu.Lock()
	counter, ok := es.counters[key]
	if !ok {
		counter = &atomic.Uint64{}
		es.counters[key] = counter
	}
	es.mu.Unlock()

	return counter.Add(1)
}
