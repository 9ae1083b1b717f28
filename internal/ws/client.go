package ws

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"
)

const (
	writeTimeout         = 10 * time.Second
	wsReadLimit          = 4096
	clientSendBuffer     = 256
	maxConnLifetime      = 4 * time.Hour    // safety-net lifetime (key refresh handles auth)
	tokenRefreshInterval = 15 * time.Minute // periodic re-validation of API key
	tokenRefreshTimeout  = 10 * time.Second
	pingInterval         = 30 * time.Second
	pingTimeout          = 10 * time.Second
	maxMissedPongs       = int32(2)
)

// KeyValidator re-checks that an API key still maps to a valid user.
type KeyValidator interface {
	GetUserByAPIKey(ctx context.Context, apiKey string) (string, error)
}

// Client wraps a single WebSocket connection managed by the Hub.
// The keys map holds the client's active entity subscriptions and is
// mutated only by the hub's Run goroutine.
type Client struct {
	hub         *Hub
	conn        *websocket.Conn
	send        chan []byte
	log         *logrus.Logger
	keys        map[string]bool
	UserID      string
	apiKey      string
	validator   KeyValidator
	closeOnce   sync.Once
	connectedAt time.Time
}

// closeSend safely closes the send channel exactly once.
func (c *Client) closeSend() {
	c.closeOnce.Do(func() { close(c.send) })
}

// NewClient creates a new Client for the given WebSocket connection.
func NewClient(hub *Hub, conn *websocket.Conn, validator KeyValidator, apiKey string) *Client {
	return &Client{
		hub:         hub,
		conn:        conn,
		send:        make(chan []byte, clientSendBuffer),
		log:         hub.log,
		keys:        make(map[string]bool),
		apiKey:      apiKey,
		validator:   validator,
		connectedAt: time.Now(),
	}
}

// ReadPump reads messages from the WebSocket connection until it closes.
// Clients send subscribe/unsubscribe messages to choose which entities'
// activity they receive.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.CloseNow() //nolint:errcheck // best-effort close on teardown
	}()

	c.conn.SetReadLimit(wsReadLimit)

	for {
		_, msgBytes, err := c.conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) != -1 {
				c.log.WithField("status", websocket.CloseStatus(err)).Debug("client disconnected")
			}

			return
		}

		c.handleMessage(msgBytes)
	}
}

// handleMessage processes an incoming client message.
func (c *Client) handleMessage(msgBytes []byte) {
	var msg SubscribeMsg
	if err := json.Unmarshal(msgBytes, &msg); err != nil {
		return
	}

	if msg.EntityType == "" || msg.EntityID == "" {
		return
	}

	switch msg.Type {
	case "subscribe":
		c.hub.Subscribe(c, msg.EntityType, msg.EntityID, msg.LastEventID)
	case "unsubscribe":
		c.hub.Unsubscribe(c, msg.EntityType, msg.EntityID)
	}
}

// sendPing sends a WebSocket ping and tracks missed pongs.
// Returns true if the connection should be closed.
func (c *Client) sendPing(ctx context.Context, missedPongs *atomic.Int32) bool {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	err := c.conn.Ping(pingCtx)
	cancel()

	if err != nil {
		if missedPongs.Add(1) >= maxMissedPongs {
			c.log.Debug("closing: 2 consecutive missed pongs")

			return true
		}

		return false
	}

	missedPongs.Store(0)

	return false
}

// WritePump writes messages from the send channel to the WebSocket connection.
// It enforces a maximum connection lifetime and periodically re-validates the API key.
func (c *Client) WritePump(ctx context.Context) {
	defer c.conn.CloseNow() //nolint:errcheck // best-effort close on teardown

	lifetimeTimer := time.NewTimer(time.Until(c.connectedAt.Add(maxConnLifetime)))
	defer lifetimeTimer.Stop()

	refreshTicker := time.NewTicker(tokenRefreshInterval)
	defer refreshTicker.Stop()

	pingTicker := time.NewTicker(pingInterval)
	defer pingTicker.Stop()

	var missedPongs atomic.Int32

	for {
		select {
		case <-pingTicker.C:
			if c.sendPing(ctx, &missedPongs) {
				return
			}
		case msg, ok := <-c.send:
			if !ok {
				return
			}

			writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)

			err := c.conn.Write(writeCtx, websocket.MessageText, msg)

			cancel()

			if err != nil {
				c.log.WithError(err).Debug("write failed")

				return
			}
		case <-refreshTicker.C:
			if !c.refreshKey(ctx) {
				return
			}
		case <-lifetimeTimer.C:
			c.log.Info("closing WebSocket: max connection lifetime exceeded")
			c.conn.Close(websocket.StatusNormalClosure, "max connection lifetime exceeded") //nolint:errcheck // best-effort

			return
		}
	}
}

// refreshKey re-validates the API key. Returns true if still valid, false if
// the connection should close.
func (c *Client) refreshKey(ctx context.Context) bool {
	if c.validator == nil {
		return true
	}

	refreshCtx, cancel := context.WithTimeout(ctx, tokenRefreshTimeout)
	_, err := c.validator.GetUserByAPIKey(refreshCtx, c.apiKey)
	cancel()

	if err != nil {
		c.log.Info("closing WebSocket: api key refresh failed")
		c.conn.Close(websocket.StatusPolicyViolation, "authentication expired") //nolint:errcheck // best-effort

		return false
	}

	return true
}
