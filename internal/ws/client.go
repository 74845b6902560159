package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"
)

const (
	sendQueueLen = 256
	readLimit    = 4096
	writeTimeout = 10 * time.Second

	// A dashboard connection lives at most four hours; within that window
	// the API key is re-checked periodically so a revoked workspace key
	// cuts the stream off promptly.
	maxSessionAge    = 4 * time.Hour
	recheckInterval  = 15 * time.Minute
	recheckTimeout   = 10 * time.Second
	keepaliveEvery   = 30 * time.Second
	keepaliveTimeout = 10 * time.Second
	keepaliveStrikes = 2
)

// WorkspaceValidator re-checks that an API key still maps to a workspace.
type WorkspaceValidator interface {
	GetWorkspaceByAPIKey(ctx context.Context, apiKey string) (string, error)
}

// Client is one dashboard connection, owned by the hub's room for its
// workspace.
type Client struct {
	WorkspaceID string

	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	log       *logrus.Logger
	apiKey    string
	validator WorkspaceValidator
	openedAt  time.Time
	closeOnce sync.Once
}

// NewClient wraps an accepted WebSocket connection.
func NewClient(hub *Hub, conn *websocket.Conn, validator WorkspaceValidator, apiKey string) *Client {
	return &Client{
		hub:       hub,
		conn:      conn,
		send:      make(chan []byte, sendQueueLen),
		log:       hub.log,
		apiKey:    apiKey,
		validator: validator,
		openedAt:  time.Now(),
	}
}

// closeSend closes the send queue exactly once.
func (c *Client) closeSend() {
	c.closeOnce.Do(func() { close(c.send) })
}

// ReadPump consumes inbound messages until the connection drops. The only
// meaningful inbound message is a subscribe request asking for frame replay.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.CloseNow() //nolint:errcheck // teardown
	}()

	c.conn.SetReadLimit(readLimit)

	for {
		_, raw, err := c.conn.Read(ctx)
		if err != nil {
			if status := websocket.CloseStatus(err); status != -1 {
				c.log.WithField("status", status).Debug("dashboard client closed connection")
			}

			return
		}

		var req subscribeRequest
		if json.Unmarshal(raw, &req) != nil || req.Type != "subscribe" {
			continue
		}

		if !c.hub.ReplayFrames(c, req.LastSeq) {
			select {
			case c.send <- newResyncFrame():
			default:
			}
		}
	}
}

// WritePump pushes queued frames to the connection, keeps the connection
// alive with pings, enforces the session age limit, and periodically
// re-validates the API key.
func (c *Client) WritePump(ctx context.Context) {
	defer c.conn.CloseNow() //nolint:errcheck // teardown

	sessionEnd := time.NewTimer(time.Until(c.openedAt.Add(maxSessionAge)))
	defer sessionEnd.Stop()

	recheck := time.NewTicker(recheckInterval)
	defer recheck.Stop()

	keepalive := time.NewTicker(keepaliveEvery)
	defer keepalive.Stop()

	strikes := 0

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.write(ctx, msg); err != nil {
				c.log.WithError(err).Debug("dashboard write failed")

				return
			}

		case <-keepalive.C:
			if c.ping(ctx) {
				strikes = 0

				continue
			}
			strikes++
			if strikes >= keepaliveStrikes {
				c.log.Debug("closing dashboard connection: missed keepalives")

				return
			}

		case <-recheck.C:
			if !c.stillAuthorized(ctx) {
				c.conn.Close(websocket.StatusPolicyViolation, "authentication expired") //nolint:errcheck // best-effort
				c.log.Info("closing dashboard connection: api key no longer valid")

				return
			}

		case <-sessionEnd.C:
			c.conn.Close(websocket.StatusNormalClosure, "session age limit reached") //nolint:errcheck // best-effort
			c.log.Info("closing dashboard connection: session age limit")

			return
		}
	}
}

func (c *Client) write(ctx context.Context, msg []byte) error {
	wctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	return c.conn.Write(wctx, websocket.MessageText, msg)
}

func (c *Client) ping(ctx context.Context) bool {
	pctx, cancel := context.WithTimeout(ctx, keepaliveTimeout)
	defer cancel()

	return c.conn.Ping(pctx) == nil
}

func (c *Client) stillAuthorized(ctx context.Context) bool {
	if c.validator == nil {
		return true
	}

	vctx, cancel := context.WithTimeout(ctx, recheckTimeout)
	defer cancel()

	_, err := c.validator.GetWorkspaceByAPIKey(vctx, c.apiKey)

	return err == nil
}
