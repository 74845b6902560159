package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"net"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"

	"github.com/lineagehq/lineage/internal/dbpool"
)

// Channels fired by the triggers in the notify migration. Keeping people and
// relationships on separate channels lets the bridge map each notification
// to a typed dashboard event without sniffing the payload.
const (
	peopleChannel        = "lineage_people"
	relationshipsChannel = "lineage_relationships"
)

const (
	initialBackoff = 1 * time.Second
	maxBackoff     = 30 * time.Second

	// WaitForNotification blocks; a read deadline forces a periodic wake-up
	// so context cancellation is noticed.
	notifyReadDeadline = 2 * time.Minute
)

// Broadcaster receives change events destined for a workspace's dashboards.
type Broadcaster interface {
	BroadcastEvent(kind, workspaceID string, data json.RawMessage)
}

// personNotice is the payload the people trigger emits.
type personNotice struct {
	WorkspaceID string `json:"workspace_id"`
	Op          string `json:"op"`
	ID          string `json:"id"`
	Name        string `json:"name"`
}

// relationshipNotice is the payload the relationships trigger emits.
type relationshipNotice struct {
	WorkspaceID string `json:"workspace_id"`
	Op          string `json:"op"`
	PersonA     string `json:"person_a"`
	PersonB     string `json:"person_b"`
	RelType     string `json:"rel_type"`
}

// NotifyBridge forwards row-change notifications from PostgreSQL to the
// WebSocket hub, so every write path (API, bulk import, manual SQL) feeds
// the dashboards without the services knowing about the hub.
type NotifyBridge struct {
	log  *logrus.Logger
	pool *dbpool.Pool
	hub  Broadcaster
}

// NewNotifyBridge creates a bridge wired to the given pool and hub.
func NewNotifyBridge(log *logrus.Logger, pool *dbpool.Pool, hub Broadcaster) *NotifyBridge {
	return &NotifyBridge{log: log, pool: pool, hub: hub}
}

// Start verifies database reachability and launches the listen loop in the
// background. Reconnection after the initial success is handled internally.
func (b *NotifyBridge) Start(ctx context.Context) error {
	if err := b.pool.Ping(ctx); err != nil {
		return fmt.Errorf("notify bridge: database not reachable: %w", err)
	}

	go b.run(ctx)

	return nil
}

// run re-establishes the LISTEN subscription with exponential backoff until
// the context is cancelled.
func (b *NotifyBridge) run(ctx context.Context) {
	backoff := initialBackoff

	for ctx.Err() == nil {
		err := b.listen(ctx)
		if err == nil || ctx.Err() != nil {
			return
		}

		b.log.WithError(err).WithField("retry_in", backoff).
			Warn("notify bridge lost its connection, reconnecting")

		select {
		case <-ctx.Done():
			return
		case <-time.After(jittered(backoff)):
		}

		if backoff *= 2; backoff > maxBackoff {
			backoff = maxBackoff
		}
	}
}

// listen holds one connection subscribed to both channels and forwards
// notifications until the connection fails.
func (b *NotifyBridge) listen(ctx context.Context) error {
	conn, err := b.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquiring connection: %w", err)
	}
	defer conn.Release()

	for _, ch := range []string{peopleChannel, relationshipsChannel} {
		// Channel names cannot be bound as parameters; pgx.Identifier
		// quotes them safely.
		if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{ch}.Sanitize()); err != nil {
			return fmt.Errorf("LISTEN %s: %w", ch, err)
		}
	}

	b.log.WithFields(logrus.Fields{
		"channels": []string{peopleChannel, relationshipsChannel},
	}).Info("notify bridge subscribed")

	for {
		if err := conn.Conn().PgConn().Conn().SetReadDeadline(time.Now().Add(notifyReadDeadline)); err != nil {
			return fmt.Errorf("setting read deadline: %w", err)
		}

		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				continue
			}

			return fmt.Errorf("waiting for notification: %w", err)
		}

		b.forward(n)
	}
}

// forward decodes one notification and pushes the matching dashboard event.
func (b *NotifyBridge) forward(n *pgconn.Notification) {
	switch n.Channel {
	case peopleChannel:
		var p personNotice
		if json.Unmarshal([]byte(n.Payload), &p) != nil || p.WorkspaceID == "" {
			b.log.WithField("channel", n.Channel).Warn("dropping malformed person notification")

			return
		}

		data, _ := json.Marshal(map[string]string{"id": p.ID, "name": p.Name})
		b.hub.BroadcastEvent("person."+opKind(p.Op), p.WorkspaceID, data)

	case relationshipsChannel:
		var r relationshipNotice
		if json.Unmarshal([]byte(n.Payload), &r) != nil || r.WorkspaceID == "" {
			b.log.WithField("channel", n.Channel).Warn("dropping malformed relationship notification")

			return
		}

		data, _ := json.Marshal(map[string]string{
			"person_a": r.PersonA,
			"person_b": r.PersonB,
			"type":     r.RelType,
		})
		b.hub.BroadcastEvent("relationship."+opKind(r.Op), r.WorkspaceID, data)

	default:
		b.log.WithField("channel", n.Channel).Debug("ignoring notification on unknown channel")
	}
}

// opKind maps a trigger operation to the event kind suffix.
func opKind(op string) string {
	switch op {
	case "INSERT":
		return "created"
	case "UPDATE":
		return "updated"
	case "DELETE":
		return "deleted"
	default:
		return "changed"
	}
}

// jittered spreads reconnect attempts by ±25% to avoid synchronized retries.
func jittered(d time.Duration) time.Duration {
	f := float64(d) * (0.75 + rand.Float64()*0.5) //nolint:gosec // jitter needs no crypto rand

	return time.Duration(f)
}
