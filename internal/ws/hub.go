// Package ws pushes family-record change events to connected dashboards.
package ws

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lineagehq/lineage/internal/metrics"
)

// Connection limits. Genealogy workspaces are small teams; 50 concurrent
// dashboards per workspace is generous.
const (
	maxClientsTotal        = 1000
	maxClientsPerWorkspace = 50

	broadcastQueueLen  = 256
	membershipQueueLen = 64

	drainTimeout = 3 * time.Second
	drainPoll    = 50 * time.Millisecond

	// Frames above this size indicate a bug upstream; person and
	// relationship change payloads are tiny.
	maxFrameBytes = 4096
)

// Hub routes change frames to the clients of each workspace. Clients of one
// workspace are grouped into a room so a broadcast never touches another
// workspace's connections. Room membership is mutated only by the Run
// goroutine.
type Hub struct {
	rooms     map[string]map[*Client]struct{}
	joins     chan *Client
	leaves    chan *Client
	frames    chan *Frame
	stopping  chan struct{}
	stopped   chan struct{}
	total     atomic.Int64
	log       *logrus.Logger
	seq       *seqCounter
	replayLog *ReplayBuffer
}

// NewHub creates an empty hub. Call Run to start routing.
func NewHub(log *logrus.Logger) *Hub {
	return &Hub{
		rooms:     make(map[string]map[*Client]struct{}),
		joins:     make(chan *Client, membershipQueueLen),
		leaves:    make(chan *Client, membershipQueueLen),
		frames:    make(chan *Frame, broadcastQueueLen),
		stopping:  make(chan struct{}),
		stopped:   make(chan struct{}),
		log:       log,
		seq:       newSeqCounter(),
		replayLog: NewReplayBuffer(replayCapacity, replayTTL),
	}
}

// Run routes membership changes and frames until ctx is cancelled or
// Shutdown is called. It must run in its own goroutine.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.stopped)
	defer h.replayLog.Stop()

	for {
		select {
		case <-ctx.Done():
			h.drain()

			return
		case <-h.stopping:
			h.drain()

			return
		case c := <-h.joins:
			h.admit(c)
		case c := <-h.leaves:
			h.evict(c)
		case f := <-h.frames:
			h.deliver(f)
		}
	}
}

// admit adds a client to its workspace room, enforcing connection caps.
func (h *Hub) admit(c *Client) {
	if h.total.Load() >= maxClientsTotal {
		h.log.Warn("connection limit reached, rejecting dashboard client")
		c.closeSend()

		return
	}

	room := h.rooms[c.WorkspaceID]
	if len(room) >= maxClientsPerWorkspace {
		h.log.WithField("workspace_id", c.WorkspaceID).
			Warn("workspace connection limit reached, rejecting dashboard client")
		c.closeSend()

		return
	}

	if room == nil {
		room = make(map[*Client]struct{})
		h.rooms[c.WorkspaceID] = room
	}
	room[c] = struct{}{}
	h.total.Add(1)
	metrics.WSConnections.Set(float64(h.total.Load()))
	h.log.WithFields(logrus.Fields{
		"workspace_id": c.WorkspaceID,
		"total":        h.total.Load(),
	}).Info("dashboard client connected")
}

// evict removes a client from its room, deleting emptied rooms.
func (h *Hub) evict(c *Client) {
	room, ok := h.rooms[c.WorkspaceID]
	if _, member := room[c]; !ok || !member {
		return
	}

	delete(room, c)
	c.closeSend()
	if len(room) == 0 {
		delete(h.rooms, c.WorkspaceID)
	}
	h.total.Add(-1)
	metrics.WSConnections.Set(float64(h.total.Load()))
	h.log.WithField("total", h.total.Load()).Info("dashboard client disconnected")
}

// deliver fans a frame out to its workspace room. Clients whose send queue
// is full are dropped; a stalled dashboard must not block the others.
func (h *Hub) deliver(f *Frame) {
	msg, err := json.Marshal(f)
	if err != nil {
		h.log.WithError(err).Error("marshal frame")

		return
	}

	for c := range h.rooms[f.workspaceID] {
		select {
		case c.send <- msg:
		default:
			h.evict(c)
		}
	}
}

// BroadcastEvent stamps a sequence number on a change event, records it for
// replay, and queues it for delivery to the workspace's dashboards.
func (h *Hub) BroadcastEvent(kind, workspaceID string, data json.RawMessage) {
	if len(data) > maxFrameBytes {
		h.log.WithFields(logrus.Fields{
			"kind":         kind,
			"workspace_id": workspaceID,
			"bytes":        len(data),
		}).Warn("dropping oversized event payload")

		return
	}

	f := &Frame{
		Kind:        kind,
		Seq:         h.seq.bump(workspaceID),
		Data:        data,
		EmittedAt:   time.Now(),
		workspaceID: workspaceID,
	}
	h.replayLog.Record(workspaceID, f)

	select {
	case h.frames <- f:
	default:
		h.log.WithField("kind", kind).Warn("frame queue full, dropping event")
	}
}

// Register queues a client for admission to its workspace room.
func (h *Hub) Register(c *Client) {
	select {
	case h.joins <- c:
	default:
		h.log.Warn("join queue full, rejecting dashboard client")
		c.closeSend()
	}
}

// Unregister queues a client's removal.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.leaves <- c:
	default:
		// Run loop has already exited; drain cleaned the rooms.
	}
}

// ClientCount returns the number of connected dashboard clients.
func (h *Hub) ClientCount() int {
	return int(h.total.Load())
}

// ReplayFrames pushes the frames a reconnecting client missed. It returns
// false when the requested sequence has aged out of the replay log, in which
// case the caller should tell the client to resync.
func (h *Hub) ReplayFrames(c *Client, lastSeq uint64) bool {
	oldest := h.replayLog.OldestSeq(c.WorkspaceID)
	if oldest > 0 && lastSeq > 0 && lastSeq < oldest-1 {
		return false
	}

	for _, f := range h.replayLog.SinceSeq(c.WorkspaceID, lastSeq) {
		msg, err := json.Marshal(f)
		if err != nil {
			continue
		}
		select {
		case c.send <- msg:
		default:
			return true // queue full; live traffic takes over
		}
	}

	return true
}

// Shutdown stops the Run loop and waits for client queues to flush.
func (h *Hub) Shutdown() {
	close(h.stopping)
	<-h.stopped
}

// drain notifies every client the server is going away, waits briefly for
// send queues to empty, then tears the rooms down.
func (h *Hub) drain() {
	if h.total.Load() == 0 {
		return
	}

	h.log.WithField("clients", h.total.Load()).Info("draining dashboard clients")

	goodbye := []byte(`{"kind":"shutdown","reason":"server shutting down"}`)
	for _, room := range h.rooms {
		for c := range room {
			select {
			case c.send <- goodbye:
			default:
			}
		}
	}

	deadline := time.After(drainTimeout)
	ticker := time.NewTicker(drainPoll)
	defer ticker.Stop()

poll:
	for {
		if h.allFlushed() {
			break
		}

		select {
		case <-deadline:
			h.log.Warn("drain timeout, closing remaining dashboard clients")

			break poll
		case <-ticker.C:
		}
	}

	for ws, room := range h.rooms {
		for c := range room {
			c.closeSend()
		}
		delete(h.rooms, ws)
	}
	h.total.Store(0)
	metrics.WSConnections.Set(0)
}

// allFlushed reports whether every client's send queue is empty.
func (h *Hub) allFlushed() bool {
	for _, room := range h.rooms {
		for c := range room {
			if len(c.send) > 0 {
				return false
			}
		}
	}

	return true
}
