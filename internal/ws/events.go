package ws

import (
	"encoding/json"
	"sync"
	"time"
)

// Event kinds pushed to connected dashboards. Person and relationship
// mutations invalidate any cached family tree view, so clients refetch on
// receipt.
const (
	KindPersonCreated       = "person.created"
	KindPersonUpdated       = "person.updated"
	KindPersonDeleted       = "person.deleted"
	KindRelationshipCreated = "relationship.created"
	KindRelationshipDeleted = "relationship.deleted"
	KindRecordsImported     = "records.imported"
)

// PersonChange is the payload carried by person.* events.
type PersonChange struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// RelationshipChange is the payload carried by relationship.* events.
type RelationshipChange struct {
	PersonA string `json:"person_a"`
	PersonB string `json:"person_b"`
	Type    string `json:"type"`
}

// Frame is the wire format delivered to clients. Seq is monotonic per
// workspace and lets a reconnecting client request replay.
type Frame struct {
	Kind        string          `json:"kind"`
	Seq         uint64          `json:"seq"`
	Data        json.RawMessage `json:"data"`
	EmittedAt   time.Time       `json:"emitted_at"`
	workspaceID string
}

// subscribeRequest is the first message a client may send to request replay
// of frames it missed while disconnected.
type subscribeRequest struct {
	Type    string `json:"type"`
	LastSeq uint64 `json:"last_seq"`
}

// resyncFrame tells the client its requested frames have aged out of the
// replay log and it must refetch the full family graph.
type resyncFrame struct {
	Kind   string `json:"kind"`
	Reason string `json:"reason"`
}

func newResyncFrame() []byte {
	msg, _ := json.Marshal(resyncFrame{
		Kind:   "resync",
		Reason: "missed frames no longer buffered, refetch the graph",
	})
	return msg
}

// seqCounter hands out monotonic frame sequence numbers per workspace.
type seqCounter struct {
	mu   sync.Mutex
	next map[string]uint64
}

func newSeqCounter() *seqCounter {
	return &seqCounter{next: make(map[string]uint64)}
}

func (s *seqCounter) bump(workspaceID string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.next[workspaceID]++

	return s.next[workspaceID]
}
