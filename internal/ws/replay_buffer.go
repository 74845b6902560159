package ws

import (
	"sync"
	"time"
)

const (
	replayCapacity = 1000
	replayTTL      = 1 * time.Hour

	replaySweepPeriod = 10 * time.Minute
)

// frameLog is a fixed-capacity ring of frames for one workspace.
type frameLog struct {
	ring []Frame
	head int // index of the oldest frame
	n    int // number of stored frames
}

func (l *frameLog) push(f Frame) {
	if l.n < len(l.ring) {
		l.ring[(l.head+l.n)%len(l.ring)] = f
		l.n++

		return
	}

	// Full: overwrite the oldest slot.
	l.ring[l.head] = f
	l.head = (l.head + 1) % len(l.ring)
}

func (l *frameLog) at(i int) Frame {
	return l.ring[(l.head+i)%len(l.ring)]
}

func (l *frameLog) newest() Frame {
	return l.at(l.n - 1)
}

// ReplayBuffer keeps the most recent frames per workspace so reconnecting
// dashboards can catch up without a full graph refetch.
type ReplayBuffer struct {
	mu   sync.RWMutex
	logs map[string]*frameLog
	cap  int
	ttl  time.Duration
	stop chan struct{}
}

// NewReplayBuffer creates a buffer holding up to capacity frames per
// workspace for at most ttl, and starts a sweeper that drops idle
// workspaces' logs.
func NewReplayBuffer(capacity int, ttl time.Duration) *ReplayBuffer {
	b := &ReplayBuffer{
		logs: make(map[string]*frameLog),
		cap:  capacity,
		ttl:  ttl,
		stop: make(chan struct{}),
	}
	go b.sweeper()

	return b
}

// Stop halts the background sweeper.
func (b *ReplayBuffer) Stop() {
	close(b.stop)
}

func (b *ReplayBuffer) sweeper() {
	ticker := time.NewTicker(replaySweepPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-b.stop:
			return
		case <-ticker.C:
			b.dropIdle()
		}
	}
}

// dropIdle removes workspaces whose newest frame is older than the TTL.
func (b *ReplayBuffer) dropIdle() {
	cutoff := time.Now().Add(-b.ttl)

	b.mu.Lock()
	defer b.mu.Unlock()

	for ws, l := range b.logs {
		if l.n == 0 || l.newest().EmittedAt.Before(cutoff) {
			delete(b.logs, ws)
		}
	}
}

// Record stores a frame for later replay.
func (b *ReplayBuffer) Record(workspaceID string, f *Frame) {
	b.mu.Lock()
	defer b.mu.Unlock()

	l, ok := b.logs[workspaceID]
	if !ok {
		l = &frameLog{ring: make([]Frame, b.cap)}
		b.logs[workspaceID] = l
	}
	l.push(*f)
}

// SinceSeq returns copies of all live frames with Seq > lastSeq, oldest
// first. Frames older than the TTL are excluded.
func (b *ReplayBuffer) SinceSeq(workspaceID string, lastSeq uint64) []Frame {
	cutoff := time.Now().Add(-b.ttl)

	b.mu.RLock()
	defer b.mu.RUnlock()

	l := b.logs[workspaceID]
	if l == nil || l.n == 0 {
		return nil
	}

	var out []Frame
	for i := 0; i < l.n; i++ {
		f := l.at(i)
		if f.Seq <= lastSeq || f.EmittedAt.Before(cutoff) {
			continue
		}
		out = append(out, f)
	}

	return out
}

// OldestSeq returns the oldest buffered sequence number for a workspace,
// or 0 when nothing is buffered.
func (b *ReplayBuffer) OldestSeq(workspaceID string) uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()

	l := b.logs[workspaceID]
	if l == nil || l.n == 0 {
		return 0
	}

	return l.at(0).Seq
}
