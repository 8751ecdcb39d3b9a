package network

import (
	"sync"
	"sync/atomic"

	"github.com/krakowski/BombermanVR/internal/domain"
	"github.com/krakowski/BombermanVR/pkg/api"
	"github.com/krakowski/BombermanVR/pkg/logger"
)

// subscriberBuffer is the per-client queue length. A client that falls this
// far behind starts losing messages instead of stalling the instance loop.
const subscriberBuffer = 256

// Broadcaster fans server messages out to connected players.
type Broadcaster struct {
	mu          sync.RWMutex
	subscribers map[domain.EntityID]chan api.ServerResponse
	dropped     atomic.Uint64
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[domain.EntityID]chan api.ServerResponse),
	}
}

// Register creates the personal channel of a player. A previous channel for
// the same player is closed, which ends the old connection's writer.
func (b *Broadcaster) Register(entityID domain.EntityID) chan api.ServerResponse {
	b.mu.Lock()
	defer b.mu.Unlock()

	if old, ok := b.subscribers[entityID]; ok {
		close(old)
	}

	ch := make(chan api.ServerResponse, subscriberBuffer)
	b.subscribers[entityID] = ch
	return ch
}

// Unregister closes and forgets the channel of a player and reports whether
// it did. Passing a stale channel (from a replaced connection) is a no-op
// that returns false.
func (b *Broadcaster) Unregister(entityID domain.EntityID, ch chan api.ServerResponse) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	cur, ok := b.subscribers[entityID]
	if !ok || (ch != nil && cur != ch) {
		return false
	}
	close(cur)
	delete(b.subscribers, entityID)
	return true
}

// SendTo delivers msg to one player without blocking.
func (b *Broadcaster) SendTo(entityID domain.EntityID, msg api.ServerResponse) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if ch, ok := b.subscribers[entityID]; ok {
		b.offer(entityID, ch, msg)
	}
}

// Broadcast delivers msg to every player without blocking.
func (b *Broadcaster) Broadcast(msg api.ServerResponse) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for id, ch := range b.subscribers {
		b.offer(id, ch, msg)
	}
}

func (b *Broadcaster) offer(id domain.EntityID, ch chan api.ServerResponse, msg api.ServerResponse) {
	select {
	case ch <- msg:
	default:
		b.dropped.Add(1)
		logger.Log.WithField("entity_id", id).Warn("Subscriber channel full, message dropped")
	}
}

// HasSubscriber reports whether a player is connected.
func (b *Broadcaster) HasSubscriber(entityID domain.EntityID) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.subscribers[entityID]
	return ok
}

// Dropped counts messages lost to full subscriber channels.
func (b *Broadcaster) Dropped() uint64 {
	return b.dropped.Load()
}

func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
