package auth

import (
	"context"
	"sync"

	"github.com/angelmondragon/deliverydash-backend/pkg/types"
)

// Listener receives session changes. It runs on the caller's goroutine.
type Listener func(ctx context.Context, event types.SessionEvent)

// notifier fans session events out to registered listeners in registration order.
type notifier struct {
	mu        sync.RWMutex
	nextID    int
	order     []int
	listeners map[int]Listener
}

func newNotifier() *notifier {
	return &notifier{listeners: map[int]Listener{}}
}

func (n *notifier) subscribe(l Listener) func() {
	n.mu.Lock()
	defer n.mu.Unlock()
	id := n.nextID
	n.nextID++
	n.listeners[id] = l
	n.order = append(n.order, id)

	var once sync.Once
	return func() {
		once.Do(func() {
			n.mu.Lock()
			defer n.mu.Unlock()
			delete(n.listeners, id)
			for i, candidate := range n.order {
				if candidate == id {
					n.order = append(n.order[:i], n.order[i+1:]...)
					break
				}
			}
		})
	}
}

func (n *notifier) publish(ctx context.Context, event types.SessionEvent) {
	n.mu.RLock()
	snapshot := make([]Listener, 0, len(n.order))
	for _, id := range n.order {
		snapshot = append(snapshot, n.listeners[id])
	}
	n.mu.RUnlock()

	for _, l := range snapshot {
		l(ctx, event)
	}
}
