package services

import (
	"log"
	"sync"

	"club-management-system/models"
)

// CompletionListener receives completed mission progress rows. Implementations
// must tolerate being called from the bus dispatch goroutine.
type CompletionListener interface {
	OnMissionCompleted(progress models.MissionProgress) error
}

// CompletionEventBus decouples "a mission was just completed" from its
// consumers (ledger crediting hooks, notification dispatch, cache
// invalidation). Events are queued and dispatched on a dedicated goroutine so
// a slow or failing listener never stalls the progress mutation path.
type CompletionEventBus struct {
	mu        sync.RWMutex
	listeners []CompletionListener

	events chan models.MissionProgress
	done   chan struct{}
}

// NewCompletionEventBus starts the dispatch goroutine. buffer bounds the
// number of queued completions; overflow events are dropped with a log line
// rather than blocking the publisher.
func NewCompletionEventBus(buffer int) *CompletionEventBus {
	if buffer <= 0 {
		buffer = 64
	}
	b := &CompletionEventBus{
		events: make(chan models.MissionProgress, buffer),
		done:   make(chan struct{}),
	}
	go b.dispatch()
	return b
}

func (b *CompletionEventBus) Subscribe(listener CompletionListener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners = append(b.listeners, listener)
}

func (b *CompletionEventBus) Unsubscribe(listener CompletionListener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, l := range b.listeners {
		if l == listener {
			b.listeners = append(b.listeners[:i], b.listeners[i+1:]...)
			return
		}
	}
}

// Publish queues a completed progress row for delivery. Never blocks and
// never returns an error to the caller.
func (b *CompletionEventBus) Publish(progress models.MissionProgress) {
	select {
	case b.events <- progress:
	default:
		log.Printf("⚠️ [COMPLETION_BUS] queue full, dropping completion event (club=%s competition=%s)",
			progress.ClubID, progress.CompetitionID)
	}
}

// Close stops the dispatcher after draining queued events.
func (b *CompletionEventBus) Close() {
	close(b.events)
	<-b.done
}

func (b *CompletionEventBus) dispatch() {
	defer close(b.done)
	for progress := range b.events {
		b.mu.RLock()
		listeners := make([]CompletionListener, len(b.listeners))
		copy(listeners, b.listeners)
		b.mu.RUnlock()

		for _, l := range listeners {
			b.deliver(l, progress)
		}
	}
}

// deliver isolates one listener call; an error or panic is logged and must
// not prevent the remaining listeners from running.
func (b *CompletionEventBus) deliver(l CompletionListener, progress models.MissionProgress) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("❌ [COMPLETION_BUS] listener panicked: %v", r)
		}
	}()
	if err := l.OnMissionCompleted(progress); err != nil {
		log.Printf("⚠️ [COMPLETION_BUS] listener failed (club=%s competition=%s): %v",
			progress.ClubID, progress.CompetitionID, err)
	}
}
