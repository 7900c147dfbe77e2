package notification

import (
	"sync"

	"storefront/internal/domain"
)

type EffectKind string

const (
	EffectSound EffectKind = "sound"
	EffectToast EffectKind = "toast"
	EffectModal EffectKind = "modal"
)

type ModalKind string

const (
	ModalNewOrder ModalKind = "new_order"
	ModalStatus   ModalKind = "status"
)

// Effect is a user-facing reaction to an order change.
type Effect struct {
	Kind         EffectKind         `json:"kind"`
	Modal        ModalKind          `json:"modal,omitempty"`
	Title        string             `json:"title,omitempty"`
	Message      string             `json:"message,omitempty"`
	OrderID      string             `json:"orderId"`
	Status       domain.OrderStatus `json:"status,omitempty"`
	Notification *Notification      `json:"notification,omitempty"`
}

type Sink interface {
	Emit(effect Effect)
}

// Broadcaster copies every effect to all attached streams. A stream that
// cannot keep up misses effects rather than stalling the router.
type Broadcaster struct {
	mu      sync.Mutex
	streams map[chan Effect]struct{}
	buffer  int
	closed  bool
}

func NewBroadcaster(buffer int) *Broadcaster {
	if buffer < 1 {
		buffer = 1
	}
	return &Broadcaster{
		streams: make(map[chan Effect]struct{}),
		buffer:  buffer,
	}
}

func (b *Broadcaster) Emit(effect Effect) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for ch := range b.streams {
		select {
		case ch <- effect:
		default:
		}
	}
}

// Attach returns a stream of effects and the function that detaches it. The
// stream is closed on detach or when the broadcaster closes.
func (b *Broadcaster) Attach() (<-chan Effect, func()) {
	ch := make(chan Effect, b.buffer)

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		close(ch)
		return ch, func() {}
	}
	b.streams[ch] = struct{}{}

	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.streams[ch]; ok {
			delete(b.streams, ch)
			close(ch)
		}
	}
}

// Close ends every attached stream.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = true
	for ch := range b.streams {
		delete(b.streams, ch)
		close(ch)
	}
}
