package notification

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

// Notification is the unread-bell projection of an order.
type Notification struct {
	OrderID      string             `json:"orderId"`
	Code         string             `json:"code,omitempty"`
	CustomerName string             `json:"customerName"`
	TotalAmount  decimal.Decimal    `json:"totalAmount"`
	Status       domain.OrderStatus `json:"status"`
	CreatedAt    time.Time          `json:"createdAt"`
}

func FromOrder(o domain.Order) Notification {
	return Notification{
		OrderID:      o.ID,
		Code:         o.Code,
		CustomerName: o.CustomerName,
		TotalAmount:  o.TotalAmount,
		Status:       o.Status,
		CreatedAt:    o.CreatedAt,
	}
}

// Patch carries the fields of an update. Nil fields are left unchanged.
type Patch struct {
	OrderID      string
	Code         *string
	CustomerName *string
	TotalAmount  *decimal.Decimal
	Status       *domain.OrderStatus
	CreatedAt    *time.Time
}

func PatchFromOrder(o domain.Order) Patch {
	return Patch{
		OrderID:      o.ID,
		Code:         &o.Code,
		CustomerName: &o.CustomerName,
		TotalAmount:  &o.TotalAmount,
		Status:       &o.Status,
		CreatedAt:    &o.CreatedAt,
	}
}

func (p Patch) apply(n *Notification) {
	if p.Code != nil && *p.Code != "" {
		n.Code = *p.Code
	}
	if p.CustomerName != nil && *p.CustomerName != "" {
		n.CustomerName = *p.CustomerName
	}
	if p.TotalAmount != nil {
		n.TotalAmount = *p.TotalAmount
	}
	if p.Status != nil && *p.Status != "" {
		n.Status = *p.Status
	}
	if p.CreatedAt != nil && !p.CreatedAt.IsZero() {
		n.CreatedAt = *p.CreatedAt
	}
}

type Listener func(snapshot []Notification)

// Store holds unread notifications newest first, at most one per order.
// Listeners see snapshots in mutation order and never run under mu.
type Store struct {
	notifyMu sync.Mutex

	mu        sync.Mutex
	entries   []Notification
	listeners map[int]Listener
	nextID    int
}

func NewStore() *Store {
	return &Store{listeners: make(map[int]Listener)}
}

// Add inserts n at the front. An existing entry for the same order is merged
// in place instead.
func (s *Store) Add(n Notification) {
	s.mutate(func() {
		if i := s.indexOf(n.OrderID); i >= 0 {
			s.entries[i] = n
			return
		}
		s.entries = append([]Notification{n}, s.entries...)
	})
}

// Update merges p into the entry for its order, adding one when absent.
func (s *Store) Update(p Patch) {
	s.mutate(func() {
		if i := s.indexOf(p.OrderID); i >= 0 {
			p.apply(&s.entries[i])
			return
		}
		n := Notification{OrderID: p.OrderID}
		p.apply(&n)
		s.entries = append([]Notification{n}, s.entries...)
	})
}

func (s *Store) Remove(orderID string) {
	s.mutate(func() {
		if i := s.indexOf(orderID); i >= 0 {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
		}
	})
}

func (s *Store) ClearAll() {
	s.mutate(func() {
		s.entries = nil
	})
}

func (s *Store) HasUnread() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries) > 0
}

func (s *Store) Snapshot() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe calls listener with the current snapshot right away and again
// after every mutation until the returned function is called.
func (s *Store) Subscribe(listener Listener) func() {
	s.notifyMu.Lock()
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = listener
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	listener(snapshot)
	s.notifyMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

// mutate applies fn under mu and notifies listeners outside it. notifyMu
// spans both so deliveries keep the order of the mutations.
func (s *Store) mutate(fn func()) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	fn()
	snapshot := s.snapshotLocked()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(snapshot)
	}
}

func (s *Store) indexOf(orderID string) int {
	for i, n := range s.entries {
		if n.OrderID == orderID {
			return i
		}
	}
	return -1
}

func (s *Store) snapshotLocked() []Notification {
	out := make([]Notification, len(s.entries))
	copy(out, s.entries)
	return out
}
