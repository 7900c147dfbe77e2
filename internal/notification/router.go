package notification

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"storefront/internal/changefeed"
	apperrors "storefront/internal/errors"
)

type Subscriber interface {
	Subscribe(ctx context.Context, filter changefeed.Filter) (*changefeed.Subscription, error)
}

// Router listens on one channel at a time and turns order changes into store
// mutations and effects. Changes are handled one by one on a single goroutine.
type Router struct {
	feed     Subscriber
	store    *Store
	sink     Sink
	messages *Messages
	logger   *zap.Logger

	mu      sync.Mutex
	channel Channel
	sub     *changefeed.Subscription
	done    chan struct{}
}

func NewRouter(feed Subscriber, store *Store, sink Sink, messages *Messages, logger *zap.Logger) *Router {
	return &Router{
		feed:     feed,
		store:    store,
		sink:     sink,
		messages: messages,
		logger:   logger,
	}
}

// Start subscribes for ch. A router with no channel stays idle.
func (r *Router) Start(ctx context.Context, ch Channel) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sub != nil {
		return apperrors.NewConflictError("router already listening on " + r.channel.String())
	}

	r.channel = ch
	filter, ok := ch.Filter()
	if !ok {
		r.logger.Debug("no notification channel for viewer")
		return nil
	}

	sub, err := r.feed.Subscribe(ctx, filter)
	if err != nil {
		return apperrors.NewChannelError(ch.String(), err)
	}

	r.sub = sub
	r.done = make(chan struct{})
	go r.loop(ch, sub, r.done)

	r.logger.Info("notification channel opened", zap.String("channel", ch.String()))
	return nil
}

// Switch closes the current subscription before opening the one for ch, so
// events of the old channel never reach the new viewer.
func (r *Router) Switch(ctx context.Context, ch Channel) error {
	r.Close()
	return r.Start(ctx, ch)
}

// Close tears the subscription down and waits for in-flight handling to end.
func (r *Router) Close() {
	r.mu.Lock()
	sub, done, ch := r.sub, r.done, r.channel
	r.sub, r.done, r.channel = nil, nil, Channel{}
	r.mu.Unlock()

	if sub == nil {
		return
	}

	sub.Close()
	<-done
	r.logger.Info("notification channel closed", zap.String("channel", ch.String()))
}

func (r *Router) Channel() Channel {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.channel
}

func (r *Router) loop(ch Channel, sub *changefeed.Subscription, done chan struct{}) {
	defer close(done)

	for {
		select {
		case change, ok := <-sub.Changes():
			if !ok {
				return
			}
			r.handle(ch, change)
		case err := <-sub.Errors():
			r.logger.Warn("notification channel error", zap.Error(apperrors.NewChannelError(ch.String(), err)))
		}
	}
}

func (r *Router) handle(ch Channel, change changefeed.Change) {
	switch ch.Kind {
	case ChannelBusiness:
		r.handleBusiness(change)
	case ChannelCustomer:
		r.handleCustomer(change)
	}
}

func (r *Router) handleBusiness(change changefeed.Change) {
	switch change.Op {
	case changefeed.OpInsert:
		n := FromOrder(change.Row)
		r.store.Add(n)

		c := r.messages.NewOrderCopy(n.CustomerName, n.TotalAmount)
		r.sink.Emit(Effect{Kind: EffectSound, OrderID: n.OrderID})
		r.sink.Emit(Effect{Kind: EffectToast, Title: c.Title, Message: c.Message, OrderID: n.OrderID})
		r.sink.Emit(Effect{Kind: EffectModal, Modal: ModalNewOrder, Title: c.Title, Message: c.Message, OrderID: n.OrderID, Notification: &n})
	case changefeed.OpUpdate:
		r.store.Update(PatchFromOrder(change.Row))
	}
}

func (r *Router) handleCustomer(change changefeed.Change) {
	if change.Op != changefeed.OpUpdate {
		r.logger.Debug("ignoring customer change", zap.String("op", string(change.Op)), zap.String("orderId", change.Row.ID))
		return
	}

	status := change.Row.Status
	c := r.messages.Status(status)
	r.sink.Emit(Effect{Kind: EffectToast, Title: c.Title, Message: c.Message, OrderID: change.Row.ID, Status: status})
	r.sink.Emit(Effect{Kind: EffectModal, Modal: ModalStatus, Title: c.Title, Message: c.Message, OrderID: change.Row.ID, Status: status})
}
