package changefeed

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const channelPrefix = "storefront:orders:"

// RedisFeed carries changes over Redis pub/sub so every API instance sees
// writes made by the others. Reconnects are handled by go-redis.
type RedisFeed struct {
	client *redis.Client
	buffer int
	logger *zap.Logger
}

func NewRedisFeed(client *redis.Client, buffer int, logger *zap.Logger) *RedisFeed {
	return &RedisFeed{
		client: client,
		buffer: buffer,
		logger: logger,
	}
}

func channelName(filter Filter) string {
	return channelPrefix + string(filter.Column) + ":" + filter.Value
}

// channelsFor lists every channel a change must reach.
func channelsFor(change Change) []string {
	channels := []string{channelName(BusinessFilter(change.Row.BusinessID))}
	if change.Row.CustomerID != nil && *change.Row.CustomerID != "" {
		channels = append(channels, channelName(CustomerFilter(*change.Row.CustomerID)))
	}
	return channels
}

func (f *RedisFeed) Publish(ctx context.Context, change Change) error {
	payload, err := json.Marshal(change)
	if err != nil {
		return fmt.Errorf("encoding change: %w", err)
	}

	for _, channel := range channelsFor(change) {
		if err := f.client.Publish(ctx, channel, payload).Err(); err != nil {
			return fmt.Errorf("publishing to %s: %w", channel, err)
		}
	}

	return nil
}

func (f *RedisFeed) Subscribe(ctx context.Context, filter Filter) (*Subscription, error) {
	pubsub := f.client.Subscribe(ctx, channelName(filter))
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("subscribing to %s: %w", filter, err)
	}

	done := make(chan struct{})
	sub := newSubscription(filter, f.buffer, func() {
		close(done)
		if err := pubsub.Close(); err != nil {
			f.logger.Warn("closing redis subscription", zap.String("filter", filter.String()), zap.Error(err))
		}
	})

	go f.pump(pubsub.Channel(), sub, done)

	return sub, nil
}

func (f *RedisFeed) pump(messages <-chan *redis.Message, sub *Subscription, done <-chan struct{}) {
	defer close(sub.changes)

	for {
		select {
		case <-done:
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			var change Change
			if err := json.Unmarshal([]byte(msg.Payload), &change); err != nil {
				sub.reportError(fmt.Errorf("decoding change from %s: %w", msg.Channel, err))
				continue
			}
			select {
			case sub.changes <- change:
			case <-done:
				return
			}
		}
	}
}

func (f *RedisFeed) Close() error {
	return f.client.Close()
}
