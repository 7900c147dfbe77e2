package repository

import (
	"context"

	"go.uber.org/zap"

	"storefront/internal/changefeed"
	"storefront/internal/domain"
)

type orderStore interface {
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	Insert(ctx context.Context, order *domain.Order) error
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error
}

// PublishingOrderRepository emits a change for every successful write to the
// orders table. Publish failures are logged and never fail the write.
type PublishingOrderRepository struct {
	store     orderStore
	publisher changefeed.Publisher
	logger    *zap.Logger
}

func NewPublishingOrderRepository(store orderStore, publisher changefeed.Publisher, logger *zap.Logger) *PublishingOrderRepository {
	return &PublishingOrderRepository{
		store:     store,
		publisher: publisher,
		logger:    logger,
	}
}

func (r *PublishingOrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	return r.store.FindByID(ctx, id)
}

func (r *PublishingOrderRepository) Insert(ctx context.Context, order *domain.Order) error {
	if err := r.store.Insert(ctx, order); err != nil {
		return err
	}

	r.publish(ctx, changefeed.Change{Op: changefeed.OpInsert, Row: *order})
	return nil
}

// UpdateStatus re-reads the row after the write so subscribers get the full
// stored state.
func (r *PublishingOrderRepository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	if err := r.store.UpdateStatus(ctx, id, status); err != nil {
		return err
	}

	row, err := r.store.FindByID(ctx, id)
	if err != nil {
		r.logger.Warn("order updated but could not be reloaded for the change feed", zap.String("orderId", id), zap.Error(err))
		return nil
	}

	r.publish(ctx, changefeed.Change{Op: changefeed.OpUpdate, Row: *row})
	return nil
}

func (r *PublishingOrderRepository) publish(ctx context.Context, change changefeed.Change) {
	if err := r.publisher.Publish(ctx, change); err != nil {
		r.logger.Warn("failed to publish order change",
			zap.String("op", string(change.Op)),
			zap.String("orderId", change.Row.ID),
			zap.Error(err),
		)
	}
}
