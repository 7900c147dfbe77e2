package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"storefront/internal/changefeed"
	"storefront/internal/domain"
)

type mockOrderStore struct {
	FindByIDFunc     func(ctx context.Context, id string) (*domain.Order, error)
	InsertFunc       func(ctx context.Context, order *domain.Order) error
	UpdateStatusFunc func(ctx context.Context, id string, status domain.OrderStatus) error
}

func (m *mockOrderStore) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	return m.FindByIDFunc(ctx, id)
}

func (m *mockOrderStore) Insert(ctx context.Context, order *domain.Order) error {
	return m.InsertFunc(ctx, order)
}

func (m *mockOrderStore) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	return m.UpdateStatusFunc(ctx, id, status)
}

type recordingPublisher struct {
	changes []changefeed.Change
	err     error
}

func (p *recordingPublisher) Publish(ctx context.Context, change changefeed.Change) error {
	p.changes = append(p.changes, change)
	return p.err
}

func TestPublishingOrderRepository_InsertPublishesInsert(t *testing.T) {
	store := &mockOrderStore{
		InsertFunc: func(ctx context.Context, order *domain.Order) error { return nil },
	}
	pub := &recordingPublisher{}
	repo := NewPublishingOrderRepository(store, pub, zap.NewNop())

	err := repo.Insert(context.Background(), &domain.Order{ID: "o-1", BusinessID: "b-1"})

	require.NoError(t, err)
	require.Len(t, pub.changes, 1)
	assert.Equal(t, changefeed.OpInsert, pub.changes[0].Op)
	assert.Equal(t, "o-1", pub.changes[0].Row.ID)
}

func TestPublishingOrderRepository_FailedInsertPublishesNothing(t *testing.T) {
	store := &mockOrderStore{
		InsertFunc: func(ctx context.Context, order *domain.Order) error { return errors.New("duplicate") },
	}
	pub := &recordingPublisher{}
	repo := NewPublishingOrderRepository(store, pub, zap.NewNop())

	err := repo.Insert(context.Background(), &domain.Order{ID: "o-1"})

	assert.Error(t, err)
	assert.Empty(t, pub.changes)
}

func TestPublishingOrderRepository_UpdateStatusPublishesReloadedRow(t *testing.T) {
	store := &mockOrderStore{
		UpdateStatusFunc: func(ctx context.Context, id string, status domain.OrderStatus) error { return nil },
		FindByIDFunc: func(ctx context.Context, id string) (*domain.Order, error) {
			return &domain.Order{ID: id, BusinessID: "b-1", CustomerName: "Ana", Status: domain.OrderStatusReady}, nil
		},
	}
	pub := &recordingPublisher{}
	repo := NewPublishingOrderRepository(store, pub, zap.NewNop())

	err := repo.UpdateStatus(context.Background(), "o-1", domain.OrderStatusReady)

	require.NoError(t, err)
	require.Len(t, pub.changes, 1)
	assert.Equal(t, changefeed.OpUpdate, pub.changes[0].Op)
	assert.Equal(t, "Ana", pub.changes[0].Row.CustomerName)
	assert.Equal(t, domain.OrderStatusReady, pub.changes[0].Row.Status)
}

func TestPublishingOrderRepository_PublishErrorDoesNotFailWrite(t *testing.T) {
	store := &mockOrderStore{
		InsertFunc: func(ctx context.Context, order *domain.Order) error { return nil },
	}
	pub := &recordingPublisher{err: errors.New("redis down")}
	repo := NewPublishingOrderRepository(store, pub, zap.NewNop())

	assert.NoError(t, repo.Insert(context.Background(), &domain.Order{ID: "o-1"}))
}
